package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Omarmeks89/edl-src/log"
)

func TestLogScan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(saved.Level()),
			log.WithFormat(saved.Format()),
			log.WithCaller(false),
			log.WithPretty(true),
		)
	})

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"--log-level", "debug", "compile", "--log-format", "json", "a.edl"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-time-layout=none", "--log-caller"},
			want: logConfig{Level: "warn", TimeLayout: "none", Caller: true, Pretty: true},
		},
		{
			name: "negated booleans",
			args: []string{"--no-log-pretty", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-pretty=false"},
			want: logConfig{},
		},
		{
			name: "stops at double dash",
			args: []string{"--", "--log-level=trace"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logConfig{Pretty: true}
			cfg.scan(tt.args)

			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLogScanConfiguresLogger(t *testing.T) {
	saved := log.Default().Level()
	t.Cleanup(func() { log.Config(log.WithLevel(saved)) })

	var cfg logConfig
	cfg.scan([]string{"--log-level=trace"})

	if got := log.Default().Level(); got != log.LevelTrace {
		t.Errorf("default level = %v, want trace", got)
	}
}
