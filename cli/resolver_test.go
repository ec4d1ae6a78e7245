package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want config
	}{
		{
			name: "flag names",
			in:   "log-level: debug\nlog_pretty: false\nindent: 4\n",
			want: config{"log-level": "debug", "log-pretty": false, "indent": "4"},
		},
		{
			name: "nested values ignored",
			in:   "format: json\ngroup:\n  key: value\nlist: [1, 2]\n",
			want: config{"format": "json"},
		},
		{
			name: "invalid file ignored",
			in:   "log-level: [unclosed\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}

			if diff := cmp.Diff(tt.want, r); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigOverridesDefaults(t *testing.T) {
	var cli struct {
		Format string `default:"yaml"`
		Indent int    `default:"2"`
	}

	r, err := resolve(strings.NewReader("format: json\nindent: 0\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--indent=3"}); err != nil {
		t.Fatal(err)
	}

	if cli.Format != "json" || cli.Indent != 3 {
		t.Errorf("format %q indent %d, want json and 3", cli.Format, cli.Indent)
	}
}
