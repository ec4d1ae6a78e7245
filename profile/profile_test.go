//go:build !pprof

package profile

import "testing"

func TestDisabled(t *testing.T) {
	if m := Modes(); len(m) != 0 {
		t.Errorf("Modes() = %v without the %s tag", m, Tag)
	}

	for _, p := range []Profiler{{}, {Mode: "cpu", Dir: t.TempDir()}} {
		s := p.Start()
		if s == nil {
			t.Fatalf("Start() returned nil for %+v", p)
		}

		s.Stop()
	}
}
