package pkg

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"testing"
)

func TestVersion(t *testing.T) {
	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version()) {
		t.Errorf("Version() = %q, want a semantic version", Version())
	}
}

func TestErrorChain(t *testing.T) {
	err := ErrReadSource.Wrap(&fs.PathError{Op: "open", Path: "a.edl", Err: fs.ErrNotExist})

	want := "cannot read source: open a.edl: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrReadSource) {
		t.Error("wrapped chain does not match its sentinel")
	}

	if errors.Is(err, ErrDataFile) {
		t.Error("wrapped chain matches an unrelated sentinel")
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped chain does not match its cause")
	}

	var pe *fs.PathError
	if !errors.As(err, &pe) || pe.Path != "a.edl" {
		t.Errorf("errors.As = %v", pe)
	}
}

func TestWrapf(t *testing.T) {
	err := ErrDataFile.Wrapf("key %q: %w", "rows", errors.New("not a list"))

	want := `invalid data file: key "rows": not a list`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMakeErrorFlattens(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")

	err := MakeError(nil, errors.Join(a, b), MakeError(nil))
	if len(err) != 2 || err[0] != a || err[1] != b {
		t.Errorf("MakeError = %#v", err)
	}
}

func TestConfigFile(t *testing.T) {
	if got := filepath.Base(ConfigFile()); got != "config.yaml" {
		t.Errorf("ConfigFile() base = %q", got)
	}

	if got := filepath.Base(ConfigDir()); got != Name {
		t.Errorf("ConfigDir() base = %q, want %q", got, Name)
	}
}
