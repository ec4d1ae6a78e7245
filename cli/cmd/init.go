package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/Omarmeks89/edl-src/log"
	"github.com/Omarmeks89/edl-src/pkg"
	"github.com/Omarmeks89/edl-src/profile"
)

// Init writes a configuration file holding the current values of the global
// flags.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return pkg.ErrWriteConfig.Wrapf("no command line context")
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || path == "" {
		return pkg.ErrWriteConfig.Wrapf("configuration path undefined")
	}

	_, err = os.Stat(path)

	switch {
	case err == nil && !i.Force:
		return pkg.ErrWriteConfig.Wrap(pkg.ErrConfigExists).Wrapf("%s", path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return pkg.ErrWriteConfig.Wrap(err)
	}

	data, err := yaml.Marshal(i.values(ktx))
	if err != nil {
		return pkg.ErrWriteConfig.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return pkg.ErrWriteConfig.Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return pkg.ErrWriteConfig.Wrap(err)
	}

	log.DebugContext(ctx, "configuration written", slog.String("path", path))

	return nil
}

// values collects the global flags that have a value, in model order.
// Help and profiling flags are left out.
func (i *Init) values(ktx *kong.Context) yaml.MapSlice {
	var out yaml.MapSlice

	skip := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)

		switch v := val.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case []string:
			if len(v) == 0 {
				continue
			}
		}

		out = append(out, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return out
}
