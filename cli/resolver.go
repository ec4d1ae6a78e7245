package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/Omarmeks89/edl-src/log"
	"github.com/Omarmeks89/edl-src/pkg"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files:
//
//	log-level: debug
//	log_pretty: false
//	format: json
//
// Keys are flag names; '_' may stand for '-'. Nested mappings and lists are
// ignored. A file that does not parse is ignored with a warning. Command line
// flags override file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrConfigFile.Wrap(err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Warn("configuration file ignored",
			slog.String("error", pkg.ErrConfigFile.Wrap(err).Error()))

		return config{}, nil
	}

	cfg := make(config, len(raw))

	for key, val := range raw {
		if s, ok := scalar(val); ok {
			cfg[strings.ReplaceAll(key, "_", "-")] = s
		}
	}

	return cfg, nil
}

// scalar converts a decoded YAML scalar into the form kong parses: numbers
// as strings, booleans and strings as is.
func scalar(v any) (any, bool) {
	switch v := v.(type) {
	case string, bool:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return nil, false
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

func (config) Validate(*kong.Application) error { return nil }

func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
