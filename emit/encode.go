package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format is an output encoding of instances.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultFormat is used when no format is given.
const DefaultFormat = FormatYAML

// Formats returns the supported format names.
func Formats() []string { return []string{string(FormatYAML), string(FormatJSON)} }

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultFormat, nil
	case FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want one of %s)",
			s, strings.Join(Formats(), ", "))
	}
}

// Encode writes instances to w. indent is the number of spaces per level;
// zero selects the compact form of the format.
func Encode(ctx context.Context, w io.Writer, f Format, indent int, instances []Instance) error {
	if instances == nil {
		instances = []Instance{}
	}

	switch f {
	case FormatYAML:
		return encodeYAML(ctx, w, indent, instances)
	case FormatJSON:
		return encodeJSON(w, indent, instances)
	default:
		return fmt.Errorf("unknown format %q", string(f))
	}
}

func encodeYAML(ctx context.Context, w io.Writer, indent int, instances []Instance) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, instances, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func encodeJSON(w io.Writer, indent int, instances []Instance) error {
	var (
		data []byte
		err  error
	)

	safe := jsonSafe(instances)

	if indent > 0 {
		data, err = json.MarshalIndent(safe, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(safe)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// jsonSafe returns a copy of instances in which infinite bounds are replaced
// by the strings ".inf" and "-.inf", which JSON cannot otherwise represent.
func jsonSafe(instances []Instance) []Instance {
	out := make([]Instance, len(instances))

	for i, in := range instances {
		in.Params = safeParams(in.Params)
		in.Vars = safeVars(in.Vars)

		if in.Context != nil {
			ctx := safeContext(*in.Context)
			in.Context = &ctx
		}

		if in.Contexts != nil {
			ctxs := make([]Context, len(in.Contexts))
			for j, c := range in.Contexts {
				ctxs[j] = safeContext(c)
			}

			in.Contexts = ctxs
		}

		out[i] = in
	}

	return out
}

func safeParams(params []Param) []Param {
	if params == nil {
		return nil
	}

	out := make([]Param, len(params))

	for i, p := range params {
		p.Value = safeValue(p.Value)

		if p.Options != nil {
			opts := make([]Option, len(p.Options))
			for j, o := range p.Options {
				o.Value = safeValue(o.Value)
				opts[j] = o
			}

			p.Options = opts
		}

		out[i] = p
	}

	return out
}

func safeVars(vars []Var) []Var {
	if vars == nil {
		return nil
	}

	out := make([]Var, len(vars))

	for i, v := range vars {
		v.Value = safeValue(v.Value)
		out[i] = v
	}

	return out
}

func safeContext(c Context) Context {
	c.Values = safeVars(c.Values)

	return c
}

func safeValue(v any) any {
	switch v := v.(type) {
	case float64:
		switch {
		case math.IsInf(v, 1):
			return ".inf"
		case math.IsInf(v, -1):
			return "-.inf"
		}

		return v

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = safeValue(item)
		}

		return out

	default:
		return v
	}
}
