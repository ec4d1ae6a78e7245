package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/parser"
	"github.com/Omarmeks89/edl-src/lang/preproc"
	"github.com/Omarmeks89/edl-src/lang/source"
	"github.com/Omarmeks89/edl-src/log"
	"github.com/Omarmeks89/edl-src/pkg"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer of the kong application, or os.Stdout
// outside of one.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinName names standard input in diagnostics.
const stdinName = "<stdin>"

// Input is the source file argument shared by the commands that read one.
type Input struct {
	Encoding     string `default:"utf-8" help:"Source encoding (${encodings})." short:"e"`
	NoPreprocess bool   `help:"Do not expand include macros."`

	File string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"file"`
}

// name returns the file name used in diagnostics.
func (in *Input) name() string {
	if in.File == "-" {
		return stdinName
	}

	return in.File
}

// read decodes the source file and expands its macros.
func (in *Input) read(ctx context.Context) (string, error) {
	enc, err := source.ParseEncoding(in.Encoding)
	if err != nil {
		return "", pkg.ErrDecodeSource.Wrap(err)
	}

	opts := []source.Option{source.WithEncoding(enc)}

	var text string

	if in.File == "-" {
		text, err = source.Read(os.Stdin, opts...)
	} else {
		text, err = source.ReadFile(in.File, opts...)
	}

	if err != nil {
		return "", pkg.ErrReadSource.Wrap(err)
	}

	log.DebugContext(ctx, "source read",
		slog.String("file", in.name()),
		slog.String("encoding", string(enc)),
		slog.Int("bytes", len(text)),
	)

	if in.NoPreprocess {
		return text, nil
	}

	loader := preproc.LoaderFunc(func(path string) (string, error) {
		return source.ReadFile(path, opts...)
	})

	text, err = preproc.Process(in.name(), text,
		preproc.WithLoader(loader),
		preproc.WithLogger(log.Default()),
	)
	if err != nil {
		return "", pkg.ErrPreprocess.Wrap(err)
	}

	return text, nil
}

// parse reads and parses the source file. The returned source serves the
// traces of later compile errors.
func (in *Input) parse(ctx context.Context) (*ast.Module, *diag.Source, error) {
	text, err := in.read(ctx)
	if err != nil {
		return nil, nil, err
	}

	mod, err := parser.ParseString(in.name(), text)
	if err != nil {
		return nil, nil, err
	}

	return mod, diag.NewSource(in.name(), text), nil
}
