package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Omarmeks89/edl-src/cli/cmd"
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/source"
	"github.com/Omarmeks89/edl-src/pkg"
)

// CLI is the top-level command line interface of edl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Compile cmd.Compile `cmd:"" default:"withargs" help:"Compile a source file and emit its instances."`
	Check   cmd.Check   `cmd:""                    help:"Compile a source file and report the outcome."`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the token stream of a source file."`
	AST     cmd.AST     `cmd:"" name:"ast"         help:"Print the syntax tree of a source file as YAML."`
	Init    cmd.Init    `cmd:""                    help:"Write a configuration file with the current flag values."`
	Version cmd.Version `cmd:""                    help:"Print the version."`
}

// Option customizes the kong application built by [Run].
type Option = kong.Option

// Run parses args and executes the selected command. exit is called by kong
// when help is printed or parsing fails.
func Run(ctx context.Context, exit func(code int), args []string, opts ...Option) error {
	var cli CLI

	config := pkg.ConfigFile()

	vars := kong.Vars{
		cmd.ConfigIdentifier:    config,
		cmd.EncodingsIdentifier: strings.Join(source.Encodings(), ", "),
		cmd.NodeKindsIdentifier: strings.Join(ast.NodeKinds(), ", "),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	opts = append([]Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(append([]kong.Group{cli.Log.group()}, cli.Pprof.groups()...)),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(resolve, config),
		vars,
	}, opts...)

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
