package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/ninecc/compiler"
	"github.com/slowlang/ninecc/compiler/format"
	"github.com/slowlang/ninecc/compiler/ir"
)

func main() {
	irCmd := &cli.Command{
		Name:        "ir",
		Description: "analyze and lower syntax trees, print the ir",
		Action:      irAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "analyze and lower syntax trees, print a summary",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	app := &cli.Command{
		Name:        "ninecc",
		Description: "ninecc runs the middle stage of the compiler on yaml syntax trees",
		Commands: []*cli.Command{
			irCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func flags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("config", "", "toml config file"),
		cli.NewFlag("verbose,v", "", "tlog verbosity topics (dump_ir, sema_vars)"),
		cli.NewFlag("no-verify", false, "skip ir verification"),
	}
}

func irAct(c *cli.Command) (err error) {
	return compileEach(c, func(name string, fns []*ir.Func) error {
		b, err := format.Dump(context.Background(), nil, fns)
		if err != nil {
			return errors.Wrap(err, "dump %v", name)
		}

		_, err = os.Stdout.Write(b)

		return err
	})
}

func checkAct(c *cli.Command) (err error) {
	return compileEach(c, func(name string, fns []*ir.Func) error {
		for _, f := range fns {
			fmt.Printf("%v: %v: %d instructions\n", name, f.Name, len(f.Code))
		}

		printInfo("OK", name)

		return nil
	})
}

func compileEach(c *cli.Command, out func(name string, fns []*ir.Func) error) (err error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "config")
	}

	cfg.override(c)

	if cfg.Verbose != "" {
		tlog.SetVerbosity(cfg.Verbose)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := compiler.Options{
		NoVerify: cfg.NoVerify,
	}

	for _, a := range c.Args {
		fns, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			printFault(a, err)

			return errors.New("compilation failed: %v", a)
		}

		err = out(a, fns)
		if err != nil {
			return err
		}
	}

	return nil
}
