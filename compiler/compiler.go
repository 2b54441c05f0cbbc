package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/ninecc/compiler/analyze"
	"github.com/slowlang/ninecc/compiler/ast"
	"github.com/slowlang/ninecc/compiler/gen"
	"github.com/slowlang/ninecc/compiler/ir"
	"github.com/slowlang/ninecc/compiler/tree"
)

type (
	Options struct {
		// NoVerify skips ir.Verify of the generated code.
		NoVerify bool
	}
)

func CompileFile(ctx context.Context, name string, opts Options) (fns []*ir.Func, err error) {
	x, err := tree.LoadFile(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "load %v", name)
	}

	return Compile(ctx, x, opts)
}

// Compile analyzes the syntax forest in place and lowers it.
func Compile(ctx context.Context, x []*ast.Node, opts Options) (fns []*ir.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "funcs", len(x))
	defer tr.Finish("err", &err)

	err = analyze.New().Analyze(ctx, x)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	fns, err = gen.New().Generate(ctx, x)
	if err != nil {
		return nil, errors.Wrap(err, "gen")
	}

	if opts.NoVerify {
		return fns, nil
	}

	var v ir.Verifier

	for _, f := range fns {
		err = v.Verify(f)
		if err != nil {
			return nil, errors.Wrap(err, "verify")
		}
	}

	return fns, nil
}
