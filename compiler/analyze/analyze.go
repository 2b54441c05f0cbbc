package analyze

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/ninecc/compiler/ast"
	"github.com/slowlang/ninecc/compiler/fault"
	"github.com/slowlang/ninecc/compiler/tp"
)

type (
	Var struct {
		Type   tp.Type
		Offset int
	}

	// Analyzer resolves identifiers, types expressions and assigns
	// stack slots. The variable table and the stack size accumulator
	// are reset at the start of every function.
	Analyzer struct {
		vars      map[string]Var
		stackSize int
	}
)

const slotSize = 8

func New() *Analyzer {
	return &Analyzer{}
}

// Analyze annotates fns in place.
func Analyze(ctx context.Context, fns []*ast.Node) error {
	return New().Analyze(ctx, fns)
}

func (a *Analyzer) Analyze(ctx context.Context, fns []*ast.Node) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze", "funcs", len(fns))
	defer tr.Finish("err", &err)

	for i, f := range fns {
		err = a.analyzeFunc(ctx, f)
		if err != nil && f == nil {
			return errors.Wrap(err, "func #%d", i)
		}
		if err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}

	return nil
}

// Vars returns the variables of the last analyzed function.
func (a *Analyzer) Vars() map[string]Var {
	return a.vars
}

func (a *Analyzer) analyzeFunc(ctx context.Context, f *ast.Node) (err error) {
	if f == nil {
		return fault.New(fault.NotFunction, 0, 0, "missing function")
	}

	if f.Kind != ast.FUNC {
		return fault.New(fault.NotFunction, f.Pos, f.End, "top level node is %v, not FUNC", f.Kind)
	}

	a.vars = make(map[string]Var)
	a.stackSize = 0

	err = a.walk(f)
	if err != nil {
		return err
	}

	f.StackSize = a.stackSize

	tr := tlog.SpanFromContext(ctx)

	tr.Printw("analyzed func", "name", f.Name, "stack_size", f.StackSize, "vars", len(a.vars))

	if tr.If("sema_vars") {
		for name, v := range a.vars {
			tr.Printw("var", "func", f.Name, "name", name, "type", v.Type, "offset", v.Offset)
		}
	}

	return nil
}

func (a *Analyzer) walk(n *ast.Node) (err error) {
	switch n.Kind {
	case ast.NUM:
	case ast.IDENT:
		v, ok := a.vars[n.Name]
		if !ok {
			return fault.New(fault.UndefinedVariable, n.Pos, n.End, "undefined variable: %v", n.Name)
		}

		n.Kind = ast.LVAR
		n.Type = v.Type
		n.Offset = v.Offset
	case ast.VARDEF:
		a.stackSize += slotSize
		n.Offset = a.stackSize

		a.vars[n.Name] = Var{
			Type:   n.Type,
			Offset: n.Offset,
		}

		err = a.walkSome(n.Init)
		if err != nil {
			return errors.Wrap(err, "init %v", n.Name)
		}
	case ast.IF:
		err = a.walkSome(n.Cond, n.Then, n.Els)
	case ast.FOR:
		err = a.walkSome(n.Init, n.Cond, n.Inc, n.Body)
	case ast.ADD, ast.SUB:
		err = a.walkSome(n.Lhs, n.Rhs)
		if err != nil {
			return err
		}

		if isPtr(n.Rhs) {
			n.Lhs, n.Rhs = n.Rhs, n.Lhs
		}

		if isPtr(n.Rhs) {
			return fault.New(fault.PointerArith, n.Pos, n.End, "'pointer %v pointer' is not defined", n.Kind)
		}

		n.Type = typeOf(n.Lhs)
	case ast.MUL, ast.DIV, ast.EQ, ast.LT, ast.LOGAND, ast.LOGOR:
		err = a.walkSome(n.Lhs, n.Rhs)
		if err != nil {
			return err
		}

		n.Type = typeOf(n.Lhs)
	case ast.DEREF:
		err = a.walkSome(n.Expr)
		if err != nil {
			return err
		}

		p, ok := typeOf(n.Expr).(tp.Ptr)
		if !ok {
			return fault.New(fault.NotPointer, n.Pos, n.End, "operand must be a pointer")
		}

		n.Type = p.X
	case ast.RETURN, ast.EXPR_STMT:
		err = a.walkSome(n.Expr)
	case ast.CALL:
		err = a.walkSome(n.Args...)
		if err != nil {
			return errors.Wrap(err, "call %v", n.Name)
		}

		n.Type = tp.Int{}
	case ast.FUNC:
		err = a.walkSome(n.Args...)
		if err != nil {
			return errors.Wrap(err, "params")
		}

		err = a.walkSome(n.Body)
	case ast.COMP_STMT:
		err = a.walkSome(n.Stmts...)
	default:
		return fault.New(fault.UnknownNode, n.Pos, n.End, "unknown node type: %v", n.Kind)
	}

	return err
}

func (a *Analyzer) walkSome(ns ...*ast.Node) error {
	for _, n := range ns {
		if n == nil {
			continue
		}

		err := a.walk(n)
		if err != nil {
			return err
		}
	}

	return nil
}

func typeOf(n *ast.Node) tp.Type {
	if n == nil {
		return nil
	}

	return n.Type
}

func isPtr(n *ast.Node) bool {
	return n != nil && tp.IsPtr(n.Type)
}
