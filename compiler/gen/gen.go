package gen

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/ninecc/compiler/ast"
	"github.com/slowlang/ninecc/compiler/fault"
	"github.com/slowlang/ninecc/compiler/format"
	"github.com/slowlang/ninecc/compiler/ir"
	"github.com/slowlang/ninecc/compiler/tp"
)

type (
	// Generator lowers analyzed functions into ir.
	//
	// Register and label numbering is shared by all the functions
	// of one compilation and never restarts. The code buffer holds the
	// function being lowered and is handed over to its ir.Func.
	Generator struct {
		regno ir.Reg
		label ir.Label
		base  ir.Reg

		code []ir.Inst

		// at is the span of the node being lowered.
		at ast.Base
	}
)

func New() *Generator {
	return &Generator{
		regno: 1,
		base:  0,
	}
}

// Generate lowers fns which must have been analyzed before.
func Generate(ctx context.Context, fns []*ast.Node) ([]*ir.Func, error) {
	return New().Generate(ctx, fns)
}

func (g *Generator) Generate(ctx context.Context, fns []*ast.Node) (res []*ir.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "gen", "funcs", len(fns))
	defer tr.Finish("err", &err)

	for i, n := range fns {
		f, err := g.genFunc(ctx, n)
		if err != nil && n == nil {
			return nil, errors.Wrap(err, "func #%d", i)
		}
		if err != nil {
			return nil, errors.Wrap(err, "func %v", n.Name)
		}

		res = append(res, f)
	}

	return res, nil
}

func (g *Generator) genFunc(ctx context.Context, n *ast.Node) (f *ir.Func, err error) {
	if n == nil {
		return nil, fault.New(fault.NotFunction, 0, 0, "missing function")
	}

	if n.Kind != ast.FUNC {
		return nil, fault.New(fault.NotFunction, n.Pos, n.End, "top level node is %v, not FUNC", n.Kind)
	}

	g.code = nil
	g.at = n.Base

	alloca := g.add(ir.ALLOCA, int(g.base), ir.Nil)

	if n.Body != nil {
		err = g.stmt(n.Body)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}
	}

	g.code[alloca].R = n.StackSize

	g.kill(g.base)

	f = &ir.Func{
		Name: n.Name,
		Code: g.code,
	}

	g.code = nil

	tr := tlog.SpanFromContext(ctx)

	tr.Printw("lowered func", "name", f.Name, "insts", len(f.Code), "frame", n.StackSize, "next_reg", g.regno, "next_label", g.label)

	if tr.If("dump_ir") {
		for i, x := range f.Code {
			tr.Printw("inst", "func", f.Name, "i", i, "text", format.String(x), "inst", x)
		}
	}

	return f, nil
}

func (g *Generator) stmt(n *ast.Node) (err error) {
	if n == nil {
		return fault.New(fault.UnknownNode, g.at.Pos, g.at.End, "missing statement")
	}

	defer g.leave(g.enter(n))

	switch n.Kind {
	case ast.IF:
		r, err := g.expr(n.Cond)
		if err != nil {
			return errors.Wrap(err, "if cond")
		}

		x := g.newLabel()

		g.add(ir.UNLESS, int(r), int(x))
		g.kill(r)

		err = g.stmt(n.Then)
		if err != nil {
			return errors.Wrap(err, "if then")
		}

		if n.Els == nil {
			g.add(ir.LABEL, int(x), ir.Nil)

			return nil
		}

		y := g.newLabel()

		g.add(ir.JMP, int(y), ir.Nil)
		g.add(ir.LABEL, int(x), ir.Nil)

		err = g.stmt(n.Els)
		if err != nil {
			return errors.Wrap(err, "if else")
		}

		g.add(ir.LABEL, int(y), ir.Nil)
	case ast.FOR:
		x := g.newLabel()
		y := g.newLabel()

		if n.Init != nil {
			err = g.effect(n.Init)
			if err != nil {
				return errors.Wrap(err, "for init")
			}
		}

		g.add(ir.LABEL, int(x), ir.Nil)

		if n.Cond != nil {
			r, err := g.expr(n.Cond)
			if err != nil {
				return errors.Wrap(err, "for cond")
			}

			g.add(ir.UNLESS, int(r), int(y))
			g.kill(r)
		}

		if n.Body != nil {
			err = g.stmt(n.Body)
			if err != nil {
				return errors.Wrap(err, "for body")
			}
		}

		if n.Inc != nil {
			err = g.effect(n.Inc)
			if err != nil {
				return errors.Wrap(err, "for inc")
			}
		}

		g.add(ir.JMP, int(x), ir.Nil)
		g.add(ir.LABEL, int(y), ir.Nil)
	case ast.VARDEF:
		if n.Init == nil {
			return nil
		}

		r, err := g.expr(n.Init)
		if err != nil {
			return errors.Wrap(err, "init %v", n.Name)
		}

		a := g.addr(n.Offset)

		g.add(ir.STORE, int(a), int(r))
		g.kill(r)
		g.kill(a)
	case ast.RETURN:
		r, err := g.expr(n.Expr)
		if err != nil {
			return errors.Wrap(err, "return")
		}

		g.add(ir.RETURN, int(r), ir.Nil)
		g.kill(r)
	case ast.EXPR_STMT:
		r, err := g.expr(n.Expr)
		if err != nil {
			return err
		}

		g.kill(r)
	case ast.COMP_STMT:
		for _, s := range n.Stmts {
			err = g.stmt(s)
			if err != nil {
				return err
			}
		}
	default:
		return fault.New(fault.UnknownNode, n.Pos, n.End, "unknown node: %v", n.Kind)
	}

	return nil
}

// effect lowers a for loop clause which may be a statement or a bare expression.
func (g *Generator) effect(n *ast.Node) error {
	if !isExpr(n.Kind) {
		return g.stmt(n)
	}

	r, err := g.expr(n)
	if err != nil {
		return err
	}

	g.kill(r)

	return nil
}

func (g *Generator) expr(n *ast.Node) (r ir.Reg, err error) {
	if n == nil {
		return -1, fault.New(fault.UnknownNode, g.at.Pos, g.at.End, "missing operand")
	}

	defer g.leave(g.enter(n))

	switch n.Kind {
	case ast.NUM:
		r = g.reg()
		g.add(ir.IMM, int(r), int(n.Val))

		return r, nil
	case ast.LVAR, ast.IDENT:
		r, err = g.lval(n)
		if err != nil {
			return -1, err
		}

		g.add(ir.LOAD, int(r), int(r))

		return r, nil
	case ast.DEREF:
		r, err = g.expr(n.Expr)
		if err != nil {
			return -1, errors.Wrap(err, "deref")
		}

		g.add(ir.LOAD, int(r), int(r))

		return r, nil
	case ast.CALL:
		return g.call(n)
	case ast.EQ:
		rhs, err := g.expr(n.Rhs)
		if err != nil {
			return -1, errors.Wrap(err, "assignment rhs")
		}

		lhs, err := g.lval(n.Lhs)
		if err != nil {
			return -1, errors.Wrap(err, "assignment lhs")
		}

		g.add(ir.STORE, int(lhs), int(rhs))
		g.kill(rhs)

		return lhs, nil
	case ast.LOGAND:
		return g.logAnd(n)
	case ast.LOGOR:
		return g.logOr(n)
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.LT:
	default:
		return -1, fault.New(fault.UnknownNode, n.Pos, n.End, "not an operator: %v", n.Kind)
	}

	lhs, err := g.expr(n.Lhs)
	if err != nil {
		return -1, err
	}

	rhs, err := g.expr(n.Rhs)
	if err != nil {
		return -1, err
	}

	if n.Kind == ast.ADD || n.Kind == ast.SUB {
		g.scale(n.Lhs, rhs)
	}

	g.add(binOps[n.Kind], int(lhs), int(rhs))
	g.kill(rhs)

	return lhs, nil
}

var binOps = map[ast.Kind]ir.Op{
	ast.ADD: ir.ADD,
	ast.SUB: ir.SUB,
	ast.MUL: ir.MUL,
	ast.DIV: ir.DIV,
	ast.LT:  ir.LT,
}

// scale multiplies the integer operand of pointer arithmetic by the pointee size.
// The analyzer moves the pointer operand to the left.
func (g *Generator) scale(ptr *ast.Node, r ir.Reg) {
	p, ok := ptr.Type.(tp.Ptr)
	if !ok || p.X == nil {
		return
	}

	size := tp.SizeOf(p.X)
	if size == 1 {
		return
	}

	t := g.reg()

	g.add(ir.IMM, int(t), size)
	g.add(ir.MUL, int(r), int(t))
	g.kill(t)
}

func (g *Generator) call(n *ast.Node) (r ir.Reg, err error) {
	if len(n.Args) > ir.MaxArgs {
		return -1, fault.New(fault.TooManyArgs, n.Pos, n.End, "call %v: %d arguments, at most %d supported", n.Name, len(n.Args), ir.MaxArgs)
	}

	args := make([]ir.Reg, 0, len(n.Args))

	for i, a := range n.Args {
		r, err := g.expr(a)
		if err != nil {
			return -1, errors.Wrap(err, "call %v: arg %d", n.Name, i)
		}

		args = append(args, r)
	}

	r = g.reg()

	g.code = append(g.code, ir.Inst{
		Op:   ir.CALL,
		L:    int(r),
		R:    ir.Nil,
		Name: n.Name,
		Args: args,
	})

	for _, a := range args {
		g.kill(a)
	}

	return r, nil
}

func (g *Generator) logAnd(n *ast.Node) (r ir.Reg, err error) {
	r, err = g.expr(n.Lhs)
	if err != nil {
		return -1, err
	}

	x := g.newLabel()

	g.add(ir.UNLESS, int(r), int(x))

	r2, err := g.expr(n.Rhs)
	if err != nil {
		return -1, err
	}

	g.add(ir.MOV, int(r), int(r2))
	g.kill(r2)
	g.add(ir.UNLESS, int(r), int(x))
	g.add(ir.IMM, int(r), 1)
	g.add(ir.LABEL, int(x), ir.Nil)

	return r, nil
}

func (g *Generator) logOr(n *ast.Node) (r ir.Reg, err error) {
	r, err = g.expr(n.Lhs)
	if err != nil {
		return -1, err
	}

	x := g.newLabel()
	y := g.newLabel()

	g.add(ir.UNLESS, int(r), int(x))
	g.add(ir.IMM, int(r), 1)
	g.add(ir.JMP, int(y), ir.Nil)
	g.add(ir.LABEL, int(x), ir.Nil)

	r2, err := g.expr(n.Rhs)
	if err != nil {
		return -1, err
	}

	g.add(ir.MOV, int(r), int(r2))
	g.kill(r2)
	g.add(ir.UNLESS, int(r), int(y))
	g.add(ir.IMM, int(r), 1)
	g.add(ir.LABEL, int(y), ir.Nil)

	return r, nil
}

// lval computes the address of n into a new register.
func (g *Generator) lval(n *ast.Node) (r ir.Reg, err error) {
	if n == nil {
		return -1, fault.New(fault.NotLvalue, g.at.Pos, g.at.End, "missing lvalue")
	}

	defer g.leave(g.enter(n))

	switch n.Kind {
	case ast.LVAR:
		return g.addr(n.Offset), nil
	case ast.DEREF:
		return g.expr(n.Expr)
	case ast.IDENT:
		return -1, fault.New(fault.NotLvalue, n.Pos, n.End, "unresolved identifier: %v", n.Name)
	default:
		return -1, fault.New(fault.NotLvalue, n.Pos, n.End, "not an lvalue: %v", n.Kind)
	}
}

func (g *Generator) enter(n *ast.Node) (prev ast.Base) {
	prev = g.at
	g.at = n.Base

	return prev
}

func (g *Generator) leave(prev ast.Base) {
	g.at = prev
}

// addr is the frame base plus offset.
func (g *Generator) addr(off int) ir.Reg {
	r := g.reg()

	g.add(ir.MOV, int(r), int(g.base))
	g.add(ir.ADD_IMM, int(r), off)

	return r
}

func (g *Generator) add(op ir.Op, l, r int) int {
	g.code = append(g.code, ir.Inst{
		Op: op,
		L:  l,
		R:  r,
	})

	return len(g.code) - 1
}

func (g *Generator) kill(r ir.Reg) {
	g.add(ir.KILL, int(r), ir.Nil)
}

func (g *Generator) reg() ir.Reg {
	r := g.regno
	g.regno++

	return r
}

func (g *Generator) newLabel() ir.Label {
	l := g.label
	g.label++

	return l
}

func isExpr(k ast.Kind) bool {
	switch k {
	case ast.NUM, ast.IDENT, ast.LVAR,
		ast.ADD, ast.SUB, ast.MUL, ast.DIV,
		ast.EQ, ast.LT, ast.LOGAND, ast.LOGOR,
		ast.DEREF, ast.CALL:
		return true
	}

	return false
}
