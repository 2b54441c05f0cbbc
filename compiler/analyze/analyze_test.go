package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/ninecc/compiler/ast"
	"github.com/slowlang/ninecc/compiler/fault"
	"github.com/slowlang/ninecc/compiler/tp"
)

var (
	intT = tp.Int{}
	ptrT = tp.PointerTo(tp.Int{})
)

func analyzeBody(t *testing.T, stmts ...*ast.Node) (*ast.Node, error) {
	t.Helper()

	f := ast.Func("main", nil, ast.Block(stmts...))

	err := Analyze(context.Background(), []*ast.Node{f})

	return f, err
}

func TestStackOffsets(t *testing.T) {
	a := ast.VarDef("a", intT, nil)
	b := ast.VarDef("b", ptrT, nil)
	c := ast.VarDef("c", intT, nil)

	f, err := analyzeBody(t, a, b, c)
	require.NoError(t, err)

	assert.Equal(t, 8, a.Offset)
	assert.Equal(t, 16, b.Offset)
	assert.Equal(t, 24, c.Offset)
	assert.Equal(t, 24, f.StackSize)
}

func TestResolveIdent(t *testing.T) {
	use := ast.Ident("b")
	ret := ast.Return(use)

	_, err := analyzeBody(t,
		ast.VarDef("a", intT, nil),
		ast.VarDef("b", ptrT, nil),
		ret,
	)
	require.NoError(t, err)

	assert.Equal(t, ast.LVAR, use.Kind)
	assert.Equal(t, ptrT, use.Type)
	assert.Equal(t, 16, use.Offset)
}

func TestUndefinedVariable(t *testing.T) {
	_, err := analyzeBody(t, ast.Return(ast.Ident("x").At(10, 11)))
	require.Error(t, err)

	f, ok := fault.As(err)
	require.True(t, ok, "%v", err)

	assert.Equal(t, fault.UndefinedVariable, f.Kind)
	assert.Equal(t, 10, f.Pos)
	assert.Equal(t, 11, f.End)
	assert.Contains(t, err.Error(), "func main")
	assert.Contains(t, err.Error(), "undefined variable: x")
}

func TestVarDefInit(t *testing.T) {
	_, err := analyzeBody(t, ast.VarDef("a", intT, ast.Ident("a")))
	assert.NoError(t, err, "variable is visible in its own initializer")

	_, err = analyzeBody(t, ast.VarDef("a", intT, ast.Ident("b")))
	assert.Equal(t, fault.UndefinedVariable, fault.KindOf(err))
}

func TestPointerCanonical(t *testing.T) {
	for _, k := range []ast.Kind{ast.ADD, ast.SUB} {
		// p + 1
		add := ast.Bin(k, ast.Ident("p"), ast.Num(1))

		_, err := analyzeBody(t, ast.VarDef("p", ptrT, nil), ast.ExprStmt(add))
		require.NoError(t, err)

		assert.Equal(t, ast.LVAR, add.Lhs.Kind)
		assert.Equal(t, ast.NUM, add.Rhs.Kind)
		assert.Equal(t, ptrT, add.Type)

		// 1 + p
		num := ast.Num(1)
		add = ast.Bin(k, num, ast.Ident("p"))

		_, err = analyzeBody(t, ast.VarDef("p", ptrT, nil), ast.ExprStmt(add))
		require.NoError(t, err)

		assert.Equal(t, ast.LVAR, add.Lhs.Kind, "pointer is moved to the left")
		assert.Same(t, num, add.Rhs)
		assert.Equal(t, ptrT, add.Type)
	}
}

func TestPointerPointer(t *testing.T) {
	for _, k := range []ast.Kind{ast.ADD, ast.SUB} {
		_, err := analyzeBody(t,
			ast.VarDef("p", ptrT, nil),
			ast.VarDef("q", ptrT, nil),
			ast.ExprStmt(ast.Bin(k, ast.Ident("p"), ast.Ident("q")).At(5, 9)),
		)

		f, ok := fault.As(err)
		require.True(t, ok, "%v", err)
		assert.Equal(t, fault.PointerArith, f.Kind)
		assert.Equal(t, 5, f.Pos)
		assert.Contains(t, err.Error(), "is not defined")
	}
}

func TestBinaryTypeFromLeft(t *testing.T) {
	for _, k := range []ast.Kind{ast.MUL, ast.DIV, ast.EQ, ast.LT, ast.LOGAND, ast.LOGOR} {
		x := ast.Bin(k, ast.Ident("p"), ast.Ident("q"))

		_, err := analyzeBody(t,
			ast.VarDef("p", ptrT, nil),
			ast.VarDef("q", ptrT, nil),
			ast.ExprStmt(x),
		)
		require.NoError(t, err, "%v", k)

		assert.Equal(t, ptrT, x.Type, "%v", k)
	}
}

func TestDeref(t *testing.T) {
	d := ast.Deref(ast.Ident("p"))

	_, err := analyzeBody(t, ast.VarDef("p", tp.PointerTo(ptrT), nil), ast.Return(d))
	require.NoError(t, err)
	assert.Equal(t, ptrT, d.Type)

	_, err = analyzeBody(t, ast.VarDef("a", intT, nil), ast.Return(ast.Deref(ast.Ident("a"))))
	assert.Equal(t, fault.NotPointer, fault.KindOf(err))

	_, err = analyzeBody(t, ast.VarDef("a", tp.ArrayOf(intT, 3), nil), ast.Return(ast.Deref(ast.Ident("a"))))
	assert.Equal(t, fault.NotPointer, fault.KindOf(err))

	_, err = analyzeBody(t, ast.Return(ast.Deref(ast.Num(1))))
	assert.Equal(t, fault.NotPointer, fault.KindOf(err))
}

func TestCallType(t *testing.T) {
	arg := ast.Ident("p")
	c := ast.Call("f", arg, ast.Num(2))

	_, err := analyzeBody(t, ast.VarDef("p", ptrT, nil), ast.ExprStmt(c))
	require.NoError(t, err)

	assert.Equal(t, intT, c.Type)
	assert.Equal(t, ast.LVAR, arg.Kind)
}

func TestControlFlow(t *testing.T) {
	cond := ast.Ident("a")
	inc := ast.Ident("a")
	body := ast.Ident("a")
	els := ast.Ident("a")

	_, err := analyzeBody(t,
		ast.VarDef("a", intT, nil),
		ast.If(cond, ast.Block(), ast.ExprStmt(els)),
		ast.For(nil, ast.Num(1), ast.ExprStmt(inc), ast.ExprStmt(body)),
	)
	require.NoError(t, err)

	for _, n := range []*ast.Node{cond, inc, body, els} {
		assert.Equal(t, ast.LVAR, n.Kind)
	}
}

func TestParams(t *testing.T) {
	p := ast.VarDef("x", intT, nil)
	use := ast.Ident("x")
	local := ast.VarDef("y", intT, nil)

	f := ast.Func("f", []*ast.Node{p}, ast.Block(local, ast.Return(use)))

	err := Analyze(context.Background(), []*ast.Node{f})
	require.NoError(t, err)

	assert.Equal(t, 8, p.Offset)
	assert.Equal(t, 16, local.Offset)
	assert.Equal(t, 8, use.Offset)
	assert.Equal(t, 16, f.StackSize)
}

func TestPerFunctionReset(t *testing.T) {
	f1 := ast.Func("f", nil, ast.Block(ast.VarDef("a", intT, nil), ast.VarDef("b", intT, nil)))
	b := ast.VarDef("b", intT, nil)
	f2 := ast.Func("g", nil, ast.Block(b))

	a := New()

	err := a.Analyze(context.Background(), []*ast.Node{f1, f2})
	require.NoError(t, err)

	assert.Equal(t, 16, f1.StackSize)
	assert.Equal(t, 8, f2.StackSize)
	assert.Equal(t, 8, b.Offset)
	assert.Len(t, a.Vars(), 1)

	f3 := ast.Func("f", nil, ast.Block(ast.VarDef("a", intT, nil)))
	f4 := ast.Func("g", nil, ast.Block(ast.Return(ast.Ident("a"))))

	err = a.Analyze(context.Background(), []*ast.Node{f3, f4})
	assert.Equal(t, fault.UndefinedVariable, fault.KindOf(err))
	assert.Contains(t, err.Error(), "func g")
}

func TestRedeclaration(t *testing.T) {
	use := ast.Ident("a")

	f, err := analyzeBody(t,
		ast.VarDef("a", intT, nil),
		ast.VarDef("a", ptrT, nil),
		ast.Return(use),
	)
	require.NoError(t, err)

	assert.Equal(t, 16, use.Offset)
	assert.Equal(t, ptrT, use.Type)
	assert.Equal(t, 16, f.StackSize)
}

func TestUnknownNode(t *testing.T) {
	_, err := analyzeBody(t, &ast.Node{Kind: ast.Kind(100)})
	assert.Equal(t, fault.UnknownNode, fault.KindOf(err))

	// already resolved trees are not analyzed twice
	_, err = analyzeBody(t, ast.Return(&ast.Node{Kind: ast.LVAR, Name: "a"}))
	assert.Equal(t, fault.UnknownNode, fault.KindOf(err))
}

func TestNotFunction(t *testing.T) {
	err := Analyze(context.Background(), []*ast.Node{ast.Return(ast.Num(1))})
	assert.Equal(t, fault.NotFunction, fault.KindOf(err))
}

func TestNilFunction(t *testing.T) {
	ok := ast.Func("main", nil, ast.Block())

	err := Analyze(context.Background(), []*ast.Node{ok, nil})
	assert.Equal(t, fault.NotFunction, fault.KindOf(err))
	assert.Contains(t, err.Error(), "func #1")
}
