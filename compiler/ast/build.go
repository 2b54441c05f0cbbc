package ast

import "github.com/slowlang/ninecc/compiler/tp"

// Constructors for hand-built trees.

func Num(v int64) *Node {
	return &Node{Kind: NUM, Type: tp.Int{}, Val: v}
}

func Ident(name string) *Node {
	return &Node{Kind: IDENT, Name: name}
}

func Bin(k Kind, l, r *Node) *Node {
	return &Node{Kind: k, Lhs: l, Rhs: r}
}

func Assign(l, r *Node) *Node {
	return Bin(EQ, l, r)
}

func Deref(x *Node) *Node {
	return &Node{Kind: DEREF, Expr: x}
}

func Call(name string, args ...*Node) *Node {
	return &Node{Kind: CALL, Name: name, Args: args}
}

func VarDef(name string, t tp.Type, init *Node) *Node {
	return &Node{Kind: VARDEF, Name: name, Type: t, Init: init}
}

func If(cond, then, els *Node) *Node {
	return &Node{Kind: IF, Cond: cond, Then: then, Els: els}
}

func For(init, cond, inc, body *Node) *Node {
	return &Node{Kind: FOR, Init: init, Cond: cond, Inc: inc, Body: body}
}

func Return(x *Node) *Node {
	return &Node{Kind: RETURN, Expr: x}
}

func ExprStmt(x *Node) *Node {
	return &Node{Kind: EXPR_STMT, Expr: x}
}

func Block(stmts ...*Node) *Node {
	return &Node{Kind: COMP_STMT, Stmts: stmts}
}

func Func(name string, params []*Node, body *Node) *Node {
	return &Node{Kind: FUNC, Name: name, Args: params, Body: body}
}

// At sets the source span and returns the node.
func (n *Node) At(pos, end int) *Node {
	n.Pos, n.End = pos, end
	return n
}
