package ast

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/ninecc/compiler/tp"
)

type (
	Kind int

	// Base is the source span of a node as reported by the parser.
	Base struct {
		Pos int
		End int
	}

	Node struct {
		Base `tlog:",embed"`

		Kind Kind
		Type tp.Type

		Lhs *Node
		Rhs *Node

		Cond *Node
		Then *Node
		Els  *Node
		Init *Node
		Inc  *Node
		Expr *Node
		Body *Node

		// call arguments or function parameters
		Args  []*Node
		Stmts []*Node

		Name string
		Val  int64

		Offset    int
		StackSize int
	}
)

const (
	NUM Kind = iota
	IDENT
	LVAR
	ADD
	SUB
	MUL
	DIV
	EQ
	LT
	LOGAND
	LOGOR
	DEREF
	CALL
	VARDEF
	IF
	FOR
	RETURN
	EXPR_STMT
	COMP_STMT
	FUNC

	numKinds
)

var kindNames = [...]string{
	NUM:       "num",
	IDENT:     "ident",
	LVAR:      "lvar",
	ADD:       "add",
	SUB:       "sub",
	MUL:       "mul",
	DIV:       "div",
	EQ:        "eq",
	LT:        "lt",
	LOGAND:    "logand",
	LOGOR:     "logor",
	DEREF:     "deref",
	CALL:      "call",
	VARDEF:    "vardef",
	IF:        "if",
	FOR:       "for",
	RETURN:    "return",
	EXPR_STMT: "expr_stmt",
	COMP_STMT: "comp_stmt",
	FUNC:      "func",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return strings.ToUpper(kindNames[k])
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(s)

	for k, n := range kindNames {
		if n == s {
			return Kind(k), nil
		}
	}

	return -1, errors.New("unknown node kind: %q", s)
}

func (k Kind) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, k.String())
}
