package fault

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	// Error is a fatal compilation fault.
	// Pos and End are the span of the offending node, zero if unknown.
	// From is where in the compiler the fault was raised.
	Error struct {
		Kind Kind
		Pos  int
		End  int
		Msg  string
		From loc.PC
	}
)

const (
	_ Kind = iota
	UndefinedVariable
	PointerArith
	NotPointer
	NotLvalue
	UnknownNode
	UnknownOpcode
	NotFunction
	TooManyArgs
)

var kindNames = map[Kind]string{
	UndefinedVariable: "undefined variable",
	PointerArith:      "pointer arithmetic",
	NotPointer:        "pointer required",
	NotLvalue:         "not an lvalue",
	UnknownNode:       "unknown node",
	UnknownOpcode:     "unknown opcode",
	NotFunction:       "not a function",
	TooManyArgs:       "too many arguments",
}

func New(k Kind, pos, end int, f string, args ...any) *Error {
	return &Error{
		Kind: k,
		Pos:  pos,
		End:  end,
		Msg:  fmt.Sprintf(f, args...),
		From: loc.Caller(1),
	}
}

func (e *Error) Error() string {
	if e.Pos == 0 && e.End == 0 {
		return e.Msg
	}

	return fmt.Sprintf("%v (at %d:%d)", e.Msg, e.Pos, e.End)
}

func (e *Error) TlogAppend(b []byte) []byte {
	var en tlwire.Encoder

	b = en.AppendMap(b, 4)
	b = en.AppendKeyString(b, "kind", e.Kind.String())
	b = en.AppendKeyInt(b, "pos", e.Pos)
	b = en.AppendKeyInt(b, "end", e.End)
	b = en.AppendKeyString(b, "msg", e.Msg)

	return b
}

// As finds the fault in the err chain.
func As(err error) (*Error, bool) {
	var e *Error

	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// KindOf returns the fault kind of err or 0 if err is not a fault.
func KindOf(err error) Kind {
	e, ok := As(err)
	if !ok {
		return 0
	}

	return e.Kind
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}
