package ir

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	Op    int
	Reg   int
	Label int

	// Inst is a three-address instruction.
	// The meaning of L and R depends on the Op shape (see Info):
	// register, immediate or label id. Unused operands are Nil.
	Inst struct {
		Op Op
		L  int
		R  int

		Name string // CALL target
		Args []Reg  // CALL arguments
	}

	Func struct {
		Name string
		Code []Inst
	}
)

const (
	IMM Op = iota
	MOV
	ADD
	SUB
	MUL
	DIV
	LT
	ADD_IMM
	RETURN
	CALL
	LABEL
	JMP
	UNLESS
	ALLOCA
	LOAD
	STORE
	KILL
	NOP
	NULL

	numOps
)

const (
	Nil = -1

	MaxArgs = 6
)

var opNames = [...]string{
	IMM:     "IMM",
	MOV:     "MOV",
	ADD:     "ADD",
	SUB:     "SUB",
	MUL:     "MUL",
	DIV:     "DIV",
	LT:      "LT",
	ADD_IMM: "ADD_IMM",
	RETURN:  "RETURN",
	CALL:    "CALL",
	LABEL:   "LABEL",
	JMP:     "JMP",
	UNLESS:  "UNLESS",
	ALLOCA:  "ALLOCA",
	LOAD:    "LOAD",
	STORE:   "STORE",
	KILL:    "KILL",
	NOP:     "NOP",
	NULL:    "NULL",
}

func (op Op) String() string {
	if op >= 0 && op < numOps {
		return opNames[op]
	}

	return "Op(" + strconv.Itoa(int(op)) + ")"
}

func (x Inst) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	n := 3
	if x.Name != "" {
		n++
	}
	if x.Args != nil {
		n++
	}

	b = e.AppendMap(b, n)

	b = e.AppendKeyString(b, "op", x.Op.String())
	b = e.AppendKeyInt(b, "l", x.L)
	b = e.AppendKeyInt(b, "r", x.R)

	if x.Name != "" {
		b = e.AppendKeyString(b, "name", x.Name)
	}

	if x.Args != nil {
		b = e.AppendString(b, "args")
		b = e.AppendTag(b, tlwire.Array, len(x.Args))

		for _, a := range x.Args {
			b = e.AppendInt(b, int(a))
		}
	}

	return b
}
