package ir

import (
	"github.com/slowlang/ninecc/compiler/fault"
)

type (
	Shape int

	// Info describes how to read the operands of an Op.
	Info struct {
		Op    Op
		Name  string
		Shape Shape
	}
)

const (
	ShapeNoArg Shape = iota
	ShapeReg
	ShapeLabel
	ShapeRegReg
	ShapeRegImm
	ShapeRegLabel
	ShapeCall
	ShapeNull
)

var infos = [...]Info{
	{Op: ADD, Name: "+", Shape: ShapeRegReg},
	{Op: SUB, Name: "-", Shape: ShapeRegReg},
	{Op: MUL, Name: "*", Shape: ShapeRegReg},
	{Op: DIV, Name: "/", Shape: ShapeRegReg},
	{Op: LT, Name: "<", Shape: ShapeRegReg},
	{Op: IMM, Name: "MOV", Shape: ShapeRegImm},
	{Op: ADD_IMM, Name: "ADD", Shape: ShapeRegImm},
	{Op: MOV, Name: "MOV", Shape: ShapeRegReg},
	{Op: LABEL, Name: "", Shape: ShapeLabel},
	{Op: JMP, Name: "JMP", Shape: ShapeLabel},
	{Op: UNLESS, Name: "UNLESS", Shape: ShapeRegLabel},
	{Op: CALL, Name: "CALL", Shape: ShapeCall},
	{Op: RETURN, Name: "RET", Shape: ShapeReg},
	{Op: ALLOCA, Name: "ALLOCA", Shape: ShapeRegImm},
	{Op: LOAD, Name: "LOAD", Shape: ShapeRegReg},
	{Op: STORE, Name: "STORE", Shape: ShapeRegReg},
	{Op: KILL, Name: "KILL", Shape: ShapeReg},
	{Op: NOP, Name: "NOP", Shape: ShapeNoArg},
	{Op: NULL, Name: "", Shape: ShapeNull},
}

func InfoOf(op Op) (Info, error) {
	for _, x := range infos {
		if x.Op == op {
			return x, nil
		}
	}

	return Info{}, fault.New(fault.UnknownOpcode, 0, 0, "invalid instruction: %v", op)
}

func (s Shape) String() string {
	switch s {
	case ShapeNoArg:
		return "noarg"
	case ShapeReg:
		return "reg"
	case ShapeLabel:
		return "label"
	case ShapeRegReg:
		return "reg_reg"
	case ShapeRegImm:
		return "reg_imm"
	case ShapeRegLabel:
		return "reg_label"
	case ShapeCall:
		return "call"
	case ShapeNull:
		return "null"
	default:
		return "shape?"
	}
}
