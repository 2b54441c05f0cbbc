package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/ninecc/compiler/fault"
	"github.com/slowlang/ninecc/compiler/ir"
)

// Dump appends the textual form of fns to b.
func Dump(ctx context.Context, b []byte, fns []*ir.Func) (_ []byte, err error) {
	for _, f := range fns {
		b, err = Func(ctx, b, f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func Func(ctx context.Context, b []byte, f *ir.Func) (_ []byte, err error) {
	b = hfmt.Appendf(b, "%s():\n", f.Name)

	for i, x := range f.Code {
		b, err = Inst(b, x)
		if err != nil {
			return nil, errors.Wrap(err, "inst %d", i)
		}

		b = append(b, '\n')
	}

	return b, nil
}

// Inst appends a single instruction without the trailing newline.
func Inst(b []byte, x ir.Inst) ([]byte, error) {
	info, err := ir.InfoOf(x.Op)
	if err != nil {
		return nil, err
	}

	switch info.Shape {
	case ir.ShapeLabel:
		if info.Name == "" {
			return hfmt.Appendf(b, ".L%d:", x.L), nil
		}

		return hfmt.Appendf(b, "%s .L%d", info.Name, x.L), nil
	case ir.ShapeReg:
		return hfmt.Appendf(b, "%s r%d", info.Name, x.L), nil
	case ir.ShapeRegReg:
		return hfmt.Appendf(b, "%s r%d, r%d", info.Name, x.L, x.R), nil
	case ir.ShapeRegImm:
		return hfmt.Appendf(b, "%s r%d, %d", info.Name, x.L, x.R), nil
	case ir.ShapeRegLabel:
		return hfmt.Appendf(b, "%s r%d, .L%d", info.Name, x.L, x.R), nil
	case ir.ShapeCall:
		b = hfmt.Appendf(b, "r%d = %s(", x.L, x.Name)

		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "r%d", a)
		}

		return append(b, ')'), nil
	case ir.ShapeNoArg:
		return append(b, info.Name...), nil
	default:
		return nil, fault.New(fault.UnknownOpcode, 0, 0, "no textual form for %v", x.Op)
	}
}

// String is Inst for logs and tests.
func String(x ir.Inst) string {
	b, err := Inst(nil, x)
	if err != nil {
		return "<" + err.Error() + ">"
	}

	return string(b)
}
