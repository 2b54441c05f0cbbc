package ir

import (
	"tlog.app/go/errors"

	"github.com/slowlang/ninecc/compiler/set"
)

// Verifier checks lowered functions one at a time.
// It may be reused, its state is reset for each function.
type Verifier struct {
	live   set.Bits[Reg]
	killed set.Bits[Reg]

	defs set.Bits[Label]
	refs set.Bits[Label]
}

// Verify checks the register and label discipline of a lowered function.
// Every used register must be live, every defined register must be
// killed exactly once and never redefined after that, and every
// referenced label must be defined exactly once.
func Verify(f *Func) error {
	var v Verifier

	return v.Verify(f)
}

func (v *Verifier) Verify(f *Func) (err error) {
	v.live.Reset()
	v.killed.Reset()
	v.defs.Reset()
	v.refs.Reset()

	for i, x := range f.Code {
		err = v.inst(x)
		if err != nil {
			return errors.Wrap(err, "%v: inst %d (%v)", f.Name, i, x.Op)
		}
	}

	if v.live.Size() != 0 {
		return errors.New("%v: registers not killed: %v", f.Name, v.live.Slice())
	}

	var missing []Label

	v.refs.Range(func(l Label) bool {
		if !v.defs.IsSet(l) {
			missing = append(missing, l)
		}

		return true
	})

	if missing != nil {
		return errors.New("%v: labels not defined: %v", f.Name, missing)
	}

	return nil
}

func (v *Verifier) inst(x Inst) (err error) {
	info, err := InfoOf(x.Op)
	if err != nil {
		return err
	}

	if info.Shape == ShapeNull {
		return errors.New("null instruction")
	}

	switch x.Op {
	case IMM, ALLOCA:
		return v.def(Reg(x.L))
	case MOV:
		err = v.use(Reg(x.R))
		if err != nil {
			return err
		}

		if v.live.IsSet(Reg(x.L)) {
			return nil
		}

		return v.def(Reg(x.L))
	case LOAD:
		err = v.use(Reg(x.R))
		if err != nil || x.L == x.R {
			return err
		}

		return v.def(Reg(x.L))
	case ADD, SUB, MUL, DIV, LT, STORE:
		return v.use(Reg(x.L), Reg(x.R))
	case ADD_IMM, RETURN:
		return v.use(Reg(x.L))
	case UNLESS:
		v.refs.Set(Label(x.R))

		return v.use(Reg(x.L))
	case JMP:
		v.refs.Set(Label(x.L))
	case LABEL:
		if v.defs.IsSet(Label(x.L)) {
			return errors.New("label .L%d redefined", x.L)
		}

		v.defs.Set(Label(x.L))
	case CALL:
		if len(x.Args) > MaxArgs {
			return errors.New("too many arguments: %d", len(x.Args))
		}

		err = v.use(x.Args...)
		if err != nil {
			return err
		}

		return v.def(Reg(x.L))
	case KILL:
		err = v.use(Reg(x.L))
		if err != nil {
			return err
		}

		v.live.Clear(Reg(x.L))
		v.killed.Set(Reg(x.L))
	}

	return nil
}

func (v *Verifier) def(r Reg) error {
	if r < 0 {
		return errors.New("bad register: r%d", r)
	}

	if v.killed.IsSet(r) {
		return errors.New("r%d redefined after kill", r)
	}

	v.live.Set(r)

	return nil
}

func (v *Verifier) use(rs ...Reg) error {
	for _, r := range rs {
		if r < 0 || !v.live.IsSet(r) {
			return errors.New("r%d is not live", r)
		}
	}

	return nil
}
