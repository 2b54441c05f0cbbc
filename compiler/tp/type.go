package tp

import (
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

type (
	Type interface {
		Size() int
		Align() int
		String() string
	}

	Int struct{}

	Ptr struct {
		X Type
	}

	Array struct {
		X   Type
		Len int
	}
)

func PointerTo(base Type) Ptr {
	return Ptr{X: base}
}

func ArrayOf(base Type, n int) Array {
	return Array{X: base, Len: n}
}

func SizeOf(t Type) int {
	return t.Size()
}

func IsPtr(t Type) bool {
	_, ok := t.(Ptr)
	return ok
}

func (x Int) Size() int  { return 4 }
func (x Int) Align() int { return 4 }

func (x Int) String() string { return "int" }

func (x Ptr) Size() int  { return 8 }
func (x Ptr) Align() int { return 8 }

func (x Ptr) String() string { return "*" + x.X.String() }

func (x Array) Size() int {
	return x.X.Size() * x.Len
}

func (x Array) Align() int {
	return x.X.Align()
}

func (x Array) String() string {
	return x.X.String() + "[" + strconv.Itoa(x.Len) + "]"
}

// Parse reads the String form back: int, *int, int[3], *int[2].
// Array suffixes bind tighter than the pointer prefix as in String.
func Parse(s string) (t Type, err error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "*") {
		x, err := Parse(s[1:])
		if err != nil {
			return nil, err
		}

		return PointerTo(x), nil
	}

	if strings.HasSuffix(s, "]") {
		st := strings.LastIndexByte(s, '[')
		if st < 0 {
			return nil, errors.New("unbalanced brackets: %q", s)
		}

		n, err := strconv.Atoi(s[st+1 : len(s)-1])
		if err != nil {
			return nil, errors.Wrap(err, "array len")
		}

		if n < 0 {
			return nil, errors.New("negative array len: %d", n)
		}

		x, err := Parse(s[:st])
		if err != nil {
			return nil, err
		}

		return ArrayOf(x, n), nil
	}

	switch s {
	case "int":
		return Int{}, nil
	default:
		return nil, errors.New("unsupported type: %q", s)
	}
}
