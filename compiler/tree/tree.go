package tree

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/ninecc/compiler/ast"
	"github.com/slowlang/ninecc/compiler/tp"
)

type (
	// raw is the YAML form of ast.Node as written by the parser.
	raw struct {
		Kind string `yaml:"kind"`
		Name string `yaml:"name,omitempty"`
		Val  int64  `yaml:"val,omitempty"`
		Type string `yaml:"type,omitempty"`

		Lhs  *raw `yaml:"lhs,omitempty"`
		Rhs  *raw `yaml:"rhs,omitempty"`
		Cond *raw `yaml:"cond,omitempty"`
		Then *raw `yaml:"then,omitempty"`
		Els  *raw `yaml:"els,omitempty"`
		Init *raw `yaml:"init,omitempty"`
		Inc  *raw `yaml:"inc,omitempty"`
		Expr *raw `yaml:"expr,omitempty"`
		Body *raw `yaml:"body,omitempty"`

		Args  []*raw `yaml:"args,omitempty"`
		Stmts []*raw `yaml:"stmts,omitempty"`

		Pos int `yaml:"pos,omitempty"`
		End int `yaml:"end,omitempty"`
	}
)

func LoadFile(ctx context.Context, name string) ([]*ast.Node, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	return Load(ctx, data)
}

// Load decodes a YAML list of function nodes.
func Load(ctx context.Context, data []byte) (fns []*ast.Node, err error) {
	var rs []*raw

	err = yaml.Unmarshal(data, &rs)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	for i, r := range rs {
		if r == nil {
			return nil, errors.New("node %d: null function", i)
		}

		n, err := r.node()
		if err != nil {
			return nil, errors.Wrap(err, "node %d", i)
		}

		fns = append(fns, n)
	}

	return fns, nil
}

func (r *raw) node() (n *ast.Node, err error) {
	if r == nil {
		return nil, nil
	}

	k, err := ast.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}

	n = &ast.Node{
		Base: ast.Base{Pos: r.Pos, End: r.End},
		Kind: k,
		Name: r.Name,
		Val:  r.Val,
	}

	switch {
	case r.Type != "":
		n.Type, err = tp.Parse(r.Type)
		if err != nil {
			return nil, errors.Wrap(err, "%v %v: type", k, r.Name)
		}
	case k == ast.NUM:
		n.Type = tp.Int{}
	}

	subs := []struct {
		name string
		r    *raw
		n    **ast.Node
	}{
		{"lhs", r.Lhs, &n.Lhs},
		{"rhs", r.Rhs, &n.Rhs},
		{"cond", r.Cond, &n.Cond},
		{"then", r.Then, &n.Then},
		{"els", r.Els, &n.Els},
		{"init", r.Init, &n.Init},
		{"inc", r.Inc, &n.Inc},
		{"expr", r.Expr, &n.Expr},
		{"body", r.Body, &n.Body},
	}

	for _, s := range subs {
		*s.n, err = s.r.node()
		if err != nil {
			return nil, errors.Wrap(err, "%v", s.name)
		}
	}

	n.Args, err = nodes(r.Args)
	if err != nil {
		return nil, errors.Wrap(err, "args")
	}

	n.Stmts, err = nodes(r.Stmts)
	if err != nil {
		return nil, errors.Wrap(err, "stmts")
	}

	return n, nil
}

func nodes(rs []*raw) (ns []*ast.Node, err error) {
	for i, r := range rs {
		n, err := r.node()
		if err != nil {
			return nil, errors.Wrap(err, "%d", i)
		}

		ns = append(ns, n)
	}

	return ns, nil
}
