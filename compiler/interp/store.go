package interp

import (
	"fmt"

	"nikand.dev/go/heap"

	"github.com/slowlang/cmm/compiler/ir"
)

type (
	// Kind is a runtime value classification used to choose how to print and read it.
	Kind uint8

	cell struct {
		val  int64
		kind Kind
	}

	store map[ir.Operand]cell

	// Var is a store entry in a dump.
	Var struct {
		Operand ir.Operand
		Name    string
		Value   int64
		Kind    Kind
	}

	// Names resolves variable ids for diagnostics.
	Names = ir.Names
)

const (
	Integer Kind = iota
	Character
)

func (s store) value(o ir.Operand) int64 {
	switch o.Kind {
	case ir.Int, ir.Char:
		return o.Val
	case ir.Var, ir.Temp:
		return s[o].val
	}

	return 0
}

func (s store) kind(o ir.Operand) Kind {
	switch o.Kind {
	case ir.Char:
		return Character
	case ir.Var, ir.Temp:
		return s[o].kind
	}

	return Integer
}

func (s store) set(o ir.Operand, v int64, k Kind) {
	if !o.IsStorage() {
		return
	}

	s[o] = cell{val: v, kind: k}
}

// Dump returns the store sorted by operand: variables by id, then temporaries.
func (m *Machine) Dump(names Names) []Var {
	h := heap.Heap[Var]{Less: varLess}

	for o, c := range m.store {
		h.Push(Var{
			Operand: o,
			Name:    o.Format(names),
			Value:   c.val,
			Kind:    c.kind,
		})
	}

	l := make([]Var, 0, h.Len())

	for h.Len() != 0 {
		l = append(l, h.Pop())
	}

	return l
}

func varLess(d []Var, i, j int) bool {
	a, b := d[i].Operand, d[j].Operand

	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}

	return a.Val < b.Val
}

// Format renders the value the way print would, characters quoted.
func (v Var) Format() string {
	if v.Kind == Character {
		return fmt.Sprintf("'%c'", byte(v.Value))
	}

	return fmt.Sprintf("%d", v.Value)
}

func (v Var) String() string {
	return v.Name + " = " + v.Format()
}

func (k Kind) String() string {
	switch k {
	case Integer:
		return "int"
	case Character:
		return "char"
	}

	return fmt.Sprintf("kind%d", int(k))
}
