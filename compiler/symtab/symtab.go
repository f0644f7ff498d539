package symtab

import (
	"tlog.app/go/errors"

	"github.com/slowlang/cmm/compiler/ir"
	"github.com/slowlang/cmm/compiler/token"
)

type (
	Symbol struct {
		Cat token.Cat
		Val int64
	}

	// Table maps source names to symbols.
	// The first registration of a name wins: adding it again
	// returns the first symbol no matter what is passed.
	Table struct {
		syms  map[string]Symbol
		names map[int64]string

		nextVar int64
	}
)

// MaxVars is the size of the variable id space, which ends where label ids start.
const MaxVars = ir.LabelBase

var ErrTooManyVars = errors.New("too many variables")

func New() *Table {
	return &Table{
		syms:  make(map[string]Symbol),
		names: make(map[int64]string),
	}
}

// Add registers name with the given symbol unless it's already known.
// It returns the symbol associated with name and whether it was there before.
func (t *Table) Add(name string, cat token.Cat, val int64) (Symbol, bool) {
	if s, ok := t.syms[name]; ok {
		return s, true
	}

	s := Symbol{Cat: cat, Val: val}
	t.syms[name] = s

	if cat == token.Variable {
		if _, ok := t.names[val]; !ok {
			t.names[val] = name
		}
	}

	return s, false
}

// Register returns the variable id for name allocating the next one for new names.
func (t *Table) Register(name string) (int64, error) {
	if s, ok := t.syms[name]; ok {
		return s.Val, nil
	}

	if t.nextVar >= MaxVars {
		return 0, ErrTooManyVars
	}

	s, _ := t.Add(name, token.Variable, t.nextVar)
	t.nextVar++

	return s.Val, nil
}

func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.syms[name]
	return s, ok
}

func (t *Table) NameOf(id int64) (string, bool) {
	if t == nil {
		return "", false
	}

	n, ok := t.names[id]

	return n, ok
}

func (t *Table) Len() int { return len(t.syms) }
