package ir

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Kind tells what an Operand refers to.
	Kind uint8

	// Operand is a quad argument or result.
	// Zero Operand means the slot is empty.
	Operand struct {
		Kind Kind
		Val  int64
	}

	Op       uint8
	Category uint8

	Quad struct {
		Op   Op
		Arg1 Operand
		Arg2 Operand
		Res  Operand
	}

	// Program is a translation unit.
	// Quads are addressed by index, labels and temporaries by their numbers.
	Program struct {
		Quads []Quad

		Labels int
		Temps  int
	}

	Names interface {
		NameOf(id int64) (string, bool)
	}
)

const (
	None Kind = iota
	Int
	Char
	Var
	Label
	Temp
)

const (
	Nop Op = iota
	Assign

	Add
	Sub
	Mul
	Div

	Eq
	Ne
	Le
	Ge
	Lt
	Gt
	And
	Or

	Read
	Print

	Goto
	IfGoto

	opCount
)

const (
	CatNoOp Category = iota
	CatAssign
	CatArith
	CatRel
	CatConsole
	CatControl
	CatInvalid
)

// Canonical id spaces used to print operands.
const (
	LabelBase = 10000
	TempBase  = 50000

	MaxLabels = TempBase - LabelBase
)

var opNames = [...]string{
	Nop:    "NOP",
	Assign: "=",
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Eq:     "==",
	Ne:     "!=",
	Le:     "<=",
	Ge:     ">=",
	Lt:     "<",
	Gt:     ">",
	And:    "&&",
	Or:     "||",
	Read:   "READ",
	Print:  "PRINT",
	Goto:   "GOTO",
	IfGoto: "IFGOTO",
}

func IntLit(v int64) Operand  { return Operand{Kind: Int, Val: v} }
func CharLit(c byte) Operand  { return Operand{Kind: Char, Val: int64(c)} }
func VarRef(id int64) Operand { return Operand{Kind: Var, Val: id} }
func LabelRef(n int) Operand  { return Operand{Kind: Label, Val: int64(n)} }
func TempRef(n int) Operand   { return Operand{Kind: Temp, Val: int64(n)} }

func (o Operand) IsZero() bool    { return o.Kind == None }
func (o Operand) IsLiteral() bool { return o.Kind == Int || o.Kind == Char }

// IsStorage reports whether the operand names a slot in the variable store.
func (o Operand) IsStorage() bool { return o.Kind == Var || o.Kind == Temp }

// ID returns the operand id in the flat id space: variables, then labels, then temporaries.
func (o Operand) ID() int64 {
	switch o.Kind {
	case Label:
		return LabelBase + o.Val
	case Temp:
		return TempBase + o.Val
	}

	return o.Val
}

func (o Operand) String() string {
	return o.Format(nil)
}

// Format renders the operand resolving variable names with names if any.
func (o Operand) Format(names Names) string {
	switch o.Kind {
	case None:
		return "_"
	case Int:
		return fmt.Sprintf("%d", o.Val)
	case Char:
		return fmt.Sprintf("'%c'", byte(o.Val))
	case Var:
		if n, ok := lookup(names, o.Val); ok {
			return n
		}

		return fmt.Sprintf("v%d", o.Val)
	case Label:
		return fmt.Sprintf("L%d", o.Val)
	case Temp:
		return fmt.Sprintf("t%d", o.Val)
	}

	return fmt.Sprintf("?%d:%d", o.Kind, o.Val)
}

func (o Operand) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, o.String())
}

func (op Op) Category() Category {
	switch op {
	case Nop:
		return CatNoOp
	case Assign:
		return CatAssign
	case Add, Sub, Mul, Div:
		return CatArith
	case Eq, Ne, Le, Ge, Lt, Gt, And, Or:
		return CatRel
	case Read, Print:
		return CatConsole
	case Goto, IfGoto:
		return CatControl
	}

	return CatInvalid
}

func (op Op) Valid() bool { return op < opCount }

func (op Op) String() string {
	if op.Valid() {
		return opNames[op]
	}

	return fmt.Sprintf("OP%d", int(op))
}

func (op Op) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, op.String())
}

// IsLabel reports whether the quad is a label marker.
func (q Quad) IsLabel() bool {
	return q.Op == Nop && q.Res.Kind == Label
}

func (p *Program) Len() int { return len(p.Quads) }

// Emit appends q and returns its index.
func (p *Program) Emit(q Quad) int {
	p.Quads = append(p.Quads, q)

	return len(p.Quads) - 1
}

// NewLabel allocates the next label number.
func (p *Program) NewLabel() Operand {
	l := LabelRef(p.Labels)
	p.Labels++

	return l
}

// NewTemp allocates the next temporary.
func (p *Program) NewTemp() Operand {
	t := TempRef(p.Temps)
	p.Temps++

	return t
}

// Mark emits a label marker for l.
func (p *Program) Mark(l Operand) int {
	return p.Emit(Quad{Op: Nop, Res: l})
}

func (p *Program) Clone() *Program {
	c := *p
	c.Quads = append([]Quad(nil), p.Quads...)

	return &c
}

func lookup(names Names, id int64) (string, bool) {
	if names == nil {
		return "", false
	}

	return names.NameOf(id)
}
