package interp

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cmm/compiler/ir"
)

type (
	Options struct {
		// Prompt is written before every read.
		Prompt string

		// Newline puts every printed value on its own line prefixed with OutputPrefix.
		Newline bool

		// MaxSteps limits the number of executed quads. 0 means unlimited.
		MaxSteps int
	}

	// Machine executes one quad program.
	Machine struct {
		Options

		prog  *ir.Program
		index ir.Index

		store store

		pc    int
		steps int

		in  *console
		out io.Writer
		buf []byte
	}

	RuntimeError struct {
		PC   int
		Quad ir.Quad
		Err  error
	}

	flusher interface {
		Flush() error
	}
)

const OutputPrefix = "Output: "

var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrBadOpcode       = errors.New("unhandled opcode")
	ErrUnresolvedLabel = ir.ErrUnresolvedLabel
)

// New prepares p for execution. All jump targets are resolved here.
func New(p *ir.Program, opts Options) (*Machine, error) {
	index, err := ir.NewIndex(p)
	if err != nil {
		return nil, errors.Wrap(err, "build label index")
	}

	return &Machine{
		Options: opts,
		prog:    p,
		index:   index,
		store:   make(store),
	}, nil
}

// Run creates a Machine for p and runs it.
func Run(ctx context.Context, p *ir.Program, in io.Reader, out io.Writer, opts Options) (*Machine, error) {
	m, err := New(p, opts)
	if err != nil {
		return nil, err
	}

	return m, m.Run(ctx, in, out)
}

func (m *Machine) Run(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "interp: run", "quads", m.prog.Len(), "labels", m.index.Len())
	defer tr.Finish("steps", &m.steps, "err", &err)

	m.in = newConsole(in)
	m.out = out
	m.pc = 0

	defer func() {
		f, ok := out.(flusher)
		if !ok {
			return
		}

		if e := f.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "flush output")
		}
	}()

	for m.pc < len(m.prog.Quads) {
		if m.MaxSteps != 0 && m.steps >= m.MaxSteps {
			return m.fault(ErrStepLimit)
		}

		m.steps++

		if tr.If("exec_trace") {
			q := m.prog.Quads[m.pc]
			tr.Printw("exec", "pc", m.pc, "op", q.Op, "arg1", q.Arg1, "arg2", q.Arg2, "res", q.Res)
		}

		err = m.step()
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) step() (err error) {
	q := m.prog.Quads[m.pc]

	switch q.Op {
	case ir.Nop:
	case ir.Goto:
		return m.jump(q.Res)
	case ir.IfGoto:
		if m.store.value(q.Arg1) != 0 {
			return m.jump(q.Res)
		}
	case ir.Read:
		err = m.read(q.Res)
	case ir.Print:
		err = m.print(q.Arg1)
	case ir.Assign:
		m.store.set(q.Res, m.store.value(q.Arg1), m.store.kind(q.Arg1))
	case ir.Add, ir.Sub, ir.Mul, ir.Div:
		var v int64

		v, err = arith(q.Op, m.store.value(q.Arg1), m.store.value(q.Arg2))
		if err != nil {
			return m.fault(err)
		}

		m.store.set(q.Res, v, Integer)
	case ir.Eq, ir.Ne, ir.Le, ir.Ge, ir.Lt, ir.Gt, ir.And, ir.Or:
		v := compare(q.Op, m.store.value(q.Arg1), m.store.value(q.Arg2))

		m.store.set(q.Res, v, Integer)
	default:
		return m.fault(ErrBadOpcode)
	}

	if err != nil {
		return m.fault(err)
	}

	m.pc++

	return nil
}

func (m *Machine) jump(l ir.Operand) error {
	off, ok := m.index.Lookup(l)
	if !ok {
		return m.fault(errors.Wrap(ErrUnresolvedLabel, "%v", l))
	}

	m.pc = off

	return nil
}

func (m *Machine) read(dst ir.Operand) (err error) {
	if m.Prompt != "" {
		_, err = io.WriteString(m.out, m.Prompt)
		if err != nil {
			return errors.Wrap(err, "write prompt")
		}
	}

	if f, ok := m.out.(flusher); ok {
		err = f.Flush()
		if err != nil {
			return errors.Wrap(err, "flush output")
		}
	}

	if dst.IsZero() {
		_, err = m.in.word()
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	}

	if m.store.kind(dst) == Character {
		c, err := m.in.char()
		if errors.Is(err, io.EOF) {
			m.store.set(dst, 0, Integer)
			return nil
		}
		if err != nil {
			return err
		}

		m.store.set(dst, int64(c), Character)

		return nil
	}

	w, err := m.in.word()
	if errors.Is(err, io.EOF) {
		m.store.set(dst, 0, Integer)
		return nil
	}
	if err != nil {
		return err
	}

	v, k := classify(w)
	m.store.set(dst, v, k)

	return nil
}

// classify interprets an input word as a character literal, a number or a character.
// A word starting with a number is that number: 12abc is 12.
func classify(w string) (int64, Kind) {
	if len(w) == 3 && w[0] == '\'' && w[2] == '\'' {
		return int64(w[1]), Character
	}

	if v, ok := leadingInt(w); ok {
		return v, Integer
	}

	return int64(w[0]), Character
}

// leadingInt parses the longest [+-]?[0-9]+ prefix of w.
func leadingInt(w string) (int64, bool) {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}

	j := i
	for j < len(w) && w[j] >= '0' && w[j] <= '9' {
		j++
	}

	if j == i {
		return 0, false
	}

	v, err := strconv.ParseInt(w[:j], 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func (m *Machine) print(x ir.Operand) (err error) {
	v := m.store.value(x)

	m.buf = m.buf[:0]

	if m.Newline {
		m.buf = append(m.buf, OutputPrefix...)
	}

	if m.store.kind(x) == Character {
		m.buf = append(m.buf, byte(v))
	} else {
		m.buf = strconv.AppendInt(m.buf, v, 10)
	}

	if m.Newline {
		m.buf = append(m.buf, '\n')
	}

	_, err = m.out.Write(m.buf)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}

func arith(op ir.Op, l, r int64) (int64, error) {
	switch op {
	case ir.Add:
		return l + r, nil
	case ir.Sub:
		return l - r, nil
	case ir.Mul:
		return l * r, nil
	case ir.Div:
		if r == 0 {
			return 0, ErrDivisionByZero
		}

		return l / r, nil
	}

	return 0, ErrBadOpcode
}

func compare(op ir.Op, l, r int64) int64 {
	var res bool

	switch op {
	case ir.Eq:
		res = l == r
	case ir.Ne:
		res = l != r
	case ir.Le:
		res = l <= r
	case ir.Ge:
		res = l >= r
	case ir.Lt:
		res = l < r
	case ir.Gt:
		res = l > r
	case ir.And:
		res = l != 0 && r != 0
	case ir.Or:
		res = l != 0 || r != 0
	}

	if res {
		return 1
	}

	return 0
}

func (m *Machine) fault(err error) error {
	return &RuntimeError{
		PC:   m.pc,
		Quad: m.prog.Quads[m.pc],
		Err:  err,
	}
}

// PC returns the index of the next quad to execute.
func (m *Machine) PC() int { return m.pc }

// Steps returns the number of executed quads.
func (m *Machine) Steps() int { return m.steps }

// Value returns the current value of a variable or temporary.
func (m *Machine) Value(o ir.Operand) (int64, Kind) {
	return m.store.value(o), m.store.kind(o)
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at [%d] %v: %v", e.PC, e.Quad, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
