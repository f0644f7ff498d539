package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/cmm/compiler/ir"
	"github.com/slowlang/cmm/compiler/token"
)

type (
	// Front translates a token stream into a quad program in a single pass.
	Front struct {
		MaxDepth int
	}

	state struct {
		tr tlog.Span

		toks []token.Token
		i    int

		p *ir.Program

		loops []loop

		depth int

		maxDepth int
	}

	loop struct {
		start, end ir.Operand
	}

	SyntaxError struct {
		Num  int
		Msg  string
		Line int
	}

	// IncompleteError is returned when input ends in the middle of a construct.
	IncompleteError struct {
		Line int
	}
)

const DefaultMaxDepth = 200

var ErrIncomplete = errors.New("unexpected end of file")

func New() *Front {
	return &Front{MaxDepth: DefaultMaxDepth}
}

// Translate is a shortcut for New().Translate.
func Translate(ctx context.Context, toks []token.Token) (*ir.Program, error) {
	return New().Translate(ctx, toks)
}

// Translate parses toks and returns the emitted program.
// On error the program contains quads emitted so far.
// Input ending inside a statement is reported as IncompleteError, which matches ErrIncomplete.
func (f *Front) Translate(ctx context.Context, toks []token.Token) (p *ir.Program, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: translate", "tokens", len(toks))
	defer tr.Finish("err", &err)

	s := &state{
		tr:       tr,
		toks:     toks,
		p:        &ir.Program{},
		maxDepth: f.MaxDepth,
	}

	if s.maxDepth <= 0 {
		s.maxDepth = DefaultMaxDepth
	}

	for !s.atEOF() {
		err = s.stmt()
		if err != nil {
			return s.p, err
		}
	}

	if tr.If("dump_quads") {
		for i, q := range s.p.Quads {
			tr.Printw("quad", "i", i, "op", q.Op, "arg1", q.Arg1, "arg2", q.Arg2, "res", q.Res)
		}
	}

	tr.Printw("translated", "quads", s.p.Len(), "labels", s.p.Labels, "temps", s.p.Temps)

	return s.p, nil
}

func (s *state) atEOF() bool {
	return s.i >= len(s.toks)
}

func (s *state) peek() (token.Token, bool) {
	if s.atEOF() {
		return token.Token{}, false
	}

	return s.toks[s.i], true
}

func (s *state) is(c token.Cat, v int64) bool {
	t, ok := s.peek()

	return ok && t.Is(c, v)
}

func (s *state) next() (t token.Token, err error) {
	if s.atEOF() {
		return t, s.incomplete()
	}

	t = s.toks[s.i]
	s.i++

	return t, nil
}

// expect consumes the next token failing with syntax error num if it's not an operator v.
func (s *state) expect(v int64, num int) error {
	t, err := s.next()
	if err != nil {
		return err
	}

	if !t.Is(token.Operator, v) {
		return s.syntaxError(num, t)
	}

	return nil
}

func (s *state) emit(q ir.Quad) int {
	i := s.p.Emit(q)

	s.tr.V("emit").Printw("emit", "i", i, "op", q.Op, "arg1", q.Arg1, "arg2", q.Arg2, "res", q.Res)

	return i
}

func (s *state) mark(l ir.Operand) {
	i := s.p.Mark(l)

	s.tr.V("emit").Printw("mark", "i", i, "label", l)
}

func (s *state) temp() ir.Operand {
	return s.p.NewTemp()
}

func (s *state) label(at token.Token) (ir.Operand, error) {
	if s.p.Labels >= ir.MaxLabels {
		return ir.Operand{}, s.syntaxError(ErrTooManyLabels, at)
	}

	return s.p.NewLabel(), nil
}

func (s *state) enter(at token.Token) error {
	s.depth++

	if s.depth > s.maxDepth {
		return s.syntaxError(ErrTooDeep, at)
	}

	return nil
}

func (s *state) leave() {
	s.depth--
}

func (s *state) syntaxError(num int, at token.Token) error {
	e := &SyntaxError{
		Num:  num,
		Msg:  Message(num),
		Line: at.Line,
	}

	s.tr.V("syntax_error").Printw("syntax error", "num", num, "line", at.Line, "tk", at.String(), "from", loc.Caller(1))

	return e
}

func (s *state) incomplete() error {
	var line int
	if len(s.toks) != 0 {
		line = s.toks[len(s.toks)-1].Line
	}

	s.tr.V("syntax_error").Printw("unexpected end of file", "line", line, "from", loc.Caller(2))

	return &IncompleteError{Line: line}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SYNTAX ERROR %d: %s - line %d", e.Num, e.Msg, e.Line)
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%v - line %d", ErrIncomplete, e.Line)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// AsSyntaxError reports whether err is a syntax error.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var e *SyntaxError
	ok := errors.As(err, &e)

	return e, ok
}
