package front

import (
	"github.com/slowlang/cmm/compiler/ir"
	"github.com/slowlang/cmm/compiler/token"
)

func (s *state) stmt() (err error) {
	t, err := s.next()
	if err != nil {
		return err
	}

	err = s.enter(t)
	defer s.leave()
	if err != nil {
		return err
	}

	switch {
	case t.Cat == token.Variable:
		return s.parseAssignment(t)
	case t.Is(token.Console, token.Read):
		err = s.parseReadCall()
		if err != nil {
			return err
		}

		s.emit(ir.Quad{Op: ir.Read})

		return s.semicolon()
	case t.Is(token.Console, token.Print):
		return s.parsePrint()
	case t.Is(token.Keyword, token.If):
		return s.parseIf(t)
	case t.Is(token.Keyword, token.While):
		return s.parseWhile(t)
	case t.Is(token.Keyword, token.Break), t.Is(token.Keyword, token.Continue):
		return s.parseBranch(t)
	case t.Is(token.Operator, token.LBrace):
		return s.parseBlock()
	default:
		return s.syntaxError(ErrBadStatement, t)
	}
}

func (s *state) semicolon() error {
	err := s.expect(token.Semicolon, ErrNoSemicolon)
	if err != nil {
		return err
	}

	for s.is(token.Operator, token.Semicolon) {
		s.i++
	}

	return nil
}

func (s *state) parseAssignment(id token.Token) error {
	v := ir.VarRef(id.Val)

	t, err := s.next()
	if err != nil {
		return err
	}

	switch {
	case t.Is(token.Operator2, token.Inc), t.Is(token.Operator2, token.Dec):
		s.emit(ir.Quad{Op: stepOp(t), Arg1: v, Arg2: ir.IntLit(1), Res: v})

		return s.semicolon()
	case !t.Is(token.Operator, token.Equals):
		return s.syntaxError(ErrAssignExpected, t)
	}

	if s.is(token.Console, token.Read) {
		s.i++

		err = s.parseReadCall()
		if err != nil {
			return err
		}

		s.emit(ir.Quad{Op: ir.Read, Res: v})

		return s.semicolon()
	}

	x, err := s.parseExpr()
	if err != nil {
		return err
	}

	s.emit(ir.Quad{Op: ir.Assign, Arg1: x, Res: v})

	return s.semicolon()
}

// parseReadCall parses the parens after read.
func (s *state) parseReadCall() error {
	err := s.expect(token.LParen, ErrReadOpen)
	if err != nil {
		return err
	}

	return s.expect(token.RParen, ErrReadClose)
}

func (s *state) parsePrint() error {
	err := s.expect(token.LParen, ErrPrintOpen)
	if err != nil {
		return err
	}

	x, err := s.parseExpr()
	if err != nil {
		return err
	}

	err = s.expect(token.RParen, ErrPrintClose)
	if err != nil {
		return err
	}

	s.emit(ir.Quad{Op: ir.Print, Arg1: x})

	return s.semicolon()
}

// parseCond parses '(' expr ')' and emits a jump to the returned label taken when expr is false.
func (s *state) parseCond(at token.Token, open, close int) (skip ir.Operand, err error) {
	err = s.expect(token.LParen, open)
	if err != nil {
		return
	}

	c, err := s.parseExpr()
	if err != nil {
		return
	}

	err = s.expect(token.RParen, close)
	if err != nil {
		return
	}

	skip, err = s.label(at)
	if err != nil {
		return
	}

	notc := s.temp()

	s.emit(ir.Quad{Op: ir.Eq, Arg1: c, Arg2: ir.IntLit(0), Res: notc})
	s.emit(ir.Quad{Op: ir.IfGoto, Arg1: notc, Res: skip})

	return skip, nil
}

func (s *state) parseIf(at token.Token) error {
	elseL, err := s.parseCond(at, ErrIfOpen, ErrIfClose)
	if err != nil {
		return err
	}

	err = s.stmt()
	if err != nil {
		return err
	}

	if !s.is(token.Keyword, token.Else) {
		s.mark(elseL)

		return nil
	}

	els := s.toks[s.i]
	s.i++

	endL, err := s.label(els)
	if err != nil {
		return err
	}

	s.emit(ir.Quad{Op: ir.Goto, Res: endL})
	s.mark(elseL)

	err = s.stmt()
	if err != nil {
		return err
	}

	s.mark(endL)

	return nil
}

func (s *state) parseWhile(at token.Token) error {
	startL, err := s.label(at)
	if err != nil {
		return err
	}

	s.mark(startL)

	endL, err := s.parseCond(at, ErrWhileOpen, ErrWhileClose)
	if err != nil {
		return err
	}

	s.loops = append(s.loops, loop{start: startL, end: endL})
	defer func() {
		s.loops = s.loops[:len(s.loops)-1]
	}()

	err = s.stmt()
	if err != nil {
		return err
	}

	s.emit(ir.Quad{Op: ir.Goto, Res: startL})
	s.mark(endL)

	return nil
}

func (s *state) parseBranch(t token.Token) error {
	if len(s.loops) == 0 {
		if t.Val == token.Break {
			return s.syntaxError(ErrBreakOutside, t)
		}

		return s.syntaxError(ErrContOutside, t)
	}

	l := s.loops[len(s.loops)-1]

	dst := l.end
	if t.Val == token.Continue {
		dst = l.start
	}

	s.emit(ir.Quad{Op: ir.Goto, Res: dst})

	return s.semicolon()
}

// parseBlock parses statements up to the matching closing brace.
// The opening brace is already consumed.
func (s *state) parseBlock() error {
	s.tr.V("blocks").Printw("block", "depth", s.depth)

	for {
		t, ok := s.peek()
		if !ok {
			return s.incomplete()
		}

		if t.Is(token.Operator, token.RBrace) {
			break
		}

		err := s.stmt()
		if err != nil {
			return err
		}
	}

	return s.expect(token.RBrace, ErrBlockClose)
}

func stepOp(t token.Token) ir.Op {
	if t.Val == token.Dec {
		return ir.Sub
	}

	return ir.Add
}
