package front

import (
	"github.com/slowlang/cmm/compiler/ir"
	"github.com/slowlang/cmm/compiler/token"
)

type binOp struct {
	cat token.Cat
	val int64
	op  ir.Op
}

var (
	relOps = []binOp{
		{token.Operator2, token.EqEq, ir.Eq},
		{token.Operator2, token.NotEq, ir.Ne},
		{token.Operator2, token.LessEq, ir.Le},
		{token.Operator2, token.MoreEq, ir.Ge},
		{token.Operator, token.Less, ir.Lt},
		{token.Operator, token.More, ir.Gt},
		{token.Operator2, token.And, ir.And},
		{token.Operator2, token.Or, ir.Or},
	}

	addOps = []binOp{
		{token.Operator, token.Plus, ir.Add},
		{token.Operator, token.Minus, ir.Sub},
	}

	mulOps = []binOp{
		{token.Operator, token.Multi, ir.Mul},
		{token.Operator, token.Slash, ir.Div},
	}
)

// parseExpr parses add_expr [ relop add_expr ].
func (s *state) parseExpr() (x ir.Operand, err error) {
	x, err = s.parseSum()
	if err != nil {
		return
	}

	op, ok := s.nextOp(relOps)
	if !ok {
		return x, nil
	}

	r, err := s.parseSum()
	if err != nil {
		return
	}

	return s.binary(op, x, r), nil
}

func (s *state) parseSum() (x ir.Operand, err error) {
	return s.leftToRight(addOps, s.parseTerm)
}

func (s *state) parseTerm() (x ir.Operand, err error) {
	return s.leftToRight(mulOps, s.parseFactor)
}

func (s *state) leftToRight(ops []binOp, arg func() (ir.Operand, error)) (x ir.Operand, err error) {
	x, err = arg()
	if err != nil {
		return
	}

	for {
		op, ok := s.nextOp(ops)
		if !ok {
			return x, nil
		}

		var r ir.Operand

		r, err = arg()
		if err != nil {
			return
		}

		x = s.binary(op, x, r)
	}
}

func (s *state) parseFactor() (x ir.Operand, err error) {
	t, err := s.next()
	if err != nil {
		return
	}

	err = s.enter(t)
	defer s.leave()
	if err != nil {
		return
	}

	switch {
	case t.Cat == token.Number:
		return ir.IntLit(t.Val), nil
	case t.Cat == token.Char:
		return ir.Operand{Kind: ir.Char, Val: t.Val}, nil
	case t.Cat == token.Variable:
		v := ir.VarRef(t.Val)

		if !s.is(token.Operator2, token.Inc) && !s.is(token.Operator2, token.Dec) {
			return v, nil
		}

		op := stepOp(s.toks[s.i])
		s.i++

		x = s.binary(op, v, ir.IntLit(0))
		s.emit(ir.Quad{Op: op, Arg1: v, Arg2: ir.IntLit(1), Res: v})

		return x, nil
	case t.Is(token.Operator, token.Plus):
		return s.parseFactor()
	case t.Is(token.Operator, token.Minus):
		x, err = s.parseFactor()
		if err != nil {
			return
		}

		return s.binary(ir.Sub, ir.IntLit(0), x), nil
	case t.Is(token.Operator, token.LParen):
		x, err = s.parseExpr()
		if err != nil {
			return
		}

		err = s.expect(token.RParen, ErrFactorClose)

		return x, err
	default:
		return x, s.syntaxError(ErrBadFactor, t)
	}
}

func (s *state) nextOp(ops []binOp) (ir.Op, bool) {
	t, ok := s.peek()
	if !ok {
		return 0, false
	}

	for _, op := range ops {
		if t.Is(op.cat, op.val) {
			s.i++

			return op.op, true
		}
	}

	return 0, false
}

// binary emits l op r into a fresh temporary.
func (s *state) binary(op ir.Op, l, r ir.Operand) ir.Operand {
	t := s.temp()

	s.emit(ir.Quad{Op: op, Arg1: l, Arg2: r, Res: t})

	return t
}
