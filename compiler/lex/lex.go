package lex

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cmm/compiler/symtab"
	"github.com/slowlang/cmm/compiler/token"
)

type (
	Error struct {
		Line int
		Msg  string
		Char byte
	}

	state struct {
		b    []byte
		line int
		tab  *symtab.Table
	}
)

const (
	MsgSingleChar   = "Single character expected!"
	MsgUnrecognized = "Unrecognized character!"
	MsgBigNumber    = "Number is too big!"
	MsgTooManyVars  = "Too many variables!"
)

// Lex splits text into tokens registering identifiers in tab.
func Lex(ctx context.Context, text []byte, tab *symtab.Table) (toks []token.Token, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "lex", "size", len(text))
	defer tr.Finish("err", &err)

	s := &state{
		b:    text,
		line: 1,
		tab:  tab,
	}

	for i := s.skipSpaces(0); i < len(s.b); i = s.skipSpaces(i) {
		var t token.Token
		var skip bool

		t, skip, i, err = s.next(i)
		if err != nil {
			return toks, err
		}

		if skip {
			continue
		}

		tr.V("lex_tokens").Printw("token", "line", t.Line, "cat", t.Cat, "tk", t.String())

		toks = append(toks, t)
	}

	return toks, nil
}

func (s *state) next(st int) (t token.Token, skip bool, i int, err error) {
	c := s.b[st]

	t.Line = s.line

	switch {
	case isLetter(c):
		i = skipIdent(s.b, st)
		t, err = s.ident(string(s.b[st:i]))
	case isDigit(c):
		i = skipNum(s.b, st)

		t.Cat = token.Number
		t.Val, err = strconv.ParseInt(string(s.b[st:i]), 10, 64)
		if err != nil {
			err = s.errorf(c, MsgBigNumber)
		}
	case c == '\'':
		t.Cat = token.Char
		t.Val, i, err = s.char(st)
	case c == '/' && st+1 < len(s.b) && s.b[st+1] == '/':
		return t, true, skipLine(s.b, st), nil
	case isOperator(c):
		t, i, err = s.operator(st)
	default:
		err = s.errorf(c, MsgUnrecognized)
	}

	t.Line = s.line

	return t, false, i, err
}

func (s *state) ident(w string) (t token.Token, err error) {
	for _, kw := range []struct {
		cat   token.Cat
		words []string
	}{
		{token.Keyword, token.Keywords},
		{token.Bool, token.Bools},
		{token.Console, token.Consoles},
	} {
		for j, x := range kw.words {
			if w == x {
				return token.Token{Cat: kw.cat, Val: int64(j)}, nil
			}
		}
	}

	id, err := s.tab.Register(w)
	if err != nil {
		return t, s.errorf(w[0], MsgTooManyVars)
	}

	return token.Token{Cat: token.Variable, Val: id}, nil
}

func (s *state) char(st int) (v int64, i int, err error) {
	b := s.b

	if st+3 < len(b) && b[st+1] == '\\' && b[st+3] == '\'' {
		switch c := b[st+2]; c {
		case 'n':
			v = '\n'
		case 't':
			v = '\t'
		default:
			v = int64(c)
		}

		return v, st + 4, nil
	}

	if st+2 < len(b) && b[st+2] == '\'' {
		return int64(b[st+1]), st + 3, nil
	}

	var c byte
	if st+1 < len(b) {
		c = b[st+1]
	}

	return 0, st, s.errorf(c, MsgSingleChar)
}

func (s *state) operator(st int) (t token.Token, i int, err error) {
	if st+1 < len(s.b) && isOperator(s.b[st+1]) {
		op := string(s.b[st : st+2])

		for j, x := range token.Operators2 {
			if op == x {
				return token.Token{Cat: token.Operator2, Val: int64(j)}, st + 2, nil
			}
		}
	}

	for j, x := range token.Operators {
		if s.b[st] == x[0] {
			return token.Token{Cat: token.Operator, Val: int64(j)}, st + 1, nil
		}
	}

	return t, st, s.errorf(s.b[st], MsgUnrecognized)
}

func (s *state) skipSpaces(i int) int {
	for i < len(s.b) {
		switch s.b[i] {
		case '\n':
			s.line++
		case ' ', '\t', '\r':
		default:
			return i
		}

		i++
	}

	return i
}

func (s *state) errorf(c byte, msg string) error {
	return &Error{Line: s.line, Msg: msg, Char: c}
}

func (e *Error) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("LEX ERROR: %s - line %d", e.Msg, e.Line)
	}

	return fmt.Sprintf("LEX ERROR: %s '%c' - line %d", e.Msg, e.Char, e.Line)
}

// As reports whether err is a lexical error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)

	return e, ok
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '=', '/', '*', '!', '<', '>', '(', ')', '{', '}', ';', '.', '\'', '&', '|':
		return true
	}

	return false
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isLetter(b[i]) || isDigit(b[i]) || b[i] == '_') {
		i++
	}

	return i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && isDigit(b[i]) {
		i++
	}

	return i
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}
