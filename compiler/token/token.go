package token

import "fmt"

type (
	Cat uint8

	Token struct {
		Cat  Cat
		Val  int64
		Line int
	}
)

// Token categories.
const (
	Variable Cat = iota
	Number
	Char
	Keyword
	Bool
	Console
	Operator
	Operator2
)

// Operator payloads.
const (
	Plus = iota
	Minus
	Equals
	Slash
	Multi
	Not
	Less
	More
	LParen
	RParen
	LBrace
	RBrace
	Semicolon
	Dot
)

// Operator2 payloads.
const (
	LineComment = iota
	EqEq
	NotEq
	LessEq
	MoreEq
	Inc
	Dec
	And
	Or
)

// Keyword payloads.
const (
	If = iota
	Else
	For
	While
	Break
	Continue
	Return
)

// Bool payloads.
const (
	True = iota
	False
	Null
)

// Console payloads.
const (
	Read = iota
	Print
)

var (
	Operators  = []string{"+", "-", "=", "/", "*", "!", "<", ">", "(", ")", "{", "}", ";", "."}
	Operators2 = []string{"//", "==", "!=", "<=", ">=", "++", "--", "&&", "||"}
	Keywords   = []string{"if", "else", "for", "while", "break", "continue", "return"}
	Bools      = []string{"true", "false", "null"}
	Consoles   = []string{"read", "print"}

	catNames = []string{"variable", "number", "char", "keyword", "bool", "console", "operator", "operator2"}
)

func (t Token) Is(c Cat, v int64) bool {
	return t.Cat == c && t.Val == v
}

func (t Token) String() string {
	switch t.Cat {
	case Variable:
		return fmt.Sprintf("v%d", t.Val)
	case Number:
		return fmt.Sprintf("%d", t.Val)
	case Char:
		return fmt.Sprintf("%q", rune(t.Val))
	case Keyword:
		return word(Keywords, t.Val)
	case Bool:
		return word(Bools, t.Val)
	case Console:
		return word(Consoles, t.Val)
	case Operator:
		return word(Operators, t.Val)
	case Operator2:
		return word(Operators2, t.Val)
	}

	return fmt.Sprintf("%v(%d)", t.Cat, t.Val)
}

func (c Cat) String() string {
	if int(c) < len(catNames) {
		return catNames[c]
	}

	return fmt.Sprintf("cat%d", int(c))
}

func word(l []string, v int64) string {
	if v >= 0 && v < int64(len(l)) {
		return l[v]
	}

	return fmt.Sprintf("?%d", v)
}
