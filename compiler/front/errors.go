package front

import "fmt"

// Syntax error numbers.
const (
	ErrGeneric = 1

	ErrAssignExpected = 3

	ErrReadOpen  = 4
	ErrReadClose = 5

	ErrPrintOpen  = 6
	ErrPrintClose = 7

	ErrIfOpen  = 8
	ErrIfClose = 9

	ErrWhileOpen  = 10
	ErrWhileClose = 11

	ErrBlockClose = 12

	ErrBadStatement  = 13
	ErrFactorClose   = 14
	ErrBadFactor     = 15
	ErrNoSemicolon   = 16
	ErrBreakOutside  = 17
	ErrContOutside   = 18
	ErrTooDeep       = 19
	ErrTooManyLabels = 20
)

var messages = map[int]string{
	ErrGeneric:        "Generic error!",
	ErrAssignExpected: `"=" symbol expected after identifier!`,
	ErrReadOpen:       `"(" symbol expected after "read"!`,
	ErrReadClose:      `")" symbol expected after "read("!`,
	ErrPrintOpen:      `"(" symbol expected after "print"!`,
	ErrPrintClose:     `")" symbol expected after "print(expression"!`,
	ErrIfOpen:         `"(" symbol expected after "if"!`,
	ErrIfClose:        `")" symbol expected after "if(expression"!`,
	ErrWhileOpen:      `"(" symbol expected after "while"!`,
	ErrWhileClose:     `")" symbol expected after "while(expression"!`,
	ErrBlockClose:     `"}" symbol expected at the end of block!`,
	ErrBadStatement:   "Statement cannot be recognized!",
	ErrFactorClose:    `")" symbol expected after expression to form a factor!`,
	ErrBadFactor:      "Factor cannot be recognized!",
	ErrNoSemicolon:    `";" symbol expected at the end of statement!`,
	ErrBreakOutside:   `"break" outside of a loop!`,
	ErrContOutside:    `"continue" outside of a loop!`,
	ErrTooDeep:        "Nesting is too deep!",
	ErrTooManyLabels:  "Too many labels!",
}

// Message returns the human readable text of syntax error num.
func Message(num int) string {
	if m, ok := messages[num]; ok {
		return m
	}

	return fmt.Sprintf("%s (%d)", messages[ErrGeneric], num)
}
