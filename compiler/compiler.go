package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cmm/compiler/front"
	"github.com/slowlang/cmm/compiler/ir"
	"github.com/slowlang/cmm/compiler/lex"
	"github.com/slowlang/cmm/compiler/symtab"
	"github.com/slowlang/cmm/compiler/token"
)

type (
	Compiler struct {
		// MaxDepth limits statement and expression nesting.
		MaxDepth int
	}

	// Unit is a translated source file.
	Unit struct {
		Name string

		Names  *symtab.Table
		Tokens []token.Token
		Prog   *ir.Program
	}
)

func CompileFile(ctx context.Context, name string) (*Unit, error) {
	var c Compiler

	return c.CompileFile(ctx, name)
}

func Compile(ctx context.Context, name string, text []byte) (*Unit, error) {
	var c Compiler

	return c.Compile(ctx, name, text)
}

func (c *Compiler) CompileFile(ctx context.Context, name string) (*Unit, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return c.Compile(ctx, name, text)
}

// Compile tokenizes and translates text.
// The unit is returned even on error holding everything produced so far.
func (c *Compiler) Compile(ctx context.Context, name string, text []byte) (u *Unit, err error) {
	u = &Unit{
		Name:  name,
		Names: symtab.New(),
	}

	u.Tokens, err = lex.Lex(ctx, text, u.Names)
	if err != nil {
		return u, errors.Wrap(err, "lex")
	}

	f := front.New()
	if c.MaxDepth != 0 {
		f.MaxDepth = c.MaxDepth
	}

	u.Prog, err = f.Translate(ctx, u.Tokens)
	if err != nil {
		return u, errors.Wrap(err, "translate")
	}

	return u, nil
}

// Dump returns the textual listing of the unit program.
func (u *Unit) Dump() []byte {
	if u.Prog == nil {
		return nil
	}

	return ir.Dump(nil, u.Prog, u.Names)
}
