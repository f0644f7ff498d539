package compiler_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/cmm/compiler"
	"github.com/slowlang/cmm/compiler/front"
	"github.com/slowlang/cmm/compiler/interp"
	"github.com/slowlang/cmm/compiler/lex"
)

func TestCompileFileAndRun(t *testing.T) {
	name := filepath.Join(t.TempDir(), "program.cmm")

	err := os.WriteFile(name, []byte(`
// factorial
n = read();
f = 1;
while (n > 1) {
	f = f * n;
	n--;
}
print(f);
print('\n');
`), 0o644)
	require.NoError(t, err)

	ctx := context.Background()

	u, err := compiler.CompileFile(ctx, name)
	require.NoError(t, err)

	assert.Equal(t, name, u.Name)
	assert.NotEmpty(t, u.Tokens)
	assert.Contains(t, string(u.Dump()), "PRINT f _ -> _")

	var out bytes.Buffer

	_, err = interp.Run(ctx, u.Prog, strings.NewReader("5\n"), &out, interp.Options{})
	require.NoError(t, err)

	assert.Equal(t, "120\n", out.String())
}

func TestCompileFileMissing(t *testing.T) {
	u, err := compiler.CompileFile(context.Background(), filepath.Join(t.TempDir(), "nope.cmm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, u)
}

func TestCompileErrors(t *testing.T) {
	ctx := context.Background()

	u, err := compiler.Compile(ctx, "lex", []byte("a = 1;\n a = #;"))
	e, ok := lex.As(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, 2, e.Line)
	assert.Nil(t, u.Prog)

	u, err = compiler.Compile(ctx, "syntax", []byte("a = 1; print 2;"))
	se, ok := front.AsSyntaxError(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, front.ErrPrintOpen, se.Num)
	assert.Equal(t, 1, u.Prog.Len())

	u, err = compiler.Compile(ctx, "eof", []byte("while (1) {"))
	assert.ErrorIs(t, err, front.ErrIncomplete)
	assert.NotNil(t, u.Prog)
}

func TestCompilerMaxDepth(t *testing.T) {
	src := []byte("a = ((((1))));")

	c := compiler.Compiler{MaxDepth: 3}

	_, err := c.Compile(context.Background(), "deep", src)
	se, ok := front.AsSyntaxError(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, front.ErrTooDeep, se.Num)

	_, err = compiler.Compile(context.Background(), "deep", src)
	assert.NoError(t, err)
}

func TestLabelsResolve(t *testing.T) {
	src := `
i = 0;
while (i < 3) {
	j = 0;
	while (1) {
		j++;
		if (j > i) break; else continue;
	}
	if (i == 1) print('a'); else { print('b'); }
	i = i + 1;
}
`

	u, err := compiler.Compile(context.Background(), "labels", []byte(src))
	require.NoError(t, err)

	var out bytes.Buffer

	_, err = interp.Run(context.Background(), u.Prog, nil, &out, interp.Options{})
	require.NoError(t, err)

	assert.Equal(t, "bab", out.String())
}
