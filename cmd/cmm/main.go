package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cmm/compiler"
	"github.com/slowlang/cmm/compiler/front"
	"github.com/slowlang/cmm/compiler/interp"
	"github.com/slowlang/cmm/compiler/lex"
	"github.com/slowlang/cmm/config"
)

type (
	// console is the process environment actions read from and write to.
	console struct {
		stdin  io.Reader
		stdout *bufio.Writer
		stderr io.Writer
	}
)

const verboseTopics = "lex_tokens,dump_quads,emit,exec_trace"

func main() {
	con := &console{
		stdin:  bufio.NewReader(os.Stdin),
		stdout: bufio.NewWriter(os.Stdout),
		stderr: os.Stderr,
	}

	atexit.Register(func() {
		_ = con.stdout.Flush()
	})

	atexit.Exit(con.exec(os.Args, os.Environ()))
}

// exec runs the command line and returns the process exit code.
func (con *console) exec(args, env []string) int {
	err := cli.Run(con.app(), args, env)

	_ = con.stdout.Flush()

	if err != nil {
		fmt.Fprintf(con.stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func (con *console) app() *cli.Command {
	runCmd := &cli.Command{
		Name:        "run",
		Description: "translate and execute program",
		Action:      con.runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("newline", false, "print each value on its own line"),
			cli.NewFlag("dump", false, "print variable table after execution"),
			cli.NewFlag("max-steps", 0, "stop after that many executed quads (0 is unlimited)"),
		},
	}

	quadsCmd := &cli.Command{
		Name:        "quads",
		Description: "translate program and print quads",
		Action:      con.quadsAct,
		Args:        cli.Args{},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print token stream",
		Action:      con.tokensAct,
		Args:        cli.Args{},
	}

	return &cli.Command{
		Name:        "cmm",
		Description: "cmm translates c-- programs into quads and interprets them",
		Before:      con.before,
		Flags: []*cli.Flag{
			cli.NewFlag("config", "", "yaml settings file"),
			cli.NewFlag("verbose", false, "trace translator and interpreter to stderr"),
			cli.NewFlag("quiet,q", false, "do not report errors"),
			cli.NewFlag("v", "", "trace verbosity topics"),
			cli.FlagfileFlag,
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			runCmd,
			quadsCmd,
			tokensCmd,
		},
	}
}

// before silences tracing until the config tells otherwise.
func (con *console) before(c *cli.Command) error {
	tlog.DefaultLogger = tlog.New(io.Discard)

	return nil
}

func (con *console) setup(c *cli.Command) (ctx context.Context, cfg config.Config, name string, err error) {
	cfg, err = config.Load(c.String("config"))
	if err != nil {
		return nil, cfg, "", err
	}

	if c.Bool("verbose") {
		cfg.Verbose = true
	}

	if c.Bool("quiet") {
		cfg.Diagnostics = false
	}

	topics := c.String("v")

	if cfg.Verbose || topics != "" {
		tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(con.stderr, tlog.LstdFlags))

		if topics == "" {
			topics = verboseTopics
		}

		tlog.SetVerbosity(topics)
	}

	name = cfg.Input
	if len(c.Args) != 0 {
		name = c.Args[0]
	}

	ctx = context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return ctx, cfg, name, nil
}

func (con *console) compile(ctx context.Context, cfg config.Config, name string) (*compiler.Unit, error) {
	cmp := compiler.Compiler{
		MaxDepth: cfg.MaxDepth,
	}

	u, err := cmp.CompileFile(ctx, name)
	if u == nil {
		return nil, errors.Wrap(err, "compile %v", name)
	}

	if err != nil {
		con.report(cfg, err)
	}

	return u, err
}

func (con *console) runAct(c *cli.Command) (err error) {
	ctx, cfg, name, err := con.setup(c)
	if err != nil {
		return err
	}

	if c.Bool("newline") {
		cfg.PrintNewline = true
	}

	if c.Bool("dump") {
		cfg.Dump = true
	}

	if n := c.Int("max-steps"); n != 0 {
		cfg.MaxSteps = n
	}

	u, err := con.compile(ctx, cfg, name)
	if u == nil {
		return err
	}
	if err != nil {
		return nil
	}

	m, err := interp.Run(ctx, u.Prog, con.stdin, con.stdout, interp.Options{
		Prompt:   cfg.Prompt,
		Newline:  cfg.PrintNewline,
		MaxSteps: cfg.MaxSteps,
	})
	if err != nil {
		con.report(cfg, err)
	}

	if m != nil && cfg.Dump {
		con.dumpVars(m, u)
	}

	return nil
}

func (con *console) quadsAct(c *cli.Command) (err error) {
	ctx, cfg, name, err := con.setup(c)
	if err != nil {
		return err
	}

	u, err := con.compile(ctx, cfg, name)
	if u == nil {
		return err
	}

	_, _ = con.stdout.Write(u.Dump())

	return nil
}

func (con *console) tokensAct(c *cli.Command) (err error) {
	ctx, cfg, name, err := con.setup(c)
	if err != nil {
		return err
	}

	u, err := con.compile(ctx, cfg, name)
	if u == nil {
		return err
	}

	for _, t := range u.Tokens {
		fmt.Fprintf(con.stdout, "%4d  %v\n", t.Line, t)
	}

	return nil
}

func (con *console) dumpVars(m *interp.Machine, u *compiler.Unit) {
	tw := table.NewWriter()
	tw.SetTitle("Variables")
	tw.AppendHeader(table.Row{"Name", "ID", "Kind", "Value"})

	for _, v := range m.Dump(u.Names) {
		tw.AppendRow(table.Row{v.Name, v.Operand.ID(), v.Kind, v.Format()})
	}

	fmt.Fprintf(con.stdout, "\n%s\n", tw.Render())
}

// report is the only place translation and runtime errors are written.
func (con *console) report(cfg config.Config, err error) {
	_ = con.stdout.Flush()

	if !cfg.Diagnostics {
		return
	}

	fmt.Fprintf(con.stderr, "%s\n", diagnostic(err))
}

func diagnostic(err error) string {
	if e, ok := lex.As(err); ok {
		return e.Error()
	}

	if e, ok := front.AsSyntaxError(err); ok {
		return e.Error()
	}

	var ie *front.IncompleteError
	if errors.As(err, &ie) {
		return ie.Error()
	}

	var re *interp.RuntimeError
	if errors.As(err, &re) {
		return re.Error()
	}

	return err.Error()
}
