package interp

import (
	"bytes"
	"context"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"tlog.app/go/errors"

	"github.com/slowlang/cmm/compiler"
	"github.com/slowlang/cmm/compiler/ir"
)

func compile(src string) *compiler.Unit {
	GinkgoHelper()

	u, err := compiler.Compile(context.Background(), "test.cmm", []byte(src))
	Expect(err).NotTo(HaveOccurred())

	return u
}

func run(src, input string, opts Options) (string, *Machine, error) {
	GinkgoHelper()

	u := compile(src)

	var out bytes.Buffer

	m, err := Run(context.Background(), u.Prog, strings.NewReader(input), &out, opts)

	return out.String(), m, err
}

func varValue(m *Machine, u *compiler.Unit, name string) (int64, Kind) {
	GinkgoHelper()

	s, ok := u.Names.Lookup(name)
	Expect(ok).To(BeTrue(), "variable %v", name)

	return m.Value(ir.VarRef(s.Val))
}

var _ = Describe("Machine", func() {
	Describe("arithmetic", func() {
		It("should respect precedence", func() {
			out, _, err := run("a = 1 + 2 * 3; print(a); print((1 + 2) * 3); print(10 - 4 - 3);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("793"))
		})

		It("should wrap around", func() {
			out, _, err := run("a = 9223372036854775807 + 1; print(a);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("-9223372036854775808"))
		})

		It("should truncate division", func() {
			out, _, err := run("print(7 / 2); print(-7 / 2);", "", Options{Newline: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("Output: 3\nOutput: -3\n"))
		})

		It("should stop on division by zero", func() {
			u := compile("a = 1; print(a); b = a / 0; print(b);")

			var out bytes.Buffer

			m, err := Run(context.Background(), u.Prog, nil, &out, Options{})
			Expect(err).To(MatchError(ErrDivisionByZero))
			Expect(out.String()).To(Equal("1"))

			var re *RuntimeError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Quad.Op).To(Equal(ir.Div))

			v, k := varValue(m, u, "a")
			Expect(v).To(Equal(int64(1)))
			Expect(k).To(Equal(Integer))
		})
	})

	Describe("relational", func() {
		It("should yield 0 or 1", func() {
			out, _, err := run("print(3 >= 3); print(3 < 3); print(2 != 3); print(1 && 0); print(2 || 0); print(0 || 0);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("101010"))
		})
	})

	Describe("control flow", func() {
		It("should terminate loops", func() {
			out, m, err := run("i = 0; while (i < 5) { print(i); i = i + 1; }", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("01234"))
			Expect(m.PC()).To(Equal(m.prog.Len()))
		})

		It("should break and continue", func() {
			src := `
i = 0;
while (1) {
	i = i + 1;
	if (i == 2) continue;
	if (i > 4) break;
	print(i);
}
print('.');
`

			out, _, err := run(src, "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("134."))
		})

		It("should take else branch", func() {
			out, _, err := run("a = 5; if (a < 3) print('s'); else print('b'); if (a) print('t');", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("bt"))
		})

		It("should stop at step limit", func() {
			_, m, err := run("while (1) a = 1;", "", Options{MaxSteps: 100})
			Expect(err).To(MatchError(ErrStepLimit))
			Expect(m.Steps()).To(Equal(100))
		})
	})

	Describe("console", func() {
		It("should round trip characters", func() {
			out, _, err := run("c = read(); print(c);", "x", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("x"))

			out, _, err = run("c = read(); print(c);", " 'y' ", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("y"))
		})

		It("should classify input words", func() {
			src := "a = read(); b = read(); c = read();"
			u := compile(src)

			m, err := Run(context.Background(), u.Prog, strings.NewReader("42 -3\nabc"), &bytes.Buffer{}, Options{})
			Expect(err).NotTo(HaveOccurred())

			v, k := varValue(m, u, "a")
			Expect(v).To(Equal(int64(42)))
			Expect(k).To(Equal(Integer))

			v, k = varValue(m, u, "b")
			Expect(v).To(Equal(int64(-3)))
			Expect(k).To(Equal(Integer))

			v, k = varValue(m, u, "c")
			Expect(v).To(Equal(int64('a')))
			Expect(k).To(Equal(Character))
		})

		It("should take leading number of a word", func() {
			for _, tc := range []struct {
				word string
				val  int64
				kind Kind
			}{
				{"12abc", 12, Integer},
				{"+5", 5, Integer},
				{"-7x", -7, Integer},
				{"-", '-', Character},
				{"x12", 'x', Character},
				{"99999999999999999999", '9', Character},
			} {
				v, k := classify(tc.word)
				Expect(v).To(Equal(tc.val), "word %q", tc.word)
				Expect(k).To(Equal(tc.kind), "word %q", tc.word)
			}

			out, _, err := run("x = read(); print(x); print(x + 1);", "12abc", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("1213"))
		})

		It("should read single character into character variable", func() {
			out, _, err := run("c = 'a'; c = read(); print(c); d = read(); print(d);", "12 34", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("12"))
		})

		It("should discard input of bare read", func() {
			out, _, err := run("read(); a = read(); print(a);", "5 6", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("6"))
		})

		It("should read zero at end of input", func() {
			out, _, err := run("a = 'z'; a = read(); print(a); b = read(); print(b);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("00"))
		})

		It("should prompt before read", func() {
			out, _, err := run("a = read(); print(a);", "3", Options{Prompt: "Input: ", Newline: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("Input: Output: 3\n"))
		})
	})

	Describe("kinds", func() {
		It("should follow reassignment", func() {
			out, _, err := run("a = 'x'; print(a); a = 1; print(a); b = a; a = 'y'; print(b); print(a);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("x11y"))
		})

		It("should make arithmetic results integers", func() {
			out, _, err := run("a = 'a' + 1; print(a); b = 'b'; c = b; print(c);", "", Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("98b"))
		})
	})

	Describe("internal errors", func() {
		It("should reject unresolved labels", func() {
			p := &ir.Program{}
			p.Emit(ir.Quad{Op: ir.Goto, Res: ir.LabelRef(5)})

			_, err := New(p, Options{})
			Expect(err).To(MatchError(ErrUnresolvedLabel))
		})

		It("should reject unknown opcodes", func() {
			p := &ir.Program{}
			p.Emit(ir.Quad{Op: ir.Op(200)})

			_, err := Run(context.Background(), p, nil, &bytes.Buffer{}, Options{})
			Expect(err).To(MatchError(ErrBadOpcode))
		})
	})

	Describe("Dump", func() {
		var (
			mockCtrl  *gomock.Controller
			mockNames *MockNames
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockNames = NewMockNames(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should list variables by id then temporaries", func() {
			u := compile("b = 2; a = 'q'; b = b * 3;")

			m, err := Run(context.Background(), u.Prog, nil, &bytes.Buffer{}, Options{})
			Expect(err).NotTo(HaveOccurred())

			mockNames.EXPECT().NameOf(int64(0)).Return("b", true)
			mockNames.EXPECT().NameOf(int64(1)).Return("", false)

			vars := m.Dump(mockNames)
			Expect(vars).To(HaveLen(3))

			Expect(vars[0].String()).To(Equal("b = 6"))
			Expect(vars[1].String()).To(Equal("v1 = 'q'"))
			Expect(vars[1].Kind).To(Equal(Character))
			Expect(vars[2].String()).To(Equal("t0 = 6"))
			Expect(vars[2].Operand.ID()).To(Equal(int64(ir.TempBase)))
		})

		It("should fall back to ids without names", func() {
			_, m, err := run("x = 1;", "", Options{})
			Expect(err).NotTo(HaveOccurred())

			vars := m.Dump(nil)
			Expect(vars).To(HaveLen(1))
			Expect(vars[0].Name).To(Equal("v0"))
		})
	})
})
