package ir

import (
	"github.com/nikandfor/hacked/hfmt"
)

// Dump appends the listing of p to b, one quad per line.
func Dump(b []byte, p *Program, names Names) []byte {
	for i, q := range p.Quads {
		b = AppendQuad(b, i, q, names)
		b = append(b, '\n')
	}

	return b
}

func AppendQuad(b []byte, i int, q Quad, names Names) []byte {
	b = hfmt.Appendf(b, "[%3d] ", i)

	if q.IsLabel() {
		return hfmt.Appendf(b, "LABEL %v:", q.Res)
	}

	return hfmt.Appendf(b, "%v %s %s -> %s", q.Op, q.Arg1.Format(names), q.Arg2.Format(names), q.Res.Format(names))
}

func (q Quad) String() string {
	if q.IsLabel() {
		return "LABEL " + q.Res.String() + ":"
	}

	return string(hfmt.Appendf(nil, "%v %v %v -> %v", q.Op, q.Arg1, q.Arg2, q.Res))
}
