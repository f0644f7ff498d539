package ir

import (
	"math/bits"

	"tlog.app/go/errors"
)

type (
	// Index maps label numbers to the offsets of their markers.
	Index struct {
		off []int
	}

	labelSet struct {
		b  []uint64
		b0 [1]uint64
	}
)

var (
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrUnresolvedLabel = errors.New("unresolved label")
)

// NewIndex builds the label index of p.
// Every goto target must have exactly one marker.
func NewIndex(p *Program) (x Index, err error) {
	var def, use labelSet

	for i, q := range p.Quads {
		switch {
		case q.IsLabel():
			l := int(q.Res.Val)

			if def.IsSet(l) {
				return x, errors.Wrap(ErrDuplicateLabel, "%v at %d", q.Res, i)
			}

			def.Set(l)

			for l >= len(x.off) {
				x.off = append(x.off, -1)
			}

			x.off[l] = i
		case q.Op.Category() == CatControl:
			if q.Res.Kind != Label {
				return x, errors.Wrap(ErrUnresolvedLabel, "%v target %v at %d", q.Op, q.Res, i)
			}

			use.Set(int(q.Res.Val))
		}
	}

	if l := use.FirstAndNot(def); l >= 0 {
		return x, errors.Wrap(ErrUnresolvedLabel, "%v", LabelRef(l))
	}

	return x, nil
}

// Lookup returns the marker offset of label l.
func (x Index) Lookup(l Operand) (int, bool) {
	if l.Kind != Label || l.Val < 0 || l.Val >= int64(len(x.off)) {
		return 0, false
	}

	off := x.off[l.Val]

	return off, off >= 0
}

func (x Index) Len() (n int) {
	for _, off := range x.off {
		if off >= 0 {
			n++
		}
	}

	return n
}

func (s *labelSet) Set(i int) {
	i, j := i/64, i%64

	if s.b == nil {
		s.b = s.b0[:]
	}

	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}

	s.b[i] |= 1 << j
}

func (s *labelSet) IsSet(i int) bool {
	i, j := i/64, i%64

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

// FirstAndNot returns the first element of s missing in x or -1.
func (s *labelSet) FirstAndNot(x labelSet) int {
	for i, w := range s.b {
		if i < len(x.b) {
			w &^= x.b[i]
		}

		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}

	return -1
}
