package interp

import (
	"bufio"
	"io"

	"tlog.app/go/errors"
)

type console struct {
	r *bufio.Reader
	w []byte
}

func newConsole(r io.Reader) *console {
	if r == nil {
		r = eofReader{}
	}

	if br, ok := r.(*bufio.Reader); ok {
		return &console{r: br}
	}

	return &console{r: bufio.NewReader(r)}
}

// char returns the next non-space byte.
func (c *console) char() (byte, error) {
	err := c.skipSpaces()
	if err != nil {
		return 0, err
	}

	b, err := c.r.ReadByte()
	if err != nil {
		return 0, errors.Wrap(err, "read input")
	}

	return b, nil
}

// word returns the next space delimited word.
func (c *console) word() (string, error) {
	err := c.skipSpaces()
	if err != nil {
		return "", err
	}

	c.w = c.w[:0]

	for {
		b, err := c.r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "read input")
		}

		if isSpace(b) {
			_ = c.r.UnreadByte()
			break
		}

		c.w = append(c.w, b)
	}

	return string(c.w), nil
}

func (c *console) skipSpaces() error {
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return errors.Wrap(err, "read input")
		}

		if !isSpace(b) {
			return c.r.UnreadByte()
		}
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
