package im

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

const readChunkSize = 32 * 1024

// InputBuffer accumulates chunks in arrival order. It is consumed once,
// after the input has ended.
type InputBuffer struct {
	chunks []string
	n      int64
	max    int64
}

// NewInputBuffer returns a buffer that rejects input past max bytes.
// A max of zero means unlimited.
func NewInputBuffer(max int64) *InputBuffer {
	return &InputBuffer{max: max}
}

func (b *InputBuffer) Write(p []byte) (int, error) {
	if b.max > 0 && b.n+int64(len(p)) > b.max {
		return 0, &InputError{Err: ErrInputTooLarge}
	}
	if len(p) == 0 {
		return 0, nil
	}
	b.chunks = append(b.chunks, string(p))
	b.n += int64(len(p))
	return len(p), nil
}

func (b *InputBuffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// ReadFrom drains r until EOF.
func (b *InputBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := b.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, &InputError{Err: err}
		}
	}
}

func (b *InputBuffer) Len() int64 { return b.n }

func (b *InputBuffer) String() string {
	var sb strings.Builder
	sb.Grow(int(b.n))
	for _, chunk := range b.chunks {
		sb.WriteString(chunk)
	}
	return sb.String()
}

// decodeInput applies the invalid UTF-8 policy to the whole input. Chunks
// are validated only after concatenation, so a sequence split across two
// reads is still valid.
func (c *Config) decodeInput(s string) (string, error) {
	if utf8.ValidString(s) {
		return s, nil
	}
	if c.InvalidUTF8 == InvalidUTF8Reject {
		return "", &InputError{Err: ErrInvalidUTF8}
	}
	c.log().Warn().Msg("input is not valid UTF-8, replacing invalid sequences")
	return strings.ToValidUTF8(s, string(utf8.RuneError)), nil
}
