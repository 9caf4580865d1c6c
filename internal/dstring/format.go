package dstring

import (
	"bytes"
	"fmt"
)

// countingWriter discards its input and records how much was written.
type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

// formattedLen returns the length fmt would produce for format and args.
func formattedLen(format string, args []any) int {
	var w countingWriter
	fmt.Fprintf(&w, format, args...)
	return w.n
}

// Formatted returns a new String holding the fmt-style formatting of args.
// The output length is measured first so the buffer is allocated once, at
// exactly the required size.
func Formatted(format string, args ...any) (*String, error) {
	return FormattedWith(nil, format, args...)
}

// FormattedWith is like Formatted but configures the new String with opts.
func FormattedWith(opts []Option, format string, args ...any) (*String, error) {
	n := formattedLen(format, args)

	s, err := create(n, newOptions(opts))
	if err != nil {
		return nil, err
	}
	out := fmt.Appendf(s.buf[:0:n], format, args...)
	if len(out) != n {
		// An argument rendered differently on the second pass.
		out = bytes.Clone(out)
		s.length = 0
		s.buf[0] = 0
		if err := s.Push(out); err != nil {
			s.Free()
			return nil, err
		}
	}
	return s, nil
}

// Appendf appends the fmt-style formatting of args to s, growing it by the
// formatted length.
//
// args may refer to s, through Bytes or a View. When s must grow, the
// output is rendered into the new buffer before it replaces the current
// one, so such views are still valid while they are formatted.
func (s *String) Appendf(format string, args ...any) error {
	if s.freed {
		return ErrFreed
	}
	n := formattedLen(format, args)
	if n == 0 {
		return nil
	}
	need, err := s.required(n)
	if err != nil {
		return err
	}

	at := s.length
	buf, moved := s.buf, false
	if need > len(buf) {
		if buf, err = s.allocate(s.grownCapacity(need)); err != nil {
			return err
		}
		moved = true
	}

	out := fmt.Appendf(buf[at:at:at+n], format, args...)
	if len(out) != n {
		out = bytes.Clone(out)
		if moved {
			s.release(buf)
		} else {
			s.buf[at] = 0
		}
		return s.Push(out)
	}

	if moved {
		s.release(s.adopt(buf))
	}
	s.length += n
	s.buf[s.length] = 0
	return nil
}
