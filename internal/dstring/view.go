package dstring

import (
	"fmt"
	"math"
)

// NotFound is the offset of a View that describes a failed search.
const NotFound = math.MaxInt

// View is a non-owning window into a String's content.
//
// A View records the generation of its source. Once the source reallocates
// or is freed, Bytes fails with ErrStaleView; a new view must be taken.
// The zero View is empty and valid.
type View struct {
	src *String
	gen uint64
	off int
	n   int
}

// Ref returns a view of the whole content of s.
func (s *String) Ref() View {
	return View{src: s, gen: s.gen, off: 0, n: s.length}
}

// Slice returns a view of the bytes [begin, end) of s.
func (s *String) Slice(begin, end int) (View, error) {
	if s.freed {
		return View{}, ErrFreed
	}
	if begin > end {
		return View{}, fmt.Errorf("slice [%d:%d]: %w", begin, end, ErrRangeInvalid)
	}
	if begin < 0 || end > s.length {
		return View{}, fmt.Errorf("slice [%d:%d] of length %d: %w", begin, end, s.length, ErrOffsetOutOfRange)
	}
	return View{src: s, gen: s.gen, off: begin, n: end - begin}, nil
}

// Source returns the String the view refers to.
func (v View) Source() *String {
	return v.src
}

// Offset returns the view's start offset, or NotFound.
func (v View) Offset() int {
	return v.off
}

// Len returns the view's length in bytes.
func (v View) Len() int {
	return v.n
}

// Found reports whether the view describes a match rather than a failed
// search.
func (v View) Found() bool {
	return v.off != NotFound
}

// Bytes returns the bytes described by the view. The slice aliases the
// source's buffer.
func (v View) Bytes() ([]byte, error) {
	if v.src == nil {
		return nil, nil
	}
	if v.src.freed || v.src.gen != v.gen {
		return nil, ErrStaleView
	}
	if v.off == NotFound {
		return nil, fmt.Errorf("view of failed search: %w", ErrOffsetOutOfRange)
	}
	end := v.off + v.n
	if end > v.src.length {
		return nil, fmt.Errorf("view [%d:%d] of length %d: %w", v.off, end, v.src.length, ErrOffsetOutOfRange)
	}
	return v.src.buf[v.off:end:end], nil
}

// Valid reports whether Bytes would succeed.
func (v View) Valid() bool {
	_, err := v.Bytes()
	return err == nil
}

// String returns a copy of the viewed bytes, or "" for an invalid view.
func (v View) String() string {
	b, err := v.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}

// Materialize copies the view's bytes into a new String that shares the
// source's options.
func Materialize(v View) (*String, error) {
	b, err := v.Bytes()
	if err != nil {
		return nil, err
	}
	o := newOptions(nil)
	if v.src != nil {
		o = v.src.options()
	}
	s, err := create(len(b), o)
	if err != nil {
		return nil, err
	}
	copy(s.buf, b)
	return s, nil
}

// AppendView pushes the view's bytes onto s. The view may refer to s
// itself.
func (s *String) AppendView(v View) error {
	b, err := v.Bytes()
	if err != nil {
		return err
	}
	return s.Push(b)
}
