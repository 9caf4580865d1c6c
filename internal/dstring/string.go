package dstring

import (
	"bytes"
	"fmt"
)

// String is a growable byte string with a cached length.
//
// The content lives in a single buffer obtained from the configured
// Allocator and is always followed by a zero byte. Cap reports the size of
// that buffer, so Cap() >= Len()+1 holds after every operation.
//
// A String must be created with New, NewString or one of the constructors
// that derive from an existing String. It is not safe for concurrent use.
type String struct {
	buf    []byte
	length int
	gen    uint64
	freed  bool
	opts   *options
}

// New creates a String holding a copy of data.
// The allocation is sized to len(data)+1 unless WithInitialCapacity asks
// for more.
func New(data []byte, opts ...Option) (*String, error) {
	s, err := create(len(data), newOptions(opts))
	if err != nil {
		return nil, err
	}
	copy(s.buf, data)
	return s, nil
}

// NewString creates a String holding a copy of str.
func NewString(str string, opts ...Option) (*String, error) {
	s, err := create(len(str), newOptions(opts))
	if err != nil {
		return nil, err
	}
	copy(s.buf, str)
	return s, nil
}

// MustNew is like New but panics if the allocation fails.
func MustNew(data []byte, opts ...Option) *String {
	s, err := New(data, opts...)
	if err != nil {
		panic(fmt.Sprintf("dstring: %v", err))
	}
	return s
}

// create allocates a String with n bytes of (unwritten) content.
func create(n int, o *options) (*String, error) {
	size := n + 1
	if o.initialCap > size {
		size = o.initialCap
	}

	buf, err := o.alloc.Allocate(size)
	if err != nil {
		o.logger.Warn("allocation of %d bytes failed: %v", size, err)
		return nil, fmt.Errorf("new string of %d bytes: %w", n, err)
	}
	buf[n] = 0

	return &String{buf: buf, length: n, opts: o}, nil
}

// options returns the String's configuration, falling back to the defaults
// for a String that was not built by a constructor.
func (s *String) options() *options {
	if s.opts == nil {
		s.opts = newOptions(nil)
	}
	return s.opts
}

// Clone returns an independent copy of s sharing its options.
func (s *String) Clone() (*String, error) {
	if s.freed {
		return nil, ErrFreed
	}
	c, err := create(s.length, s.options())
	if err != nil {
		return nil, err
	}
	copy(c.buf, s.buf[:s.length])
	return c, nil
}

// Free releases the backing buffer to the allocator. Views taken from s
// become permanently stale and mutations return ErrFreed. Calling Free
// twice is a no-op.
func (s *String) Free() {
	if s.freed {
		return
	}
	buf := s.buf
	s.buf = nil
	s.length = 0
	s.freed = true
	s.gen++
	if buf != nil {
		s.options().alloc.Release(buf)
	}
}

// IsFreed reports whether Free has been called.
func (s *String) IsFreed() bool {
	return s.freed
}

// Len returns the content length in bytes.
func (s *String) Len() int {
	return s.length
}

// Cap returns the size of the backing buffer, terminator included.
func (s *String) Cap() int {
	return len(s.buf)
}

// Space returns how many bytes can be pushed before the next reallocation.
func (s *String) Space() int {
	if len(s.buf) == 0 {
		return 0
	}
	return len(s.buf) - s.length - 1
}

// Generation returns a counter that advances on every reallocation and on
// Free. Views are valid only while it is unchanged.
func (s *String) Generation() uint64 {
	return s.gen
}

// Bytes returns the content. The slice aliases the buffer and is only
// valid until the next mutation of s; unlike a View it is not checked.
func (s *String) Bytes() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf[:s.length:s.length]
}

// CBytes returns the content followed by its zero terminator.
func (s *String) CBytes() []byte {
	if s.buf == nil {
		return nil
	}
	n := s.length + 1
	return s.buf[:n:n]
}

// String returns a copy of the content.
func (s *String) String() string {
	return string(s.Bytes())
}

// Equal reports whether a and b hold the same bytes.
//
// Equal is an equality test only. It has no notion of ordering and must
// not be used to sort strings.
func Equal(a, b *String) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.length != b.length {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// Concat returns a new String holding a followed by b.
func Concat(a, b *String) (*String, error) {
	if b.freed {
		return nil, ErrFreed
	}
	c, err := a.Clone()
	if err != nil {
		return nil, err
	}
	if err := c.Push(b.Bytes()); err != nil {
		c.Free()
		return nil, err
	}
	return c, nil
}
