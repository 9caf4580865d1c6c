package dstring

import (
	"fmt"
	"math"

	"github.com/dshills/evstring/internal/logging"
)

// nextCapacity returns the capacity one growth step after c.
func (s *String) nextCapacity(c int) int {
	o := s.options()
	if c > math.MaxInt/o.growNum {
		return math.MaxInt
	}
	next := c * o.growNum / o.growDen
	if next <= c {
		next = c + 1
	}
	return next
}

// grownCapacity returns the first capacity in the growth sequence starting
// at Cap() that is at least need.
func (s *String) grownCapacity(need int) int {
	c := len(s.buf)
	for c < need {
		c = s.nextCapacity(c)
	}
	return c
}

// allocate returns a new buffer of n bytes holding the content and
// terminator. s is not modified; the buffer becomes current with adopt.
func (s *String) allocate(n int) ([]byte, error) {
	o := s.options()
	buf, err := o.alloc.Allocate(n)
	if err != nil {
		o.logger.Warn("reallocation from %d to %d bytes failed: %v", len(s.buf), n, err)
		return nil, fmt.Errorf("reallocate to %d bytes: %w", n, err)
	}

	if s.buf == nil {
		buf[s.length] = 0
	} else {
		copy(buf, s.buf[:s.length+1])
	}
	return buf, nil
}

// adopt makes buf the current buffer and advances the generation. The
// previous buffer is returned unreleased so the caller can still read from
// it; it must be passed to release afterwards.
func (s *String) adopt(buf []byte) []byte {
	old := s.buf
	s.buf = buf
	s.gen++

	if o := s.options(); o.logger.Enabled(logging.LevelDebug) {
		o.logger.WithFields(map[string]any{
			"from":       len(old),
			"to":         len(buf),
			"generation": s.gen,
		}).Debug("reallocated")
	}
	return old
}

// moveTo reallocates to n bytes and returns the previous buffer
// unreleased. On failure s is left untouched.
func (s *String) moveTo(n int) ([]byte, error) {
	buf, err := s.allocate(n)
	if err != nil {
		return nil, err
	}
	return s.adopt(buf), nil
}

func (s *String) release(old []byte) {
	if old != nil {
		s.options().alloc.Release(old)
	}
}

// required returns the capacity needed for extra more content bytes and
// the terminator.
func (s *String) required(extra int) (int, error) {
	if extra > math.MaxInt-s.length-1 {
		return 0, fmt.Errorf("grow length %d by %d: %w", s.length, extra, ErrCapacityExceeded)
	}
	return s.length + extra + 1, nil
}

// reserve makes room for extra more content bytes plus the terminator,
// growing geometrically. If the buffer moved, the old one is returned
// unreleased.
func (s *String) reserve(extra int) ([]byte, error) {
	need, err := s.required(extra)
	if err != nil {
		return nil, err
	}
	if need <= len(s.buf) {
		return nil, nil
	}
	return s.moveTo(s.grownCapacity(need))
}

// SetCapacity reallocates the buffer to exactly n bytes. It fails with
// ErrCapacityTooSmall if n cannot hold the content and terminator. If the
// allocator fails, s keeps its buffer, content and generation.
func (s *String) SetCapacity(n int) error {
	if s.freed {
		return ErrFreed
	}
	if n == len(s.buf) {
		return nil
	}
	if n < s.length+1 {
		return fmt.Errorf("set capacity %d for length %d: %w", n, s.length, ErrCapacityTooSmall)
	}
	old, err := s.moveTo(n)
	if err != nil {
		return err
	}
	s.release(old)
	return nil
}

// Grow performs one growth step, multiplying the capacity by the growth
// factor (3/2 unless configured otherwise).
func (s *String) Grow() error {
	if s.freed {
		return ErrFreed
	}
	return s.SetCapacity(s.nextCapacity(len(s.buf)))
}

// AddSpace increases the capacity by extra bytes, typically ahead of a
// write of known size.
func (s *String) AddSpace(extra int) error {
	if s.freed {
		return ErrFreed
	}
	if extra < 0 {
		return fmt.Errorf("add space %d: %w", extra, ErrRangeInvalid)
	}
	if extra == 0 {
		return nil
	}
	if extra > math.MaxInt-len(s.buf) {
		return fmt.Errorf("add space %d to capacity %d: %w", extra, len(s.buf), ErrCapacityExceeded)
	}
	return s.SetCapacity(len(s.buf) + extra)
}

// SetLength sets the content length to n, growing the buffer if needed and
// rewriting the terminator. Bytes between the old and new length are not
// cleared; their content is unspecified until written.
func (s *String) SetLength(n int) error {
	if s.freed {
		return ErrFreed
	}
	if n < 0 {
		return fmt.Errorf("set length %d: %w", n, ErrOffsetOutOfRange)
	}
	if n == s.length {
		return nil
	}
	if n > s.length {
		old, err := s.reserve(n - s.length)
		if err != nil {
			return err
		}
		s.release(old)
	}
	s.length = n
	s.buf[n] = 0
	return nil
}

// Clear truncates s to zero length. The capacity is kept.
func (s *String) Clear() {
	if s.freed {
		return
	}
	_ = s.SetLength(0)
}
