package dstring

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dshills/evstring/internal/logging"
)

func TestPushInvariants(t *testing.T) {
	s := mustString(t, "")

	for i := 0; i < 1000; i++ {
		if err := s.PushByte(byte('a' + i%26)); err != nil {
			t.Fatalf("push %d failed: %v", i, err)
		}
		checkInvariants(t, s)
	}
	if s.Len() != 1000 {
		t.Errorf("expected length 1000, got %d", s.Len())
	}
}

func TestPushAmortizedGrowth(t *testing.T) {
	const n = 10000
	s := mustString(t, "")

	for i := 0; i < n; i++ {
		if err := s.PushByte('x'); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	// Capacities grow 1, 2, 3, 4, 6, 9, 13, ... so reaching 10001 bytes
	// takes 23 reallocations.
	if got := s.Generation(); got != 23 {
		t.Errorf("expected 23 reallocations for %d pushes, got %d", n, got)
	}
}

func TestPushGrowthSequence(t *testing.T) {
	s := mustString(t, "")
	want := []int{2, 3, 4, 6, 9, 13, 19, 28}

	var got []int
	last := s.Cap()
	for len(got) < len(want) {
		if err := s.PushByte('x'); err != nil {
			t.Fatalf("push failed: %v", err)
		}
		if s.Cap() != last {
			last = s.Cap()
			got = append(got, last)
		}
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("growth sequence %v, want %v", got, want)
		}
	}
}

func TestPushString(t *testing.T) {
	s := mustString(t, "hello")

	if err := s.PushString(", world"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := s.Push([]byte("!")); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := s.Push(nil); err != nil {
		t.Fatalf("empty push failed: %v", err)
	}

	if s.String() != "hello, world!" {
		t.Errorf("expected %q, got %q", "hello, world!", s.String())
	}
	checkInvariants(t, s)
}

func TestPushReservesTerminator(t *testing.T) {
	s := mustString(t, "ab", WithInitialCapacity(5))

	// Two more bytes fill the content area exactly; the terminator still fits.
	if err := s.PushString("cd"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if s.Cap() != 5 || s.Generation() != 0 {
		t.Errorf("expected no reallocation, cap %d gen %d", s.Cap(), s.Generation())
	}

	// One more byte leaves no room for the terminator.
	if err := s.PushByte('e'); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if s.Generation() != 1 {
		t.Errorf("expected a reallocation, gen %d", s.Generation())
	}
	checkInvariants(t, s)
}

func TestPushSelf(t *testing.T) {
	tests := []struct {
		name  string
		alloc Allocator
	}{
		{"heap", HeapAllocator{}},
		{"pool", NewPoolAllocator()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustString(t, "abc", WithAllocator(tt.alloc))

			for i := 0; i < 4; i++ {
				if err := s.Push(s.Bytes()); err != nil {
					t.Fatalf("self push failed: %v", err)
				}
			}

			want := strings.Repeat("abc", 16)
			if s.String() != want {
				t.Errorf("expected %q, got %q", want, s.String())
			}
			checkInvariants(t, s)
		})
	}
}

func TestPushFailureLeavesStringUnchanged(t *testing.T) {
	s := mustString(t, "abcd", WithAllocator(HeapAllocator{MaxCapacity: 6}))
	capBefore := s.Cap()
	genBefore := s.Generation()

	err := s.PushString("xyz")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	if s.String() != "abcd" {
		t.Errorf("content changed to %q", s.String())
	}
	if s.Cap() != capBefore || s.Generation() != genBefore {
		t.Errorf("failed push moved the buffer: cap %d gen %d", s.Cap(), s.Generation())
	}
	checkInvariants(t, s)
}

func TestSetCapacity(t *testing.T) {
	s := mustString(t, "abc")

	if err := s.SetCapacity(16); err != nil {
		t.Fatalf("set capacity failed: %v", err)
	}
	if s.Cap() != 16 || s.Generation() != 1 {
		t.Errorf("expected cap 16 gen 1, got cap %d gen %d", s.Cap(), s.Generation())
	}

	// Unchanged capacity does not reallocate.
	if err := s.SetCapacity(16); err != nil {
		t.Fatalf("set capacity failed: %v", err)
	}
	if s.Generation() != 1 {
		t.Errorf("no-op set capacity reallocated, gen %d", s.Generation())
	}

	// Shrinking down to length+1 is allowed.
	if err := s.SetCapacity(4); err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
	if s.String() != "abc" {
		t.Errorf("shrink changed content to %q", s.String())
	}
	checkInvariants(t, s)

	if err := s.SetCapacity(3); !errors.Is(err, ErrCapacityTooSmall) {
		t.Errorf("expected ErrCapacityTooSmall, got %v", err)
	}
}

func TestGrow(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		initial string
		want    int
	}{
		{"default factor", nil, "abcd", 7},
		{"doubling", []Option{WithGrowthFactor(2, 1)}, "abcd", 10},
		{"ignored factor", []Option{WithGrowthFactor(1, 1)}, "abcd", 7},
		{"ignored zero denominator", []Option{WithGrowthFactor(3, 0)}, "abcd", 7},
		{"small capacity still grows", nil, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustString(t, tt.initial, tt.opts...)
			if err := s.Grow(); err != nil {
				t.Fatalf("grow failed: %v", err)
			}
			if s.Cap() != tt.want {
				t.Errorf("expected capacity %d, got %d", tt.want, s.Cap())
			}
			checkInvariants(t, s)
		})
	}
}

func TestSetLength(t *testing.T) {
	s := mustString(t, "abc")

	if err := s.SetLength(10); err != nil {
		t.Fatalf("set length failed: %v", err)
	}
	if s.Len() != 10 {
		t.Errorf("expected length 10, got %d", s.Len())
	}
	if s.Cap() != 13 {
		t.Errorf("expected capacity 13 (4, 6, 9, 13), got %d", s.Cap())
	}
	if s.Generation() != 1 {
		t.Errorf("expected a single reallocation, got %d", s.Generation())
	}
	if !bytes.HasPrefix(s.Bytes(), []byte("abc")) {
		t.Errorf("prefix lost: %q", s.Bytes())
	}
	checkInvariants(t, s)

	if err := s.SetLength(2); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if s.String() != "ab" || s.Cap() != 13 {
		t.Errorf("expected %q with cap 13, got %q cap %d", "ab", s.String(), s.Cap())
	}
	checkInvariants(t, s)

	gen := s.Generation()
	if err := s.SetLength(2); err != nil {
		t.Fatalf("no-op set length failed: %v", err)
	}
	if s.Generation() != gen {
		t.Error("unchanged length should not reallocate")
	}

	if err := s.SetLength(-1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestSetLengthFailure(t *testing.T) {
	s := mustString(t, "abc", WithAllocator(HeapAllocator{MaxCapacity: 8}))

	if err := s.SetLength(20); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if s.String() != "abc" || s.Cap() != 4 {
		t.Errorf("failed set length mutated the string: %q cap %d", s.String(), s.Cap())
	}
}

func TestClear(t *testing.T) {
	s := mustString(t, "hello")
	capBefore := s.Cap()

	s.Clear()

	if s.Len() != 0 || s.String() != "" {
		t.Errorf("expected empty string, got %q", s.String())
	}
	if s.Cap() != capBefore {
		t.Errorf("clear changed capacity from %d to %d", capBefore, s.Cap())
	}
	checkInvariants(t, s)

	s.Free()
	s.Clear()
}

func TestAddSpace(t *testing.T) {
	s := mustString(t, "abc")

	if s.Space() != 0 {
		t.Errorf("expected no free space, got %d", s.Space())
	}
	if err := s.AddSpace(5); err != nil {
		t.Fatalf("add space failed: %v", err)
	}
	if s.Cap() != 9 || s.Space() != 5 {
		t.Errorf("expected cap 9 space 5, got cap %d space %d", s.Cap(), s.Space())
	}

	gen := s.Generation()
	if err := s.PushString("12345"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if s.Generation() != gen {
		t.Error("push into reserved space should not reallocate")
	}

	if err := s.AddSpace(0); err != nil {
		t.Errorf("zero add space: %v", err)
	}
	if err := s.AddSpace(-1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestOversizedGrowthFails(t *testing.T) {
	tests := []struct {
		name string
		op   func(s *String) error
	}{
		{"add space", func(s *String) error { return s.AddSpace(1 << 62) }},
		{"add space overflow", func(s *String) error { return s.AddSpace(math.MaxInt) }},
		{"set capacity", func(s *String) error { return s.SetCapacity(1 << 62) }},
		{"set length", func(s *String) error { return s.SetLength(1 << 62) }},
		{"set length overflow", func(s *String) error { return s.SetLength(math.MaxInt) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustString(t, "abc")
			capBefore, gen := s.Cap(), s.Generation()

			if err := tt.op(s); !errors.Is(err, ErrCapacityExceeded) {
				t.Fatalf("expected ErrCapacityExceeded, got %v", err)
			}
			if s.String() != "abc" || s.Cap() != capBefore || s.Generation() != gen {
				t.Errorf("failed growth changed the string: %q cap %d gen %d", s.String(), s.Cap(), s.Generation())
			}
			checkInvariants(t, s)
		})
	}
}

func TestReallocationLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})

	s := mustString(t, "ab", WithLogger(logger))
	if err := s.PushString("cdef"); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[DEBUG]", "reallocated", "component=dstring", "from=3", "to=9", "generation=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %q", want, out)
		}
	}
}

func TestAllocationFailureLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})

	s := mustString(t, "ab", WithLogger(logger), WithAllocator(HeapAllocator{MaxCapacity: 3}))
	_ = s.PushString("cdef")

	out := buf.String()
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "reallocation from 3 to 9 bytes failed") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestZeroValueString(t *testing.T) {
	var s String

	if err := s.PushString("abc"); err != nil {
		t.Fatalf("push on zero value failed: %v", err)
	}
	if s.String() != "abc" {
		t.Errorf("expected %q, got %q", "abc", s.String())
	}
	checkInvariants(t, &s)
}
