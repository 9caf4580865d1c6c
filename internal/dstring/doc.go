// Package dstring provides a growable, length-tracked byte string and
// non-owning views into it.
//
// A String owns a single backing allocation. The content is always followed
// by a zero byte, so CBytes can be handed to code that expects a
// NUL-terminated buffer, and the length is cached so Len is O(1). Appending
// grows the capacity geometrically (3/2 by default), which keeps repeated
// pushes amortized O(1) per byte.
//
// A View describes a byte range of a String without copying it. Views carry
// the generation of their source at the time they were taken. Every
// reallocation and every Free advances the generation, so a view that
// outlives a growth fails with ErrStaleView instead of reading memory the
// string no longer owns.
//
// Basic usage:
//
//	s, _ := dstring.NewString("hello")
//	_ = s.PushString(" world")
//	v, _ := s.Slice(6, 11)
//	w, _ := dstring.Materialize(v) // "world"
//
// Strings are not safe for concurrent use. Allocation failures are reported
// as errors by every operation, including construction; MustNew panics
// instead.
package dstring
