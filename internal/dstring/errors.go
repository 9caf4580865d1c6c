package dstring

import "errors"

// Errors returned by string and view operations.
var (
	// ErrCapacityExceeded indicates the allocator refused a request.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrCapacityTooSmall indicates a capacity that cannot hold the content and terminator.
	ErrCapacityTooSmall = errors.New("capacity smaller than length plus terminator")

	// ErrOffsetOutOfRange indicates an offset is outside the string's content.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end < begin).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrStaleView indicates the view's source was reallocated or freed after the view was taken.
	ErrStaleView = errors.New("view is stale")

	// ErrFreed indicates an operation on a string that has been freed.
	ErrFreed = errors.New("string has been freed")

	// ErrCorruptDocument indicates a JSON document whose fields disagree.
	ErrCorruptDocument = errors.New("corrupt string document")
)
