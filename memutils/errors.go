package memutils

import "github.com/cockroachdb/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// ErrBadDescriptor is returned when a buffer descriptor could not be decoded or was empty
	ErrBadDescriptor = errors.New("bad descriptor")
	// ErrBadValue is returned for format, usage, or extent combinations that cannot be satisfied,
	// including a consumer intersection that leaves no usable layout
	ErrBadValue = errors.New("bad value")
	// ErrBadBuffer is returned when operating on a buffer handle this allocator did not produce
	ErrBadBuffer = errors.New("bad buffer")
	// ErrNoResources is returned when the memory manager could not satisfy a size/alignment request
	ErrNoResources = errors.New("no resources")
	// ErrUnsupported is returned when a format is recognized but no layout manager claims it
	ErrUnsupported = errors.New("unsupported")
)
