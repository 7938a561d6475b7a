package dwarfhelper

import "github.com/pkg/errors"

var (
	// ErrSectionMissing means the binary has no usable debug info.
	ErrSectionMissing = errors.New("debug section missing")
	// ErrMalformedEntry means an attribute did not have the expected form.
	ErrMalformedEntry = errors.New("malformed entry")
	// ErrUnrecognizedTag means the entry tag is outside the handled set.
	ErrUnrecognizedTag = errors.New("unrecognized tag")
	// ErrOutOfRange means an offset did not land on a valid entry.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrTypeMismatch means an entry did not have the expected tag.
	ErrTypeMismatch = errors.New("type mismatch")
)
