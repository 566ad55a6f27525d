// Package errs defines the sentinel errors returned by the container codecs.
//
// Callers match them with errors.Is; every error returned from a load or save
// wraps exactly one of the kinds below together with the record path that
// produced it.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned when the input is not a well-formed container.
	ErrFormat = errors.New("invalid container format")
	// ErrBadMagic is returned when a header or block magic does not match.
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrFormat)
	// ErrTruncated is returned when a read runs past the end of the buffer.
	ErrTruncated = fmt.Errorf("%w: buffer truncated", ErrFormat)
	// ErrUnsupportedVersion is returned for header revisions this package cannot read.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)

	// ErrUnrecognizedTag is returned when a tag value has no registered variant.
	ErrUnrecognizedTag = errors.New("unrecognized type tag")
	// ErrUnregisteredType is returned when encoding a variant that has no tag.
	ErrUnregisteredType = errors.New("unregistered variant type")
	// ErrMalformedRecord is returned when a record is internally inconsistent.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrOutOfRange is returned for seeks or pointers outside the buffer.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrUnpatchedPointer is returned when a reserved pointer slot has no target.
	ErrUnpatchedPointer = errors.New("unpatched pointer")

	// ErrChecksumMismatch is returned when an envelope payload fails verification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnknownCompression is returned for an unsupported envelope codec.
	ErrUnknownCompression = errors.New("unknown compression type")
)
