package wirebin

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream reports that the underlying transport closed before a
	// complete value was read.
	ErrEndOfStream = errors.New("wirebin: unexpected end of stream")
	// ErrInvalidUTF8 reports a length-prefixed text payload that is not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("wirebin: invalid utf8 string")
	// ErrFloatNotFinite reports a decoded NaN or infinite float.
	ErrFloatNotFinite = errors.New("wirebin: non-finite float value")
	// ErrDepthExceeded reports that nested decoding passed the reader's
	// maximum nesting depth.
	ErrDepthExceeded = errors.New("wirebin: max nesting depth exceeded")
)

// InvalidBoolError is returned when a boolean byte is neither 0 nor 1.
// The value is the offending byte.
type InvalidBoolError byte

func (e InvalidBoolError) Error() string {
	return fmt.Sprintf("wirebin: invalid boolean value 0x%02x (expected 0 or 1)", byte(e))
}

// UnknownVariantError is returned when a union discriminant is outside the
// declared variant range. The value is the offending discriminant.
type UnknownVariantError uint64

func (e UnknownVariantError) Error() string {
	return fmt.Sprintf("wirebin: unknown variant %d", uint64(e))
}

// OversizedError is returned when a length field would require allocating
// beyond the remaining decode budget.
type OversizedError struct {
	Requested uint64 // bytes the length field implies
	Remaining uint64 // bytes left in the decode budget
}

func (e *OversizedError) Error() string {
	return fmt.Sprintf("wirebin: oversized request: need %d bytes, budget has %d", e.Requested, e.Remaining)
}

// IOError wraps a transport-level failure from the underlying stream.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("wirebin: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Errorf builds a custom decode/encode error with the standard "wirebin:"
// prefix. Intended for external type adapters implementing the codec
// contract.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("wirebin: "+format, args...)
}
