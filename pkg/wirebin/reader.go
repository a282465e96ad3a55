package wirebin

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// DefaultMaxDepth bounds how deeply nested values (options, containers,
// recursive composites) may decode before failing with ErrDepthExceeded.
const DefaultMaxDepth = 64

// Reader decodes wirebin-encoded data from a byte stream.
//
// It wraps an io.Reader and provides methods for reading the wire format's
// primitive shapes. The first error encountered is latched: every
// subsequent method call is a no-op returning a zero value, so straight-
// line decode code can defer error checking to Err. A Reader serves
// exactly one decode call tree and must not be shared between concurrent
// decodes.
type Reader struct {
	r         io.Reader
	ctx       context.Context
	budget    *Budget
	err       error
	bytesRead int64
	depth     int
	maxDepth  int
	scratch   [8]byte
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithReadContext makes the reader check ctx before every transport read.
// A cancelled context aborts the decode; the stream is left at an
// indeterminate offset.
func WithReadContext(ctx context.Context) ReaderOption {
	return func(r *Reader) { r.ctx = ctx }
}

// WithBudget sets the decode budget to n bytes, overriding the derived
// default.
func WithBudget(n uint64) ReaderOption {
	return func(r *Reader) { r.budget = NewBudget(n) }
}

// WithMaxDepth overrides the maximum nesting depth.
func WithMaxDepth(d int) ReaderOption {
	return func(r *Reader) { r.maxDepth = d }
}

// NewReader returns a Reader decoding from src.
//
// If src exposes Len (bytes.Reader, bytes.Buffer), the decode budget is
// derived from the bytes actually available; otherwise DefaultBudget
// applies. Either way a hostile length field can never force allocation
// beyond the budget.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{r: src, maxDepth: DefaultMaxDepth}
	if lr, ok := src.(interface{ Len() int }); ok {
		r.budget = NewBudget(uint64(lr.Len()))
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.budget == nil {
		r.budget = NewBudget(DefaultBudget)
	}
	return r
}

// Err returns the first error that occurred during reading, if any.
func (r *Reader) Err() error { return r.err }

// BytesRead returns the number of bytes consumed from the stream so far.
func (r *Reader) BytesRead() int64 { return r.bytesRead }

// Budget returns the reader's decode budget.
func (r *Reader) Budget() *Budget { return r.budget }

// Fail latches err as the reader's error. Used by external type adapters
// and generated code to abort a decode with a typed error.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// EnterNested records one level of nesting and fails with
// ErrDepthExceeded past the reader's maximum depth.
func (r *Reader) EnterNested() error {
	if r.err != nil {
		return r.err
	}
	r.depth++
	if r.depth > r.maxDepth {
		r.Fail(ErrDepthExceeded)
		return r.err
	}
	return nil
}

// LeaveNested undoes one EnterNested.
func (r *Reader) LeaveNested() {
	if r.depth > 0 {
		r.depth--
	}
}

// ReadFull reads exactly len(p) bytes from the stream. A short read due
// to stream closure latches ErrEndOfStream; any other failure latches an
// *IOError.
func (r *Reader) ReadFull(p []byte) error {
	if r.err != nil {
		return r.err
	}
	if r.ctx != nil {
		select {
		case <-r.ctx.Done():
			r.Fail(&IOError{Op: "read", Err: r.ctx.Err()})
			return r.err
		default:
		}
	}
	n, err := io.ReadFull(r.r, p)
	r.bytesRead += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.Fail(ErrEndOfStream)
		} else {
			r.Fail(&IOError{Op: "read", Err: err})
		}
		return r.err
	}
	return nil
}

func (r *Reader) read(n int) []byte {
	buf := r.scratch[:n]
	if r.ReadFull(buf) != nil {
		return nil
	}
	return buf
}

// ReadBool reads one byte and decodes it as a boolean. Any byte other
// than 0 or 1 latches an InvalidBoolError.
func (r *Reader) ReadBool() bool {
	buf := r.read(1)
	if buf == nil {
		return false
	}
	switch buf[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		r.Fail(InvalidBoolError(buf[0]))
		return false
	}
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() uint8 {
	buf := r.read(1)
	if buf == nil {
		return 0
	}
	return buf[0]
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() int8 { return int8(r.ReadUint8()) }

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() uint16 {
	buf := r.read(2)
	if buf == nil {
		return 0
	}
	return binary.BigEndian.Uint16(buf)
}

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() int16 { return int16(r.ReadUint16()) }

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() uint32 {
	buf := r.read(4)
	if buf == nil {
		return 0
	}
	return binary.BigEndian.Uint32(buf)
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() int32 { return int32(r.ReadUint32()) }

// ReadUint64 reads a big-endian uint64.
func (r *Reader) ReadUint64() uint64 {
	buf := r.read(8)
	if buf == nil {
		return 0
	}
	return binary.BigEndian.Uint64(buf)
}

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() int64 { return int64(r.ReadUint64()) }

// ReadFloat32 reads a big-endian IEEE-754 float32. Non-finite values
// latch ErrFloatNotFinite.
func (r *Reader) ReadFloat32() float32 {
	v := math.Float32frombits(r.ReadUint32())
	if r.err != nil {
		return 0
	}
	if f64 := float64(v); math.IsNaN(f64) || math.IsInf(f64, 0) {
		r.Fail(ErrFloatNotFinite)
		return 0
	}
	return v
}

// ReadFloat64 reads a big-endian IEEE-754 float64. Non-finite values
// latch ErrFloatNotFinite.
func (r *Reader) ReadFloat64() float64 {
	v := math.Float64frombits(r.ReadUint64())
	if r.err != nil {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.Fail(ErrFloatNotFinite)
		return 0
	}
	return v
}

// ReadLen reads a 64-bit length field for a container whose elements
// encode to at least minEltSize bytes each, and reserves the implied
// space against the decode budget before any element bytes are consumed.
// On failure it latches the error and returns 0, so decode loops simply
// do not run.
func (r *Reader) ReadLen(minEltSize uint64) int {
	n := r.ReadUint64()
	if r.err != nil {
		return 0
	}
	if n > math.MaxInt64 {
		r.Fail(&OversizedError{Requested: n, Remaining: r.budget.Remaining()})
		return 0
	}
	if err := r.budget.Reserve(n, minEltSize); err != nil {
		r.Fail(err)
		return 0
	}
	return int(n)
}

// ReadString reads a 64-bit byte length followed by that many UTF-8
// bytes. Invalid UTF-8 latches ErrInvalidUTF8 and discards the payload.
func (r *Reader) ReadString() string {
	b := r.ReadByteSlice()
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Fail(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// ReadByteSlice reads a 64-bit byte length followed by that many raw
// bytes, charging the payload against the decode budget first.
func (r *Reader) ReadByteSlice() []byte {
	n := r.ReadUint64()
	if r.err != nil {
		return nil
	}
	if n > math.MaxInt64 {
		r.Fail(&OversizedError{Requested: n, Remaining: r.budget.Remaining()})
		return nil
	}
	if err := r.budget.ReserveBytes(n); err != nil {
		r.Fail(err)
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	buf := make([]byte, n)
	if r.ReadFull(buf) != nil {
		return nil
	}
	return buf
}

// ReadDiscrim reads a one-byte union discriminant and validates it
// against a contiguous variant range [0, variants). Out-of-range values
// latch an UnknownVariantError carrying the offending discriminant.
func (r *Reader) ReadDiscrim(variants int) byte {
	d := r.ReadUint8()
	if r.err != nil {
		return 0
	}
	if int(d) >= variants {
		r.Fail(UnknownVariantError(d))
		return 0
	}
	return d
}

// ReadDiscrimAny reads a one-byte union discriminant without validating
// it. Generated code for unions with explicit discriminant overrides
// validates against its own set and calls Fail with an
// UnknownVariantError for anything else.
func (r *Reader) ReadDiscrimAny() byte { return r.ReadUint8() }
