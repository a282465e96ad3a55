package wirebin

import (
	"context"
	"encoding/binary"
	"io"
	"math"
)

// Writer encodes Go values into the wirebin format.
//
// It wraps an io.Writer and mirrors Reader's latched-error discipline:
// after the first failure every method is a no-op and Err reports what
// went wrong. A Writer serves one encode call tree at a time; concurrent
// encodes on the same underlying stream would corrupt byte framing.
type Writer struct {
	w            io.Writer
	ctx          context.Context
	err          error
	bytesWritten int64
	scratch      [8]byte
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriteContext makes the writer check ctx before every transport
// write.
func WithWriteContext(ctx context.Context) WriterOption {
	return func(w *Writer) { w.ctx = ctx }
}

// NewWriter returns a Writer encoding to sink. A *bytes.Buffer is the
// common in-memory sink.
func NewWriter(sink io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{w: sink}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Err returns the first error that occurred during writing, if any.
func (w *Writer) Err() error { return w.err }

// BytesWritten returns the number of bytes successfully written.
func (w *Writer) BytesWritten() int64 { return w.bytesWritten }

// Fail latches err as the writer's error.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// WriteFull writes all of p to the stream, latching an *IOError on
// failure.
func (w *Writer) WriteFull(p []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.ctx != nil {
		select {
		case <-w.ctx.Done():
			w.Fail(&IOError{Op: "write", Err: w.ctx.Err()})
			return w.err
		default:
		}
	}
	n, err := w.w.Write(p)
	w.bytesWritten += int64(n)
	if err != nil {
		w.Fail(&IOError{Op: "write", Err: err})
		return w.err
	}
	return nil
}

// WriteBool writes a boolean as a single 0 or 1 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.scratch[0] = v
	w.WriteFull(w.scratch[:1])
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	binary.BigEndian.PutUint16(w.scratch[:2], v)
	w.WriteFull(w.scratch[:2])
}

// WriteInt16 writes a big-endian int16.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	binary.BigEndian.PutUint32(w.scratch[:4], v)
	w.WriteFull(w.scratch[:4])
}

// WriteInt32 writes a big-endian int32.
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteUint64 writes a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	binary.BigEndian.PutUint64(w.scratch[:8], v)
	w.WriteFull(w.scratch[:8])
}

// WriteInt64 writes a big-endian int64.
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

// WriteFloat32 writes a big-endian IEEE-754 float32. Non-finite values
// latch ErrFloatNotFinite before anything reaches the stream, keeping
// encode and decode symmetric.
func (w *Writer) WriteFloat32(v float32) {
	if f64 := float64(v); math.IsNaN(f64) || math.IsInf(f64, 0) {
		w.Fail(ErrFloatNotFinite)
		return
	}
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes a big-endian IEEE-754 float64. Non-finite values
// latch ErrFloatNotFinite before anything reaches the stream.
func (w *Writer) WriteFloat64(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.Fail(ErrFloatNotFinite)
		return
	}
	w.WriteUint64(math.Float64bits(v))
}

// WriteLen writes a 64-bit container length field.
func (w *Writer) WriteLen(n int) {
	if n < 0 {
		w.Fail(Errorf("negative container length %d", n))
		return
	}
	w.WriteUint64(uint64(n))
}

// WriteString writes a 64-bit byte length followed by the string's UTF-8
// bytes.
func (w *Writer) WriteString(s string) {
	w.WriteUint64(uint64(len(s)))
	if len(s) > 0 {
		w.WriteFull([]byte(s))
	}
}

// WriteByteSlice writes a 64-bit byte length followed by the raw bytes.
func (w *Writer) WriteByteSlice(b []byte) {
	w.WriteUint64(uint64(len(b)))
	if len(b) > 0 {
		w.WriteFull(b)
	}
}

// WriteDiscrim writes a one-byte union discriminant.
func (w *Writer) WriteDiscrim(d byte) { w.WriteUint8(d) }
