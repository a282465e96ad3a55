// Package wirebin implements a compact, positional binary serialization
// format over byte streams.
//
// Wire format v1: fixed-width integers in big-endian byte order, 64-bit
// unsigned length fields before variable-length payloads, one-byte
// discriminants for booleans, options, results and tagged unions. No
// field names or type tags appear on the wire; the decoding side must
// already know the expected type, and fields are visited in declaration
// order on both sides. Cross-version wire compatibility is not
// guaranteed.
//
// Composite types obtain their codec from the wirebingen generator (see
// cmd/wirebingen), which emits EncodeWire/DecodeWire methods satisfying
// the Codec contract without runtime reflection.
package wirebin

import "bytes"

// Encoder is the encode half of the codec contract. EncodeWire appends
// the value's deterministic byte sequence to w and reports the first
// failure.
type Encoder interface {
	EncodeWire(w *Writer) error
}

// Decoder is the decode half of the codec contract. DecodeWire consumes
// exactly the bytes the value needs from r, assembling into the
// receiver, and reports the first failure. The receiver must be a
// pointer.
type Decoder interface {
	DecodeWire(r *Reader) error
}

// Codec is the paired encode/decode capability a type must implement to
// participate in the wire format.
type Codec interface {
	Encoder
	Decoder
}

// ReadWriter is a standalone codec for values of type T, used where the
// codec is not bound to a concrete method set: container combinators,
// external type adapters, and registry entries.
//
// Read relies on the Reader's latched-error discipline: after a failure
// it returns the zero value and the error is available from Reader.Err.
type ReadWriter[T any] interface {
	// Write encodes v through w.
	Write(w *Writer, v T)
	// Read decodes a value of type T from r.
	Read(r *Reader) T
	// MinSize returns a lower bound on the encoded size of any value of
	// type T, in bytes. Container decoders use it to size budget
	// reservations before allocating.
	MinSize() uint64
}

// Marshal encodes v into a fresh buffer.
func Marshal(v Encoder) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := v.EncodeWire(w); err != nil {
		return nil, err
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v. The decode budget is derived from
// len(data), so a length field claiming more than the buffer holds fails
// with an oversized-request error before allocating.
func Unmarshal(data []byte, v Decoder) error {
	r := NewReader(bytes.NewReader(data))
	if err := v.DecodeWire(r); err != nil {
		return err
	}
	return r.Err()
}

// MarshalValue encodes v using a standalone codec.
func MarshalValue[T any](rw ReadWriter[T], v T) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	rw.Write(w, v)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalValue decodes a value of type T from data using a standalone
// codec.
func UnmarshalValue[T any](rw ReadWriter[T], data []byte) (T, error) {
	r := NewReader(bytes.NewReader(data))
	v := rw.Read(r)
	if err := r.Err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
