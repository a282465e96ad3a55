package adapters

import (
	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// HashKind identifies the algorithm behind a content digest.
type HashKind uint8

const (
	SHA1   HashKind = 0 // 20-byte digest
	SHA256 HashKind = 1 // 32-byte digest
)

// DigestSize returns the digest length in bytes, or 0 for an unknown
// kind.
func (k HashKind) DigestSize() int {
	switch k {
	case SHA1:
		return 20
	case SHA256:
		return 32
	}
	return 0
}

// Digest is a content hash: an algorithm kind plus its fixed-size
// digest bytes.
type Digest struct {
	Kind  HashKind
	bytes [32]byte
}

// NewDigest builds a Digest from raw digest bytes. The length must
// match the kind's digest size.
func NewDigest(kind HashKind, raw []byte) (Digest, error) {
	if len(raw) != kind.DigestSize() || kind.DigestSize() == 0 {
		return Digest{}, wirebin.Errorf("digest length %d does not match hash kind %d", len(raw), kind)
	}
	d := Digest{Kind: kind}
	copy(d.bytes[:], raw)
	return d, nil
}

// Bytes returns the digest bytes.
func (d Digest) Bytes() []byte { return d.bytes[:d.Kind.DigestSize()] }

// DigestCodec encodes a Digest as a one-byte kind discriminant followed
// by the kind's fixed number of digest bytes.
type DigestCodec struct{}

func (DigestCodec) Write(w *wirebin.Writer, v Digest) {
	if v.Kind.DigestSize() == 0 {
		w.Fail(wirebin.UnknownVariantError(v.Kind))
		return
	}
	w.WriteDiscrim(byte(v.Kind))
	w.WriteFull(v.bytes[:v.Kind.DigestSize()])
}

func (DigestCodec) Read(r *wirebin.Reader) Digest {
	kind := HashKind(r.ReadDiscrimAny())
	if r.Err() != nil {
		return Digest{}
	}
	size := kind.DigestSize()
	if size == 0 {
		r.Fail(wirebin.UnknownVariantError(kind))
		return Digest{}
	}
	d := Digest{Kind: kind}
	if r.ReadFull(d.bytes[:size]) != nil {
		return Digest{}
	}
	return d
}

func (DigestCodec) MinSize() uint64 { return 21 }
