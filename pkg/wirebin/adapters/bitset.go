package adapters

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// BitSetCodec encodes a bit-vector as its length in bits (uint64)
// followed by the packed 64-bit words, most significant byte first.
type BitSetCodec struct{}

func (BitSetCodec) Write(w *wirebin.Writer, v *bitset.BitSet) {
	if v == nil {
		w.WriteUint64(0)
		return
	}
	w.WriteUint64(uint64(v.Len()))
	for _, word := range v.Bytes() {
		w.WriteUint64(word)
	}
}

func (BitSetCodec) Read(r *wirebin.Reader) *bitset.BitSet {
	bits := r.ReadUint64()
	if r.Err() != nil {
		return nil
	}
	if bits > math.MaxUint64-63 {
		r.Fail(wirebin.Errorf("bit length out of range: %d", bits))
		return nil
	}
	words := (bits + 63) / 64
	if err := r.Budget().Reserve(words, 8); err != nil {
		r.Fail(err)
		return nil
	}
	buf := make([]uint64, 0, words)
	for i := uint64(0); i < words; i++ {
		buf = append(buf, r.ReadUint64())
		if r.Err() != nil {
			return nil
		}
	}
	return bitset.FromWithLength(uint(bits), buf)
}

func (BitSetCodec) MinSize() uint64 { return 8 }
