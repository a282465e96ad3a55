package adapters

import (
	"github.com/google/uuid"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// UUIDCodec encodes a UUID as its 16 raw bytes, no length field.
type UUIDCodec struct{}

func (UUIDCodec) Write(w *wirebin.Writer, v uuid.UUID) {
	w.WriteFull(v[:])
}

func (UUIDCodec) Read(r *wirebin.Reader) uuid.UUID {
	var v uuid.UUID
	if r.ReadFull(v[:]) != nil {
		return uuid.UUID{}
	}
	return v
}

func (UUIDCodec) MinSize() uint64 { return 16 }
