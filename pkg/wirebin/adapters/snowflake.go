package adapters

import (
	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// Snowflake is a 64-bit platform identifier (user, channel, guild and
// similar IDs from chat platforms). Zero is the "missing" value.
type Snowflake uint64

// SnowflakeCodec encodes a Snowflake as a plain uint64.
type SnowflakeCodec struct{}

func (SnowflakeCodec) Write(w *wirebin.Writer, v Snowflake) { w.WriteUint64(uint64(v)) }

func (SnowflakeCodec) Read(r *wirebin.Reader) Snowflake { return Snowflake(r.ReadUint64()) }

func (SnowflakeCodec) MinSize() uint64 { return 8 }
