package adapters

import (
	"time"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// TimeCodec encodes an instant as Unix seconds (int64) followed by the
// sub-second nanoseconds (uint32). Location information is not carried;
// decoded values are in UTC.
type TimeCodec struct{}

func (TimeCodec) Write(w *wirebin.Writer, v time.Time) {
	w.WriteInt64(v.Unix())
	w.WriteUint32(uint32(v.Nanosecond()))
}

func (TimeCodec) Read(r *wirebin.Reader) time.Time {
	secs := r.ReadInt64()
	nanos := r.ReadUint32()
	if r.Err() != nil {
		return time.Time{}
	}
	if nanos >= 1e9 {
		r.Fail(wirebin.Errorf("subsecond nanos out of range: %d", nanos))
		return time.Time{}
	}
	return time.Unix(secs, int64(nanos)).UTC()
}

func (TimeCodec) MinSize() uint64 { return 12 }

// DurationCodec encodes a non-negative span as whole seconds (uint64)
// followed by the sub-second nanoseconds (uint32). Negative durations
// fail to encode.
type DurationCodec struct{}

func (DurationCodec) Write(w *wirebin.Writer, v time.Duration) {
	if v < 0 {
		w.Fail(wirebin.Errorf("cannot encode negative duration %s", v))
		return
	}
	w.WriteUint64(uint64(v / time.Second))
	w.WriteUint32(uint32(v % time.Second))
}

func (DurationCodec) Read(r *wirebin.Reader) time.Duration {
	secs := r.ReadUint64()
	nanos := r.ReadUint32()
	if r.Err() != nil {
		return 0
	}
	if nanos >= 1e9 {
		r.Fail(wirebin.Errorf("subsecond nanos out of range: %d", nanos))
		return 0
	}
	const maxSecs = uint64(1<<63-1) / uint64(time.Second)
	if secs > maxSecs {
		r.Fail(wirebin.Errorf("duration overflows int64 nanoseconds: %ds", secs))
		return 0
	}
	d := time.Duration(secs)*time.Second + time.Duration(nanos)
	if d < 0 {
		r.Fail(wirebin.Errorf("duration overflows int64 nanoseconds: %ds", secs))
		return 0
	}
	return d
}

func (DurationCodec) MinSize() uint64 { return 12 }
