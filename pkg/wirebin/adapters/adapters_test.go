package adapters

import (
	"bytes"
	"testing"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/coreos/go-semver/semver"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

func roundTrip[T any](t *testing.T, codec wirebin.ReadWriter[T], v T) T {
	t.Helper()
	data, err := wirebin.MarshalValue(codec, v)
	require.NoError(t, err)
	out, err := wirebin.UnmarshalValue(codec, data)
	require.NoError(t, err)
	return out
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.MustParse("a2a29f9d-9a2b-4c54-a02b-5a04e1c0b2aa")
	require.Equal(t, id, roundTrip[uuid.UUID](t, UUIDCodec{}, id))

	data, err := wirebin.MarshalValue[uuid.UUID](UUIDCodec{}, id)
	require.NoError(t, err)
	require.Equal(t, id[:], data)
}

func TestUUIDTruncated(t *testing.T) {
	r := wirebin.NewReader(bytes.NewReader(make([]byte, 7)))
	UUIDCodec{}.Read(r)
	require.ErrorIs(t, r.Err(), wirebin.ErrEndOfStream)
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 7, 13, 37, 0, 123456789, time.UTC)
	require.True(t, in.Equal(roundTrip[time.Time](t, TimeCodec{}, in)))

	// Pre-epoch instants survive as well.
	in = time.Date(1913, time.June, 1, 0, 0, 1, 5, time.UTC)
	require.True(t, in.Equal(roundTrip[time.Time](t, TimeCodec{}, in)))
}

func TestTimeBadNanos(t *testing.T) {
	var buf bytes.Buffer
	w := wirebin.NewWriter(&buf)
	w.WriteInt64(0)
	w.WriteUint32(2_000_000_000)
	require.NoError(t, w.Err())

	_, err := wirebin.UnmarshalValue[time.Time](TimeCodec{}, buf.Bytes())
	require.Error(t, err)
}

func TestDurationRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{0, time.Nanosecond, 90*time.Minute + 17*time.Nanosecond} {
		require.Equal(t, d, roundTrip[time.Duration](t, DurationCodec{}, d))
	}
}

func TestDurationNegativeFails(t *testing.T) {
	_, err := wirebin.MarshalValue[time.Duration](DurationCodec{}, -time.Second)
	require.Error(t, err)
}

func TestSemverRoundTrip(t *testing.T) {
	v := semver.Version{Major: 2, Minor: 11, Patch: 3, PreRelease: "rc.1", Metadata: "build.5"}
	require.Equal(t, v, roundTrip[semver.Version](t, SemverCodec{}, v))

	plain := semver.Version{Major: 0, Minor: 1, Patch: 0}
	require.Equal(t, plain, roundTrip[semver.Version](t, SemverCodec{}, plain))
}

func TestDecimalRoundTrip(t *testing.T) {
	cases := []string{"0", "1.5", "-1234567890123456789.000000001", "0.00000042"}
	for _, s := range cases {
		in := decimal.RequireFromString(s)
		out := roundTrip[decimal.Decimal](t, DecimalCodec{}, in)
		require.True(t, in.Equal(out), "want %s, got %s", in, out)
	}
}

func TestBitSetRoundTrip(t *testing.T) {
	in := bitset.New(130)
	in.Set(0).Set(63).Set(64).Set(129)
	out := roundTrip[*bitset.BitSet](t, BitSetCodec{}, in)
	require.True(t, in.Equal(out))

	empty := roundTrip[*bitset.BitSet](t, BitSetCodec{}, bitset.New(0))
	require.Equal(t, uint(0), empty.Len())
}

func TestBitSetHostileLength(t *testing.T) {
	// Claims 2^40 bits with no words following.
	var buf bytes.Buffer
	w := wirebin.NewWriter(&buf)
	w.WriteUint64(1 << 40)
	require.NoError(t, w.Err())

	_, err := wirebin.UnmarshalValue[*bitset.BitSet](BitSetCodec{}, buf.Bytes())
	var oversized *wirebin.OversizedError
	require.ErrorAs(t, err, &oversized)
}

func TestDigestRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0xab}, 32)
	d, err := NewDigest(SHA256, raw)
	require.NoError(t, err)
	out := roundTrip[Digest](t, DigestCodec{}, d)
	require.Equal(t, d.Kind, out.Kind)
	require.Equal(t, d.Bytes(), out.Bytes())

	_, err = NewDigest(SHA1, raw) // wrong length for SHA1
	require.Error(t, err)
}

func TestDigestUnknownKind(t *testing.T) {
	_, err := wirebin.UnmarshalValue[Digest](DigestCodec{}, []byte{0x09})
	var unknown wirebin.UnknownVariantError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint64(9), uint64(unknown))
}

func TestSnowflakeRoundTrip(t *testing.T) {
	id := Snowflake(175928847299117063)
	require.Equal(t, id, roundTrip[Snowflake](t, SnowflakeCodec{}, id))
}

func TestAdapterInContainers(t *testing.T) {
	codec := wirebin.MapOf[Snowflake, *time.Time](
		SnowflakeCodec{},
		wirebin.OptionOf[time.Time](TimeCodec{}),
	)
	now := time.Unix(1714000000, 0).UTC()
	in := map[Snowflake]*time.Time{1: &now, 2: nil}
	data, err := wirebin.MarshalValue(codec, in)
	require.NoError(t, err)
	out, err := wirebin.UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Nil(t, out[2])
	require.True(t, now.Equal(*out[1]))
}
