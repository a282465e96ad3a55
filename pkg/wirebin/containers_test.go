package wirebin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptySeqWireBytes(t *testing.T) {
	data, err := MarshalValue(SeqOf[uint32](Uint32Codec{}), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, data)
}

func TestSeqRoundTrip(t *testing.T) {
	codec := SeqOf[string](StringCodec{})
	in := []string{"alpha", "", "gamma"}
	data, err := MarshalValue(codec, in)
	require.NoError(t, err)
	out, err := UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestNestedSeqRoundTrip(t *testing.T) {
	codec := SeqOf[[]uint16](SeqOf[uint16](Uint16Codec{}))
	in := [][]uint16{{1, 2}, {}, {65535}}
	data, err := MarshalValue(codec, in)
	require.NoError(t, err)
	out, err := UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestOptionWireBytes(t *testing.T) {
	codec := OptionOf[int32](Int32Codec{})

	data, err := MarshalValue(codec, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, data)

	seven := int32(7)
	data, err = MarshalValue(codec, &seven)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x00, 0x07}, data)

	out, err := UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, int32(7), *out)
}

func TestResultRoundTrip(t *testing.T) {
	codec := ResultOf[uint64, string](Uint64Codec{}, StringCodec{})

	data, err := MarshalValue(codec, Ok[uint64, string](99))
	require.NoError(t, err)
	require.Equal(t, byte(0x00), data[0])
	out, err := UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.False(t, out.IsErr)
	require.Equal(t, uint64(99), out.Value)

	data, err = MarshalValue(codec, Fail[uint64, string]("boom"))
	require.NoError(t, err)
	require.Equal(t, byte(0x01), data[0])
	out, err = UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.True(t, out.IsErr)
	require.Equal(t, "boom", out.Err)
}

func TestResultBadDiscrim(t *testing.T) {
	codec := ResultOf[uint64, string](Uint64Codec{}, StringCodec{})
	_, err := UnmarshalValue(codec, []byte{0x02})
	var unknown UnknownVariantError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint64(2), uint64(unknown))
}

func TestTupleRoundTrip(t *testing.T) {
	pair := PairOf[uint8, string](Uint8Codec{}, StringCodec{})
	data, err := MarshalValue(pair, Pair[uint8, string]{First: 9, Second: "nine"})
	require.NoError(t, err)
	// No header bytes: the payload starts with the first element.
	require.Equal(t, byte(9), data[0])
	p, err := UnmarshalValue(pair, data)
	require.NoError(t, err)
	require.Equal(t, Pair[uint8, string]{First: 9, Second: "nine"}, p)

	triple := TripleOf[bool, int64, float64](BoolCodec{}, Int64Codec{}, Float64Codec{})
	tr, err := UnmarshalValue(triple, mustMarshalValue(t, triple, Triple[bool, int64, float64]{true, -4, 2.5}))
	require.NoError(t, err)
	require.Equal(t, Triple[bool, int64, float64]{true, -4, 2.5}, tr)
}

func mustMarshalValue[T any](t *testing.T, rw ReadWriter[T], v T) []byte {
	t.Helper()
	data, err := MarshalValue(rw, v)
	require.NoError(t, err)
	return data
}

func TestFixedArrayNoLengthField(t *testing.T) {
	codec := ArrayOf[uint16](3, Uint16Codec{})
	data, err := MarshalValue(codec, []uint16{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, data, 6)
	out, err := UnmarshalValue(codec, data)
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 2, 3}, out)

	_, err = MarshalValue(codec, []uint16{1})
	require.Error(t, err)
}

func TestMapRoundTrip(t *testing.T) {
	codec := MapOf[string, uint32](StringCodec{}, Uint32Codec{})
	in := map[string]uint32{"a": 1, "b": 2, "c": 3}
	out, err := UnmarshalValue(codec, mustMarshalValue(t, codec, in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSortedMapDeterministic(t *testing.T) {
	codec := SortedMapOf[string, uint32](StringCodec{}, Uint32Codec{})
	in := map[string]uint32{"x": 10, "a": 1, "m": 5}
	first := mustMarshalValue(t, codec, in)
	for i := 0; i < 8; i++ {
		require.Equal(t, first, mustMarshalValue(t, codec, in))
	}
	out, err := UnmarshalValue(codec, first)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSetRoundTrip(t *testing.T) {
	codec := SetOf[uint64](Uint64Codec{})
	in := map[uint64]struct{}{7: {}, 8: {}, 1 << 40: {}}
	out, err := UnmarshalValue(codec, mustMarshalValue(t, codec, in))
	require.NoError(t, err)
	require.Equal(t, in, out)

	sorted := SortedSetOf[uint64](Uint64Codec{})
	first := mustMarshalValue(t, sorted, in)
	require.Equal(t, first, mustMarshalValue(t, sorted, in))
}

func TestSeqElementErrorAborts(t *testing.T) {
	// Two booleans claimed; the second byte is malformed.
	codec := SeqOf[bool](BoolCodec{})
	data := append([]byte{0, 0, 0, 0, 0, 0, 0, 2}, 0x01, 0x07)
	_, err := UnmarshalValue(codec, data)
	var invalid InvalidBoolError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, byte(0x07), byte(invalid))
}

func TestStructOfAdaptsCodec(t *testing.T) {
	codec := SeqOf[wirePoint](StructOf[wirePoint](16))
	in := []wirePoint{{X: 1, Y: 2, Label: "a"}, {X: -3, Y: 4, Label: "b"}}
	out, err := UnmarshalValue(codec, mustMarshalValue(t, codec, in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDepthLimit(t *testing.T) {
	// A run of "present" markers deeper than the limit.
	data := bytes.Repeat([]byte{0x01}, 16)
	r := NewReader(bytes.NewReader(data), WithMaxDepth(4))
	for i := 0; i < len(data); i++ {
		if !r.ReadBool() {
			break
		}
		if r.EnterNested() != nil {
			break
		}
	}
	require.ErrorIs(t, r.Err(), ErrDepthExceeded)
}
