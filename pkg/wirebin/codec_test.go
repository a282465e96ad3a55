package wirebin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructRoundTrip(t *testing.T) {
	in := wirePoint{X: -7, Y: 12, Label: "origin-ish", cachedArea: 99}
	data, err := Marshal(&in)
	require.NoError(t, err)

	var out wirePoint
	require.NoError(t, Unmarshal(data, &out))
	require.Equal(t, in.X, out.X)
	require.Equal(t, in.Y, out.Y)
	require.Equal(t, in.Label, out.Label)
	// Wire-skipped field comes back as its zero value.
	require.Zero(t, out.cachedArea)
}

func TestStructFieldOrderIsLoadBearing(t *testing.T) {
	in := wirePoint{X: 1, Y: 2, Label: "p"}
	data, err := Marshal(&in)
	require.NoError(t, err)
	// X then Y then Label: first 8 bytes are the two int32 fields.
	require.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, data[:8])
}

func TestUnionWireBytes(t *testing.T) {
	// Second variant, no payload: a single discriminant byte.
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, encodeCommand(w, cmdQuit{}))
	require.Equal(t, []byte{0x01}, buf.Bytes())
}

func TestUnionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, encodeCommand(w, cmdPing{Seq: 77}))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	got, err := decodeCommand(r)
	require.NoError(t, err)
	require.Equal(t, cmdPing{Seq: 77}, got)
}

func TestUnionUnknownVariant(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x05}))
	_, err := decodeCommand(r)
	var unknown UnknownVariantError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint64(5), uint64(unknown))
}

func TestUnionEncodeNil(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.Error(t, encodeCommand(w, nil))
}

func TestRecursiveRoundTrip(t *testing.T) {
	in := &listNode{Value: 1, Next: &listNode{Value: 2, Next: &listNode{Value: 3}}}
	data, err := Marshal(in)
	require.NoError(t, err)

	var out listNode
	require.NoError(t, Unmarshal(data, &out))
	require.Equal(t, *in, out)
}

func TestRecursiveDepthBound(t *testing.T) {
	head := &listNode{Value: 0}
	cur := head
	for i := 1; i < DefaultMaxDepth+8; i++ {
		cur.Next = &listNode{Value: uint32(i)}
		cur = cur.Next
	}
	data, err := Marshal(head)
	require.NoError(t, err)

	var out listNode
	err = Unmarshal(data, &out)
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestMarshalValueMatchesWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteString("same bytes")
	require.NoError(t, w.Err())

	data, err := MarshalValue[string](StringCodec{}, "same bytes")
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), data)
}

func TestUnmarshalBudgetFromBuffer(t *testing.T) {
	// A length field claiming far more strings than the buffer holds.
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteUint64(1 << 40)
	require.NoError(t, w.Err())

	_, err := UnmarshalValue(SeqOf[string](StringCodec{}), buf.Bytes())
	var oversized *OversizedError
	require.ErrorAs(t, err, &oversized)
	require.Less(t, oversized.Remaining, oversized.Requested)
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register("point", func() Codec { return new(wirePoint) })
	reg.Register("list", func() Codec { return new(listNode) })

	v, ok := reg.New("point")
	require.True(t, ok)
	require.IsType(t, &wirePoint{}, v)

	_, ok = reg.New("missing")
	require.False(t, ok)

	require.Equal(t, 2, reg.Len())
	names := strings.Join(reg.Names(), ",")
	require.Contains(t, names, "point")
	require.Contains(t, names, "list")
}
