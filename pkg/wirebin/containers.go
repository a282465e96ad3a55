package wirebin

import (
	"cmp"
	"slices"
)

// Standalone codecs for the primitive wire shapes. These are the leaves
// the container combinators below are built from.

type BoolCodec struct{}

func (BoolCodec) Write(w *Writer, v bool) { w.WriteBool(v) }
func (BoolCodec) Read(r *Reader) bool     { return r.ReadBool() }
func (BoolCodec) MinSize() uint64         { return 1 }

type Uint8Codec struct{}

func (Uint8Codec) Write(w *Writer, v uint8) { w.WriteUint8(v) }
func (Uint8Codec) Read(r *Reader) uint8     { return r.ReadUint8() }
func (Uint8Codec) MinSize() uint64          { return 1 }

type Int8Codec struct{}

func (Int8Codec) Write(w *Writer, v int8) { w.WriteInt8(v) }
func (Int8Codec) Read(r *Reader) int8     { return r.ReadInt8() }
func (Int8Codec) MinSize() uint64         { return 1 }

type Uint16Codec struct{}

func (Uint16Codec) Write(w *Writer, v uint16) { w.WriteUint16(v) }
func (Uint16Codec) Read(r *Reader) uint16     { return r.ReadUint16() }
func (Uint16Codec) MinSize() uint64           { return 2 }

type Int16Codec struct{}

func (Int16Codec) Write(w *Writer, v int16) { w.WriteInt16(v) }
func (Int16Codec) Read(r *Reader) int16     { return r.ReadInt16() }
func (Int16Codec) MinSize() uint64          { return 2 }

type Uint32Codec struct{}

func (Uint32Codec) Write(w *Writer, v uint32) { w.WriteUint32(v) }
func (Uint32Codec) Read(r *Reader) uint32     { return r.ReadUint32() }
func (Uint32Codec) MinSize() uint64           { return 4 }

type Int32Codec struct{}

func (Int32Codec) Write(w *Writer, v int32) { w.WriteInt32(v) }
func (Int32Codec) Read(r *Reader) int32     { return r.ReadInt32() }
func (Int32Codec) MinSize() uint64          { return 4 }

type Uint64Codec struct{}

func (Uint64Codec) Write(w *Writer, v uint64) { w.WriteUint64(v) }
func (Uint64Codec) Read(r *Reader) uint64     { return r.ReadUint64() }
func (Uint64Codec) MinSize() uint64           { return 8 }

type Int64Codec struct{}

func (Int64Codec) Write(w *Writer, v int64) { w.WriteInt64(v) }
func (Int64Codec) Read(r *Reader) int64     { return r.ReadInt64() }
func (Int64Codec) MinSize() uint64          { return 8 }

type Float32Codec struct{}

func (Float32Codec) Write(w *Writer, v float32) { w.WriteFloat32(v) }
func (Float32Codec) Read(r *Reader) float32     { return r.ReadFloat32() }
func (Float32Codec) MinSize() uint64            { return 4 }

type Float64Codec struct{}

func (Float64Codec) Write(w *Writer, v float64) { w.WriteFloat64(v) }
func (Float64Codec) Read(r *Reader) float64     { return r.ReadFloat64() }
func (Float64Codec) MinSize() uint64            { return 8 }

type StringCodec struct{}

func (StringCodec) Write(w *Writer, v string) { w.WriteString(v) }
func (StringCodec) Read(r *Reader) string     { return r.ReadString() }
func (StringCodec) MinSize() uint64           { return 8 }

type BytesCodec struct{}

func (BytesCodec) Write(w *Writer, v []byte) { w.WriteByteSlice(v) }
func (BytesCodec) Read(r *Reader) []byte     { return r.ReadByteSlice() }
func (BytesCodec) MinSize() uint64           { return 8 }

// StructOf adapts a type implementing Codec to the standalone ReadWriter
// shape so it can be used as a container element. minSize is the lower
// bound of the type's encoded size; the generator computes it, and 0 is
// safe for hand-written callers (it is charged as one byte per element).
func StructOf[T any, PT interface {
	*T
	Codec
}](minSize uint64) ReadWriter[T] {
	return structCodec[T, PT]{minSize: minSize}
}

type structCodec[T any, PT interface {
	*T
	Codec
}] struct {
	minSize uint64
}

func (c structCodec[T, PT]) Write(w *Writer, v T) {
	if err := PT(&v).EncodeWire(w); err != nil {
		w.Fail(err)
	}
}

func (c structCodec[T, PT]) Read(r *Reader) T {
	var v T
	if err := PT(&v).DecodeWire(r); err != nil {
		r.Fail(err)
	}
	return v
}

func (c structCodec[T, PT]) MinSize() uint64 { return c.minSize }

// SeqOf builds a codec for an ordered list: a 64-bit length field
// followed by that many elements. Decode reserves length×MinSize against
// the budget before allocating.
func SeqOf[T any](elem ReadWriter[T]) ReadWriter[[]T] {
	return seqCodec[T]{elem: elem}
}

type seqCodec[T any] struct {
	elem ReadWriter[T]
}

func (c seqCodec[T]) Write(w *Writer, v []T) {
	w.WriteLen(len(v))
	for i := range v {
		c.elem.Write(w, v[i])
	}
}

func (c seqCodec[T]) Read(r *Reader) []T {
	if r.EnterNested() != nil {
		return nil
	}
	defer r.LeaveNested()
	n := r.ReadLen(c.elem.MinSize())
	if r.Err() != nil {
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.elem.Read(r))
		if r.Err() != nil {
			return nil
		}
	}
	return out
}

func (c seqCodec[T]) MinSize() uint64 { return 8 }

// ArrayOf builds a codec for a fixed-size sequence: exactly size
// elements, no length field. Encoding a slice of any other length fails.
func ArrayOf[T any](size int, elem ReadWriter[T]) ReadWriter[[]T] {
	return arrayCodec[T]{size: size, elem: elem}
}

type arrayCodec[T any] struct {
	size int
	elem ReadWriter[T]
}

func (c arrayCodec[T]) Write(w *Writer, v []T) {
	if len(v) != c.size {
		w.Fail(Errorf("fixed array length %d, got %d elements", c.size, len(v)))
		return
	}
	for i := range v {
		c.elem.Write(w, v[i])
	}
}

func (c arrayCodec[T]) Read(r *Reader) []T {
	if r.EnterNested() != nil {
		return nil
	}
	defer r.LeaveNested()
	if err := r.Budget().Reserve(uint64(c.size), c.elem.MinSize()); err != nil {
		r.Fail(err)
		return nil
	}
	out := make([]T, 0, c.size)
	for i := 0; i < c.size; i++ {
		out = append(out, c.elem.Read(r))
		if r.Err() != nil {
			return nil
		}
	}
	return out
}

func (c arrayCodec[T]) MinSize() uint64 { return uint64(c.size) * c.elem.MinSize() }

// OptionOf builds a codec for an optional value, represented as a
// pointer: one presence byte, then the payload if present.
func OptionOf[T any](elem ReadWriter[T]) ReadWriter[*T] {
	return optionCodec[T]{elem: elem}
}

type optionCodec[T any] struct {
	elem ReadWriter[T]
}

func (c optionCodec[T]) Write(w *Writer, v *T) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	c.elem.Write(w, *v)
}

func (c optionCodec[T]) Read(r *Reader) *T {
	if !r.ReadBool() {
		return nil
	}
	if r.EnterNested() != nil {
		return nil
	}
	defer r.LeaveNested()
	v := c.elem.Read(r)
	if r.Err() != nil {
		return nil
	}
	return &v
}

func (c optionCodec[T]) MinSize() uint64 { return 1 }

// Result carries either a success value or a failure payload, mirroring
// a result type on the wire: discriminant 0 for success, 1 for failure.
type Result[T, E any] struct {
	Value T
	Err   E
	IsErr bool
}

// Ok builds a success Result.
func Ok[T, E any](v T) Result[T, E] { return Result[T, E]{Value: v} }

// Fail builds a failure Result.
func Fail[T, E any](e E) Result[T, E] { return Result[T, E]{Err: e, IsErr: true} }

// ResultOf builds a codec for Result values from codecs for the two
// arms.
func ResultOf[T, E any](okCodec ReadWriter[T], errCodec ReadWriter[E]) ReadWriter[Result[T, E]] {
	return resultCodec[T, E]{ok: okCodec, fail: errCodec}
}

type resultCodec[T, E any] struct {
	ok   ReadWriter[T]
	fail ReadWriter[E]
}

func (c resultCodec[T, E]) Write(w *Writer, v Result[T, E]) {
	if v.IsErr {
		w.WriteDiscrim(1)
		c.fail.Write(w, v.Err)
		return
	}
	w.WriteDiscrim(0)
	c.ok.Write(w, v.Value)
}

func (c resultCodec[T, E]) Read(r *Reader) Result[T, E] {
	switch r.ReadDiscrim(2) {
	case 0:
		if r.Err() != nil {
			return Result[T, E]{}
		}
		return Result[T, E]{Value: c.ok.Read(r)}
	default:
		if r.Err() != nil {
			return Result[T, E]{}
		}
		return Result[T, E]{Err: c.fail.Read(r), IsErr: true}
	}
}

func (c resultCodec[T, E]) MinSize() uint64 { return 1 }

// Pair is a two-element tuple encoded as its elements in order with no
// header.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf builds a codec for Pair values.
func PairOf[A, B any](a ReadWriter[A], b ReadWriter[B]) ReadWriter[Pair[A, B]] {
	return pairCodec[A, B]{a: a, b: b}
}

type pairCodec[A, B any] struct {
	a ReadWriter[A]
	b ReadWriter[B]
}

func (c pairCodec[A, B]) Write(w *Writer, v Pair[A, B]) {
	c.a.Write(w, v.First)
	c.b.Write(w, v.Second)
}

func (c pairCodec[A, B]) Read(r *Reader) Pair[A, B] {
	first := c.a.Read(r)
	if r.Err() != nil {
		return Pair[A, B]{}
	}
	return Pair[A, B]{First: first, Second: c.b.Read(r)}
}

func (c pairCodec[A, B]) MinSize() uint64 { return c.a.MinSize() + c.b.MinSize() }

// Triple is a three-element tuple encoded as its elements in order.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// TripleOf builds a codec for Triple values.
func TripleOf[A, B, C any](a ReadWriter[A], b ReadWriter[B], cc ReadWriter[C]) ReadWriter[Triple[A, B, C]] {
	return tripleCodec[A, B, C]{a: a, b: b, c: cc}
}

type tripleCodec[A, B, C any] struct {
	a ReadWriter[A]
	b ReadWriter[B]
	c ReadWriter[C]
}

func (c tripleCodec[A, B, C]) Write(w *Writer, v Triple[A, B, C]) {
	c.a.Write(w, v.First)
	c.b.Write(w, v.Second)
	c.c.Write(w, v.Third)
}

func (c tripleCodec[A, B, C]) Read(r *Reader) Triple[A, B, C] {
	first := c.a.Read(r)
	if r.Err() != nil {
		return Triple[A, B, C]{}
	}
	second := c.b.Read(r)
	if r.Err() != nil {
		return Triple[A, B, C]{}
	}
	return Triple[A, B, C]{First: first, Second: second, Third: c.c.Read(r)}
}

func (c tripleCodec[A, B, C]) MinSize() uint64 {
	return c.a.MinSize() + c.b.MinSize() + c.c.MinSize()
}

// MapOf builds a codec for a hash map: a 64-bit pair count followed by
// key/value pairs in map iteration order. Round-trip equality is
// semantic; the byte order of entries is not canonical.
func MapOf[K comparable, V any](key ReadWriter[K], val ReadWriter[V]) ReadWriter[map[K]V] {
	return mapCodec[K, V]{key: key, val: val}
}

type mapCodec[K comparable, V any] struct {
	key ReadWriter[K]
	val ReadWriter[V]
}

func (c mapCodec[K, V]) Write(w *Writer, v map[K]V) {
	w.WriteLen(len(v))
	for k, e := range v {
		c.key.Write(w, k)
		c.val.Write(w, e)
	}
}

func (c mapCodec[K, V]) Read(r *Reader) map[K]V {
	if r.EnterNested() != nil {
		return nil
	}
	defer r.LeaveNested()
	n := r.ReadLen(c.key.MinSize() + c.val.MinSize())
	if r.Err() != nil {
		return nil
	}
	out := make(map[K]V, n)
	for i := 0; i < n; i++ {
		k := c.key.Read(r)
		if r.Err() != nil {
			return nil
		}
		out[k] = c.val.Read(r)
		if r.Err() != nil {
			return nil
		}
	}
	return out
}

func (c mapCodec[K, V]) MinSize() uint64 { return 8 }

// SortedMapOf is MapOf with entries written in ascending key order, for
// callers that need a deterministic byte sequence.
func SortedMapOf[K cmp.Ordered, V any](key ReadWriter[K], val ReadWriter[V]) ReadWriter[map[K]V] {
	return sortedMapCodec[K, V]{mapCodec[K, V]{key: key, val: val}}
}

type sortedMapCodec[K cmp.Ordered, V any] struct {
	mapCodec[K, V]
}

func (c sortedMapCodec[K, V]) Write(w *Writer, v map[K]V) {
	keys := make([]K, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	w.WriteLen(len(v))
	for _, k := range keys {
		c.key.Write(w, k)
		c.val.Write(w, v[k])
	}
}

// SetOf builds a codec for a hash set represented as map[T]struct{}: a
// 64-bit element count followed by the elements in iteration order.
func SetOf[T comparable](elem ReadWriter[T]) ReadWriter[map[T]struct{}] {
	return setCodec[T]{elem: elem}
}

type setCodec[T comparable] struct {
	elem ReadWriter[T]
}

func (c setCodec[T]) Write(w *Writer, v map[T]struct{}) {
	w.WriteLen(len(v))
	for e := range v {
		c.elem.Write(w, e)
	}
}

func (c setCodec[T]) Read(r *Reader) map[T]struct{} {
	if r.EnterNested() != nil {
		return nil
	}
	defer r.LeaveNested()
	n := r.ReadLen(c.elem.MinSize())
	if r.Err() != nil {
		return nil
	}
	out := make(map[T]struct{}, n)
	for i := 0; i < n; i++ {
		e := c.elem.Read(r)
		if r.Err() != nil {
			return nil
		}
		out[e] = struct{}{}
	}
	return out
}

func (c setCodec[T]) MinSize() uint64 { return 8 }

// SortedSetOf is SetOf with elements written in ascending order.
func SortedSetOf[T cmp.Ordered](elem ReadWriter[T]) ReadWriter[map[T]struct{}] {
	return sortedSetCodec[T]{setCodec[T]{elem: elem}}
}

type sortedSetCodec[T cmp.Ordered] struct {
	setCodec[T]
}

func (c sortedSetCodec[T]) Write(w *Writer, v map[T]struct{}) {
	elems := make([]T, 0, len(v))
	for e := range v {
		elems = append(elems, e)
	}
	slices.Sort(elems)
	w.WriteLen(len(v))
	for _, e := range elems {
		c.elem.Write(w, e)
	}
}
