package gen

import (
	"bytes"
	"fmt"
	"go/types"
	"strings"
)

type emitter struct {
	g   *generator
	buf bytes.Buffer
	// tmp numbers loop and scratch variables so nested composites
	// never shadow each other.
	tmp int
}

func newEmitter(g *generator) *emitter {
	return &emitter{g: g}
}

func (e *emitter) bytes() []byte { return e.buf.Bytes() }

func (e *emitter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&e.buf, format, args...)
}

func (e *emitter) fresh(prefix string) string {
	e.tmp++
	return fmt.Sprintf("%s%d", prefix, e.tmp)
}

func (e *emitter) header() {
	e.printf("// Code generated by wirebingen; DO NOT EDIT.\n\n")
	e.printf("package %s\n\n", e.g.pkg.Name)
	if e.g.qual != "" {
		e.printf("import (\n\twirebin %q\n)\n\n", runtimePath)
	}
}

// structCodec emits EncodeWire and DecodeWire pointer-receiver methods
// for a struct type.
func (e *emitter) structCodec(tn *types.TypeName) error {
	st := tn.Type().Underlying().(*types.Struct)
	fields, err := structFields(st)
	if err != nil {
		return fmt.Errorf("%s: %w", tn.Name(), err)
	}

	e.tmp = 0
	e.printf("func (v *%s) EncodeWire(w *%sWriter) error {\n", tn.Name(), e.g.qual)
	for _, f := range fields {
		if f.skip {
			continue
		}
		if err := e.encodeValue(f.typ, "v."+f.name); err != nil {
			return fmt.Errorf("%s.%s: %w", tn.Name(), f.name, err)
		}
	}
	e.printf("\treturn w.Err()\n}\n\n")

	e.tmp = 0
	e.printf("func (v *%s) DecodeWire(r *%sReader) error {\n", tn.Name(), e.g.qual)
	for _, f := range fields {
		if f.skip {
			e.printf("\tv.%s = %s\n", f.name, e.zeroValue(f.typ))
			continue
		}
		if err := e.decodeValue(f.typ, "v."+f.name); err != nil {
			return fmt.Errorf("%s.%s: %w", tn.Name(), f.name, err)
		}
	}
	e.printf("\treturn r.Err()\n}\n\n")
	return nil
}

// union emits the free encode/decode function pair for a sealed
// interface. Export tracks the interface's own visibility.
func (e *emitter) union(u *union) error {
	enc, dec := unionFuncNames(u.name)

	e.printf("func %s(w *%sWriter, v %s) error {\n", enc, e.g.qual, u.name)
	e.printf("\tswitch x := v.(type) {\n")
	for _, vr := range u.variants {
		name := vr.typ.Name()
		if vr.ptr {
			name = "*" + name
		}
		e.printf("\tcase %s:\n", name)
		e.printf("\t\tw.WriteDiscrim(%d)\n", vr.discrim)
		e.printf("\t\treturn x.EncodeWire(w)\n")
	}
	e.printf("\tdefault:\n")
	e.printf("\t\terr := %sErrorf(\"cannot encode %%T as %s\", v)\n", e.g.qual, u.name)
	e.printf("\t\tw.Fail(err)\n")
	e.printf("\t\treturn err\n")
	e.printf("\t}\n}\n\n")

	e.printf("func %s(r *%sReader) (%s, error) {\n", dec, e.g.qual, u.name)
	if u.contiguous {
		e.printf("\tswitch r.ReadDiscrim(%d) {\n", len(u.variants))
	} else {
		e.printf("\td := r.ReadDiscrimAny()\n")
		e.printf("\tif err := r.Err(); err != nil {\n\t\treturn nil, err\n\t}\n")
		e.printf("\tswitch d {\n")
	}
	for _, vr := range u.variants {
		e.printf("\tcase %d:\n", vr.discrim)
		if u.contiguous {
			e.printf("\t\tif r.Err() != nil {\n\t\t\treturn nil, r.Err()\n\t\t}\n")
		}
		e.printf("\t\tvar x %s\n", vr.typ.Name())
		e.printf("\t\tif err := x.DecodeWire(r); err != nil {\n\t\t\treturn nil, err\n\t\t}\n")
		if vr.ptr {
			e.printf("\t\treturn &x, nil\n")
		} else {
			e.printf("\t\treturn x, nil\n")
		}
	}
	if u.contiguous {
		e.printf("\t}\n")
		e.printf("\treturn nil, r.Err()\n}\n\n")
	} else {
		e.printf("\tdefault:\n")
		e.printf("\t\terr := %sUnknownVariantError(d)\n", e.g.qual)
		e.printf("\t\tr.Fail(err)\n")
		e.printf("\t\treturn nil, err\n")
		e.printf("\t}\n}\n\n")
	}

	for _, vr := range u.variants {
		if hasCodecMethods(vr.typ.Type()) || e.g.requested[vr.typ.Name()] {
			continue
		}
		if _, ok := vr.typ.Type().Underlying().(*types.Struct); !ok {
			return fmt.Errorf("gen: variant %s of %s is not a struct and has no codec methods", vr.typ.Name(), u.name)
		}
		if err := e.structCodec(vr.typ); err != nil {
			return err
		}
	}
	return nil
}

// unionFuncNames derives the encode/decode pair from the interface
// name, keeping its exportedness.
func unionFuncNames(name string) (enc, dec string) {
	suffix := strings.ToUpper(name[:1]) + name[1:]
	if name[0] >= 'A' && name[0] <= 'Z' {
		return "Encode" + suffix, "Decode" + suffix
	}
	return "encode" + suffix, "decode" + suffix
}

// encodeValue emits statements writing expr, a value of type t.
func (e *emitter) encodeValue(t types.Type, expr string) error {
	if named, ok := t.(*types.Named); ok && named.Obj().Pkg() != e.g.pkg.Types {
		if hasCodecMethods(t) {
			e.printf("\tif err := %s.EncodeWire(w); err != nil {\n\t\treturn err\n\t}\n", expr)
			return nil
		}
		return fmt.Errorf("external type %s has no EncodeWire method; wrap it with an adapter codec", e.g.typeString(t))
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		m, err := basicMethod(u)
		if err != nil {
			return err
		}
		if _, plain := t.(*types.Basic); plain {
			e.printf("\tw.Write%s(%s)\n", m.name, expr)
		} else {
			e.printf("\tw.Write%s(%s(%s))\n", m.name, m.goType, expr)
		}
	case *types.Struct:
		if !e.codecAvailable(t) {
			return fmt.Errorf("struct type %s has no EncodeWire method and was not requested", e.g.typeString(t))
		}
		e.printf("\tif err := %s.EncodeWire(w); err != nil {\n\t\treturn err\n\t}\n", expr)
	case *types.Interface:
		un, ok := e.unionFor(t)
		if !ok {
			return fmt.Errorf("interface type %s was not requested as a union", e.g.typeString(t))
		}
		enc, _ := unionFuncNames(un.name)
		e.printf("\tif err := %s(w, %s); err != nil {\n\t\treturn err\n\t}\n", enc, expr)
	case *types.Pointer:
		e.printf("\tif %s == nil {\n", expr)
		e.printf("\t\tw.WriteBool(false)\n")
		e.printf("\t} else {\n")
		e.printf("\t\tw.WriteBool(true)\n")
		if err := e.encodePointee(u.Elem(), expr); err != nil {
			return err
		}
		e.printf("\t}\n")
	case *types.Slice:
		if isByteSlice(u) {
			e.printf("\tw.WriteByteSlice(%s)\n", expr)
			return nil
		}
		i := e.fresh("i")
		e.printf("\tw.WriteLen(len(%s))\n", expr)
		e.printf("\tfor %s := range %s {\n", i, expr)
		if err := e.encodeValue(u.Elem(), fmt.Sprintf("%s[%s]", expr, i)); err != nil {
			return err
		}
		e.printf("\t}\n")
	case *types.Array:
		i := e.fresh("i")
		e.printf("\tfor %s := range %s {\n", i, expr)
		if err := e.encodeValue(u.Elem(), fmt.Sprintf("%s[%s]", expr, i)); err != nil {
			return err
		}
		e.printf("\t}\n")
	case *types.Map:
		k, el := e.fresh("k"), e.fresh("e")
		e.printf("\tw.WriteLen(len(%s))\n", expr)
		e.printf("\tfor %s, %s := range %s {\n", k, el, expr)
		if err := e.encodeValue(u.Key(), k); err != nil {
			return err
		}
		if err := e.encodeValue(u.Elem(), el); err != nil {
			return err
		}
		e.printf("\t}\n")
	default:
		return fmt.Errorf("unsupported type %s", e.g.typeString(t))
	}
	return nil
}

// encodePointee writes the value behind a non-nil pointer expr.
func (e *emitter) encodePointee(elem types.Type, expr string) error {
	if _, isStruct := elem.Underlying().(*types.Struct); isStruct && e.codecAvailable(elem) {
		e.printf("\t\tif err := %s.EncodeWire(w); err != nil {\n\t\t\treturn err\n\t\t}\n", expr)
		return nil
	}
	return e.encodeValue(elem, "(*"+expr+")")
}

// decodeValue emits statements reading into expr, an addressable value
// of type t.
func (e *emitter) decodeValue(t types.Type, expr string) error {
	if named, ok := t.(*types.Named); ok && named.Obj().Pkg() != e.g.pkg.Types {
		if hasCodecMethods(t) {
			e.printf("\tif err := %s.DecodeWire(r); err != nil {\n\t\treturn err\n\t}\n", expr)
			return nil
		}
		return fmt.Errorf("external type %s has no DecodeWire method; wrap it with an adapter codec", e.g.typeString(t))
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		m, err := basicMethod(u)
		if err != nil {
			return err
		}
		if _, plain := t.(*types.Basic); plain {
			e.printf("\t%s = r.Read%s()\n", expr, m.name)
		} else {
			e.printf("\t%s = %s(r.Read%s())\n", expr, e.g.typeString(t), m.name)
		}
	case *types.Struct:
		if !e.codecAvailable(t) {
			return fmt.Errorf("struct type %s has no DecodeWire method and was not requested", e.g.typeString(t))
		}
		e.printf("\tif err := %s.DecodeWire(r); err != nil {\n\t\treturn err\n\t}\n", expr)
	case *types.Interface:
		un, ok := e.unionFor(t)
		if !ok {
			return fmt.Errorf("interface type %s was not requested as a union", e.g.typeString(t))
		}
		_, dec := unionFuncNames(un.name)
		x := e.fresh("x")
		e.printf("\t%s, err := %s(r)\n", x, dec)
		e.printf("\tif err != nil {\n\t\treturn err\n\t}\n")
		e.printf("\t%s = %s\n", expr, x)
	case *types.Pointer:
		e.printf("\tif r.ReadBool() {\n")
		e.printf("\t\tif err := r.EnterNested(); err != nil {\n\t\t\treturn err\n\t\t}\n")
		e.printf("\t\t%s = new(%s)\n", expr, e.g.typeString(u.Elem()))
		if err := e.decodePointee(u.Elem(), expr); err != nil {
			return err
		}
		e.printf("\t\tr.LeaveNested()\n")
		e.printf("\t} else {\n")
		e.printf("\t\t%s = nil\n", expr)
		e.printf("\t}\n")
	case *types.Slice:
		if isByteSlice(u) {
			e.printf("\t%s = r.ReadByteSlice()\n", expr)
			return nil
		}
		n, i := e.fresh("n"), e.fresh("i")
		e.printf("\t%s := r.ReadLen(%d)\n", n, minWireSize(u.Elem()))
		e.printf("\t%s = make(%s, %s)\n", expr, e.g.typeString(t), n)
		e.printf("\tfor %s := 0; %s < %s; %s++ {\n", i, i, n, i)
		if err := e.decodeValue(u.Elem(), fmt.Sprintf("%s[%s]", expr, i)); err != nil {
			return err
		}
		e.printf("\t}\n")
	case *types.Array:
		i := e.fresh("i")
		e.printf("\tfor %s := range %s {\n", i, expr)
		if err := e.decodeValue(u.Elem(), fmt.Sprintf("%s[%s]", expr, i)); err != nil {
			return err
		}
		e.printf("\t}\n")
	case *types.Map:
		n, i := e.fresh("n"), e.fresh("i")
		k, el := e.fresh("k"), e.fresh("e")
		e.printf("\t%s := r.ReadLen(%d)\n", n, minWireSize(u.Key())+minWireSize(u.Elem()))
		e.printf("\t%s = make(%s, %s)\n", expr, e.g.typeString(t), n)
		e.printf("\tfor %s := 0; %s < %s; %s++ {\n", i, i, n, i)
		e.printf("\tvar %s %s\n", k, e.g.typeString(u.Key()))
		if err := e.decodeValue(u.Key(), k); err != nil {
			return err
		}
		e.printf("\tvar %s %s\n", el, e.g.typeString(u.Elem()))
		if err := e.decodeValue(u.Elem(), el); err != nil {
			return err
		}
		e.printf("\t%s[%s] = %s\n", expr, k, el)
		e.printf("\t}\n")
	default:
		return fmt.Errorf("unsupported type %s", e.g.typeString(t))
	}
	return nil
}

func (e *emitter) decodePointee(elem types.Type, expr string) error {
	if _, isStruct := elem.Underlying().(*types.Struct); isStruct && e.codecAvailable(elem) {
		e.printf("\t\tif err := %s.DecodeWire(r); err != nil {\n\t\t\treturn err\n\t\t}\n", expr)
		return nil
	}
	return e.decodeValue(elem, "(*"+expr+")")
}

// codecAvailable reports whether encode/decode calls on t will resolve:
// the type either has the methods already or is a requested union
// variant whose codec this run emits.
func (e *emitter) codecAvailable(t types.Type) bool {
	if hasCodecMethods(t) {
		return true
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	if named.Obj().Pkg() == e.g.pkg.Types && e.g.requested[named.Obj().Name()] {
		return true
	}
	for _, u := range e.g.unions {
		for _, vr := range u.variants {
			if vr.typ == named.Obj() {
				return true
			}
		}
	}
	return false
}

func (e *emitter) unionFor(t types.Type) (*union, bool) {
	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	u, ok := e.g.unions[named.Obj().Name()]
	return u, ok
}

func isByteSlice(s *types.Slice) bool {
	b, ok := s.Elem().(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

type basicInfo struct {
	name   string // Reader/Writer method suffix
	goType string // conversion target for defined types
}

func basicMethod(b *types.Basic) (basicInfo, error) {
	switch b.Kind() {
	case types.Bool:
		return basicInfo{"Bool", "bool"}, nil
	case types.Int8:
		return basicInfo{"Int8", "int8"}, nil
	case types.Int16:
		return basicInfo{"Int16", "int16"}, nil
	case types.Int32:
		return basicInfo{"Int32", "int32"}, nil
	case types.Int64:
		return basicInfo{"Int64", "int64"}, nil
	case types.Uint8:
		return basicInfo{"Uint8", "uint8"}, nil
	case types.Uint16:
		return basicInfo{"Uint16", "uint16"}, nil
	case types.Uint32:
		return basicInfo{"Uint32", "uint32"}, nil
	case types.Uint64:
		return basicInfo{"Uint64", "uint64"}, nil
	case types.Float32:
		return basicInfo{"Float32", "float32"}, nil
	case types.Float64:
		return basicInfo{"Float64", "float64"}, nil
	case types.String:
		return basicInfo{"String", "string"}, nil
	case types.Int, types.Uint, types.Uintptr:
		return basicInfo{}, fmt.Errorf("type %s has platform-dependent width; use a fixed-width integer", b.Name())
	default:
		return basicInfo{}, fmt.Errorf("unsupported basic type %s", b.Name())
	}
}

// zeroValue renders the zero of t for wire-skipped fields.
func (e *emitter) zeroValue(t types.Type) string {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return "false"
		case u.Info()&types.IsString != 0:
			return `""`
		default:
			return "0"
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface:
		return "nil"
	default:
		return e.g.typeString(t) + "{}"
	}
}
