// Package gen generates wire codec methods for Go types.
//
// Given a package directory and a set of type names it emits, per type,
// either EncodeWire/DecodeWire methods (structs) or a pair of
// encode/decode functions (sealed-interface unions). The output is a
// single formatted source file intended to be checked in next to the
// types, stringer-style, via go:generate.
package gen

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// runtimePath is the import path of the codec runtime the generated
// code calls into.
const runtimePath = "github.com/wavelayer/wirebin/pkg/wirebin"

// maxDiscrim is the largest variant discriminant; the wire format
// spends a single byte on it.
const maxDiscrim = 255

// Config selects what to generate.
type Config struct {
	// Dir is the directory of the package to load.
	Dir string
	// Types are the names of structs and union interfaces to generate
	// codecs for, in output order.
	Types []string
}

// Generate loads the package in cfg.Dir and returns a formatted source
// file with codecs for every name in cfg.Types.
func Generate(cfg Config) ([]byte, error) {
	if len(cfg.Types) == 0 {
		return nil, fmt.Errorf("gen: no types requested")
	}
	pkg, err := load(cfg.Dir)
	if err != nil {
		return nil, err
	}

	g := &generator{
		pkg:       pkg,
		unions:    make(map[string]*union),
		requested: make(map[string]bool),
	}
	if pkg.PkgPath == runtimePath {
		g.qual = ""
	} else {
		g.qual = "wirebin."
	}

	// Resolve every requested name before emitting anything so struct
	// fields can reference requested unions regardless of order.
	var structs []*types.TypeName
	for _, name := range cfg.Types {
		obj := pkg.Types.Scope().Lookup(name)
		if obj == nil {
			return nil, fmt.Errorf("gen: type %s not found in %s", name, pkg.PkgPath)
		}
		tn, ok := obj.(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("gen: %s is not a type", name)
		}
		switch tn.Type().Underlying().(type) {
		case *types.Struct:
			structs = append(structs, tn)
			g.requested[name] = true
		case *types.Interface:
			u, err := g.resolveUnion(tn)
			if err != nil {
				return nil, err
			}
			g.unions[name] = u
		default:
			return nil, fmt.Errorf("gen: %s is neither a struct nor an interface", name)
		}
	}

	e := newEmitter(g)
	e.header()
	for _, name := range cfg.Types {
		if u, ok := g.unions[name]; ok {
			if err := e.union(u); err != nil {
				return nil, err
			}
			continue
		}
		for _, tn := range structs {
			if tn.Name() == name {
				if err := e.structCodec(tn); err != nil {
					return nil, err
				}
			}
		}
	}

	src := e.bytes()
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("gen: formatting output: %w", err)
	}
	return out, nil
}

func load(dir string) (*packages.Package, error) {
	pcfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedSyntax,
		Dir: dir,
	}
	pkgs, err := packages.Load(pcfg, ".")
	if err != nil {
		return nil, fmt.Errorf("gen: loading package: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("gen: expected one package in %s, got %d", dir, len(pkgs))
	}
	pkg := pkgs[0]
	for _, perr := range pkg.Errors {
		return nil, fmt.Errorf("gen: %s", perr)
	}
	return pkg, nil
}

type generator struct {
	pkg  *packages.Package
	qual string // runtime package qualifier, "wirebin." or ""
	// unions maps requested interface names to their resolved variant
	// sets.
	unions map[string]*union
	// requested struct names whose methods this run will emit.
	requested map[string]bool
}

// union is a sealed interface together with its variant types and
// their wire discriminants.
type union struct {
	name     string
	iface    *types.TypeName
	variants []variant
	// contiguous means the discriminants are exactly 0..n-1, letting
	// decode validate the range in one call.
	contiguous bool
}

type variant struct {
	typ *types.TypeName
	// ptr is set when only the pointer type implements the interface.
	ptr     bool
	discrim int
}

// resolveUnion finds the package-local types implementing iface,
// ordered by declaration position, and assigns discriminants.
func (g *generator) resolveUnion(tn *types.TypeName) (*union, error) {
	iface, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("gen: %s is not an interface", tn.Name())
	}

	var vars []variant
	scope := g.pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj == tn || obj.IsAlias() {
			continue
		}
		if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			continue
		}
		if _, isIface := obj.Type().Underlying().(*types.Interface); isIface {
			continue
		}
		switch {
		case types.Implements(obj.Type(), iface):
			vars = append(vars, variant{typ: obj})
		case types.Implements(types.NewPointer(obj.Type()), iface):
			vars = append(vars, variant{typ: obj, ptr: true})
		}
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("gen: interface %s has no implementations in %s", tn.Name(), g.pkg.PkgPath)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].typ.Pos() < vars[j].typ.Pos() })

	overrides, err := g.discrimOverrides()
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool)
	for i := range vars {
		if d, ok := overrides[vars[i].typ.Name()]; ok {
			if used[d] {
				return nil, fmt.Errorf("gen: duplicate discriminant %d on %s", d, vars[i].typ.Name())
			}
			vars[i].discrim = d
			used[d] = true
		} else {
			vars[i].discrim = -1
		}
	}
	next := 0
	for i := range vars {
		if vars[i].discrim >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		vars[i].discrim = next
		used[next] = true
	}
	for _, v := range vars {
		if v.discrim > maxDiscrim {
			return nil, fmt.Errorf("gen: discriminant %d on %s exceeds the one-byte limit", v.discrim, v.typ.Name())
		}
	}

	contiguous := true
	for i := range vars {
		if !used[i] {
			contiguous = false
			break
		}
	}

	return &union{
		name:       tn.Name(),
		iface:      tn,
		variants:   vars,
		contiguous: contiguous,
	}, nil
}

// discrimOverrides scans type declarations for //wirebin:discrim N
// directives and returns type name -> discriminant.
func (g *generator) discrimOverrides() (map[string]int, error) {
	const directive = "//wirebin:discrim "
	out := make(map[string]int)
	for _, f := range g.pkg.Syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if doc == nil {
					continue
				}
				for _, c := range doc.List {
					if !strings.HasPrefix(c.Text, directive) {
						continue
					}
					n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(c.Text, directive)))
					if err != nil || n < 0 {
						return nil, fmt.Errorf("gen: bad directive %q on %s", c.Text, ts.Name.Name)
					}
					out[ts.Name.Name] = n
				}
			}
		}
	}
	return out, nil
}

// structFields returns the wire-relevant view of a struct's fields in
// declaration order.
func structFields(st *types.Struct) ([]field, error) {
	var out []field
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			return nil, fmt.Errorf("gen: embedded field %s is not supported", f.Name())
		}
		tag := reflect.StructTag(st.Tag(i)).Get("wire")
		out = append(out, field{
			name: f.Name(),
			typ:  f.Type(),
			skip: tag == "-",
		})
	}
	return out, nil
}

type field struct {
	name string
	typ  types.Type
	skip bool
}

// typeString renders t as it must appear in the generated file, which
// lives in the loaded package.
func (g *generator) typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		if p == g.pkg.Types {
			return ""
		}
		if p.Path() == runtimePath {
			return "wirebin"
		}
		return p.Name()
	})
}

// hasCodecMethods reports whether t (or *t) already satisfies the
// encode/decode method contract, so field codecs can call it directly.
func hasCodecMethods(t types.Type) bool {
	return hasMethod(t, "EncodeWire") && hasMethod(t, "DecodeWire")
}

func hasMethod(t types.Type, name string) bool {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(t), false, nil, name)
	_, ok := obj.(*types.Func)
	return ok
}

// minWireSize is the smallest number of encoded bytes a value of t can
// occupy. Decode loops pass it to the budget so a hostile length field
// is charged before any element is allocated. Pointers cost one
// presence byte, which also terminates recursive types.
func minWireSize(t types.Type) uint64 {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch u.Kind() {
		case types.Bool, types.Int8, types.Uint8:
			return 1
		case types.Int16, types.Uint16:
			return 2
		case types.Int32, types.Uint32, types.Float32:
			return 4
		default:
			return 8
		}
	case *types.Pointer, *types.Interface:
		return 1
	case *types.Array:
		return uint64(u.Len()) * minWireSize(u.Elem())
	case *types.Struct:
		var n uint64
		for i := 0; i < u.NumFields(); i++ {
			if reflect.StructTag(u.Tag(i)).Get("wire") == "-" {
				continue
			}
			n += minWireSize(u.Field(i).Type())
		}
		return n
	default:
		// strings, slices, maps carry a u64 length field
		return 8
	}
}
