package wirebin

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry maps message names to constructors for their decodable types.
// Transport bridges use it to dispatch tagged frames to the right
// generated codec; the wire format itself stays positional and carries
// no type information.
//
// A Registry is safe for concurrent use.
type Registry struct {
	entries *xsync.MapOf[string, func() Codec]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: xsync.NewMapOf[string, func() Codec]()}
}

// Register binds name to a constructor returning a fresh, zero value of
// the message type. Registering the same name twice replaces the earlier
// entry.
func (reg *Registry) Register(name string, newFn func() Codec) {
	reg.entries.Store(name, newFn)
}

// New constructs a fresh value for name. The second result is false if
// the name is unknown.
func (reg *Registry) New(name string) (Codec, bool) {
	newFn, ok := reg.entries.Load(name)
	if !ok {
		return nil, false
	}
	return newFn(), true
}

// Names returns the registered message names, in no particular order.
func (reg *Registry) Names() []string {
	var names []string
	reg.entries.Range(func(name string, _ func() Codec) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Len reports the number of registered names.
func (reg *Registry) Len() int { return reg.entries.Size() }
