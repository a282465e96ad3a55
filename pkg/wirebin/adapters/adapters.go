// Package adapters bridges common third-party value types into the
// wirebin codec contract. Each adapter uses the type's canonical
// fixed-size or length-prefixed representation; none of them adds type
// tags beyond what the wire format already defines.
package adapters
