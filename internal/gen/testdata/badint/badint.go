// Package badint is a generation fixture with a platform-width field,
// which the generator must reject.
package badint

type Counter struct {
	N int
}
