package wirebin

import "math"

// DefaultBudget is the decode budget used when the reader cannot derive a
// tighter bound from its source. 16 MiB.
const DefaultBudget uint64 = 16 << 20

// Budget tracks the remaining allowed allocation capacity for one decode
// call tree. It is created at the start of a top-level decode, shrinks as
// container headers reserve space, and is never shared between concurrent
// decodes.
type Budget struct {
	remaining uint64
}

// NewBudget returns a budget allowing up to n bytes of decode allocation.
func NewBudget(n uint64) *Budget {
	return &Budget{remaining: n}
}

// Remaining reports the bytes left in the budget.
func (b *Budget) Remaining() uint64 { return b.remaining }

// Reserve charges count elements at eltSize bytes each. A zero element
// size is charged as one byte so that a hostile count of zero-sized
// elements cannot reserve for free. Returns an *OversizedError without
// consuming anything if the request overshoots the budget.
func (b *Budget) Reserve(count, eltSize uint64) error {
	if eltSize == 0 {
		eltSize = 1
	}
	if count > math.MaxUint64/eltSize {
		return &OversizedError{Requested: math.MaxUint64, Remaining: b.remaining}
	}
	return b.ReserveBytes(count * eltSize)
}

// ReserveBytes charges n bytes against the budget.
func (b *Budget) ReserveBytes(n uint64) error {
	if n > b.remaining {
		return &OversizedError{Requested: n, Remaining: b.remaining}
	}
	b.remaining -= n
	return nil
}

// Refund returns n bytes to the budget. Used when a reservation turns out
// to have been larger than the bytes a container actually needed.
func (b *Budget) Refund(n uint64) {
	if n > math.MaxUint64-b.remaining {
		b.remaining = math.MaxUint64
		return
	}
	b.remaining += n
}
