// Package shapes is a generation fixture covering structs, a sealed
// union, and the composite field kinds.
package shapes

//go:generate wirebingen -type Point,Inventory,Shape -output wire_gen.go

type ItemID uint64

type Point struct {
	X     int32
	Y     int32
	Label string

	cached int64 `wire:"-"`
}

type Inventory struct {
	Owner string
	ID    ItemID
	Items []Point
	Tags  map[string]uint32
	Head  *Point
	Magic [4]uint8
	Raw   []byte
}

type Shape interface{ isShape() }

type Circle struct {
	Radius float64
}

func (Circle) isShape() {}

type Rect struct {
	W float64
	H float64
}

func (Rect) isShape() {}
