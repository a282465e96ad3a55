// Package tagged is a generation fixture for explicit discriminant
// directives.
package tagged

type Event interface{ isEvent() }

//wirebin:discrim 7
type Legacy struct {
	Raw []byte
}

func (Legacy) isEvent() {}

type Modern struct {
	ID uint64
}

func (Modern) isEvent() {}
