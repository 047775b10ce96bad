// Package components defines the entity state shared by the steering engine and
// the world that stores it.
package components

import "github.com/pthm-cable/steer/geom"

// EntityID identifies an agent or obstacle within one world.
type EntityID uint32

// IDAllocator hands out sequential entity IDs. Each world owns its own.
type IDAllocator struct {
	next EntityID
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() EntityID {
	id := a.next
	a.next++
	return id
}

// Reset restarts allocation from zero.
func (a *IDAllocator) Reset() {
	a.next = 0
}

// Positioned is anything with a location and a bounding radius.
type Positioned interface {
	Pos() geom.Vector2D
	BRadius() float64
}
