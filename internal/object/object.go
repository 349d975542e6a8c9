// Package object holds the simulation entities: the ship, its projectiles,
// asteroids and cosmetic particles.
package object

import (
	"math"
	"time"

	"github.com/tomz197/sheeraroids/internal/physics"
)

// Kind discriminates entity variants. Collection bookkeeping switches on it
// instead of on the dynamic type.
type Kind uint8

const (
	KindShip Kind = iota + 1
	KindProjectile
	KindAsteroid
	KindParticle

	kindCount
)

// KindCount is the size of an array indexed by Kind.
const KindCount = int(kindCount)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindProjectile:
		return "projectile"
	case KindAsteroid:
		return "asteroid"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Arena is the toroidal play field.
type Arena struct {
	Width  float64
	Height float64
}

// Center returns the middle of the arena.
func (a Arena) Center() physics.Vec2 {
	return physics.Vec2{X: a.Width / 2, Y: a.Height / 2}
}

// Wrap maps p onto the arena so that 0 <= X < Width and 0 <= Y < Height.
func (a Arena) Wrap(p physics.Vec2) physics.Vec2 {
	p.X = wrapAxis(p.X, a.Width)
	p.Y = wrapAxis(p.Y, a.Height)
	return p
}

func wrapAxis(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// A tiny negative remainder plus size rounds up to size itself.
	if v >= size {
		v = 0
	}
	return v
}

// Entity is the state shared by every simulated object.
type Entity struct {
	Kind          Kind
	Pos           physics.Vec2
	Vel           physics.Vec2
	Rotation      float64
	RotationSpeed float64
	Radius        float64
	Active        bool
}

// Base returns the entity itself so embedding types satisfy Object.
func (e *Entity) Base() *Entity {
	return e
}

// Advance integrates one tick of motion and wraps the position.
func (e *Entity) Advance(arena Arena) {
	e.Pos = arena.Wrap(e.Pos.Add(e.Vel))
	e.Rotation += e.RotationSpeed
}

// Deactivate marks the entity for removal at the end of the tick.
func (e *Entity) Deactivate() {
	e.Active = false
}

// UpdateContext carries what an entity needs to run its per-tick update.
type UpdateContext struct {
	Arena Arena
	Now   time.Time
}

// Object is an entity owned by a session's unified update collection.
type Object interface {
	Base() *Entity
	Update(ctx UpdateContext)
}

// ShouldRenderBlink returns true if an object with remaining protection ticks
// should be drawn this frame. period is the number of ticks per on/off phase.
func ShouldRenderBlink(remainingTicks, period int) bool {
	if remainingTicks <= 0 || period <= 0 {
		return true
	}
	return (remainingTicks/period)%2 == 0
}
