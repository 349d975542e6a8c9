package object

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Projectile is a shot fired by the ship. Its lifetime is measured on the
// wall clock from SpawnTime, not in ticks.
type Projectile struct {
	Entity
	SpawnTime time.Time
}

// NewProjectile creates a projectile at pos travelling along heading.
func NewProjectile(pos physics.Vec2, heading float64, now time.Time) *Projectile {
	return &Projectile{
		Entity: Entity{
			Kind:     KindProjectile,
			Pos:      pos,
			Vel:      physics.FromAngle(heading, config.ProjectileSpeed),
			Rotation: heading,
			Radius:   config.ProjectileRadius,
			Active:   true,
		},
		SpawnTime: now,
	}
}

// Expired reports whether the projectile outlived its lifetime at now.
func (p *Projectile) Expired(now time.Time) bool {
	return now.Sub(p.SpawnTime) > config.ProjectileLifetime
}

// Update deactivates expired projectiles and moves the rest.
func (p *Projectile) Update(ctx UpdateContext) {
	if p.Expired(ctx.Now) {
		p.Deactivate()
		return
	}
	p.Advance(ctx.Arena)
}

// Reflect turns the projectile around with a random deviation of at most
// ReflectSpread, keeps its speed, and restarts its lifetime.
func (p *Projectile) Reflect(now time.Time, rng *rand.Rand) {
	speed := p.Vel.Len()
	deviation := (rng.Float64()*2 - 1) * config.ReflectSpread
	heading := p.Vel.Angle() + math.Pi + deviation

	p.Vel = physics.FromAngle(heading, speed)
	p.Rotation = heading
	p.SpawnTime = now
}
