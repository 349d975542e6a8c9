package object

import (
	"math"
	"math/rand/v2"

	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Particle is a short-lived cosmetic speck. It never collides.
type Particle struct {
	Entity
	Lifetime    int // ticks remaining
	MaxLifetime int
	Gravity     float64
}

// NewParticle creates a particle with a lifetime in ticks.
func NewParticle(pos, vel physics.Vec2, lifetime int, gravity float64) *Particle {
	return &Particle{
		Entity: Entity{
			Kind:   KindParticle,
			Pos:    pos,
			Vel:    vel,
			Radius: 1,
			Active: true,
		},
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Gravity:     gravity,
	}
}

// Alpha is the remaining opacity in [0, 1].
func (p *Particle) Alpha() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return math.Max(float64(p.Lifetime)/float64(p.MaxLifetime), 0)
}

// Update moves the particle, applies gravity and counts down its lifetime.
func (p *Particle) Update(ctx UpdateContext) {
	p.Advance(ctx.Arena)
	p.Vel.Y += p.Gravity
	p.Lifetime--
	if p.Lifetime <= 0 {
		p.Deactivate()
	}
}

// NewExplosion creates a burst whose size grows with tier.
func NewExplosion(rng *rand.Rand, pos physics.Vec2, tier Tier) []*Particle {
	count := int(tier) * config.ExplosionParticlesPerTier
	particles := make([]*Particle, count)
	for i := range particles {
		speed := config.ExplosionMinSpeed + rng.Float64()*(config.ExplosionMaxSpeed-config.ExplosionMinSpeed)
		lifetime := config.ExplosionMinLifetime + rng.IntN(config.ExplosionMaxLifetime-config.ExplosionMinLifetime+1)
		vel := physics.FromAngle(rng.Float64()*2*math.Pi, speed)

		particles[i] = NewParticle(pos, vel, lifetime, config.ParticleGravity)
		particles[i].Radius = 1 + rng.Float64()*2
	}
	return particles
}

// NewReflectionFlash creates the small spark burst shown when the shield
// bounces a projectile.
func NewReflectionFlash(rng *rand.Rand, pos physics.Vec2) []*Particle {
	particles := make([]*Particle, config.ReflectParticles)
	for i := range particles {
		speed := config.ReflectMinSpeed + rng.Float64()*(config.ReflectMaxSpeed-config.ReflectMinSpeed)
		vel := physics.FromAngle(rng.Float64()*2*math.Pi, speed)
		particles[i] = NewParticle(pos, vel, config.ReflectLifetime, 0)
	}
	return particles
}
