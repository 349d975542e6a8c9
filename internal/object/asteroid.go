package object

import (
	"math"
	"math/rand/v2"

	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Tier is an asteroid size class: 1 small, 2 medium, 3 large.
type Tier int

const (
	TierSmall  Tier = 1
	TierMedium Tier = 2
	TierLarge  Tier = 3
)

// Radius is the collision radius for the tier.
func (t Tier) Radius() float64 {
	return float64(t) * config.AsteroidRadiusPerTier
}

// Speed is the base velocity magnitude for the tier; smaller rocks move faster.
func (t Tier) Speed() float64 {
	return float64(4-t)*0.5 + 0.5
}

// Score is the number of points for destroying an asteroid of this tier.
func (t Tier) Score() int {
	return (4 - int(t)) * config.ScorePerTier
}

// Asteroid is a destructible space rock.
type Asteroid struct {
	Entity
	Tier     Tier
	Vertices []float64 // outline distances from the center, evenly spaced in angle
}

// NewAsteroid creates an asteroid of the given tier at pos with a random
// heading and spin, both scaled by the session multipliers.
func NewAsteroid(pos physics.Vec2, tier Tier, rng *rand.Rand, speedMul, rotMul float64) *Asteroid {
	radius := tier.Radius()
	heading := rng.Float64() * 2 * math.Pi
	spin := (rng.Float64()*2 - 1) * config.AsteroidMaxSpin

	numVerts := 10 + int(tier)*2
	vertices := make([]float64, numVerts)
	for i := range vertices {
		vertices[i] = radius * (0.8 + rng.Float64()*0.4)
	}

	return &Asteroid{
		Entity: Entity{
			Kind:          KindAsteroid,
			Pos:           pos,
			Vel:           physics.FromAngle(heading, tier.Speed()*speedMul),
			Rotation:      rng.Float64() * 2 * math.Pi,
			RotationSpeed: spin * rotMul,
			Radius:        radius,
			Active:        true,
		},
		Tier:     tier,
		Vertices: vertices,
	}
}

// Update moves and spins the asteroid.
func (a *Asteroid) Update(ctx UpdateContext) {
	a.Advance(ctx.Arena)
}

// Split breaks the asteroid into two children one tier smaller at its
// position. Small asteroids break into nothing.
func (a *Asteroid) Split(rng *rand.Rand, speedMul, rotMul float64) []*Asteroid {
	if a.Tier <= TierSmall {
		return nil
	}
	return []*Asteroid{
		NewAsteroid(a.Pos, a.Tier-1, rng, speedMul, rotMul),
		NewAsteroid(a.Pos, a.Tier-1, rng, speedMul, rotMul),
	}
}

// Outline returns the world-space polygon of the asteroid.
func (a *Asteroid) Outline() []physics.Vec2 {
	n := len(a.Vertices)
	points := make([]physics.Vec2, n)
	for i, dist := range a.Vertices {
		angle := a.Rotation + float64(i)*2*math.Pi/float64(n)
		points[i] = a.Pos.Add(physics.FromAngle(angle, dist))
	}
	return points
}

// RandomSpawnPoint samples a uniformly random arena position at least
// minDist away from avoid. It gives up after attempts draws and returns the
// point diagonally opposite avoid on the torus with ok set to false.
func RandomSpawnPoint(rng *rand.Rand, arena Arena, avoid physics.Vec2, minDist float64, attempts int) (pos physics.Vec2, ok bool) {
	for range attempts {
		p := physics.Vec2{X: rng.Float64() * arena.Width, Y: rng.Float64() * arena.Height}
		if physics.Distance(p, avoid) >= minDist {
			return p, true
		}
	}
	return arena.Wrap(avoid.Add(physics.Vec2{X: arena.Width / 2, Y: arena.Height / 2})), false
}
