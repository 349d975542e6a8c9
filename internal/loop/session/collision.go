package session

import (
	"slices"
	"time"

	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// resolveCollisions runs the collision pass in its fixed order. Within each
// phase collections are scanned from the newest entry to the oldest, so when
// several pairs are eligible the most recently added entity wins.
func (s *Session) resolveCollisions(now time.Time) {
	s.reflectProjectiles(now)
	s.resolveProjectileHits()
	s.resolveShipHit(now)
}

// reflectProjectiles bounces every projectile inside the raised shield.
func (s *Session) reflectProjectiles(now time.Time) {
	ship := s.ship
	if !ship.ShieldActive || ship.Hidden {
		return
	}
	reach := ship.ShieldRadius()

	for i := len(s.projectiles) - 1; i >= 0; i-- {
		p := s.projectiles[i]
		if !p.Active || physics.Distance(p.Pos, ship.Pos) >= reach {
			continue
		}
		p.Reflect(now, s.rng)
		s.addParticles(object.NewReflectionFlash(s.rng, p.Pos))
		s.emit(Event{Type: EventShieldReflect, Pos: p.Pos})
	}
}

// resolveProjectileHits pairs each asteroid with at most one projectile.
// Children produced by splits are not tested until the next tick.
func (s *Session) resolveProjectileHits() {
	if len(s.projectiles) == 0 {
		return
	}

	s.projectileGrid.Clear()
	for i, p := range s.projectiles {
		if p.Active {
			s.projectileGrid.Insert(p.Pos, i)
		}
	}

	for i := len(s.asteroids) - 1; i >= 0; i-- {
		a := s.asteroids[i]
		if !a.Active {
			continue
		}

		// The grid visits cells in arbitrary order; picking the highest
		// index reproduces a newest-first scan over the projectiles.
		hit := -1
		s.projectileGrid.QueryAround(a.Pos, func(j int) bool {
			p := s.projectiles[j]
			if j > hit && p.Active && physics.CirclesOverlap(p.Pos, p.Radius, a.Pos, a.Radius) {
				hit = j
			}
			return false
		})
		if hit < 0 {
			continue
		}

		s.projectiles[hit].Deactivate()
		s.score += a.Tier.Score()
		s.destroyAsteroid(a)
	}
}

// resolveShipHit handles at most one ship/asteroid collision per tick.
func (s *Session) resolveShipHit(now time.Time) {
	ship := s.ship
	if ship.Invulnerable || ship.Hidden || ship.ShieldActive {
		return
	}

	for i := len(s.asteroids) - 1; i >= 0; i-- {
		a := s.asteroids[i]
		if !a.Active || !physics.CirclesOverlap(ship.Pos, ship.Radius, a.Pos, a.Radius) {
			continue
		}

		lives := ship.LoseLife()
		s.destroyAsteroid(a)
		s.logger.Debug("ship hit", "lives", lives, "tier", a.Tier)

		if lives == 0 {
			s.gameOver()
		} else {
			ship.Hide(now)
		}
		return
	}
}

// destroyAsteroid bursts, splits and deactivates a.
func (s *Session) destroyAsteroid(a *object.Asteroid) {
	s.addParticles(object.NewExplosion(s.rng, a.Pos, a.Tier))
	s.emit(Event{Type: EventExplosion, Pos: a.Pos, Tier: a.Tier})

	for _, child := range a.Split(s.rng, s.speedMul, s.rotMul) {
		s.addAsteroid(child)
	}
	a.Deactivate()
}

// removeInactive drops dead entities from the unified collection and from
// the kind collections that lost members this tick.
func (s *Session) removeInactive() {
	var dirty [object.KindCount]bool

	kept := s.objects[:0]
	for _, obj := range s.objects {
		e := obj.Base()
		if e.Active {
			kept = append(kept, obj)
			continue
		}
		dirty[e.Kind] = true
	}
	clear(s.objects[len(kept):])
	s.objects = kept

	for kind, changed := range dirty {
		if !changed {
			continue
		}
		switch object.Kind(kind) {
		case object.KindProjectile:
			s.projectiles = compact(s.projectiles)
		case object.KindAsteroid:
			s.asteroids = compact(s.asteroids)
		case object.KindParticle:
			s.particles = compact(s.particles)
		case object.KindShip:
			// The ship is never removed; it hides instead.
		}
	}
}

func compact[T object.Object](list []T) []T {
	return slices.DeleteFunc(list, func(o T) bool {
		return !o.Base().Active
	})
}
