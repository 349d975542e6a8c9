package object

import (
	"math"
	"time"

	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Ship is the player-controlled spaceship.
type Ship struct {
	Entity

	Lives          int
	Heat           float64
	ShieldStrength float64
	ShieldActive   bool

	Invulnerable      bool
	InvulnerableTicks int

	// Hidden ships are not drawn, cannot collide, shoot or raise the shield.
	Hidden        bool
	ShootCooldown int

	Acceleration float64
	MaxSpeed     float64
	RotationStep float64

	spawn          physics.Vec2
	respawnAt      time.Time
	respawnPending bool
}

// NewShip creates a ship at spawn, pointing up. speedMul scales acceleration
// and top speed, rotMul scales the turn rate.
func NewShip(spawn physics.Vec2, speedMul, rotMul float64) *Ship {
	return &Ship{
		Entity: Entity{
			Kind:     KindShip,
			Pos:      spawn,
			Rotation: -math.Pi / 2,
			Radius:   config.ShipRadius,
			Active:   true,
		},
		Lives:          config.InitialLives,
		ShieldStrength: config.MaxShield,
		Acceleration:   config.ShipAcceleration * speedMul,
		MaxSpeed:       config.ShipMaxSpeed * speedMul,
		RotationStep:   config.ShipRotationStep * rotMul,
		spawn:          spawn,
	}
}

// Rotate starts turning; dir is -1 for left and +1 for right.
func (s *Ship) Rotate(dir int) {
	s.RotationSpeed = float64(dir) * s.RotationStep
}

// StopRotation stops turning immediately.
func (s *Ship) StopRotation() {
	s.RotationSpeed = 0
}

// Accelerate adds one tick of thrust along the heading and clamps the speed.
func (s *Ship) Accelerate() {
	if s.Hidden {
		return
	}
	thrust := physics.FromAngle(s.Rotation, s.Acceleration)
	s.Vel = s.Vel.Add(thrust).ClampLen(s.MaxSpeed)
}

// Update applies motion and the passive per-tick effects. Hidden ships are frozen.
func (s *Ship) Update(ctx UpdateContext) {
	if s.Hidden {
		return
	}

	s.Advance(ctx.Arena)
	s.Vel = s.Vel.Scale(config.ShipFriction)

	if s.Heat > 0 {
		s.Heat = max(s.Heat-config.HeatCooldownRate, 0)
	}
	if !s.ShieldActive && s.ShieldStrength < config.MaxShield {
		s.ShieldStrength = min(s.ShieldStrength+config.ShieldRechargeRate, config.MaxShield)
	}
	if s.InvulnerableTicks > 0 {
		s.InvulnerableTicks--
		if s.InvulnerableTicks == 0 {
			s.Invulnerable = false
		}
	}
	if s.ShootCooldown > 0 {
		s.ShootCooldown--
	}
}

// Shoot fires a projectile from the nose. It returns nil while the weapon is
// cooling down, while hidden, or when the shot would overheat the weapon. An
// overheating shot pins heat at the maximum and leaves the cooldown untouched.
func (s *Ship) Shoot(now time.Time) *Projectile {
	if s.ShootCooldown > 0 || s.Hidden {
		return nil
	}

	s.Heat += config.HeatPerShot
	if s.Heat > config.MaxHeat {
		s.Heat = config.MaxHeat
		return nil
	}

	s.ShootCooldown = config.ShootCooldownTicks
	nose := s.Pos.Add(physics.FromAngle(s.Rotation, s.Radius))
	return NewProjectile(nose, s.Rotation, now)
}

// ActivateShield raises the shield if it has charge and the ship is visible.
func (s *Ship) ActivateShield() {
	if s.ShieldStrength > 0 && !s.Hidden {
		s.ShieldActive = true
	}
}

// DeactivateShield lowers the shield so it recharges again.
func (s *Ship) DeactivateShield() {
	s.ShieldActive = false
}

// ShieldRadius is the reach of the raised shield; it grows with charge.
func (s *Ship) ShieldRadius() float64 {
	return s.Radius * (1.5 + s.ShieldStrength/config.MaxShield)
}

// LoseLife removes one life, never going below zero, and returns what is left.
func (s *Ship) LoseLife() int {
	if s.Lives > 0 {
		s.Lives--
	}
	return s.Lives
}

// Hide takes the ship out of play after a hit. It becomes invulnerable and
// reappears at the spawn point once RespawnDelay has passed on the wall clock.
func (s *Ship) Hide(now time.Time) {
	s.Hidden = true
	s.ShieldActive = false
	s.Invulnerable = true
	s.InvulnerableTicks = config.InvulnerableTicks
	s.respawnAt = now.Add(config.RespawnDelay)
	s.respawnPending = true
}

// Retire hides the ship for good. A pending respawn is cancelled.
func (s *Ship) Retire() {
	s.Hidden = true
	s.ShieldActive = false
	s.Vel = physics.Vec2{}
	s.RotationSpeed = 0
	s.respawnPending = false
}

// RespawnPending reports whether a respawn deadline is scheduled.
func (s *Ship) RespawnPending() bool {
	return s.respawnPending
}

// RespawnIn returns the time left until the scheduled respawn.
func (s *Ship) RespawnIn(now time.Time) time.Duration {
	if !s.respawnPending {
		return 0
	}
	return max(s.respawnAt.Sub(now), 0)
}

// CheckRespawn performs the scheduled respawn once its deadline has passed.
// It reports whether the ship respawned during this call.
func (s *Ship) CheckRespawn(now time.Time) bool {
	if !s.respawnPending || now.Before(s.respawnAt) {
		return false
	}
	s.respawnPending = false
	s.Pos = s.spawn
	s.Vel = physics.Vec2{}
	s.Hidden = false
	return true
}
