// Package config centralizes all tunable game parameters.
package config

import (
	"math"
	"time"
)

// Arena dimensions in world units. Every entity wraps on both axes.
const (
	ArenaWidth  = 1024
	ArenaHeight = 768
)

// Simulation cadence. Motion constants below are expressed per tick.
const (
	TickRate = 60
	TickTime = time.Second / TickRate
)

// Ship
const (
	ShipRadius         = 20.0
	ShipAcceleration   = 0.2
	ShipFriction       = 0.98
	ShipMaxSpeed       = 5.0
	ShipRotationStep   = 0.05 // radians per tick
	InitialLives       = 3
	InvulnerableTicks  = 180
	RespawnDelay       = 2 * time.Second
	PlayerBlinkTickMod = 8 // ticks per blink phase while invulnerable
)

// Weapon heat
const (
	MaxHeat            = 100.0
	HeatPerShot        = 10.0
	HeatCooldownRate   = 0.5
	ShootCooldownTicks = 10
)

// Shield
const (
	MaxShield          = 100.0
	ShieldRechargeRate = 0.1
)

// Projectile
const (
	ProjectileRadius   = 5.0
	ProjectileSpeed    = 10.0
	ProjectileLifetime = 2000 * time.Millisecond
	ReflectSpread      = math.Pi / 5
)

// Asteroid
const (
	AsteroidRadiusPerTier = 20.0
	MaxAsteroidTier       = 3
	AsteroidSafeDistance  = 150.0
	AsteroidSpawnAttempts = 1000
	AsteroidMaxSpin       = 0.02
)

// Scoring and levels
const (
	ScorePerTier          = 100 // destroying tier t awards (4-t) * ScorePerTier
	FirstLevel            = 1
	ExtraAsteroidsPerWave = 2 // a wave spawns level + ExtraAsteroidsPerWave tier-3 rocks
)

// Particles
const (
	ExplosionParticlesPerTier = 15
	ExplosionMinSpeed         = 2.0
	ExplosionMaxSpeed         = 5.0
	ExplosionMinLifetime      = 30
	ExplosionMaxLifetime      = 60
	ParticleGravity           = 0.1
	DeathExplosionTier        = 3
	ReflectParticles          = 5
	ReflectMinSpeed           = 1.0
	ReflectMaxSpeed           = 3.0
	ReflectLifetime           = 10
)

// Match flow
const (
	GameOverTicks  = 120 // retro game-over screen, 2s at TickRate
	InitialsLength = 3
	MaxHighScores  = 10
	ShownHighScore = 5
)

// Terminal rendering. The arena is 4:3 and a terminal cell is roughly twice
// as tall as it is wide, so 128x48 cells keep the aspect ratio.
const (
	MaxTermWidth          = 128
	MaxTermHeight         = 48
	ClientTargetFPS       = TickRate
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxUsernameLength     = 16
)

// Lobby bookkeeping runs far below the simulation rate; it only gathers
// player progress for the HUD and the live leaderboard.
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
	LiveBoardSize  = 5
)

// Inactivity (seconds)
const (
	InactivityWarnUser       = 90
	InactivityDisconnectUser = 120
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0
	ShutdownGracePeriod    = 15 * time.Second
)
