// Package session runs one playthrough: the fixed-step simulation, the
// collision pass, scoring and levels, and the match state machine. It does
// no rendering or I/O; callers feed Input into Tick and draw Snapshot.
package session

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sheeraroids/internal/clock"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Mode is the difficulty chosen before a session starts.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAccelerated
	ModeSlowed
)

// Multipliers returns the speed and rotation factors applied to the ship and
// to every asteroid spawned in this mode.
func (m Mode) Multipliers() (speed, rotation float64) {
	switch m {
	case ModeAccelerated:
		return 1.5, 1.5
	case ModeSlowed:
		return 0.5, 0.5
	default:
		return 1, 1
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAccelerated:
		return "accelerated"
	case ModeSlowed:
		return "slowed"
	default:
		return "normal"
	}
}

// Modes lists the modes in menu order, key 1 first.
var Modes = []Mode{ModeAccelerated, ModeNormal, ModeSlowed}

// Cycle moves dir steps through Modes, wrapping at the ends.
func (m Mode) Cycle(dir int) Mode {
	idx := 0
	for i, o := range Modes {
		if o == m {
			idx = i
		}
	}
	n := len(Modes)
	return Modes[((idx+dir)%n+n)%n]
}

// ScoreBoard is where finished runs are recorded.
type ScoreBoard interface {
	Record(e highscore.Entry) error
	Top(n int) []highscore.Entry
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Mode   Mode
	Arena  object.Arena
	Clock  clock.Clock
	Rand   *rand.Rand
	Logger *log.Logger
	Scores ScoreBoard
}

// Session is a single playthrough. It is not safe for concurrent use.
type Session struct {
	mode     Mode
	arena    object.Arena
	clock    clock.Clock
	rng      *rand.Rand
	logger   *log.Logger
	scores   ScoreBoard
	dispatch *Dispatcher

	speedMul float64
	rotMul   float64

	ship        *object.Ship
	projectiles []*object.Projectile
	asteroids   []*object.Asteroid
	particles   []*object.Particle
	objects     []object.Object

	score int
	level int

	state            State
	paused           bool
	controlsDisabled bool
	gameOverTicks    int
	initials         *Initials
	prevInput        Input
	ticks            uint64

	projectileGrid *physics.SpatialGrid
}

// projectileGridCell covers the largest asteroid plus a projectile.
const projectileGridCell = config.MaxAsteroidTier*config.AsteroidRadiusPerTier + config.ProjectileRadius

// New creates a session in the Playing state with the first wave spawned.
func New(opts Options) *Session {
	if opts.Arena.Width <= 0 || opts.Arena.Height <= 0 {
		opts.Arena = object.Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	speedMul, rotMul := opts.Mode.Multipliers()
	s := &Session{
		mode:           opts.Mode,
		arena:          opts.Arena,
		clock:          opts.Clock,
		rng:            opts.Rand,
		logger:         opts.Logger.WithPrefix("session"),
		scores:         opts.Scores,
		dispatch:       NewDispatcher(),
		speedMul:       speedMul,
		rotMul:         rotMul,
		level:          config.FirstLevel,
		state:          StatePlaying,
		projectileGrid: physics.NewSpatialGrid(opts.Arena.Width, opts.Arena.Height, projectileGridCell),
	}

	s.ship = object.NewShip(s.arena.Center(), speedMul, rotMul)
	s.objects = append(s.objects, s.ship)
	s.spawnWave()

	s.logger.Debug("session started", "mode", s.mode, "asteroids", len(s.asteroids))
	return s
}

// Subscribe registers l for one event type.
func (s *Session) Subscribe(t EventType, l Listener) {
	s.dispatch.Subscribe(t, l)
}

// SubscribeAll registers l for every event.
func (s *Session) SubscribeAll(l Listener) {
	s.dispatch.SubscribeAll(l)
}

// Tick advances the session by one frame and reports whether the caller
// should exit or start a new session.
func (s *Session) Tick(in Input) Signal {
	now := s.clock.Now()
	p := edges(in, s.prevInput)
	s.prevInput = in
	s.ticks++

	// The respawn deadline runs on the wall clock, so it is checked even
	// while paused.
	if s.ship.CheckRespawn(now) {
		s.logger.Debug("ship respawned", "lives", s.ship.Lives)
	}

	switch s.state {
	case StatePlaying:
		return s.tickPlaying(in, p, now)
	case StateGameOverSequence:
		s.tickGameOver()
	case StateEnteringInitials:
		return s.tickInitials(in, p)
	}
	return SignalNone
}

func (s *Session) tickPlaying(in Input, p pressed, now time.Time) Signal {
	if in.Exit {
		s.setState(StateEnded)
		return SignalExit
	}
	if p.pause {
		s.paused = !s.paused
		s.logger.Debug("pause toggled", "paused", s.paused)
	}
	if s.paused {
		return SignalNone
	}

	s.applyControls(in, now)
	s.advance(now)
	s.resolveCollisions(now)
	s.removeInactive()

	if s.state == StatePlaying && len(s.asteroids) == 0 {
		s.level++
		s.spawnWave()
		s.logger.Debug("level cleared", "level", s.level, "score", s.score)
	}
	return SignalNone
}

// applyControls turns the input snapshot into ship intent. Left wins over right.
func (s *Session) applyControls(in Input, now time.Time) {
	if s.controlsDisabled {
		return
	}
	ship := s.ship

	switch {
	case in.RotateLeft:
		ship.Rotate(-1)
	case in.RotateRight:
		ship.Rotate(1)
	default:
		ship.StopRotation()
	}

	if in.Thrust {
		ship.Accelerate()
	}

	if in.Shield {
		ship.ActivateShield()
	} else {
		ship.DeactivateShield()
	}

	if in.Fire {
		if p := ship.Shoot(now); p != nil {
			p.Vel = p.Vel.Scale(s.speedMul)
			s.addProjectile(p)
			s.emit(Event{Type: EventShotFired, Pos: p.Pos})
		}
	}
}

func (s *Session) advance(now time.Time) {
	ctx := object.UpdateContext{Arena: s.arena, Now: now}
	for _, obj := range s.objects {
		obj.Update(ctx)
	}
}

// spawnWave adds level+2 large asteroids away from the ship.
func (s *Session) spawnWave() {
	count := s.level + config.ExtraAsteroidsPerWave
	for range count {
		pos, ok := object.RandomSpawnPoint(s.rng, s.arena, s.ship.Pos,
			config.AsteroidSafeDistance, config.AsteroidSpawnAttempts)
		if !ok {
			s.logger.Warn("asteroid spawn sampling exhausted, using fallback position",
				"attempts", config.AsteroidSpawnAttempts, "pos", pos)
		}
		s.addAsteroid(object.NewAsteroid(pos, object.TierLarge, s.rng, s.speedMul, s.rotMul))
	}
}

func (s *Session) addProjectile(p *object.Projectile) {
	s.projectiles = append(s.projectiles, p)
	s.objects = append(s.objects, p)
}

func (s *Session) addAsteroid(a *object.Asteroid) {
	s.asteroids = append(s.asteroids, a)
	s.objects = append(s.objects, a)
}

func (s *Session) addParticles(ps []*object.Particle) {
	s.particles = append(s.particles, ps...)
	for _, p := range ps {
		s.objects = append(s.objects, p)
	}
}

func (s *Session) emit(e Event) {
	s.dispatch.Dispatch(e)
}

// State returns the current match state.
func (s *Session) State() State { return s.state }

// Paused reports whether simulation is suspended.
func (s *Session) Paused() bool { return s.paused }

// Score returns the points earned so far.
func (s *Session) Score() int { return s.score }

// Level returns the current wave number, starting at 1.
func (s *Session) Level() int { return s.level }

// Mode returns the difficulty the session was created with.
func (s *Session) Mode() Mode { return s.mode }

// Ship returns the player ship.
func (s *Session) Ship() *object.Ship { return s.ship }

// Asteroids returns the live asteroid collection. Callers must not modify it.
func (s *Session) Asteroids() []*object.Asteroid { return s.asteroids }

// Projectiles returns the live projectile collection. Callers must not modify it.
func (s *Session) Projectiles() []*object.Projectile { return s.projectiles }

// Particles returns the live particle collection. Callers must not modify it.
func (s *Session) Particles() []*object.Particle { return s.particles }

// ControlsDisabled reports whether flight input is ignored for good.
func (s *Session) ControlsDisabled() bool { return s.controlsDisabled }

// Initials returns the name editor, or nil outside EnteringInitials.
func (s *Session) Initials() *Initials { return s.initials }
