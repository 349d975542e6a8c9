package object

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/physics"
)

var (
	testArena = Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
	testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestArenaWrap(t *testing.T) {
	tests := []struct {
		in   physics.Vec2
		want physics.Vec2
	}{
		{physics.Vec2{X: -1, Y: 10}, physics.Vec2{X: 1023, Y: 10}},
		{physics.Vec2{X: 1024, Y: 768}, physics.Vec2{X: 0, Y: 0}},
		{physics.Vec2{X: 1030, Y: -8}, physics.Vec2{X: 6, Y: 760}},
		{physics.Vec2{X: -2048, Y: 1536}, physics.Vec2{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		got := testArena.Wrap(tt.in)
		if !approx(got.X, tt.want.X, 1e-9) || !approx(got.Y, tt.want.Y, 1e-9) {
			t.Errorf("Wrap(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAdvanceKeepsEntitiesInsideArena(t *testing.T) {
	starts := []physics.Vec2{
		{X: 0, Y: 0},
		{X: 1023.9, Y: 767.9},
		{X: 1e-17, Y: 1e-17},
		{X: 512, Y: 384},
	}
	vels := []physics.Vec2{
		{X: -1e-15, Y: -1e-15},
		{X: 0.2, Y: 0.2},
		{X: -10, Y: 10},
		{X: 5, Y: -5},
	}
	for _, pos := range starts {
		for _, vel := range vels {
			e := Entity{Pos: pos, Vel: vel}
			e.Advance(testArena)
			if e.Pos.X < 0 || e.Pos.X >= testArena.Width || e.Pos.Y < 0 || e.Pos.Y >= testArena.Height {
				t.Errorf("pos %+v vel %+v advanced outside arena: %+v", pos, vel, e.Pos)
			}
		}
	}
}

func TestShipAccelerateClampsSpeed(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	s.Rotation = 0.3

	for range 500 {
		s.Accelerate()
		if s.Vel.Len() > s.MaxSpeed+1e-9 {
			t.Fatalf("speed %v exceeds max %v", s.Vel.Len(), s.MaxSpeed)
		}
	}
	if !approx(s.Vel.Angle(), 0.3, 1e-9) {
		t.Errorf("heading = %v, want 0.3", s.Vel.Angle())
	}
}

func TestShipModeMultipliers(t *testing.T) {
	fast := NewShip(testArena.Center(), 1.5, 1.5)
	if !approx(fast.MaxSpeed, 7.5, 1e-9) || !approx(fast.Acceleration, 0.3, 1e-9) {
		t.Errorf("accelerated ship: max %v accel %v", fast.MaxSpeed, fast.Acceleration)
	}
	fast.Rotate(-1)
	if !approx(fast.RotationSpeed, -0.075, 1e-12) {
		t.Errorf("rotation speed = %v, want -0.075", fast.RotationSpeed)
	}
	fast.StopRotation()
	if fast.RotationSpeed != 0 {
		t.Errorf("rotation speed after stop = %v", fast.RotationSpeed)
	}
}

func TestShipShootSpawnsAtNose(t *testing.T) {
	s := NewShip(physics.Vec2{X: 100, Y: 100}, 1, 1)
	s.Rotation = 0

	p := s.Shoot(testStart)
	if p == nil {
		t.Fatal("expected a projectile")
	}
	if !approx(p.Pos.X, 120, 1e-9) || !approx(p.Pos.Y, 100, 1e-9) {
		t.Errorf("projectile at %+v, want nose (120,100)", p.Pos)
	}
	if !approx(p.Vel.Len(), config.ProjectileSpeed, 1e-9) {
		t.Errorf("projectile speed = %v", p.Vel.Len())
	}
	if s.Heat != 10 || s.ShootCooldown != config.ShootCooldownTicks {
		t.Errorf("heat %v cooldown %d after shot", s.Heat, s.ShootCooldown)
	}
	if s.Shoot(testStart) != nil {
		t.Error("second shot during cooldown must be blocked")
	}
}

func TestShipOverheatAbortsShot(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	s.Heat = 95
	s.ShootCooldown = 0

	if p := s.Shoot(testStart); p != nil {
		t.Fatal("overheating shot must not fire")
	}
	if s.Heat != config.MaxHeat {
		t.Errorf("heat = %v, want clamped to %v", s.Heat, config.MaxHeat)
	}
	if s.ShootCooldown != 0 {
		t.Errorf("cooldown = %d, want untouched 0", s.ShootCooldown)
	}

	s.Heat = 90
	if p := s.Shoot(testStart); p == nil {
		t.Error("reaching exactly max heat is still allowed")
	}
}

func TestShipPassiveEffects(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	s.Vel = physics.Vec2{X: 2}
	s.Heat = 0.3
	s.ShieldStrength = 99.95
	s.Invulnerable = true
	s.InvulnerableTicks = 1
	s.ShootCooldown = 1

	s.Update(UpdateContext{Arena: testArena, Now: testStart})

	if !approx(s.Vel.X, 2*config.ShipFriction, 1e-12) {
		t.Errorf("velocity after friction = %v", s.Vel.X)
	}
	if s.Heat != 0 {
		t.Errorf("heat = %v, want clamped to 0", s.Heat)
	}
	if s.ShieldStrength != config.MaxShield {
		t.Errorf("shield = %v, want clamped to max", s.ShieldStrength)
	}
	if s.Invulnerable || s.InvulnerableTicks != 0 {
		t.Error("invulnerability should clear when the countdown reaches 0")
	}
	if s.ShootCooldown != 0 {
		t.Errorf("cooldown = %d", s.ShootCooldown)
	}
}

func TestShieldBlocksRechargeWhileRaised(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	s.ShieldStrength = 50
	s.ActivateShield()
	s.Update(UpdateContext{Arena: testArena, Now: testStart})
	if s.ShieldStrength != 50 {
		t.Errorf("raised shield recharged to %v", s.ShieldStrength)
	}
	s.DeactivateShield()
	s.Update(UpdateContext{Arena: testArena, Now: testStart})
	if !approx(s.ShieldStrength, 50.1, 1e-9) {
		t.Errorf("lowered shield = %v, want 50.1", s.ShieldStrength)
	}

	s.ShieldStrength = 0
	s.ActivateShield()
	if s.ShieldActive {
		t.Error("empty shield must not raise")
	}
}

func TestShipHideAndRespawnOnce(t *testing.T) {
	spawn := testArena.Center()
	s := NewShip(spawn, 1, 1)
	s.Pos = physics.Vec2{X: 10, Y: 10}
	s.Vel = physics.Vec2{X: 3, Y: 3}

	s.Hide(testStart)
	if !s.Hidden || !s.Invulnerable || s.InvulnerableTicks != config.InvulnerableTicks {
		t.Fatalf("hide state: hidden=%v invulnerable=%v ticks=%d", s.Hidden, s.Invulnerable, s.InvulnerableTicks)
	}
	if s.Shoot(testStart) != nil {
		t.Error("hidden ship must not shoot")
	}
	s.ActivateShield()
	if s.ShieldActive {
		t.Error("hidden ship must not raise its shield")
	}

	if s.CheckRespawn(testStart.Add(1999 * time.Millisecond)) {
		t.Fatal("respawned before the delay elapsed")
	}
	if !s.CheckRespawn(testStart.Add(2 * time.Second)) {
		t.Fatal("expected respawn at the deadline")
	}
	if s.Hidden || s.Pos != spawn || s.Vel != (physics.Vec2{}) {
		t.Errorf("after respawn: hidden=%v pos=%+v vel=%+v", s.Hidden, s.Pos, s.Vel)
	}

	s.Pos = physics.Vec2{X: 1, Y: 1}
	if s.CheckRespawn(testStart.Add(time.Hour)) {
		t.Error("respawn fired twice")
	}
}

func TestRetireCancelsRespawn(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	s.Hide(testStart)
	s.Retire()
	if s.CheckRespawn(testStart.Add(time.Minute)) || !s.Hidden {
		t.Error("retired ship must stay hidden")
	}
}

func TestLoseLifeNeverNegative(t *testing.T) {
	s := NewShip(testArena.Center(), 1, 1)
	for range 5 {
		s.LoseLife()
	}
	if s.Lives != 0 {
		t.Errorf("lives = %d, want 0", s.Lives)
	}
}

func TestProjectileExpiresOnWallClock(t *testing.T) {
	p := NewProjectile(physics.Vec2{X: 10, Y: 10}, 0, testStart)
	ctx := UpdateContext{Arena: testArena, Now: testStart.Add(config.ProjectileLifetime)}
	p.Update(ctx)
	if !p.Active {
		t.Fatal("projectile expired at exactly its lifetime")
	}
	ctx.Now = ctx.Now.Add(time.Millisecond)
	p.Update(ctx)
	if p.Active {
		t.Error("projectile should expire once its lifetime is exceeded")
	}
}

func TestProjectileReflect(t *testing.T) {
	rng := newRand()
	for i := range 100 {
		heading := float64(i) * 0.37
		p := NewProjectile(physics.Vec2{X: 300, Y: 300}, heading, testStart)
		later := testStart.Add(time.Second)

		p.Reflect(later, rng)

		if !approx(p.Vel.Len(), config.ProjectileSpeed, 1e-9) {
			t.Fatalf("speed changed to %v", p.Vel.Len())
		}
		turn := math.Remainder(p.Vel.Angle()-heading-math.Pi, 2*math.Pi)
		if math.Abs(turn) > config.ReflectSpread+1e-9 {
			t.Fatalf("heading deviated %v from a reversal", turn)
		}
		if !p.SpawnTime.Equal(later) {
			t.Fatal("reflection must restart the lifetime")
		}
	}
}

func TestAsteroidProperties(t *testing.T) {
	rng := newRand()
	for _, tier := range []Tier{TierSmall, TierMedium, TierLarge} {
		a := NewAsteroid(physics.Vec2{X: 50, Y: 50}, tier, rng, 1, 1)
		if a.Radius != float64(tier)*20 {
			t.Errorf("tier %d radius = %v", tier, a.Radius)
		}
		want := float64(4-tier)*0.5 + 0.5
		if !approx(a.Vel.Len(), want, 1e-9) {
			t.Errorf("tier %d speed = %v, want %v", tier, a.Vel.Len(), want)
		}
		if math.Abs(a.RotationSpeed) > config.AsteroidMaxSpin {
			t.Errorf("tier %d spin %v out of range", tier, a.RotationSpeed)
		}
		if len(a.Outline()) != 10+int(tier)*2 {
			t.Errorf("tier %d outline has %d points", tier, len(a.Outline()))
		}
	}

	if got := []int{TierLarge.Score(), TierMedium.Score(), TierSmall.Score()}; got[0] != 100 || got[1] != 200 || got[2] != 300 {
		t.Errorf("scores = %v, want [100 200 300]", got)
	}
}

func TestAsteroidSplit(t *testing.T) {
	rng := newRand()
	parent := NewAsteroid(physics.Vec2{X: 200, Y: 150}, TierLarge, rng, 0.5, 0.5)

	children := parent.Split(rng, 0.5, 0.5)
	if len(children) != 2 {
		t.Fatalf("split produced %d children, want 2", len(children))
	}
	for _, c := range children {
		if c.Tier != TierMedium {
			t.Errorf("child tier = %d, want 2", c.Tier)
		}
		if c.Pos != parent.Pos {
			t.Errorf("child at %+v, want parent position %+v", c.Pos, parent.Pos)
		}
		if !approx(c.Vel.Len(), TierMedium.Speed()*0.5, 1e-9) {
			t.Errorf("child speed = %v, want multiplier applied", c.Vel.Len())
		}
	}

	small := NewAsteroid(physics.Vec2{}, TierSmall, rng, 1, 1)
	if got := small.Split(rng, 1, 1); len(got) != 0 {
		t.Errorf("small asteroid split into %d", len(got))
	}
}

func TestRandomSpawnPoint(t *testing.T) {
	rng := newRand()
	ship := testArena.Center()
	for range 200 {
		p, ok := RandomSpawnPoint(rng, testArena, ship, config.AsteroidSafeDistance, config.AsteroidSpawnAttempts)
		if !ok {
			t.Fatal("sampling should succeed in a normal arena")
		}
		if physics.Distance(p, ship) < config.AsteroidSafeDistance {
			t.Fatalf("spawn %+v too close to ship", p)
		}
	}

	tiny := Arena{Width: 100, Height: 100}
	p, ok := RandomSpawnPoint(rng, tiny, physics.Vec2{X: 10, Y: 20}, 1000, 50)
	if ok {
		t.Fatal("impossible constraint must report failure")
	}
	if p != (physics.Vec2{X: 60, Y: 70}) {
		t.Errorf("fallback = %+v, want opposite point (60,70)", p)
	}
}

func TestParticlesFadeAndExpire(t *testing.T) {
	rng := newRand()
	burst := NewExplosion(rng, physics.Vec2{X: 10, Y: 10}, TierMedium)
	if len(burst) != 2*config.ExplosionParticlesPerTier {
		t.Fatalf("burst size = %d", len(burst))
	}

	p := NewParticle(physics.Vec2{X: 10, Y: 10}, physics.Vec2{}, 2, config.ParticleGravity)
	p.Update(UpdateContext{Arena: testArena})
	if !approx(p.Alpha(), 0.5, 1e-9) || !approx(p.Vel.Y, config.ParticleGravity, 1e-12) {
		t.Errorf("alpha %v vel %+v after one tick", p.Alpha(), p.Vel)
	}
	p.Update(UpdateContext{Arena: testArena})
	if p.Active {
		t.Error("particle should expire when its lifetime runs out")
	}

	if len(NewReflectionFlash(rng, physics.Vec2{})) != config.ReflectParticles {
		t.Error("unexpected reflection flash size")
	}
}

func TestShouldRenderBlink(t *testing.T) {
	if !ShouldRenderBlink(0, 8) {
		t.Error("unprotected objects are always drawn")
	}
	if ShouldRenderBlink(8, 8) == ShouldRenderBlink(16, 8) {
		t.Error("adjacent phases must alternate")
	}
}
