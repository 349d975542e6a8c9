package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/tomz197/sheeraroids/internal/loop/session"
	"github.com/tomz197/sheeraroids/internal/object"
)

const sampleRate = beep.SampleRate(44100)

const (
	shotDuration      = 90 * time.Millisecond
	reflectDuration   = 120 * time.Millisecond
	explosionBase     = 250 * time.Millisecond
	explosionPerTier  = 150 * time.Millisecond
	gameOverDuration  = 2 * time.Second
	defaultVolume     = 0.5
	explosionPunchDur = 50 * time.Millisecond
)

// Sound builds the streamer for an event, or nil if the event is silent.
func Sound(e session.Event, rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer
	switch e.Type {
	case session.EventShotFired:
		s = shotSound(rate)
	case session.EventExplosion:
		s = explosionSound(rate, e.Tier)
	case session.EventShieldReflect:
		s = reflectSound(rate)
	case session.EventGameOver:
		s = gameOverSound(rate)
	default:
		return nil
	}
	return withVolume(s, vol)
}

// shotSound is a short falling square chirp.
func shotSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSweep(1200, 400, shotDuration, WaveSquare, rate)
	return withVolume(NewEnvelope(osc, shotDuration, 5*time.Millisecond, 60*time.Millisecond, rate), 0.3)
}

// explosionSound mixes noise with a low rumble; larger asteroids last longer.
func explosionSound(rate beep.SampleRate, tier object.Tier) beep.Streamer {
	d := explosionBase + time.Duration(tier)*explosionPerTier
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, d*3/4, rate)
	rumble := NewEnvelope(NewSweep(60, 40, d, WaveSine, rate), d, 0, d/2, rate)
	punch := NewEnvelope(NewSweep(150, 50, explosionPunchDur, WaveSine, rate), explosionPunchDur, 0, explosionPunchDur, rate)
	return beep.Mix(
		withVolume(noise, 0.4),
		withVolume(rumble, 0.5),
		withVolume(punch, 0.6),
	)
}

// reflectSound is a bright rising ping.
func reflectSound(rate beep.SampleRate) beep.Streamer {
	osc := NewSweep(900, 1800, reflectDuration, WaveSine, rate)
	return withVolume(NewEnvelope(osc, reflectDuration, 2*time.Millisecond, 80*time.Millisecond, rate), 0.4)
}

// gameOverSound is a long descending synth sweep with a harmonic.
func gameOverSound(rate beep.SampleRate) beep.Streamer {
	d := gameOverDuration
	lead := NewEnvelope(NewSweep(800, 60, d, WaveSaw, rate), d, 10*time.Millisecond, d/2, rate)
	harm := NewEnvelope(NewSweep(1600, 120, d, WaveSine, rate), d, 10*time.Millisecond, d/2, rate)
	return beep.Mix(withVolume(lead, 0.35), withVolume(harm, 0.15))
}
