package session

import (
	"time"

	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// EntityView is the read-only render data of one entity.
type EntityView struct {
	Kind     object.Kind
	Pos      physics.Vec2
	Rotation float64
	Radius   float64

	// Asteroid
	Tier    object.Tier
	Outline []physics.Vec2

	// Particle
	Alpha float64

	// Ship
	HeatPercent       float64
	ShieldPercent     float64
	ShieldActive      bool
	ShieldRadius      float64
	InvulnerableTicks int
}

// InitialsView describes the name editor.
type InitialsView struct {
	Name   string
	Cursor int
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	State    State
	Paused   bool
	Mode     Mode
	Score    int
	Level    int
	Lives    int
	Arena    object.Arena
	Entities []EntityView

	// Ship resources are reported even while the ship is hidden.
	HeatPercent   float64
	ShieldPercent float64
	RespawnIn     time.Duration

	GameOverProgress float64
	Initials         InitialsView
	HighScores       []highscore.Entry
}

// Snapshot captures the current frame. Hidden ships are left out.
func (s *Session) Snapshot() Snapshot {
	ship := s.ship
	snap := Snapshot{
		State:            s.state,
		Paused:           s.paused,
		Mode:             s.mode,
		Score:            s.score,
		Level:            s.level,
		Lives:            ship.Lives,
		Arena:            s.arena,
		Entities:         make([]EntityView, 0, len(s.objects)),
		HeatPercent:      ship.Heat / config.MaxHeat * 100,
		ShieldPercent:    ship.ShieldStrength / config.MaxShield * 100,
		RespawnIn:        ship.RespawnIn(s.clock.Now()),
		GameOverProgress: s.GameOverProgress(),
	}

	for _, obj := range s.objects {
		e := obj.Base()
		if !e.Active {
			continue
		}
		view := EntityView{
			Kind:     e.Kind,
			Pos:      e.Pos,
			Rotation: e.Rotation,
			Radius:   e.Radius,
		}
		switch o := obj.(type) {
		case *object.Ship:
			if o.Hidden {
				continue
			}
			view.HeatPercent = snap.HeatPercent
			view.ShieldPercent = snap.ShieldPercent
			view.ShieldActive = o.ShieldActive
			view.ShieldRadius = o.ShieldRadius()
			view.InvulnerableTicks = o.InvulnerableTicks
		case *object.Asteroid:
			view.Tier = o.Tier
			view.Outline = o.Outline()
		case *object.Particle:
			view.Alpha = o.Alpha()
		}
		snap.Entities = append(snap.Entities, view)
	}

	if s.initials != nil {
		snap.Initials = InitialsView{Name: s.initials.Name(), Cursor: s.initials.Cursor()}
	}
	if s.state != StatePlaying {
		snap.HighScores = s.TopScores(config.ShownHighScore)
	}
	return snap
}
