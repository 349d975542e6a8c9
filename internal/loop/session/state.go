package session

import (
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/object"
)

// State is the match-level phase of a session.
type State int

const (
	StatePlaying State = iota
	// StateExploding is entered and left within the tick the last life is lost.
	StateExploding
	StateGameOverSequence
	StateEnteringInitials
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateExploding:
		return "exploding"
	case StateGameOverSequence:
		return "game_over"
	case StateEnteringInitials:
		return "entering_initials"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Signal tells the caller what to do after a tick.
type Signal int

const (
	SignalNone Signal = iota
	// SignalExit means the player left mid-game; return to the title screen.
	SignalExit
	// SignalRestart means the run is over and recorded; start a new session.
	SignalRestart
)

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	s.logger.Debug("state change", "from", s.state, "to", next, "tick", s.ticks)
	s.state = next
}

// gameOver runs the Playing -> Exploding -> GameOverSequence transition.
func (s *Session) gameOver() {
	s.setState(StateExploding)

	s.ship.Retire()
	s.controlsDisabled = true
	s.addParticles(object.NewExplosion(s.rng, s.ship.Pos, config.DeathExplosionTier))
	s.emit(Event{Type: EventGameOver, Pos: s.ship.Pos, Tier: config.DeathExplosionTier})

	s.gameOverTicks = 0
	s.setState(StateGameOverSequence)
	s.logger.Info("game over", "score", s.score, "level", s.level, "mode", s.mode)
}

func (s *Session) tickGameOver() {
	s.gameOverTicks++
	if s.gameOverTicks >= config.GameOverTicks {
		s.initials = newInitials()
		s.setState(StateEnteringInitials)
	}
}

// GameOverProgress returns the fraction of the game-over screen elapsed.
func (s *Session) GameOverProgress() float64 {
	return min(float64(s.gameOverTicks)/config.GameOverTicks, 1)
}

func (s *Session) tickInitials(in Input, p pressed) Signal {
	ed := s.initials
	switch {
	case p.menuLeft || p.cancel:
		ed.Left()
	case p.menuRight:
		ed.Right()
	case in.Letter != 0:
		ed.Type(in.Letter)
	}
	if !p.confirm {
		return SignalNone
	}

	ed.Confirm()
	s.record(highscore.Entry{Name: ed.Name(), Score: s.score})
	s.setState(StateEnded)
	return SignalRestart
}

func (s *Session) record(e highscore.Entry) {
	if s.scores == nil {
		return
	}
	if err := s.scores.Record(e); err != nil {
		s.logger.Error("failed to record high score", "name", e.Name, "score", e.Score, "err", err)
		return
	}
	s.logger.Info("high score recorded", "name", e.Name, "score", e.Score)
}

// TopScores returns the leaderboard head, or nil without a score board.
func (s *Session) TopScores(n int) []highscore.Entry {
	if s.scores == nil {
		return nil
	}
	return s.scores.Top(n)
}
