package client

import (
	"time"

	"github.com/tomz197/sheeraroids/internal/input"
	"github.com/tomz197/sheeraroids/internal/loop/session"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen and mode select
	GameStatePlaying                   // A session is running, including game over and initials
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player state (input, selected mode, current session).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	prevInput input.Input
	GameState GameState
	Mode      session.Mode     // Mode chosen on the title screen
	Session   *session.Session // Current run, nil on the title screen
	Running   bool             // Client loop running

	letters       []rune        // Typed characters waiting to be fed to the initials editor
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	// Previous frame state, used to clear the terminal on screen transitions.
	prevGameState    GameState
	prevSessionState session.State
	prevPaused       bool
	wasInactive      bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Mode:      session.ModeNormal,
		Running:   true,
	}
}

// modeByKey maps a title screen number key to its mode.
func modeByKey(n int) (session.Mode, bool) {
	if n < 1 || n > len(session.Modes) {
		return 0, false
	}
	return session.Modes[n-1], true
}

// controls converts the frame's key state into a session input. letter is
// the next queued character for the initials editor, or zero.
func controls(in input.Input, letter rune) session.Input {
	return session.Input{
		RotateLeft:  in.Left,
		RotateRight: in.Right,
		Thrust:      in.Up,
		Fire:        in.Space,
		Shield:      in.Down,
		PauseToggle: in.Pause,
		Exit:        in.Escape,
		Confirm:     in.Enter,
		Cancel:      in.Backspace,
		MenuLeft:    in.ArrowLeft,
		MenuRight:   in.ArrowRight,
		Letter:      letter,
	}
}
