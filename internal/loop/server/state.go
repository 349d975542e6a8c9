package server

import (
	"slices"
	"time"

	"github.com/tomz197/sheeraroids/internal/loop/session"
)

// Progress is what a client reports about its current session.
type Progress struct {
	Playing bool // false on the title screen
	State   session.State
	Mode    session.Mode
	Score   int
	Level   int
}

// PlayerStatus is one connected player in a snapshot.
type PlayerStatus struct {
	ID       int
	Username string
	Progress
}

// LobbySnapshot is an immutable view of the connected players.
type LobbySnapshot struct {
	Players   int
	LiveBoard []PlayerStatus // best running scores, highest first
	Generated time.Time
}

// liveBoard returns the n best in-progress runs. Ties go to the player who
// connected first.
func liveBoard(players []PlayerStatus, n int) []PlayerStatus {
	playing := make([]PlayerStatus, 0, len(players))
	for _, p := range players {
		if p.Playing && p.Score > 0 {
			playing = append(playing, p)
		}
	}
	slices.SortFunc(playing, func(a, b PlayerStatus) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.ID - b.ID
	})
	if len(playing) > n {
		playing = playing[:n]
	}
	return playing
}
