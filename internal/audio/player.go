// Package audio turns session events into sound: synthesized effects on the
// local speaker, or the terminal bell for remote players.
package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/sheeraroids/internal/loop/session"
)

// Player consumes session events. Close releases its output.
type Player interface {
	session.Listener
	Close()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) OnEvent(session.Event) {}
func (Nop) Close()                {}

// speaker.Init may only run once per process.
var speakerOnce sync.Once
var speakerErr error

// Speaker plays synthesized effects through the system audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

// NewSpeaker opens the audio device. volume is a linear factor in [0, 1].
func NewSpeaker(volume float64) (*Speaker, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}

	s := &Speaker{mixer: &beep.Mixer{}, volume: volume}
	speaker.Play(s.mixer)
	return s, nil
}

// OnEvent starts the effect for e on top of whatever is already playing.
func (s *Speaker) OnEvent(e session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	st := Sound(e, sampleRate, s.volume)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close silences all effects.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// Bell rings the terminal bell for loud events. Rings closer together than
// minGap are dropped so a burst of explosions stays one beep.
type Bell struct {
	mu     sync.Mutex
	w      io.Writer
	last   time.Time
	minGap time.Duration
	now    func() time.Time
	logger *log.Logger
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer, logger *log.Logger) *Bell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bell{
		w:      w,
		minGap: 150 * time.Millisecond,
		now:    time.Now,
		logger: logger,
	}
}

func (b *Bell) OnEvent(e session.Event) {
	switch e.Type {
	case session.EventExplosion, session.EventGameOver:
	default:
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.minGap {
		return
	}
	b.last = now
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		b.logger.Debug("bell write failed", "err", err)
	}
}

func (b *Bell) Close() {}

// New selects a Player: the speaker when enabled and available, otherwise a
// silent one. Failures to open the device are logged, not fatal.
func New(enabled bool, logger *log.Logger) Player {
	if !enabled {
		return Nop{}
	}
	sp, err := NewSpeaker(defaultVolume)
	if err != nil {
		if logger == nil {
			logger = log.New(io.Discard)
		}
		logger.Warn("audio disabled", "err", err)
		return Nop{}
	}
	return sp
}
