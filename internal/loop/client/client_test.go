package client

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/clock"
	"github.com/tomz197/sheeraroids/internal/draw"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/input"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/loop/server"
	"github.com/tomz197/sheeraroids/internal/loop/session"
)

type fakeServer struct {
	board    *highscore.Board
	progress []server.Progress
	left     []int
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	return &server.ClientHandle{ID: 1, Username: username, EventsCh: make(chan server.ClientEvent, 1)}
}

func (f *fakeServer) UnregisterClient(id int) { f.left = append(f.left, id) }

func (f *fakeServer) ReportProgress(_ int, p server.Progress) {
	f.progress = append(f.progress, p)
}

func (f *fakeServer) GetSnapshot() *server.LobbySnapshot {
	return &server.LobbySnapshot{Players: 1}
}

func (f *fakeServer) Scores() *highscore.Board { return f.board }

func newTestClient(t *testing.T) (*Client, *fakeServer, *bytes.Buffer) {
	t.Helper()
	board, err := highscore.NewBoard(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	fs := &fakeServer{board: board}
	out := &bytes.Buffer{}
	canvas := draw.NewScaledCanvas(config.MaxTermWidth, config.MaxTermHeight, config.ArenaWidth, config.ArenaHeight)
	c := &Client{
		server:       fs,
		handle:       fs.RegisterClient("tester"),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(out, 0, 0),
		writer:       out,
		inputStream:  input.StartStream(bufio.NewReader(strings.NewReader(""))),
		username:     "tester",
		termSizeFunc: func() (int, int, error) { return config.MaxTermWidth, config.MaxTermHeight, nil },
		audio:        audio.Nop{},
		clock:        clock.Real{},
		logger:       log.New(&bytes.Buffer{}),
	}
	return c, fs, out
}

func TestControlsMapping(t *testing.T) {
	got := controls(input.Input{Left: true, Up: true, Space: true, Down: true, Escape: true, ArrowRight: true}, 'x')
	want := session.Input{RotateLeft: true, Thrust: true, Fire: true, Shield: true, Exit: true, MenuRight: true, Letter: 'x'}
	if got != want {
		t.Errorf("controls = %+v, want %+v", got, want)
	}
}

func TestModeByKey(t *testing.T) {
	if m, ok := modeByKey(1); !ok || m != session.ModeAccelerated {
		t.Errorf("key 1 = %v, %v", m, ok)
	}
	if _, ok := modeByKey(0); ok {
		t.Error("key 0 picked a mode")
	}
	if _, ok := modeByKey(4); ok {
		t.Error("key 4 picked a mode")
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 60)
	if w != config.MaxTermWidth || h != config.MaxTermHeight {
		t.Errorf("render size = %dx%d", w, h)
	}
	if col != (200-config.MaxTermWidth)/2 || row != (60-config.MaxTermHeight)/2 {
		t.Errorf("offset = %d,%d", col, row)
	}

	w, h, col, row = clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Errorf("small terminal = %d %d %d %d", w, h, col, row)
	}
}

func TestTitleNumberKeysPickMode(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.state.Input = input.Input{Number: 3}
	c.updateStartState()
	if c.state.Mode != session.ModeSlowed {
		t.Errorf("mode = %v, want slowed", c.state.Mode)
	}
	c.state.Input = input.Input{Number: 9}
	c.updateStartState()
	if c.state.Mode != session.ModeSlowed {
		t.Errorf("unbound number changed mode to %v", c.state.Mode)
	}
}

func TestTitleArrowsStepOncePerPress(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.state.Input = input.Input{ArrowRight: true}
	c.updateStartState()
	if c.state.Mode != session.ModeSlowed {
		t.Fatalf("mode = %v, want slowed", c.state.Mode)
	}

	// Held key.
	c.state.prevInput = c.state.Input
	c.updateStartState()
	if c.state.Mode != session.ModeSlowed {
		t.Errorf("held arrow moved selection to %v", c.state.Mode)
	}
}

func TestStartGameThenEscapeReturnsToTitle(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.state.Input = input.Input{Number: 1, Space: true}
	c.updateStartState()
	if c.state.GameState != GameStatePlaying || c.state.Session == nil {
		t.Fatal("space did not start a game")
	}
	if c.state.Session.Mode() != session.ModeAccelerated {
		t.Errorf("session mode = %v", c.state.Session.Mode())
	}

	c.state.Input = input.Input{}
	c.updatePlayingState()
	c.state.Input = input.Input{Escape: true}
	c.updatePlayingState()
	if c.state.GameState != GameStateStart || c.state.Session != nil {
		t.Errorf("escape left state %v", c.state.GameState)
	}
}

func TestReportProgress(t *testing.T) {
	c, fs, _ := newTestClient(t)
	c.reportProgress()
	c.state.Input = input.Input{Enter: true}
	c.updateStartState()
	c.reportProgress()

	if len(fs.progress) != 2 {
		t.Fatalf("reports = %d", len(fs.progress))
	}
	if fs.progress[0].Playing {
		t.Error("title screen reported as playing")
	}
	if p := fs.progress[1]; !p.Playing || p.State != session.StatePlaying || p.Level != config.FirstLevel {
		t.Errorf("progress = %+v", p)
	}
}

func TestDrawFrameScreens(t *testing.T) {
	c, _, out := newTestClient(t)
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "NORMAL") {
		t.Error("title screen misses the mode selector")
	}

	out.Reset()
	c.state.Input = input.Input{Space: true}
	c.updateStartState()
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	frame := out.String()
	for _, want := range []string{"\033[2J", "Score:", "Lives:", "Heat", "Shield"} {
		if !strings.Contains(frame, want) {
			t.Errorf("playing frame misses %q", want)
		}
	}
}

func TestShutdownCountdown(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	if c.state.GameState != GameStateShutdown {
		t.Fatal("shutdown event ignored")
	}
	c.state.delta = 2 * config.ShutdownGracePeriod
	c.updateShutdownState()
	if c.state.Running {
		t.Error("client kept running after the shutdown countdown")
	}
}
