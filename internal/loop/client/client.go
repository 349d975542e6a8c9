package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/clock"
	"github.com/tomz197/sheeraroids/internal/draw"
	"github.com/tomz197/sheeraroids/internal/input"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/loop/server"
	"github.com/tomz197/sheeraroids/internal/loop/session"
)

// Client handles rendering and input for a single connection. Every client
// plays its own session; the server only connects them to the shared lobby.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	audio        audio.Player
	clock        clock.Clock
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Audio        audio.Player // nil plays nothing
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	player := opts.Audio
	if player == nil {
		player = audio.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ArenaWidth, config.ArenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(username),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		audio:        player,
		clock:        clock.Real{},
		logger:       logger.With("user", username),
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}
		c.reportProgress()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.prevInput = c.state.Input
	c.state.Input = in

	if c.inputStream.Closed() {
		c.state.Running = false
		return
	}

	if len(in.Typed) > 0 || in.Left || in.Right || in.Up || in.Down || in.Space || in.Enter || in.Escape {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	// Q types a letter while entering initials instead of quitting.
	if in.Quit && !c.enteringInitials() {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// updateStartState handles the title screen: number keys or arrows pick the
// mode, Space or Enter starts.
func (c *Client) updateStartState() {
	in := c.state.Input
	if m, ok := modeByKey(in.Number); ok {
		c.state.Mode = m
	}
	c.handleTitleArrows(c.state.prevInput, in)
	if in.Space || in.Enter {
		c.startGame()
		return
	}
	if in.Escape {
		c.state.Running = false
	}
}

// handleTitleArrows moves the mode selection once per arrow key press.
func (c *Client) handleTitleArrows(prev, cur input.Input) {
	switch {
	case cur.ArrowLeft && !prev.ArrowLeft:
		c.state.Mode = c.state.Mode.Cycle(-1)
	case cur.ArrowRight && !prev.ArrowRight:
		c.state.Mode = c.state.Mode.Cycle(1)
	}
}

// startGame creates a fresh session in the selected mode.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.state.letters = c.state.letters[:0]

	sess := session.New(session.Options{
		Mode:   c.state.Mode,
		Clock:  c.clock,
		Logger: c.logger,
		Scores: c.server.Scores(),
	})
	sess.SubscribeAll(c.audio)
	c.state.Session = sess
	c.state.GameState = GameStatePlaying
	c.logger.Info("game started", "mode", c.state.Mode)
}

// updatePlayingState advances the session by one tick.
func (c *Client) updatePlayingState() {
	sess := c.state.Session
	if c.enteringInitials() {
		c.state.letters = append(c.state.letters, c.state.Input.Typed...)
	} else {
		c.state.letters = c.state.letters[:0]
	}

	var letter rune
	if len(c.state.letters) > 0 {
		letter = c.state.letters[0]
		c.state.letters = c.state.letters[1:]
	}

	// While letters are queued, hold back Enter so the name is complete
	// before it is submitted.
	in := c.state.Input
	if len(c.state.letters) > 0 {
		in.Enter = false
	}

	switch sess.Tick(controls(in, letter)) {
	case session.SignalExit:
		c.logger.Info("left game", "score", sess.Score())
		c.toTitle()
	case session.SignalRestart:
		c.logger.Info("run recorded", "score", sess.Score(), "level", sess.Level())
		c.toTitle()
	}
}

func (c *Client) toTitle() {
	input.ResetKeyInput(c.inputStream)
	c.state.Session = nil
	c.state.GameState = GameStateStart
}

func (c *Client) enteringInitials() bool {
	return c.state.Session != nil && c.state.Session.State() == session.StateEnteringInitials
}

// reportProgress tells the lobby how this player is doing.
func (c *Client) reportProgress() {
	p := server.Progress{Mode: c.state.Mode}
	if sess := c.state.Session; sess != nil {
		p.Playing = true
		p.State = sess.State()
		p.Score = sess.Score()
		p.Level = sess.Level()
	}
	c.server.ReportProgress(c.handle.ID, p)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
