package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/sheeraroids/internal/draw"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/loop/server"
	"github.com/tomz197/sheeraroids/internal/loop/session"
	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// Particles fainter than this are not drawn; a half block has no dimmer shade.
const particleMinAlpha = 0.25

// Ship hull in ship-local polar form: nose, then the two rear corners.
const (
	shipRearAngle = 2.5
	shipRearScale = 0.8
)

// barWidth is the number of cells in the heat and shield gauges.
const barWidth = 10

var titleArt = []string{
	` ___ _  _ ___ ___ ___    _   ___  ___ ___ ___  ___ `,
	`/ __| || | __| __| _ \  /_\ | _ \/ _ \_ _|   \/ __|`,
	`\__ \ __ | _|| _||   / / _ \|   / (_) | || |) \__ \`,
	`|___/_||_|___|___|_|_\/_/ \_\_|_\\___/___|___/|___/`,
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___ `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	var snap *session.Snapshot
	if sess := c.state.Session; sess != nil && c.state.GameState == GameStatePlaying {
		s := sess.Snapshot()
		snap = &s
	}

	// On screen transitions, do a full terminal clear so overlays from the
	// previous screen don't persist.
	sessionState, paused := session.StatePlaying, false
	if snap != nil {
		sessionState, paused = snap.State, snap.Paused
	}
	if c.state.GameState != c.state.prevGameState ||
		c.state.isInactive != c.state.wasInactive ||
		sessionState != c.state.prevSessionState ||
		paused != c.state.prevPaused {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.prevSessionState = sessionState
		c.state.prevPaused = paused
	}

	c.canvas.Clear()
	if snap != nil && !c.state.isInactive {
		c.drawEntities(snap)
	}
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap, c.server.GetSnapshot())

	return c.chunkWriter.Flush()
}

// drawEntities rasterizes the arena.
func (c *Client) drawEntities(snap *session.Snapshot) {
	for i := range snap.Entities {
		e := &snap.Entities[i]
		switch e.Kind {
		case object.KindShip:
			c.drawShip(e)
		case object.KindAsteroid:
			c.canvas.DrawPolygon(e.Outline, false)
		case object.KindProjectile:
			c.canvas.DrawCircle(e.Pos, e.Radius/2)
			c.canvas.SetFloat(e.Pos.X, e.Pos.Y)
		case object.KindParticle:
			if e.Alpha >= particleMinAlpha {
				c.canvas.SetFloat(e.Pos.X, e.Pos.Y)
			}
		}
	}
}

func (c *Client) drawShip(e *session.EntityView) {
	if e.ShieldActive {
		c.canvas.DrawCircle(e.Pos, e.ShieldRadius)
	}
	if !object.ShouldRenderBlink(e.InvulnerableTicks, config.PlayerBlinkTickMod) {
		return
	}
	hull := c.canvas.BorrowPoints(3)
	hull[0] = e.Pos.Add(physics.FromAngle(e.Rotation, e.Radius))
	hull[1] = e.Pos.Add(physics.FromAngle(e.Rotation+shipRearAngle, e.Radius*shipRearScale))
	hull[2] = e.Pos.Add(physics.FromAngle(e.Rotation-shipRearAngle, e.Radius*shipRearScale))
	c.canvas.DrawPolygon(hull, false)
}

// text writes s at a canvas position and marks the cells so the canvas
// repaints them once the text goes away.
func (c *Client) text(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(max(col, 1), max(row, 1), utf8.RuneCountInString(s))
}

// coloredText is text wrapped in an ANSI color.
func (c *Client) coloredText(col, row int, color, s string) {
	c.chunkWriter.WriteAt(col, row, color+s+draw.ColorReset)
	c.canvas.MarkTextDirty(max(col, 1), max(row, 1), utf8.RuneCountInString(s))
}

// centered writes s centered on centerX.
func (c *Client) centered(centerX, row int, s string) {
	c.text(centerX-utf8.RuneCountInString(s)/2, row, s)
}

// drawUI draws the overlay for the current screen.
func (c *Client) drawUI(snap *session.Snapshot, lobby *server.LobbySnapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch {
	case c.state.GameState == GameStateStart || snap == nil:
		c.drawStartScreen(centerX, centerY, lobby)
	case snap.State == session.StateGameOverSequence || snap.State == session.StateExploding:
		c.drawPlayingHUD(termWidth, termHeight, snap, lobby)
		c.drawGameOverScreen(centerX, centerY, snap)
	case snap.State == session.StateEnteringInitials || snap.State == session.StateEnded:
		c.drawInitialsScreen(centerX, centerY, snap)
	default:
		c.drawPlayingHUD(termWidth, termHeight, snap, lobby)
		switch {
		case snap.Paused:
			c.drawPauseOverlay(centerX, centerY)
		case snap.RespawnIn > 0:
			c.centered(centerX, centerY, fmt.Sprintf("Respawning in %.1fs", snap.RespawnIn.Seconds()))
		}
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, "INACTIVITY WARNING")
	c.centered(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.centered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen with the mode selector.
func (c *Client) drawStartScreen(centerX, centerY int, lobby *server.LobbySnapshot) {
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 10
	for i, line := range titleArt {
		c.text(centerX-titleWidth/2, titleStartY+i, line)
	}
	c.centered(centerX, titleStartY+len(titleArt)+1, "~ Asteroids in your terminal ~")

	// Mode selector: every mode on one line, the chosen one highlighted.
	selectorY := titleStartY + len(titleArt) + 3
	labels := make([]string, len(session.Modes))
	plainWidth := 0
	for i, m := range session.Modes {
		labels[i] = fmt.Sprintf("[%d] %s", i+1, strings.ToUpper(m.String()))
		plainWidth += len(labels[i]) + 4
	}
	col := centerX - plainWidth/2
	for i, m := range session.Modes {
		label := labels[i]
		if m == c.state.Mode {
			c.coloredText(col, selectorY, draw.ColorBrightCyan+draw.ColorBold, "> "+label+" <")
		} else {
			c.text(col, selectorY, "  "+label+"  ")
		}
		col += len(label) + 4
	}
	c.centered(centerX, selectorY+1, "1 2 3 or < > to choose a mode")

	controlsY := selectorY + 3
	c.centered(centerX, controlsY, "Controls")
	controlLines := []string{
		"W / Up  . . . . . Thrust",
		"A D / < >  . . .  Rotate",
		"SPACE  . . . . . .  Fire",
		"S / Down . . . .  Shield",
		"P  . . . . . . . . Pause",
		"ESC  . . . . . Leave run",
		"Q  . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.centered(centerX, controlsY+1+i, line)
	}

	promptY := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(centerX, promptY, ">>  Press SPACE to Start  <<")
	} else {
		c.centered(centerX, promptY, strings.Repeat(" ", 28))
	}

	if lobby != nil && lobby.Players > 1 {
		c.centered(centerX, promptY+2, fmt.Sprintf("%d players online", lobby.Players))
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *session.Snapshot, lobby *server.LobbySnapshot) {
	c.text(2, 1, fmt.Sprintf("Score: %-8d Level: %-3d", snap.Score, snap.Level))

	livesText := fmt.Sprintf("Lives: %-2d", snap.Lives)
	c.text(termWidth-len(livesText)-1, 1, livesText)

	c.drawGauge(2, 2, "Heat  ", snap.HeatPercent, heatColor(snap.HeatPercent))
	c.drawGauge(2, 3, "Shield", snap.ShieldPercent, draw.ColorBrightCyan)

	c.text(2, termHeight, fmt.Sprintf("Mode: %-11s", snap.Mode))

	if lobby == nil {
		return
	}
	playersText := fmt.Sprintf("Players: %-4d", lobby.Players)
	c.text(termWidth-len(playersText)-1, termHeight, playersText)
	c.drawLiveBoard(termWidth, lobby.LiveBoard)
}

// drawGauge draws a labelled percentage bar.
func (c *Client) drawGauge(col, row int, label string, percent float64, color string) {
	filled := min(max(int(percent/100*barWidth+0.5), 0), barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
	prefix := label + " ["
	c.text(col, row, prefix)
	c.coloredText(col+len(prefix), row, color, bar)
	c.text(col+len(prefix)+barWidth, row, fmt.Sprintf("] %3.0f%%", percent))
}

func heatColor(percent float64) string {
	switch {
	case percent >= 80:
		return draw.ColorRed
	case percent >= 50:
		return draw.ColorYellow
	default:
		return draw.ColorReset
	}
}

// drawLiveBoard lists the best runs in progress across the lobby, top right
// below the lives counter.
func (c *Client) drawLiveBoard(termWidth int, board []server.PlayerStatus) {
	const width = config.MaxUsernameLength + 9
	col := termWidth - width - 1
	if col < 30 {
		return
	}
	c.text(col, 3, fmt.Sprintf("%-*s", width, "Live"))
	for i := range config.LiveBoardSize {
		line := strings.Repeat(" ", width)
		if i < len(board) {
			p := board[i]
			marker := " "
			if p.ID == c.handle.ID {
				marker = "*"
			}
			line = fmt.Sprintf("%s%-*s %7d", marker, config.MaxUsernameLength, p.Username, p.Score)
		}
		c.text(col, 4+i, line)
	}
}

func (c *Client) drawPauseOverlay(centerX, centerY int) {
	c.coloredText(centerX-3, centerY-1, draw.ColorBold, "PAUSED")
	c.centered(centerX, centerY+1, "P to resume, ESC to leave")
}

// drawGameOverScreen draws the retro game over banner and the current
// leaderboard while the last explosion plays out.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *session.Snapshot) {
	artWidth := 0
	for _, line := range gameOverArt {
		artWidth = max(artWidth, len(line))
	}
	startY := centerY - 8
	for i, line := range gameOverArt {
		c.coloredText(centerX-artWidth/2, startY+i, draw.ColorRed, line)
	}
	c.centered(centerX, startY+len(gameOverArt)+1, fmt.Sprintf("Final score: %d", snap.Score))
	c.drawHighScores(centerX, startY+len(gameOverArt)+3, snap.HighScores, -1)
}

// drawInitialsScreen draws the name editor.
func (c *Client) drawInitialsScreen(centerX, centerY int, snap *session.Snapshot) {
	startY := centerY - 8
	c.coloredText(centerX-9, startY, draw.ColorBold, "ENTER YOUR INITIALS")
	c.centered(centerX, startY+2, fmt.Sprintf("Score: %d", snap.Score))

	// Letters spaced out with a caret under the slot being edited.
	name := []rune(snap.Initials.Name)
	width := len(name)*2 - 1
	col := centerX - width/2
	var caret strings.Builder
	for i, r := range name {
		if i == snap.Initials.Cursor {
			c.coloredText(col+i*2, startY+4, draw.ColorBrightCyan, string(r))
			caret.WriteRune('^')
		} else {
			c.text(col+i*2, startY+4, string(r))
			caret.WriteRune(' ')
		}
		if i < len(name)-1 {
			c.text(col+i*2+1, startY+4, " ")
			caret.WriteRune(' ')
		}
	}
	c.text(col, startY+5, caret.String())

	c.centered(centerX, startY+7, "Type letters, < > to move, ENTER to save")
	c.drawHighScores(centerX, startY+9, snap.HighScores, snap.Score)
}

// drawHighScores prints the leaderboard head. The first entry matching
// highlight is colored.
func (c *Client) drawHighScores(centerX, row int, entries []highscore.Entry, highlight int) {
	if len(entries) == 0 {
		return
	}
	c.centered(centerX, row, "HIGH SCORES")
	marked := false
	for i, e := range entries {
		line := fmt.Sprintf("%d. %-3s %8d", i+1, e.Name, e.Score)
		col := centerX - len(line)/2
		if !marked && e.Score == highlight {
			c.coloredText(col, row+2+i, draw.ColorYellow, line)
			marked = true
			continue
		}
		c.text(col, row+2+i, line)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.centered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.centered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.centered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %-2d seconds...", remaining))
	c.centered(centerX, centerY+4, "Press Q to disconnect now")
}
