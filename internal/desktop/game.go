// Package desktop runs the game in a native window. It drives the same
// session as the terminal clients and draws its snapshot with vector strokes.
package desktop

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
	"github.com/tomz197/sheeraroids/internal/loop/session"
	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	colorLine   = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorShield = color.RGBA{0x55, 0xff, 0xff, 0xff}
	colorHeat   = color.RGBA{0xff, 0x55, 0x55, 0xff}
	colorDim    = color.RGBA{0x88, 0x88, 0x88, 0xff}
	colorTitle  = color.RGBA{0xff, 0xff, 0x55, 0xff}
)

const (
	strokeWidth   = 1.5
	lineHeight    = 16
	shipRearAngle = 2.5
	shipRearScale = 0.8
	gaugeWidth    = 120
)

// Options configures the window game.
type Options struct {
	Scores *highscore.Board // nil keeps scores in memory
	Audio  audio.Player
	Logger *log.Logger
}

// Game implements ebiten.Game. Ebiten calls Update at TickRate, so every
// Update is exactly one session tick.
type Game struct {
	scores *highscore.Board
	audio  audio.Player
	logger *log.Logger
	face   font.Face

	mode    session.Mode
	sess    *session.Session
	letters []rune // typed characters waiting for the initials editor
	typed   []rune
}

// New creates the game on its title screen.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Audio
	if player == nil {
		player = audio.Nop{}
	}
	scores := opts.Scores
	if scores == nil {
		scores, _ = highscore.NewBoard(context.Background(), nil)
	}
	return &Game{
		scores: scores,
		audio:  player,
		logger: logger.WithPrefix("desktop"),
		face:   basicfont.Face7x13,
		mode:   session.ModeNormal,
	}
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	ebiten.SetWindowSize(config.ArenaWidth, config.ArenaHeight)
	ebiten.SetWindowTitle("Sheeraroids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TickRate)
	return ebiten.RunGame(New(opts))
}

func (g *Game) Update() error {
	if g.sess == nil {
		return g.updateTitle()
	}
	return g.updatePlaying()
}

func (g *Game) updateTitle() error {
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			g.mode = session.Modes[i]
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.mode = g.mode.Cycle(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.mode = g.mode.Cycle(1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.sess = session.New(session.Options{Mode: g.mode, Logger: g.logger, Scores: g.scores})
		g.sess.SubscribeAll(g.audio)
		g.letters = g.letters[:0]
		g.logger.Info("game started", "mode", g.mode)
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) updatePlaying() error {
	initials := g.sess.State() == session.StateEnteringInitials
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) && !initials {
		return ebiten.Termination
	}

	g.typed = ebiten.AppendInputChars(g.typed[:0])
	if initials {
		g.letters = append(g.letters, g.typed...)
	} else {
		g.letters = g.letters[:0]
	}
	var letter rune
	if len(g.letters) > 0 {
		letter = g.letters[0]
		g.letters = g.letters[1:]
	}

	pressed := ebiten.IsKeyPressed
	in := session.Input{
		RotateLeft:  pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft),
		RotateRight: pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight),
		Thrust:      pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp),
		Shield:      pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown),
		Fire:        pressed(ebiten.KeySpace),
		PauseToggle: pressed(ebiten.KeyP),
		Exit:        pressed(ebiten.KeyEscape),
		Confirm:     pressed(ebiten.KeyEnter) && len(g.letters) == 0,
		Cancel:      pressed(ebiten.KeyBackspace),
		MenuLeft:    pressed(ebiten.KeyArrowLeft),
		MenuRight:   pressed(ebiten.KeyArrowRight),
		Letter:      letter,
	}

	switch g.sess.Tick(in) {
	case session.SignalExit:
		g.logger.Info("left game", "score", g.sess.Score())
		g.sess = nil
	case session.SignalRestart:
		g.logger.Info("run recorded", "score", g.sess.Score(), "level", g.sess.Level())
		g.sess = nil
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.sess == nil {
		g.drawTitle(screen)
		return
	}

	snap := g.sess.Snapshot()
	for i := range snap.Entities {
		g.drawEntity(screen, &snap.Entities[i])
	}

	switch snap.State {
	case session.StateEnteringInitials, session.StateEnded:
		g.drawInitials(screen, &snap)
	case session.StateGameOverSequence, session.StateExploding:
		g.drawHUD(screen, &snap)
		g.centered(screen, config.ArenaHeight/2-80, "GAME OVER", colorHeat)
		g.centered(screen, config.ArenaHeight/2-56, fmt.Sprintf("Final score: %d", snap.Score), colorLine)
		g.drawHighScores(screen, config.ArenaHeight/2-20, snap.HighScores)
	default:
		g.drawHUD(screen, &snap)
		switch {
		case snap.Paused:
			g.centered(screen, config.ArenaHeight/2, "PAUSED", colorTitle)
			g.centered(screen, config.ArenaHeight/2+lineHeight, "P to resume, ESC to leave", colorDim)
		case snap.RespawnIn > 0:
			g.centered(screen, config.ArenaHeight/2, fmt.Sprintf("Respawning in %.1fs", snap.RespawnIn.Seconds()), colorLine)
		}
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return config.ArenaWidth, config.ArenaHeight
}

func (g *Game) drawEntity(screen *ebiten.Image, e *session.EntityView) {
	switch e.Kind {
	case object.KindShip:
		if e.ShieldActive {
			vector.StrokeCircle(screen, float32(e.Pos.X), float32(e.Pos.Y), float32(e.ShieldRadius), strokeWidth, colorShield, true)
		}
		if !object.ShouldRenderBlink(e.InvulnerableTicks, config.PlayerBlinkTickMod) {
			return
		}
		nose := e.Pos.Add(physics.FromAngle(e.Rotation, e.Radius))
		left := e.Pos.Add(physics.FromAngle(e.Rotation+shipRearAngle, e.Radius*shipRearScale))
		right := e.Pos.Add(physics.FromAngle(e.Rotation-shipRearAngle, e.Radius*shipRearScale))
		strokePolygon(screen, []physics.Vec2{nose, left, right}, colorLine)
	case object.KindAsteroid:
		strokePolygon(screen, e.Outline, colorLine)
	case object.KindProjectile:
		vector.DrawFilledCircle(screen, float32(e.Pos.X), float32(e.Pos.Y), float32(e.Radius/2), colorLine, true)
	case object.KindParticle:
		a := uint8(min(max(e.Alpha, 0), 1) * 0xff)
		vector.DrawFilledCircle(screen, float32(e.Pos.X), float32(e.Pos.Y), 1.5, color.RGBA{a, a, a, a}, true)
	}
}

func strokePolygon(screen *ebiten.Image, pts []physics.Vec2, clr color.Color) {
	n := len(pts)
	for i := range n {
		a, b := pts[i], pts[(i+1)%n]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), strokeWidth, clr, true)
	}
}

func (g *Game) centered(screen *ebiten.Image, y int, s string, clr color.Color) {
	w := text.BoundString(g.face, s).Dx()
	text.Draw(screen, s, g.face, (config.ArenaWidth-w)/2, y, clr)
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	y := config.ArenaHeight/2 - 120
	g.centered(screen, y, "S H E E R A R O I D S", colorTitle)

	labels := make([]string, len(session.Modes))
	for i, m := range session.Modes {
		label := fmt.Sprintf("[%d] %s", i+1, strings.ToUpper(m.String()))
		if m == g.mode {
			label = "> " + label + " <"
		}
		labels[i] = label
	}
	g.centered(screen, y+3*lineHeight, strings.Join(labels, "    "), colorShield)
	g.centered(screen, y+4*lineHeight, "1 2 3 or arrows to choose a mode", colorDim)

	controls := []string{
		"W / Up    thrust",
		"A D       rotate",
		"SPACE     fire",
		"S / Down  shield",
		"P         pause",
		"ESC       leave run",
		"Q         quit",
	}
	for i, line := range controls {
		g.centered(screen, y+(6+i)*lineHeight, line, colorLine)
	}
	g.centered(screen, y+(8+len(controls))*lineHeight, "Press SPACE to start", colorTitle)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap *session.Snapshot) {
	text.Draw(screen, fmt.Sprintf("Score: %d   Level: %d", snap.Score, snap.Level), g.face, 12, 20, colorLine)
	lives := fmt.Sprintf("Lives: %d", snap.Lives)
	text.Draw(screen, lives, g.face, config.ArenaWidth-12-text.BoundString(g.face, lives).Dx(), 20, colorLine)

	g.drawGauge(screen, 12, 32, "Heat", snap.HeatPercent, colorHeat)
	g.drawGauge(screen, 12, 48, "Shield", snap.ShieldPercent, colorShield)
	text.Draw(screen, "Mode: "+snap.Mode.String(), g.face, 12, config.ArenaHeight-12, colorDim)
}

func (g *Game) drawGauge(screen *ebiten.Image, x, y int, label string, percent float64, clr color.Color) {
	text.Draw(screen, label, g.face, x, y+10, colorLine)
	bx := float32(x + 56)
	vector.StrokeRect(screen, bx, float32(y), gaugeWidth, 10, 1, colorDim, false)
	fill := float32(min(max(percent, 0), 100) / 100 * gaugeWidth)
	vector.DrawFilledRect(screen, bx, float32(y), fill, 10, clr, false)
}

func (g *Game) drawInitials(screen *ebiten.Image, snap *session.Snapshot) {
	y := config.ArenaHeight/2 - 120
	g.centered(screen, y, "ENTER YOUR INITIALS", colorTitle)
	g.centered(screen, y+2*lineHeight, fmt.Sprintf("Score: %d", snap.Score), colorLine)

	name := []rune(snap.Initials.Name)
	const slot = 24
	x0 := (config.ArenaWidth - slot*len(name)) / 2
	for i, r := range name {
		clr := color.Color(colorLine)
		if i == snap.Initials.Cursor {
			clr = colorShield
			vector.StrokeLine(screen, float32(x0+i*slot), float32(y+5*lineHeight+4), float32(x0+i*slot+12), float32(y+5*lineHeight+4), 2, colorShield, false)
		}
		text.Draw(screen, string(r), g.face, x0+i*slot+2, y+5*lineHeight, clr)
	}
	g.centered(screen, y+7*lineHeight, "Type letters, arrows to move, ENTER to save", colorDim)
	g.drawHighScores(screen, y+9*lineHeight, snap.HighScores)
}

func (g *Game) drawHighScores(screen *ebiten.Image, y int, entries []highscore.Entry) {
	if len(entries) == 0 {
		return
	}
	g.centered(screen, y, "HIGH SCORES", colorTitle)
	for i, e := range entries {
		g.centered(screen, y+(i+2)*lineHeight, fmt.Sprintf("%d. %-3s %8d", i+1, e.Name, e.Score), colorLine)
	}
}
