// Package web serves the landing page: how to connect over SSH, a QR code
// for the connect command and the high score table, live over a websocket.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/vmihailenco/msgpack/v5"
)

//go:embed index.html
var htmlPage string

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Watchers only ever send close and pong frames.
	maxMessageSize = 512

	qrSize       = 256
	defaultLimit = highscore.MaxEntries
)

// ScoresMessage is pushed to websocket watchers whenever the table changes.
type ScoresMessage struct {
	Type      string            `json:"type"`
	Scores    []highscore.Entry `json:"scores"`
	Generated int64             `json:"generated"` // unix milliseconds
}

// Options configures the web server.
type Options struct {
	SSHHost      string // Shown in the connect command
	SSHPort      string
	PollInterval time.Duration // How often the store is re-read for new runs
	Logger       *log.Logger
}

// Server serves the landing page and the high score feeds.
type Server struct {
	board   *highscore.Board
	opts    Options
	logger  *log.Logger
	page    string
	qrPNG   []byte
	upgrade websocket.Upgrader

	mu       sync.Mutex
	watchers map[*watcher]struct{}
	latest   []highscore.Entry
}

// New creates a web server around board.
func New(board *highscore.Board, opts Options) (*Server, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	command := connectCommand(opts.SSHHost, opts.SSHPort)
	png, err := qrcode.Encode(command, qrcode.Medium, qrSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		board:    board,
		opts:     opts,
		logger:   logger.WithPrefix("web"),
		page:     strings.ReplaceAll(htmlPage, "{{.Command}}", html.EscapeString(command)),
		qrPNG:    png,
		watchers: make(map[*watcher]struct{}),
		latest:   board.Top(defaultLimit),
	}
	s.upgrade = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // Non-browser clients don't send Origin
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return u.Host == r.Host
		},
	}
	return s, nil
}

func connectCommand(host, port string) string {
	if port == "" || port == "22" {
		return "ssh " + host
	}
	return "ssh -p " + port + " " + host
}

// Routes configures HTTP routes.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /qr.png", s.handleQR)
	mux.HandleFunc("GET /api/highscores", s.handleHighScores)
	mux.HandleFunc("GET /ws/scores", s.handleWatch)
	return mux
}

// Run polls the score store and pushes changes to watchers until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeWatchers()
			return
		case <-ticker.C:
		}
		s.poll(ctx)
	}
}

// poll reloads the board and broadcasts when the table changed.
func (s *Server) poll(ctx context.Context) {
	if err := s.board.Reload(ctx); err != nil {
		s.logger.Warn("reload failed", "err", err)
		return
	}
	top := s.board.Top(defaultLimit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Equal(top, s.latest) {
		return
	}
	s.latest = top
	msg := newScoresMessage(top)
	for w := range s.watchers {
		w.push(msg)
	}
	s.logger.Debug("scores broadcast", "watchers", len(s.watchers))
}

func newScoresMessage(entries []highscore.Entry) ScoresMessage {
	return ScoresMessage{Type: "scores", Scores: entries, Generated: time.Now().UnixMilli()}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.WriteString(w, s.page)
}

func (s *Server) handleQR(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(s.qrPNG)
}

// handleHighScores returns the table as JSON. ?n= limits the number of rows
// and must be within 1..MaxEntries.
func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	n := defaultLimit
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > highscore.MaxEntries {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newScoresMessage(s.board.Top(n))); err != nil {
		s.logger.Debug("write high scores", "err", err)
	}
}

// handleWatch upgrades to a websocket that receives the table on connect
// and after every change. ?format=msgpack selects binary frames.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	binary := r.URL.Query().Get("format") == "msgpack"
	conn, err := s.upgrade.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade error", "err", err)
		return
	}

	wt := &watcher{conn: conn, binary: binary, send: make(chan ScoresMessage, 4)}
	s.mu.Lock()
	s.watchers[wt] = struct{}{}
	wt.push(newScoresMessage(s.latest))
	s.mu.Unlock()

	go wt.writePump(s.logger)
	wt.readPump()

	s.mu.Lock()
	if _, ok := s.watchers[wt]; ok {
		delete(s.watchers, wt)
		close(wt.send)
	}
	s.mu.Unlock()
}

func (s *Server) closeWatchers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers {
		delete(s.watchers, w)
		close(w.send)
	}
}

// WatcherCount returns the number of open websocket feeds.
func (s *Server) WatcherCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

// watcher is one websocket subscribed to score changes.
type watcher struct {
	conn   *websocket.Conn
	binary bool
	send   chan ScoresMessage
}

// push queues msg, dropping it when the watcher is too slow; a newer table
// follows anyway. Callers hold Server.mu.
func (w *watcher) push(msg ScoresMessage) {
	select {
	case w.send <- msg:
	default:
	}
}

// readPump discards incoming frames and returns once the peer goes away.
func (w *watcher) readPump() {
	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *watcher) writePump(logger *log.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.write(msg); err != nil {
				logger.Debug("watcher write failed", "err", err)
				return
			}

		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (w *watcher) write(msg ScoresMessage) error {
	if !w.binary {
		return w.conn.WriteJSON(msg)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
}
