// Package server is the lobby shared by every connected player. Each player
// runs an independent game session; the server tracks who is connected,
// gathers their progress for the live leaderboard, owns the persistent high
// score board and coordinates shutdown.
package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the lobby.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportProgress(clientID int, p Progress)
	GetSnapshot() *LobbySnapshot
	Scores() *highscore.Board
}

// Server tracks connected clients and publishes lobby snapshots.
type Server struct {
	scores       *highscore.Board
	logger       *log.Logger
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	progressCh   chan clientProgress
	registerCh   chan *ClientHandle
	unregisterCh chan int
	stopped      chan struct{} // closed when Run returns
	mu           sync.RWMutex

	// Reusable buffer for snapshot creation
	statusBuf []PlayerStatus
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	Progress Progress
	EventsCh chan ClientEvent // Events sent to client (shutdown)
}

type clientProgress struct {
	clientID int
	progress Progress
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a lobby around the shared high score board. A nil
// board keeps scores in memory.
func NewServer(scores *highscore.Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if scores == nil {
		// A memory-only board cannot fail to load.
		scores, _ = highscore.NewBoard(context.Background(), nil)
	}
	s := &Server{
		scores:       scores,
		logger:       logger.WithPrefix("server"),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		progressCh:   make(chan clientProgress, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		stopped:      make(chan struct{}),
	}

	s.snapshot.Store(&LobbySnapshot{Generated: time.Now()})
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(s.stopped)
			s.processRegistrations()
			return
		case <-ticker.C:
		}

		s.processRegistrations()
		s.collectProgress()
		s.createSnapshot()
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	notified := len(s.clients)
	s.mu.RUnlock()
	s.logger.Info("shutdown notice sent", "clients", notified)

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown grace period expired", "remaining", s.ClientCount())
			return
		case <-ticker.C:
			if s.ClientCount() == 0 {
				return
			}
		}
	}
}

// ClientCount returns the number of registered clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// RegisterClient registers a new client with the given username and returns its handle.
// The client is visible to the shutdown notice right away and to snapshots
// from the next server tick.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.clients[id] = handle
	s.mu.Unlock()

	select {
	case s.registerCh <- handle:
	case <-s.stopped:
	}
	s.logger.Debug("client registered", "id", id, "user", username)
	return handle
}

// UnregisterClient removes a client from the server. Once Run has returned
// the caller drains the queue itself.
func (s *Server) UnregisterClient(clientID int) {
	select {
	case s.unregisterCh <- clientID:
	case <-s.stopped:
		s.removeClient(clientID)
		return
	}
	select {
	case <-s.stopped:
		s.processRegistrations()
	default:
	}
}

// ReportProgress records a client's current session state. Reports are
// dropped when the server is backed up; the next one supersedes them anyway.
func (s *Server) ReportProgress(clientID int, p Progress) {
	select {
	case s.progressCh <- clientProgress{clientID: clientID, progress: p}:
	default:
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// Scores returns the shared high score board.
func (s *Server) Scores() *highscore.Board {
	return s.scores
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.logger.Info("player joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.removeClient(clientID)
		default:
			return
		}
	}
}

func (s *Server) removeClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.logger.Info("player left", "id", clientID, "user", handle.Username, "score", handle.Progress.Score)
}

// collectProgress applies all pending progress reports.
func (s *Server) collectProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case cp := <-s.progressCh:
			if handle, ok := s.clients[cp.clientID]; ok {
				handle.Progress = cp.progress
			}
		default:
			return
		}
	}
}

// createSnapshot publishes an immutable view of the lobby.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	statuses := s.statusBuf[:0]
	for _, h := range s.clients {
		statuses = append(statuses, PlayerStatus{ID: h.ID, Username: h.Username, Progress: h.Progress})
	}
	s.statusBuf = statuses
	players := len(s.clients)
	s.mu.RUnlock()

	s.snapshot.Store(&LobbySnapshot{
		Players:   players,
		LiveBoard: liveBoard(statuses, config.LiveBoardSize),
		Generated: time.Now(),
	})
}
