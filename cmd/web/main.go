package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/sheeraroids/internal/config"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/web"
)

const (
	defaultHost       = "0.0.0.0"
	defaultPort       = "8080"
	defaultScoresPath = "/app/data/highscores.db"
)

func main() {
	logger := config.NewLogger(os.Stderr)

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "22")
	pollSeconds := config.GetEnvInt("WEB_POLL_SECONDS", 2)

	scores, err := highscore.OpenBoard(context.Background(), config.GetEnv("ASTEROIDS_SCORES", defaultScoresPath))
	if err != nil {
		logger.Fatal("failed to open high scores", "err", err)
	}
	defer scores.Close()

	site, err := web.New(scores, web.Options{
		SSHHost:      sshHost,
		SSHPort:      sshPort,
		PollInterval: time.Duration(pollSeconds) * time.Second,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to build site", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go site.Run(ctx)

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           site.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting web server", "addr", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
