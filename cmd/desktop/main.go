package main

import (
	"context"
	"os"

	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/config"
	"github.com/tomz197/sheeraroids/internal/desktop"
	"github.com/tomz197/sheeraroids/internal/highscore"
)

func main() {
	logger := config.NewLogger(os.Stderr)

	scores, err := highscore.OpenBoard(context.Background(), config.GetEnv("ASTEROIDS_SCORES", "highscores.db"))
	if err != nil {
		logger.Fatal("failed to open high scores", "err", err)
	}
	defer scores.Close()

	player := audio.New(config.GetEnvBool("ASTEROIDS_AUDIO", true), logger)
	defer player.Close()

	if err := desktop.Run(desktop.Options{Scores: scores, Audio: player, Logger: logger}); err != nil {
		logger.Error("game error", "err", err)
	}
}
