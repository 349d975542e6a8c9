package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/config"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop"
	"golang.org/x/term"
)

func main() {
	// Logs go to a file or nowhere; stdout belongs to the renderer.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("ASTEROIDS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut)

	scores, err := highscore.OpenBoard(context.Background(), config.GetEnv("ASTEROIDS_SCORES", "highscores.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open high scores: %v\n", err)
		os.Exit(1)
	}
	defer scores.Close()

	player := audio.New(config.GetEnvBool("ASTEROIDS_AUDIO", true), logger)
	defer player.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		Scores:   scores,
		Audio:    player,
		Logger:   logger,
		Username: config.GetEnv("USER", "player"),
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
