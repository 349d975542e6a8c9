// Package loop runs a single-player game in the local terminal. It starts a
// private lobby and attaches one client to it, the same pieces the SSH server
// uses for every connection.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sheeraroids/internal/audio"
	"github.com/tomz197/sheeraroids/internal/draw"
	"github.com/tomz197/sheeraroids/internal/highscore"
	"github.com/tomz197/sheeraroids/internal/loop/client"
	"github.com/tomz197/sheeraroids/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Scores       *highscore.Board // nil keeps scores in memory
	Audio        audio.Player
	Logger       *log.Logger
	Username     string
	TermSizeFunc draw.TermSizeFunc
}

// Run starts the main game loop with the standard Input → Update → Draw
// cycle and blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.NewServer(opts.Scores, opts.Logger)
	go gs.Run(ctx)

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Audio:        opts.Audio,
		Logger:       opts.Logger,
	})
	return c.Run()
}
