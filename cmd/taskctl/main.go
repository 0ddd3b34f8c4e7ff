// Command taskctl is the command-line client of the taskbox API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastygo/taskbox/internal/cli"
	"github.com/fastygo/taskbox/internal/client/config"
	"github.com/fastygo/taskbox/internal/client/gateway"
	"github.com/fastygo/taskbox/internal/client/state"
	"github.com/fastygo/taskbox/internal/client/tokenstore"
	"github.com/fastygo/taskbox/internal/commands"
	"github.com/fastygo/taskbox/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config) (*commands.Session, func() error, error) {
		level := "warn"
		if cfg.Debug {
			level = "debug"
		}
		log, err := logger.New(logger.Config{Level: level, Encoding: "console", Output: os.Stderr})
		if err != nil {
			return nil, nil, err
		}

		tokens, err := tokenstore.Open(cfg.TokenPath())
		if err != nil {
			return nil, nil, err
		}

		store := state.NewStore()
		client := gateway.New(gateway.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout}, tokens, store, log)

		sess := &commands.Session{
			Config:  cfg,
			Gateway: client,
			State:   store,
			Tokens:  tokens,
			In:      os.Stdin,
		}
		release := func() error {
			_ = log.Sync()
			return tokens.Close()
		}
		return sess, release, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
