package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fastygo/taskbox/internal/client/config"
	"github.com/fastygo/taskbox/internal/client/state"
	"github.com/fastygo/taskbox/internal/commands"
	"github.com/fastygo/taskbox/internal/exitcode"
)

// SessionFactory opens what commands run against. The returned func releases it.
type SessionFactory func(ctx context.Context, cfg *config.Config) (*commands.Session, func() error, error)

// Dispatcher parses the command line and runs one command.
type Dispatcher struct {
	registry *commands.Registry
	factory  SessionFactory
}

func NewDispatcher(registry *commands.Registry, factory SessionFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run dispatches args and returns the exit code. No args lists tasks.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		args = []string{"list"}
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s (run: taskctl help)\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir, apiURL string
	var quiet, debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()
		if strings.HasPrefix(errStr, "flag provided but not defined: ") {
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", strings.TrimPrefix(errStr, "flag provided but not defined: "))
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}
	positional := fs.Args()

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	sess, release, err := d.factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if release != nil {
		defer release()
	}

	if cmd.NeedsAuth() {
		token, err := sess.Tokens.Get()
		if err != nil {
			fmt.Fprintf(errOut, "error: reading stored session: %s\n", err)
			return exitcode.AuthError
		}
		if token == "" {
			fmt.Fprintln(errOut, "error: not logged in (run: taskctl login)")
			return exitcode.AuthError
		}
	}

	unsubscribe := sess.State.Subscribe(offlineBanner(cfg.APIURL, errOut))
	defer unsubscribe()

	return cmd.Run(ctx, sess, positional, out, errOut)
}

// offlineBanner prints once when the state flips to server-down.
func offlineBanner(apiURL string, errOut io.Writer) state.Listener {
	shown := false
	return func(s state.State) {
		if !s.Tasks.ServerDown {
			shown = false
			return
		}
		if shown {
			return
		}
		shown = true
		fmt.Fprintf(errOut, "server down: cannot reach %s\nCheck that the backend is running and retry the command.\n", apiURL)
	}
}
