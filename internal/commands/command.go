// Package commands implements the taskctl commands.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/fastygo/taskbox/internal/client/config"
	"github.com/fastygo/taskbox/internal/client/gateway"
	"github.com/fastygo/taskbox/internal/client/state"
)

// Session is what a command runs against.
type Session struct {
	Config  *config.Config
	Gateway *gateway.Client
	State   *state.Store
	Tokens  gateway.TokenStore
	// In supplies passwords when they are not given as flags.
	In io.Reader
}

// Command defines the interface for CLI commands.
type Command interface {
	Name() string
	Aliases() []string
	Synopsis() string
	Usage() string

	// NeedsAuth reports whether a stored token is required before Run.
	NeedsAuth() bool

	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit code.
	Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int
}
