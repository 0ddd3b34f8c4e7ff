package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskbox/internal/cli"
	"github.com/fastygo/taskbox/internal/client/config"
	"github.com/fastygo/taskbox/internal/client/gateway"
	"github.com/fastygo/taskbox/internal/client/state"
	"github.com/fastygo/taskbox/internal/client/tokenstore"
	"github.com/fastygo/taskbox/internal/commands"
	"github.com/fastygo/taskbox/internal/exitcode"
	"github.com/fastygo/taskbox/internal/testutil"
)

type harness struct {
	t          *testing.T
	dir        string
	dispatcher *cli.Dispatcher
}

func newHarness(t *testing.T, dial func(addr string) (net.Conn, error)) *harness {
	t.Helper()
	t.Setenv("TASKBOX_API_URL", testutil.BaseURL)

	factory := func(ctx context.Context, cfg *config.Config) (*commands.Session, func() error, error) {
		tokens, err := tokenstore.Open(cfg.TokenPath())
		if err != nil {
			return nil, nil, err
		}
		store := state.NewStore()
		client := gateway.New(gateway.Config{BaseURL: cfg.APIURL, Dial: dial}, tokens, store, nil)
		return &commands.Session{
			Config:  cfg,
			Gateway: client,
			State:   store,
			Tokens:  tokens,
			In:      strings.NewReader("secret1\n"),
		}, tokens.Close, nil
	}

	return &harness{
		t:          t,
		dir:        t.TempDir(),
		dispatcher: cli.NewDispatcher(commands.DefaultRegistry, factory),
	}
}

func (h *harness) run(args ...string) (string, string, int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{}, args...)
	if len(full) > 0 {
		full = append(full[:1], append([]string{"--config", h.dir}, full[1:]...)...)
	}
	code := h.dispatcher.Run(context.Background(), full, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_TaskScenario(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	h := newHarness(t, srv.Dial)

	_, stderr, code := h.run("list")
	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "not logged in")

	stdout, stderr, code := h.run("register", "a@x.com")
	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "signed in as a@x.com")

	stdout, stderr, code = h.run("add", "--description", "d1", "--due", "2099-01-01", "--tags", "home, urgent", "t1")
	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "[ ] t1  due 2099-01-01 #home #urgent")
	id := strings.Fields(stdout)[0]

	stdout, _, code = h.run("list")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, id)

	stdout, stderr, code = h.run("done", id)
	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "[x] t1")

	stdout, _, code = h.run("list", "--open")
	require.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks\n", stdout)

	stdout, stderr, code = h.run("edit", "--title", "renamed", id)
	require.Equal(t, exitcode.Success, code, stderr)
	assert.Contains(t, stdout, "renamed")

	stdout, _, code = h.run("show", id)
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "status:      done")

	_, _, code = h.run("rm", id)
	require.Equal(t, exitcode.Success, code)

	stdout, _, code = h.run("ls")
	require.Equal(t, exitcode.Success, code)
	assert.NotContains(t, stdout, id)

	_, stderr, code = h.run("rm", id)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "Task not found")

	stdout, _, code = h.run("logout")
	require.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "signed out")

	_, _, code = h.run("whoami")
	assert.Equal(t, exitcode.AuthError, code)
}

func TestDispatcher_ServerMessages(t *testing.T) {
	srv := testutil.NewServer(t, testutil.ServerOptions{})
	h := newHarness(t, srv.Dial)

	_, stderr, code := h.run("register", "--password", "123", "a@x.com")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "Please enter a password with 6 or more characters")

	_, _, code = h.run("register", "--password", "secret1", "a@x.com")
	require.Equal(t, exitcode.Success, code)

	_, stderr, code = h.run("login", "--password", "nope-nope", "a@x.com")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "Invalid credentials")

	_, stderr, code = h.run("add", "--description", "d1")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "Title is required")
	assert.Contains(t, stderr, "Expiry Date is required")

	_, stderr, code = h.run("edit", "some-id")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "nothing to change")
}

func TestDispatcher_OfflineBanner(t *testing.T) {
	h := newHarness(t, func(addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})

	tokens, err := tokenstore.Open(filepath.Join(h.dir, config.TokenFile))
	require.NoError(t, err)
	require.NoError(t, tokens.Set("stored-token"))
	require.NoError(t, tokens.Close())

	_, stderr, code := h.run("list")
	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, stderr, "server down")
	assert.Contains(t, stderr, "retry")

	_, _, code = h.run("whoami")
	assert.Equal(t, exitcode.BackendError, code, "the token survives going offline")
}

func TestDispatcher_UsageErrors(t *testing.T) {
	h := newHarness(t, nil)

	_, stderr, code := h.run("bogus")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "unknown command: bogus")

	_, stderr, code = h.run("list", "--nope")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "unknown flag: -nope")

	stdout, _, code := h.run("help")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "taskctl rm <id>")
}
