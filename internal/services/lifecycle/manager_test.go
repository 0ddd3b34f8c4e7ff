package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_ShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"bolt", "redis", "monitor", "http_server"} {
		name := name
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "monitor", "redis", "bolt"}, order)
}

func TestManager_ShutdownJoinsErrors(t *testing.T) {
	m := New(time.Second, nil)
	storeErr := errors.New("close failed")

	ran := false
	m.Register("store", func(ctx context.Context) error { return storeErr })
	m.Register("server", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		ran = true
		return nil
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, ran, "a failing hook does not stop the others")
}

func TestManager_ShutdownOnce(t *testing.T) {
	m := New(0, nil)
	calls := 0
	m.Register("store", func(ctx context.Context) error {
		calls++
		return nil
	})
	m.Register("http_server", func(ctx context.Context) error { return nil })

	assert.Equal(t, []string{"http_server", "store"}, m.Components())
	assert.NoError(t, m.Shutdown(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestManager_ZeroTimeoutStillLeavesTimeToStop(t *testing.T) {
	m := New(0, nil)
	var remaining time.Duration
	m.Register("store", func(ctx context.Context) error {
		deadline, _ := ctx.Deadline()
		remaining = time.Until(deadline)
		return ctx.Err()
	})

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Greater(t, remaining, 10*time.Second)
}
