package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Refresh(t *testing.T) {
	var redisDown atomic.Bool
	m := New([]Probe{
		{Name: "bolt", Check: func(ctx context.Context) error { return nil }},
		{Name: "redis", Check: func(ctx context.Context) error {
			if redisDown.Load() {
				return errors.New("connection refused")
			}
			return nil
		}},
	}, time.Minute, nil)

	assert.False(t, m.IsOnline(), "nothing probed yet")

	m.Refresh()
	assert.True(t, m.IsOnline())

	redisDown.Store(true)
	m.Refresh()
	status := m.GetStatus()
	assert.False(t, status.Healthy())
	assert.Equal(t, map[string]bool{"bolt": true, "redis": false}, status.Components)

	status.Components["redis"] = true
	assert.False(t, m.IsOnline(), "status is a copy")
}

func TestMonitor_ProbeTimeout(t *testing.T) {
	m := New([]Probe{{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}}, time.Minute, nil)

	m.Refresh()
	assert.False(t, m.IsOnline())
}

func TestMonitor_StartProbesImmediately(t *testing.T) {
	var calls atomic.Int32
	m := New([]Probe{{Name: "bolt", Check: func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}}}, time.Hour, nil)

	require.NoError(t, m.Start())
	defer m.Stop(context.Background())

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, m.IsOnline())
}
