package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Probe checks one dependency.
type Probe struct {
	Name    string
	Check   func(ctx context.Context) error
	Timeout time.Duration
}

// Monitor runs its probes on a cron schedule and caches the last result.
type Monitor struct {
	probes   []Probe
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

func New(probes []Probe, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   probes,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start probes once synchronously and then on every tick.
func (m *Monitor) Start() error {
	m.Refresh()
	schedule := fmt.Sprintf("@every %ds", int(m.interval.Seconds()))
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	components := make(map[string]bool, len(m.status.Components))
	for name, ok := range m.status.Components {
		components[name] = ok
	}
	return Status{Components: components, LastCheck: m.status.LastCheck}
}

// Refresh runs every probe and replaces the cached status.
func (m *Monitor) Refresh() {
	components := make(map[string]bool, len(m.probes))
	for _, probe := range m.probes {
		components[probe.Name] = m.check(probe)
	}

	m.mu.Lock()
	m.status = Status{Components: components, LastCheck: time.Now()}
	m.mu.Unlock()
}

func (m *Monitor) check(probe Probe) bool {
	timeout := probe.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := probe.Check(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("component", probe.Name), zap.Error(err))
		return false
	}
	return true
}
