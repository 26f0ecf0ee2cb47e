package syncer

import (
	"context"
	"log/slog"
	"time"
)

// Monitor probes remote connectivity on an interval and reports transitions.
// An offline→online transition triggers a drain, as does startup when the
// probe succeeds immediately.
type Monitor struct {
	probe    func(ctx context.Context) error
	interval time.Duration
	onChange func(online bool)
	onOnline func(ctx context.Context)
	log      *slog.Logger

	online bool
	known  bool
}

// NewMonitor creates a Monitor. probe is typically the database ping.
// onChange receives every transition; onOnline fires only offline→online.
func NewMonitor(probe func(ctx context.Context) error, interval time.Duration, onChange func(online bool), onOnline func(ctx context.Context), log *slog.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		onChange: onChange,
		onOnline: onOnline,
		log:      log,
	}
}

// Run probes immediately, then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	online := m.probe(probeCtx) == nil
	cancel()

	if m.known && online == m.online {
		return
	}
	m.online = online
	m.known = true

	if online {
		m.log.Info("connectivity: online")
	} else {
		m.log.Warn("connectivity: offline")
	}
	if m.onChange != nil {
		m.onChange(online)
	}
	// Reaching here means a transition or the first observation, so
	// startup-while-online drains queued work from a previous run.
	if online && m.onOnline != nil {
		m.onOnline(ctx)
	}
}
