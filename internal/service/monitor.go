// Package service holds the cron-driven storage monitor. It keeps a
// periodic liveness trace in the logs; it never talks to the chat platform.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/SL-MGx03/userbase/internal/store"
)

const probeTimeout = 10 * time.Second

// Monitor pings storage and logs the registry size on a fixed interval.
type Monitor struct {
	cron  *cron.Cron
	store store.Store
	log   *zap.Logger
}

func NewMonitor(st store.Store, log *zap.Logger) *Monitor {
	return &Monitor{
		cron:  cron.New(cron.WithSeconds()),
		store: st,
		log:   log,
	}
}

// Schedule registers the probe to run every interval.
func (m *Monitor) Schedule(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	if _, err := m.cron.AddFunc(spec, m.probe); err != nil {
		return fmt.Errorf("schedule storage probe: %w", err)
	}
	return nil
}

func (m *Monitor) Start() {
	m.cron.Start()
}

func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	m.RunOnce(ctx)
}

// RunOnce performs a single probe: storage ping plus registry count.
func (m *Monitor) RunOnce(ctx context.Context) {
	started := time.Now()
	if err := m.store.Ping(ctx); err != nil {
		m.log.Warn("storage probe failed", zap.Error(err))
		return
	}
	latency := time.Since(started)

	users, err := m.store.ListUsers(ctx)
	if err != nil {
		m.log.Warn("storage scan failed", zap.Error(err))
		return
	}

	m.log.Info("storage probe",
		zap.Duration("ping", latency),
		zap.Int("users", len(users)),
	)
}
