package service

import (
	"context"
	"time"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/types"
)

// StaleMonitor runs the stale sweep periodically. It is a process-lifecycle
// concern: Start launches the loop, Stop cancels the in-flight sweep and
// waits for the loop to exit.
type StaleMonitor struct {
	stale    StaleService
	interval time.Duration
	logger   *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStaleMonitor(stale StaleService, cfg *config.Configuration, logger *logger.Logger) *StaleMonitor {
	return &StaleMonitor{
		stale:    stale,
		interval: cfg.Stale.SweepInterval,
		logger:   logger,
	}
}

// Start launches the periodic sweep loop.
func (m *StaleMonitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	m.cancel = cancel
	m.done = make(chan struct{})

	m.logger.Infow("starting stale monitor", "interval", m.interval)
	go m.run(ctx)
}

// Stop cancels the sweep loop and blocks until it has exited. An interrupted
// sweep leaves already-processed documents updated and the rest untouched.
func (m *StaleMonitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.logger.Info("stale monitor stopped")
}

func (m *StaleMonitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.stale.Sweep(ctx); err != nil {
				m.logger.Errorw("stale sweep failed", "error", err)
			}
		}
	}
}
