package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
)

// Worker periodically removes expired sessions from the session store.
// Redis-backed stores expire keys on their own, so the sweep is only
// doing real work against PostgreSQL.
type Worker struct {
	sessions driven.SessionStore
	logger   *slog.Logger
	interval time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the session worker.
type Config struct {
	Sessions driven.SessionStore
	Logger   *slog.Logger
	Interval time.Duration // How often to sweep expired sessions
}

// NewWorker creates a new session cleanup worker.
func NewWorker(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &Worker{
		sessions: cfg.Sessions,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("session worker starting", "interval", w.interval)

	go func() {
		defer close(w.doneCh)
		w.sweepLoop(ctx)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("session worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// sweepLoop runs one sweep immediately, then one per interval.
func (w *Worker) sweepLoop(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("session worker context cancelled")
			return
		case <-w.stopCh:
			w.logger.Info("session worker stop signal received")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep removes expired sessions once.
func (w *Worker) sweep(ctx context.Context) {
	startTime := time.Now()

	removed, err := w.sessions.DeleteExpired(ctx)
	if err != nil {
		w.logger.Error("session sweep failed", "error", err)
		return
	}

	if removed > 0 {
		w.logger.Info("session sweep completed",
			"removed", removed,
			"duration", time.Since(startTime),
		)
	}
}

// Running reports whether the worker loop is active.
func (w *Worker) Running() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
