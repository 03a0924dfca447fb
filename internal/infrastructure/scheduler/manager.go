// Package scheduler runs the periodic maintenance jobs of the server on gocron.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"sinfopers/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// ExpirySweeper expires requests left unreviewed for too long.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager owns one gocron scheduler.
type Manager struct {
	scheduler gocron.Scheduler
	log       *slog.Logger
	now       func() time.Time
	timeout   time.Duration

	mu      sync.Mutex
	started bool
}

func NewManager() (*Manager, error) {
	log := logger.WithComponent("scheduler")
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return &Manager{scheduler: s, log: log, now: time.Now, timeout: 5 * time.Minute}, nil
}

// RegisterExpirySweep runs sweeper every interval, first right after Start.
// A run still going when the next one is due pushes that one back.
func (m *Manager) RegisterExpirySweep(sweeper ExpirySweeper, every time.Duration) error {
	if every <= 0 {
		return errors.New("sweep interval must be positive")
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			defer cancel()
			m.sweep(ctx, sweeper)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("request", "expire"),
		gocron.WithName("request-expiry-sweep"),
	)
	if err != nil {
		return err
	}
	m.log.Info("registered expiry sweep", "interval", every)
	return nil
}

func (m *Manager) sweep(ctx context.Context, sweeper ExpirySweeper) {
	start := time.Now()
	n, err := sweeper.SweepExpired(ctx, m.now().UTC())
	if err != nil {
		m.log.Error("expiry sweep failed", "error", err, "duration", time.Since(start))
		return
	}
	if n > 0 {
		m.log.Info("stale requests expired", "count", n, "duration", time.Since(start))
	}
}

func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.log.Info("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Shutdown waits for running jobs. Before Start it does nothing.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	m.started = false
	if err := m.scheduler.Shutdown(); err != nil {
		return err
	}
	m.log.Info("scheduler stopped")
	return nil
}
