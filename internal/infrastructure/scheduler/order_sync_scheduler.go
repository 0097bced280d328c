package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/smmpanel/backend/internal/application/ordering"
)

// OrderSyncer refreshes active orders against the provider
type OrderSyncer interface {
	SyncActiveOrders(ctx context.Context) (*ordering.SyncReport, error)
}

// OrderSyncSchedulerConfig holds configuration for the order sweep
type OrderSyncSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// SyncInterval is the delay between sweeps
	SyncInterval time.Duration
	// SweepTimeout bounds a single sweep
	SweepTimeout time.Duration
}

// DefaultOrderSyncSchedulerConfig returns default configuration
func DefaultOrderSyncSchedulerConfig() OrderSyncSchedulerConfig {
	return OrderSyncSchedulerConfig{
		Enabled:      true,
		SyncInterval: 5 * time.Minute,
		SweepTimeout: 2 * time.Minute,
	}
}

// Validate validates the configuration
func (c *OrderSyncSchedulerConfig) Validate() error {
	if c.SyncInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.SweepTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// OrderSyncScheduler periodically refreshes active orders from the provider
// so status, start count and remains stay current without user action.
type OrderSyncScheduler struct {
	config OrderSyncSchedulerConfig
	syncer OrderSyncer
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOrderSyncScheduler creates a new order sync scheduler
func NewOrderSyncScheduler(config OrderSyncSchedulerConfig, syncer OrderSyncer, logger *zap.Logger) (*OrderSyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &OrderSyncScheduler{
		config: config,
		syncer: syncer,
		logger: logger,
	}, nil
}

// Start starts the periodic sweep loop
func (s *OrderSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Order sync scheduler started",
		zap.Duration("sync_interval", s.config.SyncInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *OrderSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Order sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Order sync scheduler stop timed out")
		return ctx.Err()
	}
}

// loop runs the sweep on every tick
func (s *OrderSyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep refreshes all active orders once
func (s *OrderSyncScheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	report, err := s.syncer.SyncActiveOrders(sweepCtx)
	if err != nil {
		s.logger.Error("Order sync sweep failed", zap.Error(err))
		return
	}

	if report.Synced > 0 || report.Failed > 0 {
		s.logger.Info("Order sync sweep completed",
			zap.Int("synced", report.Synced),
			zap.Int("settled", report.Settled),
			zap.Int("failed", report.Failed),
		)
	}
}
