package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smmpanel/backend/internal/domain/billing"
)

// DepositConfirmer resolves pending deposit transactions. Each call to
// ConfirmDeposit performs one gateway status check and reports whether the
// transaction reached a terminal state.
type DepositConfirmer interface {
	ConfirmDeposit(ctx context.Context, transactionID uuid.UUID) (bool, error)
	PendingTransactions(ctx context.Context) ([]billing.Transaction, error)
}

// DepositConfirmJob tracks a single transaction being polled
type DepositConfirmJob struct {
	TransactionID uuid.UUID
	SubmittedAt   time.Time
}

// DepositConfirmSchedulerConfig holds configuration for the deposit poller
type DepositConfirmSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// MaxConcurrentJobs is the number of polling workers
	MaxConcurrentJobs int
	// PollInterval is the delay between consecutive status checks
	PollInterval time.Duration
	// ConfirmDeadline bounds how long a transaction is polled before the
	// service force-fails it
	ConfirmDeadline time.Duration
}

// DefaultDepositConfirmSchedulerConfig returns default configuration
func DefaultDepositConfirmSchedulerConfig() DepositConfirmSchedulerConfig {
	return DepositConfirmSchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 5,
		PollInterval:      5 * time.Second,
		ConfirmDeadline:   180 * time.Second,
	}
}

// Validate validates the configuration
func (c *DepositConfirmSchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 {
		return ErrInvalidConfig
	}
	if c.PollInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.ConfirmDeadline <= c.PollInterval {
		return ErrInvalidConfig
	}
	return nil
}

// DepositConfirmScheduler polls the payment gateway for pending deposits.
// Each submitted transaction is checked every PollInterval until the service
// reports it settled. The service enforces the confirm deadline, so a worker
// never polls one transaction forever.
type DepositConfirmScheduler struct {
	config    DepositConfirmSchedulerConfig
	confirmer DepositConfirmer
	logger    *zap.Logger

	jobs      chan *DepositConfirmJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewDepositConfirmScheduler creates a new deposit confirmation scheduler
func NewDepositConfirmScheduler(config DepositConfirmSchedulerConfig, confirmer DepositConfirmer, logger *zap.Logger) (*DepositConfirmScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &DepositConfirmScheduler{
		config:    config,
		confirmer: confirmer,
		logger:    logger,
		jobs:      make(chan *DepositConfirmJob, 100),
	}, nil
}

// Start starts the polling workers and re-enqueues transactions that were
// still pending when the process last stopped
func (s *DepositConfirmScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Deposit confirmation scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("poll_interval", s.config.PollInterval),
		zap.Duration("confirm_deadline", s.config.ConfirmDeadline),
	)

	if err := s.recoverPending(ctx); err != nil {
		s.logger.Warn("Failed to recover pending deposits", zap.Error(err))
	}

	return nil
}

// Stop gracefully stops the scheduler
func (s *DepositConfirmScheduler) Stop(ctx context.Context) error {
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

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Deposit confirmation scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Deposit confirmation scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitTransaction queues a transaction for status polling
func (s *DepositConfirmScheduler) SubmitTransaction(transactionID uuid.UUID) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	job := &DepositConfirmJob{
		TransactionID: transactionID,
		SubmittedAt:   time.Now(),
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Deposit confirmation job submitted",
			zap.String("transaction_id", transactionID.String()),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// recoverPending re-submits transactions that were pending at startup
func (s *DepositConfirmScheduler) recoverPending(ctx context.Context) error {
	pending, err := s.confirmer.PendingTransactions(ctx)
	if err != nil {
		return err
	}

	for _, tx := range pending {
		if err := s.SubmitTransaction(tx.ID); err != nil {
			s.logger.Warn("Failed to re-queue pending deposit",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
		}
	}

	if len(pending) > 0 {
		s.logger.Info("Recovered pending deposits", zap.Int("count", len(pending)))
	}

	return nil
}

// worker polls submitted transactions until they settle
func (s *DepositConfirmScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Deposit confirmation worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Deposit confirmation worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.pollUntilSettled(ctx, job, workerID)
		}
	}
}

// pollUntilSettled checks the transaction every PollInterval until the
// confirmer reports a terminal state. The hard stop at ConfirmDeadline plus
// one extra interval guarantees a final check happens after the deadline has
// passed, so the service can force-fail the transaction.
func (s *DepositConfirmScheduler) pollUntilSettled(ctx context.Context, job *DepositConfirmJob, workerID int) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.ConfirmDeadline+2*s.config.PollInterval)
	defer cancel()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-jobCtx.Done():
			s.logger.Warn("Deposit polling stopped before settlement",
				zap.Int("worker_id", workerID),
				zap.String("transaction_id", job.TransactionID.String()),
			)
			return
		case <-ticker.C:
			settled, err := s.confirmer.ConfirmDeposit(jobCtx, job.TransactionID)
			if err != nil {
				s.logger.Warn("Deposit status check failed",
					zap.Int("worker_id", workerID),
					zap.String("transaction_id", job.TransactionID.String()),
					zap.Error(err),
				)
				continue
			}
			if settled {
				s.logger.Info("Deposit transaction settled",
					zap.Int("worker_id", workerID),
					zap.String("transaction_id", job.TransactionID.String()),
					zap.Duration("elapsed", time.Since(job.SubmittedAt)),
				)
				return
			}
		}
	}
}
