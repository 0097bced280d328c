package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// DefaultConfirmDeadline bounds confirmation polling for a single deposit
const DefaultConfirmDeadline = 180 * time.Second

// DepositService drives a deposit from a user-submitted (phone, amount) pair
// to a terminal balance update. The push request goes out synchronously; the
// confirmation poll runs server-side until the gateway settles or the
// deadline passes.
type DepositService struct {
	userRepo     account.UserRepository
	txRepo       billing.TransactionRepository
	gateway      billing.PaymentGateway
	ledger       *LedgerService
	deadline     time.Duration
	confirmQueue ConfirmQueue
}

// ConfirmQueue accepts newly created transactions for background status
// polling. The scheduler in the infrastructure layer implements it.
type ConfirmQueue interface {
	SubmitTransaction(transactionID uuid.UUID) error
}

// NewDepositService creates a new DepositService
func NewDepositService(userRepo account.UserRepository, txRepo billing.TransactionRepository, gateway billing.PaymentGateway, ledger *LedgerService, deadline time.Duration) *DepositService {
	if deadline <= 0 {
		deadline = DefaultConfirmDeadline
	}
	return &DepositService{
		userRepo: userRepo,
		txRepo:   txRepo,
		gateway:  gateway,
		ledger:   ledger,
		deadline: deadline,
	}
}

// SetConfirmQueue enables background confirmation polling for new deposits.
// Without it the startup recovery sweep is the only path to confirmation.
func (s *DepositService) SetConfirmQueue(queue ConfirmQueue) {
	s.confirmQueue = queue
}

// InitiateDeposit validates the request, asks the gateway to push a payment
// prompt to the phone, and records a PENDING transaction keyed by the
// gateway-issued transaction id
func (s *DepositService) InitiateDeposit(ctx context.Context, userID uuid.UUID, req InitiateDepositRequest) (*TransactionResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanTransact() {
		return nil, shared.ErrAccountSuspended
	}

	phone, err := billing.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	amount, err := billing.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.CreateTransaction(ctx, &billing.CreateTransactionRequest{
		Phone:  phone,
		Amount: billing.MajorUnits(amount),
		Name:   user.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	tx, err := billing.NewDepositTransaction(userID, phone, amount, resp.TransactionID, s.deadline)
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if s.confirmQueue != nil {
		// Best effort; the startup recovery sweep re-queues anything left pending
		_ = s.confirmQueue.SubmitTransaction(tx.ID)
	}

	return ToTransactionResponse(tx), nil
}

// ConfirmDeposit performs one confirmation poll for a pending transaction.
// It returns true once the transaction is terminal and needs no further
// polls. Gateway errors leave the transaction pending so the next tick can
// retry.
func (s *DepositService) ConfirmDeposit(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if !tx.IsPending() {
		return true, nil
	}

	if tx.IsExpired(time.Now()) {
		// One last gateway query before force-failing. A job can sit in the
		// confirm queue past the deadline when all workers are busy, and the
		// payer may have completed in the meantime.
		if status, err := s.gateway.QueryTransaction(ctx, tx.GatewayID); err == nil && status.Status == billing.TransactionStatusCompleted {
			return true, s.settleCompleted(ctx, tx)
		}
		return true, s.settleFailed(ctx, tx, "Confirmation deadline exceeded")
	}

	status, err := s.gateway.QueryTransaction(ctx, tx.GatewayID)
	if err != nil {
		return false, err
	}

	switch status.Status {
	case billing.TransactionStatusCompleted:
		return true, s.settleCompleted(ctx, tx)
	case billing.TransactionStatusFailed:
		reason := status.Message
		if reason == "" {
			reason = "Payment failed"
		}
		return true, s.settleFailed(ctx, tx, reason)
	default:
		return false, nil
	}
}

// GetTransaction returns one of the user's transactions
func (s *DepositService) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return ToTransactionResponse(tx), nil
}

// ListTransactions returns a page of the user's transactions
func (s *DepositService) ListTransactions(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	txs, err := s.txRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, len(txs))
	for i := range txs {
		items[i] = *ToTransactionResponse(&txs[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// PendingTransactions returns all transactions still awaiting confirmation,
// used to resume polling after a restart
func (s *DepositService) PendingTransactions(ctx context.Context) ([]billing.Transaction, error) {
	return s.txRepo.FindPending(ctx)
}

// The transaction is settled before the balance credit so a lost race with
// the webhook path cannot credit twice: whichever writer settles the version
// first performs the credit.
func (s *DepositService) settleCompleted(ctx context.Context, tx *billing.Transaction) error {
	if err := tx.Complete(); err != nil {
		return err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return err
	}
	_, err := s.ledger.CreditDeposit(ctx, tx.UserID, tx.Amount, tx.GatewayID)
	return err
}

func (s *DepositService) settleFailed(ctx context.Context, tx *billing.Transaction, reason string) error {
	if err := tx.Fail(reason); err != nil {
		return err
	}
	return s.txRepo.Save(ctx, tx)
}

// GatewayBalance returns the merchant account balance at the payment gateway
func (s *DepositService) GatewayBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.gateway.Balance(ctx)
}
