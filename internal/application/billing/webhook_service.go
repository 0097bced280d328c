package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smmpanel/backend/internal/domain/billing"
	"github.com/smmpanel/backend/internal/domain/shared"
)

// webhookDedupTTL is how long a processed notification key is remembered
const webhookDedupTTL = 24 * time.Hour

// WebhookService ingests the gateway's server-to-server payment
// notifications. A transaction record is persisted for every notification
// regardless of status; the balance is credited only on the first COMPLETED
// notification for a given gateway transaction.
type WebhookService struct {
	txRepo      billing.TransactionRepository
	ledger      *LedgerService
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(txRepo billing.TransactionRepository, ledger *LedgerService, idempotency shared.IdempotencyStore, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		txRepo:      txRepo,
		ledger:      ledger,
		idempotency: idempotency,
		logger:      logger,
	}
}

// HandleNotification processes one gateway notification
func (s *WebhookService) HandleNotification(ctx context.Context, req WebhookNotification) error {
	status := parseWebhookStatus(req.Status)
	key := webhookKey(req.TranID, status)

	marked, err := s.idempotency.MarkProcessed(ctx, key, webhookDedupTTL)
	if err != nil {
		// Dedup store failures fall through to the transaction-status guard
		marked = false
		s.logger.Warn("webhook dedup check failed",
			zap.String("gateway_id", req.TranID),
			zap.Error(err))
	} else if !marked {
		s.logger.Debug("duplicate webhook ignored",
			zap.String("gateway_id", req.TranID),
			zap.String("status", string(status)))
		return nil
	}

	if err := s.processNotification(ctx, req, status); err != nil {
		// The handler answers non-2xx on error and the gateway redelivers.
		// Release the mark so the redelivery is not swallowed as a duplicate.
		if marked {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Error("failed to release webhook dedup key",
					zap.String("gateway_id", req.TranID),
					zap.Error(relErr))
			}
		}
		return err
	}
	return nil
}

func (s *WebhookService) processNotification(ctx context.Context, req WebhookNotification, status billing.TransactionStatus) error {
	tx, err := s.txRepo.FindByGatewayID(ctx, req.TranID)
	if err != nil {
		if shared.IsNotFoundError(err) {
			return s.recordUnknown(ctx, req, status)
		}
		return err
	}

	if !tx.IsPending() {
		return nil
	}

	switch status {
	case billing.TransactionStatusCompleted:
		if err := tx.Complete(); err != nil {
			return nil
		}
		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}
		_, err := s.ledger.CreditDeposit(ctx, tx.UserID, tx.Amount, tx.GatewayID)
		return err
	case billing.TransactionStatusFailed:
		if err := tx.Fail("Reported failed by gateway webhook"); err != nil {
			return nil
		}
		return s.txRepo.Save(ctx, tx)
	default:
		return nil
	}
}

// recordUnknown persists a notification for a transaction this service never
// initiated, crediting the named user when it is already COMPLETED
func (s *WebhookService) recordUnknown(ctx context.Context, req WebhookNotification, status billing.TransactionStatus) error {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.logger.Warn("webhook for unknown transaction without valid user id",
			zap.String("gateway_id", req.TranID))
		return shared.NewDomainError("INVALID_USER", "Webhook user id is not a valid UUID")
	}

	amount, err := billing.ParseAmount(req.Amount)
	if err != nil {
		return err
	}

	tx, err := billing.NewWebhookTransaction(userID, req.Number, amount, req.TranID, status)
	if err != nil {
		return err
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return err
	}

	if status == billing.TransactionStatusCompleted {
		if _, err := s.ledger.CreditDeposit(ctx, userID, amount, req.TranID); err != nil {
			return err
		}
	}

	s.logger.Info("webhook transaction recorded",
		zap.String("gateway_id", req.TranID),
		zap.String("status", string(status)))
	return nil
}

func parseWebhookStatus(raw string) billing.TransactionStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "COMPLETED", "SUCCESS", "SUCCESSFUL":
		return billing.TransactionStatusCompleted
	case "FAILED", "FAILURE", "CANCELLED", "CANCELED":
		return billing.TransactionStatusFailed
	default:
		return billing.TransactionStatusPending
	}
}

func webhookKey(tranID string, status billing.TransactionStatus) string {
	return "webhook:" + tranID + ":" + string(status)
}
