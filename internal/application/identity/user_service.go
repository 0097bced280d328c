package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/shared"
	"github.com/smmpanel/backend/internal/infrastructure/auth"
)

// UserService covers the referral dashboard and admin user management
type UserService struct {
	userRepo       account.UserRepository
	ledger         *appbilling.LedgerService
	tokenBlacklist auth.TokenBlacklist
	maxSessionAge  time.Duration
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo account.UserRepository, ledger *appbilling.LedgerService, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		ledger:   ledger,
		logger:   logger,
	}
}

// SetTokenBlacklist makes suspension revoke the account's live sessions.
// maxSessionAge should cover the refresh token lifetime.
func (s *UserService) SetTokenBlacklist(blacklist auth.TokenBlacklist, maxSessionAge time.Duration) {
	s.tokenBlacklist = blacklist
	s.maxSessionAge = maxSessionAge
}

// ReferralDashboard returns the user's referral code, counters, and the
// accounts they referred
func (s *UserService) ReferralDashboard(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*ReferralSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	referrals, err := s.userRepo.FindReferrals(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]ReferralEntry, len(referrals))
	for i := range referrals {
		entries[i] = ReferralEntry{
			DisplayName: referrals[i].DisplayName,
			JoinedAt:    referrals[i].CreatedAt,
		}
	}

	return &ReferralSummary{
		ReferralCode:     user.ReferralCode,
		TotalReferrals:   total,
		ReferralEarnings: user.ReferralEarnings,
		Referrals:        entries,
	}, nil
}

// ListUsers returns a page of all accounts (admin view)
func (s *UserService) ListUsers(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = *ToUserResponse(&users[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetUser returns one account (admin view)
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Suspend blocks an account from deposits and orders, and revokes its live
// sessions when a token blacklist is wired in
func (s *UserService) Suspend(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	resp, err := s.mutate(ctx, userID, func(user *account.User) error {
		return user.Suspend()
	})
	if err != nil {
		return nil, err
	}

	if s.tokenBlacklist != nil {
		if err := s.tokenBlacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.maxSessionAge); err != nil {
			// Suspension already persisted; token revocation failure only delays lockout
			s.logger.Error("failed to revoke sessions for suspended user",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
	return resp, nil
}

// Unsuspend re-enables a suspended account
func (s *UserService) Unsuspend(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.Unsuspend()
	})
}

// SetRole changes an account's role
func (s *UserService) SetRole(ctx context.Context, userID uuid.UUID, role string) (*UserResponse, error) {
	return s.mutate(ctx, userID, func(user *account.User) error {
		return user.SetRole(account.Role(role))
	})
}

// AdjustBalance replaces an account's balance through the ledger
func (s *UserService) AdjustBalance(ctx context.Context, userID uuid.UUID, balance int64) (*UserResponse, error) {
	user, err := s.ledger.AdjustBalance(ctx, userID, balance)
	if err != nil {
		return nil, err
	}
	s.logger.Info("balance adjusted by admin",
		zap.String("user_id", userID.String()),
		zap.Int64("balance", balance))
	return ToUserResponse(user), nil
}

func (s *UserService) mutate(ctx context.Context, userID uuid.UUID, fn func(*account.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}
