package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByReferralCode finds a user by their referral code
	FindByReferralCode(ctx context.Context, code string) (*User, error)

	// FindReferrals finds the users referred by the given user
	FindReferrals(ctx context.Context, referrerID uuid.UUID, filter shared.Filter) ([]User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// SaveWithLock saves a user with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, user *User) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountReferrals counts the users referred by the given user
	CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error)

	// ExistsByEmail checks if a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
