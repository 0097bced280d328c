package account

import (
	"crypto/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// Role represents the access level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

const referralCodeLength = 8

const referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is the aggregate root for a storefront account.
// Balance and referral earnings are held in minor currency units (cents)
// and are only mutated through the methods below.
type User struct {
	shared.BaseAggregateRoot
	Email             string
	DisplayName       string
	PasswordHash      string
	Role              Role
	Suspended         bool
	Balance           int64
	ReferralCode      string
	ReferredBy        *uuid.UUID
	ReferralEarnings  int64
	TotalReferrals    int
	LastDepositAt     *time.Time
	LastTransactionID string
}

// NewUser creates a new user account with a generated referral code
func NewUser(email, displayName, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 100 characters")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		DisplayName:       displayName,
		PasswordHash:      passwordHash,
		Role:              RoleUser,
		ReferralCode:      GenerateReferralCode(),
	}, nil
}

// GenerateReferralCode produces an 8-character uppercase alphanumeric code
func GenerateReferralCode() string {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	code := make([]byte, referralCodeLength)
	for i, b := range buf {
		code[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(code)
}

// CreditBalance adds a completed deposit to the user's balance and records
// the originating gateway transaction
func (u *User) CreditBalance(amount int64, transactionID string) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	now := time.Now()
	u.Balance += amount
	u.LastDepositAt = &now
	if transactionID != "" {
		u.LastTransactionID = transactionID
	}
	u.UpdatedAt = now
	u.IncrementVersion()

	return nil
}

// DebitBalance deducts from the user's balance.
// The balance never goes negative.
func (u *User) DebitBalance(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if u.Balance < amount {
		return shared.ErrInsufficientBalance
	}

	u.Balance -= amount
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RefundBalance returns a previously debited amount to the balance
func (u *User) RefundBalance(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	u.Balance += amount
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetBalance replaces the balance (admin adjustment)
func (u *User) SetBalance(balance int64) error {
	if balance < 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Balance cannot be negative")
	}

	u.Balance = balance
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// LinkReferrer attaches the referring user. It can only be set once.
func (u *User) LinkReferrer(referrerID uuid.UUID) error {
	if u.ReferredBy != nil {
		return shared.NewDomainError("ALREADY_REFERRED", "User already has a referrer")
	}
	if referrerID == u.ID {
		return shared.NewDomainError("INVALID_REFERRER", "User cannot refer themselves")
	}

	u.ReferredBy = &referrerID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RecordReferral increments the referrer-side signup counter
func (u *User) RecordReferral() {
	u.TotalReferrals++
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CreditReferralEarnings adds a referral commission
func (u *User) CreditReferralEarnings(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Commission amount must be positive")
	}

	u.ReferralEarnings += amount
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ApplyWithdrawalPayout deducts a paid withdrawal from referral earnings.
// Earnings are floored at zero.
func (u *User) ApplyWithdrawalPayout(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}

	u.ReferralEarnings -= amount
	if u.ReferralEarnings < 0 {
		u.ReferralEarnings = 0
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Suspend blocks the user from deposits and orders
func (u *User) Suspend() error {
	if u.Suspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "User is already suspended")
	}

	u.Suspended = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Unsuspend re-enables a suspended user
func (u *User) Unsuspend() error {
	if !u.Suspended {
		return shared.NewDomainError("NOT_SUSPENDED", "User is not suspended")
	}

	u.Suspended = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be 'user' or 'admin'")
	}

	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanTransact returns true if the user may deposit or place orders
func (u *User) CanTransact() bool {
	return !u.Suspended
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
