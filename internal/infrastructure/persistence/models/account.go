package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/account"
)

// UserModel is the persistence model for the User aggregate.
// Balance and referral earnings are stored as bigint minor units.
type UserModel struct {
	AggregateModel
	Email             string       `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	DisplayName       string       `gorm:"type:varchar(100);not null"`
	PasswordHash      string       `gorm:"type:varchar(100);not null"`
	Role              account.Role `gorm:"type:varchar(20);not null;default:'user'"`
	Suspended         bool         `gorm:"not null;default:false"`
	Balance           int64        `gorm:"type:bigint;not null;default:0"`
	ReferralCode      string       `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_referral_code"`
	ReferredBy        *uuid.UUID   `gorm:"type:uuid;index"`
	ReferralEarnings  int64        `gorm:"type:bigint;not null;default:0"`
	TotalReferrals    int          `gorm:"not null;default:0"`
	LastDepositAt     *time.Time   `gorm:"type:timestamptz"`
	LastTransactionID string       `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() *account.User {
	return &account.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Suspended:         m.Suspended,
		Balance:           m.Balance,
		ReferralCode:      m.ReferralCode,
		ReferredBy:        m.ReferredBy,
		ReferralEarnings:  m.ReferralEarnings,
		TotalReferrals:    m.TotalReferrals,
		LastDepositAt:     m.LastDepositAt,
		LastTransactionID: m.LastTransactionID,
	}
}

// FromDomain populates the persistence model from a domain User aggregate.
func (m *UserModel) FromDomain(u *account.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Suspended = u.Suspended
	m.Balance = u.Balance
	m.ReferralCode = u.ReferralCode
	m.ReferredBy = u.ReferredBy
	m.ReferralEarnings = u.ReferralEarnings
	m.TotalReferrals = u.TotalReferrals
	m.LastDepositAt = u.LastDepositAt
	m.LastTransactionID = u.LastTransactionID
}

// UserModelFromDomain creates a new persistence model from a domain User aggregate.
func UserModelFromDomain(u *account.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
