package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/account"
)

// RegisterRequest represents a signup request. ReferralCode optionally links
// the new account to the referring user.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=200"`
	DisplayName  string `json:"display_name" binding:"required,min=1,max=100"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	ReferralCode string `json:"referral_code" binding:"omitempty,len=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse carries the user profile and token pair after a successful
// register, login, or refresh
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	Role             string    `json:"role"`
	Suspended        bool      `json:"suspended"`
	Balance          int64     `json:"balance"`
	ReferralCode     string    `json:"referral_code"`
	ReferralEarnings int64     `json:"referral_earnings"`
	TotalReferrals   int       `json:"total_referrals"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToUserResponse converts a user to its API representation
func ToUserResponse(user *account.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Role:             string(user.Role),
		Suspended:        user.Suspended,
		Balance:          user.Balance,
		ReferralCode:     user.ReferralCode,
		ReferralEarnings: user.ReferralEarnings,
		TotalReferrals:   user.TotalReferrals,
		CreatedAt:        user.CreatedAt,
	}
}

// ReferralEntry is one referred signup in the referral dashboard
type ReferralEntry struct {
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ReferralSummary is the referral dashboard payload
type ReferralSummary struct {
	ReferralCode     string          `json:"referral_code"`
	TotalReferrals   int64           `json:"total_referrals"`
	ReferralEarnings int64           `json:"referral_earnings"`
	Referrals        []ReferralEntry `json:"referrals"`
}

// SetRoleRequest represents an admin role change
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// AdjustBalanceRequest represents an admin balance adjustment
type AdjustBalanceRequest struct {
	Balance int64 `json:"balance" binding:"min=0"`
}
