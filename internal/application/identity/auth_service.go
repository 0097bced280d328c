package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/shared"
	"github.com/smmpanel/backend/internal/infrastructure/auth"
)

// AuthService handles signup, login, token refresh, and logout
type AuthService struct {
	userRepo       account.UserRepository
	jwtService     *auth.JWTService
	tokenBlacklist auth.TokenBlacklist
	logger         *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo account.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// SetTokenBlacklist enables token revocation on logout. Without it logout is
// a no-op on the server and tokens simply age out.
func (s *AuthService) SetTokenBlacklist(blacklist auth.TokenBlacklist) {
	s.tokenBlacklist = blacklist
}

// Register creates a new account. A valid referral code links the signup to
// the referrer and bumps their referral counter; an unknown code is ignored
// so signup never fails on a mistyped code.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := account.NewUser(req.Email, req.DisplayName, string(hash))
	if err != nil {
		return nil, err
	}

	if req.ReferralCode != "" {
		s.linkReferral(ctx, user, req.ReferralCode)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", user.ReferredBy != nil))

	return s.authResponse(user)
}

// linkReferral resolves the code and wires both sides of the referral.
// Failures are logged and swallowed: the signup must still succeed.
func (s *AuthService) linkReferral(ctx context.Context, user *account.User, code string) {
	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		s.logger.Warn("referral code not resolved at signup",
			zap.String("code", code),
			zap.Error(err))
		return
	}
	if err := user.LinkReferrer(referrer.ID); err != nil {
		s.logger.Warn("referral link rejected",
			zap.String("code", code),
			zap.Error(err))
		return
	}

	referrer.RecordReferral()
	if err := s.userRepo.SaveWithLock(ctx, referrer); err != nil {
		s.logger.Warn("referral counter update failed",
			zap.String("referrer_id", referrer.ID.String()),
			zap.Error(err))
	}
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if shared.IsNotFoundError(err) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if user.Suspended {
		return nil, shared.ErrAccountSuspended
	}

	return s.authResponse(user)
}

// Refresh rotates a refresh token into a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Suspended {
		return nil, shared.ErrAccountSuspended
	}

	return s.authResponse(user)
}

// Logout revokes the presented access token. ExpiresAt bounds the blacklist
// entry's TTL so Redis does not accumulate dead JTIs.
func (s *AuthService) Logout(ctx context.Context, tokenJTI string, expiresAt time.Time) error {
	if s.tokenBlacklist == nil || tokenJTI == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.tokenBlacklist.AddToBlacklist(ctx, tokenJTI, ttl); err != nil {
		s.logger.Error("failed to revoke token on logout",
			zap.String("jti", tokenJTI),
			zap.Error(err))
		return err
	}
	return nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (s *AuthService) authResponse(user *account.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         *ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
