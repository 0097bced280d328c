package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/account"
	"github.com/smmpanel/backend/internal/domain/shared"
)

func newUserService(userRepo *MockUserRepository) *UserService {
	return NewUserService(userRepo, appbilling.NewLedgerService(userRepo), zap.NewNop())
}

func TestUserServiceReferralDashboard(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo)
	user := hashedUser(t, "pw")
	user.ReferralEarnings = 125000
	referred := hashedUser(t, "pw")
	filter := shared.DefaultFilter()

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("FindReferrals", ctx, user.ID, filter).Return([]account.User{*referred}, nil)
	userRepo.On("CountReferrals", ctx, user.ID).Return(int64(1), nil)

	summary, err := service.ReferralDashboard(ctx, user.ID, filter)

	require.NoError(t, err)
	assert.Equal(t, user.ReferralCode, summary.ReferralCode)
	assert.Equal(t, int64(1), summary.TotalReferrals)
	assert.Equal(t, int64(125000), summary.ReferralEarnings)
	require.Len(t, summary.Referrals, 1)
	assert.Equal(t, referred.DisplayName, summary.Referrals[0].DisplayName)
}

func TestUserServiceSuspension(t *testing.T) {
	ctx := context.Background()

	t.Run("suspend then unsuspend", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newUserService(userRepo)
		user := hashedUser(t, "pw")

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("SaveWithLock", ctx, user).Return(nil)

		resp, err := service.Suspend(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, resp.Suspended)

		resp, err = service.Unsuspend(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, resp.Suspended)
	})

	t.Run("double suspend fails", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newUserService(userRepo)
		user := hashedUser(t, "pw")
		require.NoError(t, user.Suspend())

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := service.Suspend(ctx, user.ID)
		assert.Error(t, err)
	})
}

func TestUserServiceSetRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo)
	user := hashedUser(t, "pw")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("SaveWithLock", ctx, user).Return(nil)

	resp, err := service.SetRole(ctx, user.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)

	_, err = service.SetRole(ctx, user.ID, "superuser")
	assert.Error(t, err)
}

func TestUserServiceAdjustBalance(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo)
	user := hashedUser(t, "pw")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("SaveWithLock", ctx, user).Return(nil)

	resp, err := service.AdjustBalance(ctx, user.ID, 750000)

	require.NoError(t, err)
	assert.Equal(t, int64(750000), resp.Balance)
}

func TestUserServiceListUsers(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo)
	filter := shared.DefaultFilter()

	userRepo.On("FindAll", ctx, filter).Return([]account.User{*hashedUser(t, "pw"), *hashedUser(t, "pw")}, nil)
	userRepo.On("Count", ctx, filter).Return(int64(2), nil)

	page, err := service.ListUsers(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
}
