package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct{ users []*appModels.User }

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*appModels.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) Create(ctx context.Context, user *appModels.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, user)
	return nil
}

type fakeTiers struct {
	tiers   []*appModels.MembershipTier
	listErr error
}

func (f *fakeTiers) List(ctx context.Context, activeOnly bool) ([]*appModels.MembershipTier, error) {
	return f.tiers, f.listErr
}

func (f *fakeTiers) Create(ctx context.Context, tier *appModels.MembershipTier) error {
	f.tiers = append(f.tiers, tier)
	return nil
}

type fakePaymentInfo struct {
	info  *appModels.PaymentInfo
	saves int
}

func (f *fakePaymentInfo) Get(ctx context.Context) (*appModels.PaymentInfo, error) {
	return f.info, nil
}

func (f *fakePaymentInfo) Save(ctx context.Context, info *appModels.PaymentInfo) error {
	f.saves++
	f.info = info
	return nil
}

func TestRun_SeedsEmptyDatabaseOnce(t *testing.T) {
	ctx := context.Background()
	users, tiers, info := &fakeUsers{}, &fakeTiers{}, &fakePaymentInfo{}
	admin := AdminAccount{Email: "Admin@Example.com", Password: "change-me-now"}

	require.NoError(t, run(ctx, users, tiers, info, admin, zerolog.Nop()))
	require.NoError(t, run(ctx, users, tiers, info, admin, zerolog.Nop()))

	require.Len(t, users.users, 1)
	created := users.users[0]
	assert.Equal(t, "admin@example.com", created.Email)
	assert.Equal(t, "Administrator", created.Name)
	assert.Equal(t, appModels.RoleAdmin, created.Role)
	assert.Equal(t, appModels.UserStatusVerified, created.Status)
	require.NotNil(t, created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.Password), []byte("change-me-now")))

	assert.Len(t, tiers.tiers, len(DefaultTiers))
	for _, tier := range tiers.tiers {
		assert.True(t, tier.IsActive)
	}
	assert.Equal(t, 1, info.saves)
}

func TestRun_SkipsAdminWithoutCredentials(t *testing.T) {
	users := &fakeUsers{}
	require.NoError(t, run(context.Background(), users, &fakeTiers{}, &fakePaymentInfo{}, AdminAccount{}, zerolog.Nop()))
	assert.Empty(t, users.users)
}

func TestRun_CollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	users := &fakeUsers{}
	info := &fakePaymentInfo{}

	err := run(context.Background(), users, &fakeTiers{listErr: boom}, info, AdminAccount{Email: "a@example.com", Password: "secret-pass"}, zerolog.Nop())

	assert.ErrorIs(t, err, boom)
	assert.Len(t, users.users, 1)
	assert.Equal(t, 1, info.saves)
}
