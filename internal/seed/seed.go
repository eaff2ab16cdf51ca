// Package seed creates the data a fresh installation needs: the first
// administrator, the default membership tiers and an empty payment-info row.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/alumnihub/internal/app/models"
	appRepos "github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// AdminAccount is the administrator created on first start
type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

type tierStore interface {
	List(ctx context.Context, activeOnly bool) ([]*appModels.MembershipTier, error)
	Create(ctx context.Context, tier *appModels.MembershipTier) error
}

type paymentInfoStore interface {
	Get(ctx context.Context) (*appModels.PaymentInfo, error)
	Save(ctx context.Context, info *appModels.PaymentInfo) error
}

// DefaultTiers is the catalogue installed when no tier exists yet
var DefaultTiers = []appModels.MembershipTier{
	{
		Name:     "General Member",
		Type:     appModels.MembershipTypeGeneral,
		Period:   appModels.BillingPeriodYearly,
		Amount:   500,
		Benefits: []string{"Access to alumni events", "Alumni directory listing"},
	},
	{
		Name:     "Donor Member",
		Type:     appModels.MembershipTypeDonor,
		Period:   appModels.BillingPeriodYearly,
		Amount:   2000,
		Benefits: []string{"All general member benefits", "Priority event registration"},
	},
	{
		Name:     "Lifetime Donor",
		Type:     appModels.MembershipTypeLifetimeDonor,
		Period:   appModels.BillingPeriodOneTime,
		Amount:   10000,
		Benefits: []string{"All donor member benefits", "Membership never expires"},
	},
}

// CreateDefaultData seeds the database behind dbPool. Failures are collected
// so one broken step does not prevent the others.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, admin AdminAccount, lgr zerolog.Logger) error {
	return run(ctx,
		appRepos.NewUserRepository(dbPool),
		appRepos.NewMembershipTierRepository(dbPool),
		appRepos.NewPaymentInfoRepository(dbPool),
		admin, lgr)
}

func run(ctx context.Context, users userStore, tiers tierStore, paymentInfo paymentInfoStore, admin AdminAccount, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin, tiers, payment info)...")

	var finalErr error
	if err := seedAdmin(ctx, users, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedTiers(ctx, tiers, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default membership tiers")
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedPaymentInfo(ctx, paymentInfo); err != nil {
		lgr.Error().Err(err).Msg("Error creating payment info")
		finalErr = errors.Join(finalErr, err)
	}
	return finalErr
}

func seedAdmin(ctx context.Context, users userStore, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("No admin credentials configured, skipping admin account")
		return nil
	}

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	password := string(hash)

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	if err := users.Create(ctx, &appModels.User{
		Email:    email,
		Password: &password,
		Name:     name,
		Role:     appModels.RoleAdmin,
		Status:   appModels.UserStatusVerified,
	}); err != nil {
		return err
	}
	lgr.Info().Str("email", email).Msg("Admin account created")
	return nil
}

func seedTiers(ctx context.Context, tiers tierStore, lgr zerolog.Logger) error {
	existing, err := tiers.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	var finalErr error
	for _, tier := range DefaultTiers {
		tier := tier
		tier.IsActive = true
		if err := tiers.Create(ctx, &tier); err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("tier", tier.Name).Msg("Default membership tier created")
	}
	return finalErr
}

func seedPaymentInfo(ctx context.Context, paymentInfo paymentInfoStore) error {
	info, err := paymentInfo.Get(ctx)
	if err != nil || info != nil {
		return err
	}
	return paymentInfo.Save(ctx, &appModels.PaymentInfo{})
}
