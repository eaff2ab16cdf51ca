package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func tier(t models.MembershipType, p models.BillingPeriod) *models.MembershipTier {
	return &models.MembershipTier{ID: 1, Name: "General Member", Type: t, Period: p, Amount: 500, IsActive: true}
}

func membership(status models.MembershipStatus, tr *models.MembershipTier) *models.Membership {
	return &models.Membership{ID: 10, UserID: 7, TierID: tr.ID, Status: status, StartDate: now.AddDate(0, -1, 0), Tier: tr}
}

func TestPeriodEnd(t *testing.T) {
	tests := []struct {
		name   string
		tier   *models.MembershipTier
		expect *time.Time
	}{
		{"weekly", tier(models.MembershipTypeGeneral, models.BillingPeriodWeekly), ptrTime(now.AddDate(0, 0, 7))},
		{"monthly", tier(models.MembershipTypeGeneral, models.BillingPeriodMonthly), ptrTime(now.AddDate(0, 0, 30))},
		{"yearly", tier(models.MembershipTypeDonor, models.BillingPeriodYearly), ptrTime(now.AddDate(0, 0, 365))},
		{"one time", tier(models.MembershipTypeDonor, models.BillingPeriodOneTime), nil},
		{"lifetime donor", tier(models.MembershipTypeLifetimeDonor, models.BillingPeriodYearly), nil},
		{"nil tier", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodEnd(tt.tier, now)
			if tt.expect == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.expect.Equal(*got))
		})
	}
}

func TestEffectiveStatus(t *testing.T) {
	m := membership(models.MembershipStatusActive, tier(models.MembershipTypeGeneral, models.BillingPeriodMonthly))
	assert.Equal(t, models.MembershipStatusActive, EffectiveStatus(m, now))

	past := now.Add(-time.Hour)
	m.EndDate = &past
	assert.Equal(t, models.MembershipStatusExpired, EffectiveStatus(m, now))

	m.Status = models.MembershipStatusCancelled
	assert.Equal(t, models.MembershipStatusCancelled, EffectiveStatus(m, now))
	assert.Equal(t, models.MembershipStatus(""), EffectiveStatus(nil, now))
}

func TestPlanProfileSubmission(t *testing.T) {
	donor := tier(models.MembershipTypeDonor, models.BillingPeriodYearly)

	t.Run("no membership requires payment", func(t *testing.T) {
		plan := PlanProfileSubmission(&models.User{Status: models.UserStatusPending}, nil, now)
		assert.Equal(t, models.UserStatusPaymentPending, plan.UserStatus)
		assert.Equal(t, models.MembershipTypeGeneral, plan.MembershipType)
		assert.Equal(t, models.MembershipStatusPending, plan.MembershipStatus)
		assert.Equal(t, "Payment Required", plan.Notice.Title)
	})

	t.Run("pending membership enters review", func(t *testing.T) {
		plan := PlanProfileSubmission(&models.User{Status: models.UserStatusPending}, membership(models.MembershipStatusPending, donor), now)
		assert.Equal(t, models.UserStatusInProgress, plan.UserStatus)
		assert.Equal(t, models.MembershipTypeDonor, plan.MembershipType)
		assert.Equal(t, "Your profile has been updated and is pending review.", plan.Notice.Message)
	})

	t.Run("rejected user re-enters review", func(t *testing.T) {
		plan := PlanProfileSubmission(&models.User{Status: models.UserStatusRejected}, membership(models.MembershipStatusActive, donor), now)
		assert.Equal(t, models.UserStatusInProgress, plan.UserStatus)
		assert.Equal(t, models.MembershipStatusActive, plan.MembershipStatus)
	})

	t.Run("verified user keeps status", func(t *testing.T) {
		plan := PlanProfileSubmission(&models.User{Status: models.UserStatusVerified}, nil, now)
		assert.Equal(t, models.UserStatusVerified, plan.UserStatus)
	})

	t.Run("expired membership requires payment", func(t *testing.T) {
		m := membership(models.MembershipStatusActive, donor)
		end := now.AddDate(0, 0, -1)
		m.EndDate = &end
		plan := PlanProfileSubmission(&models.User{Status: models.UserStatusInProgress}, m, now)
		assert.Equal(t, models.UserStatusPaymentPending, plan.UserStatus)
		assert.Equal(t, models.MembershipStatusExpired, plan.MembershipStatus)
		assert.Equal(t, models.MembershipTypeGeneral, plan.MembershipType)
	})
}

func TestPlanVerify(t *testing.T) {
	general := tier(models.MembershipTypeGeneral, models.BillingPeriodMonthly)

	t.Run("activates pending membership", func(t *testing.T) {
		user := &models.User{ID: 7, Status: models.UserStatusInProgress}
		plan, err := PlanVerify(user, membership(models.MembershipStatusPending, general), now)
		require.NoError(t, err)

		assert.Equal(t, models.UserStatusVerified, plan.UserStatus)
		require.NotNil(t, plan.ActivateMembershipID)
		assert.Equal(t, int64(10), *plan.ActivateMembershipID)
		assert.Equal(t, now, plan.StartDate)
		require.NotNil(t, plan.EndDate)
		assert.Equal(t, now.AddDate(0, 0, 30), *plan.EndDate)
		assert.Equal(t, models.MembershipStatusActive, plan.MembershipStatus)
		require.Len(t, plan.Notices, 2)
		assert.Equal(t, models.NotificationTypeSystem, plan.Notices[0].Type)
		assert.Equal(t, "Account Verified", plan.Notices[0].Title)
		assert.Equal(t, models.NotificationTypeMembership, plan.Notices[1].Type)
	})

	t.Run("without membership leaves profile pending", func(t *testing.T) {
		plan, err := PlanVerify(&models.User{Status: models.UserStatusPending}, nil, now)
		require.NoError(t, err)
		assert.Nil(t, plan.ActivateMembershipID)
		assert.Equal(t, models.MembershipStatusPending, plan.MembershipStatus)
		assert.Len(t, plan.Notices, 1)
	})

	for _, status := range []models.UserStatus{models.UserStatusVerified, models.UserStatusRejected} {
		t.Run("refuses "+string(status), func(t *testing.T) {
			_, err := PlanVerify(&models.User{Status: status}, nil, now)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
		})
	}
}

func TestPlanReject(t *testing.T) {
	user := &models.User{Status: models.UserStatusInProgress}

	for _, reason := range []string{"", "   \t"} {
		_, err := PlanReject(user, reason)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.Equal(t, "Rejection reason is required", err.Error())
	}

	plan, err := PlanReject(user, "  SSC roll number does not match  ")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusRejected, plan.UserStatus)
	assert.Equal(t, models.MembershipStatusCancelled, plan.MembershipStatus)
	assert.Equal(t, "Your profile has been rejected. Reason: SSC roll number does not match", plan.Notice.Message)

	_, err = PlanReject(&models.User{Status: models.UserStatusRejected}, "again")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func ptrTime(t time.Time) *time.Time { return &t }
