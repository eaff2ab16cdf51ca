// Package workflow holds the status transition rules for users, memberships
// and event payments. Every function is pure: it inspects the current state
// and returns a plan describing the writes and notifications a service must
// apply atomically. Nothing here touches storage.
package workflow

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// Notice is a notification to append for the subject user once the plan commits
type Notice struct {
	Type    models.NotificationType
	Title   string
	Message string
}

// PeriodEnd returns the end date of a membership on tier starting at start.
// Lifetime and one-time tiers never expire.
func PeriodEnd(tier *models.MembershipTier, start time.Time) *time.Time {
	if tier == nil || tier.IsLifetime() {
		return nil
	}

	var days int
	switch tier.Period {
	case models.BillingPeriodWeekly:
		days = 7
	case models.BillingPeriodMonthly:
		days = 30
	case models.BillingPeriodYearly:
		days = 365
	default:
		return nil
	}

	end := start.AddDate(0, 0, days)
	return &end
}

// EffectiveStatus reads an ACTIVE membership past its end date as EXPIRED
func EffectiveStatus(m *models.Membership, now time.Time) models.MembershipStatus {
	if m == nil {
		return ""
	}
	if m.Status == models.MembershipStatusActive && m.EndDate != nil && m.EndDate.Before(now) {
		return models.MembershipStatusExpired
	}
	return m.Status
}

// isLive reports whether m still counts towards the holder's standing
func isLive(m *models.Membership, now time.Time) bool {
	switch EffectiveStatus(m, now) {
	case models.MembershipStatusActive, models.MembershipStatusPending:
		return true
	}
	return false
}

func tierName(m *models.Membership) string {
	if m != nil && m.Tier != nil && m.Tier.Name != "" {
		return m.Tier.Name
	}
	return "membership"
}

func dateLabel(t time.Time) string {
	return t.Format("2006-01-02")
}
