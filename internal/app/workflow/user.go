package workflow

import (
	"strings"
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// ProfileSubmissionPlan is the outcome of a user submitting or editing a profile
type ProfileSubmissionPlan struct {
	UserStatus       models.UserStatus
	MembershipType   models.MembershipType
	MembershipStatus models.MembershipStatus
	Notice           Notice
}

// PlanProfileSubmission moves the submitter into review when a live membership
// backs the profile, and into PAYMENT_PENDING otherwise. A verified user keeps
// their status; a rejected user re-enters review.
func PlanProfileSubmission(user *models.User, current *models.Membership, now time.Time) ProfileSubmissionPlan {
	plan := ProfileSubmissionPlan{
		MembershipType:   models.MembershipTypeGeneral,
		MembershipStatus: models.MembershipStatusPending,
	}
	if current != nil {
		plan.MembershipStatus = EffectiveStatus(current, now)
	}

	live := isLive(current, now)
	if live && current.Tier != nil {
		plan.MembershipType = current.Tier.Type
	}

	switch {
	case user.Status == models.UserStatusVerified:
		plan.UserStatus = models.UserStatusVerified
		plan.Notice = Notice{
			Type:    models.NotificationTypeSystem,
			Title:   "Profile Updated",
			Message: "Your profile has been updated.",
		}
	case live:
		plan.UserStatus = models.UserStatusInProgress
		plan.Notice = Notice{
			Type:    models.NotificationTypeSystem,
			Title:   "Profile Updated",
			Message: "Your profile has been updated and is pending review.",
		}
	default:
		plan.UserStatus = models.UserStatusPaymentPending
		plan.Notice = Notice{
			Type:    models.NotificationTypeSystem,
			Title:   "Payment Required",
			Message: "Please complete your membership payment to proceed.",
		}
	}

	return plan
}

// VerifyPlan is the outcome of an admin verifying a user
type VerifyPlan struct {
	UserStatus           models.UserStatus
	ActivateMembershipID *int64
	StartDate            time.Time
	EndDate              *time.Time
	MembershipStatus     models.MembershipStatus
	Notices              []Notice
}

// PlanVerify verifies user and activates the pending membership, if any.
// pending must carry its Tier when non-nil.
func PlanVerify(user *models.User, pending *models.Membership, now time.Time) (VerifyPlan, error) {
	switch user.Status {
	case models.UserStatusPending, models.UserStatusInProgress, models.UserStatusPaymentPending:
	case models.UserStatusVerified:
		return VerifyPlan{}, apperrors.NewTransitionError("User is already verified")
	default:
		return VerifyPlan{}, apperrors.NewTransitionError("Rejected users must resubmit their profile before verification")
	}

	plan := VerifyPlan{
		UserStatus:       models.UserStatusVerified,
		MembershipStatus: models.MembershipStatusPending,
		Notices: []Notice{{
			Type:    models.NotificationTypeSystem,
			Title:   "Account Verified",
			Message: "Your account has been verified. You now have full access to all features.",
		}},
	}

	if pending != nil && pending.Status == models.MembershipStatusPending {
		id := pending.ID
		plan.ActivateMembershipID = &id
		plan.StartDate = now
		plan.EndDate = PeriodEnd(pending.Tier, now)
		plan.MembershipStatus = models.MembershipStatusActive
		plan.Notices = append(plan.Notices, Notice{
			Type:    models.NotificationTypeMembership,
			Title:   "Membership Activated",
			Message: "Your " + tierName(pending) + " membership is now active.",
		})
	}

	return plan, nil
}

// RejectPlan is the outcome of an admin rejecting a user
type RejectPlan struct {
	UserStatus       models.UserStatus
	Reason           string
	MembershipStatus models.MembershipStatus
	Notice           Notice
}

// PlanReject rejects user with a mandatory reason. All pending memberships of
// the user are cancelled by the caller.
func PlanReject(user *models.User, reason string) (RejectPlan, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return RejectPlan{}, apperrors.NewValidationError("reason", "Rejection reason is required")
	}
	if user.Status == models.UserStatusRejected {
		return RejectPlan{}, apperrors.NewTransitionError("User is already rejected")
	}

	return RejectPlan{
		UserStatus:       models.UserStatusRejected,
		Reason:           reason,
		MembershipStatus: models.MembershipStatusCancelled,
		Notice: Notice{
			Type:    models.NotificationTypeSystem,
			Title:   "Profile Rejected",
			Message: "Your profile has been rejected. Reason: " + reason,
		},
	}, nil
}
