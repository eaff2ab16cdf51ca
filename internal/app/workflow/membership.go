package workflow

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// Application is the payment evidence attached to a membership application
type Application struct {
	Method         models.PaymentMethod
	TransactionID  string
	PaymentDetails *string
	PaymentProof   *string
}

// ApplicationPlan is the outcome of a user applying for a tier
type ApplicationPlan struct {
	Membership       models.Membership
	UserStatus       models.UserStatus
	MembershipType   models.MembershipType
	MembershipStatus models.MembershipStatus
	Notice           Notice
}

// PlanMembershipApplication creates a PENDING membership at the tier amount
func PlanMembershipApplication(user *models.User, current *models.Membership, tier *models.MembershipTier, app Application, now time.Time) (ApplicationPlan, error) {
	if tier == nil || !tier.IsActive {
		return ApplicationPlan{}, apperrors.NewBadRequestError("Membership tier is not available")
	}
	if EffectiveStatus(current, now) == models.MembershipStatusPending {
		return ApplicationPlan{}, apperrors.NewTransitionError("A membership application is already under review")
	}

	plan := ApplicationPlan{
		Membership: models.Membership{
			UserID:         user.ID,
			TierID:         tier.ID,
			Status:         models.MembershipStatusPending,
			StartDate:      now,
			Amount:         tier.Amount,
			PaymentMethod:  app.Method,
			TransactionID:  app.TransactionID,
			PaymentDetails: app.PaymentDetails,
			PaymentProof:   app.PaymentProof,
			Tier:           tier,
		},
		UserStatus:       user.Status,
		MembershipType:   tier.Type,
		MembershipStatus: models.MembershipStatusPending,
		Notice: Notice{
			Type:    models.NotificationTypeMembership,
			Title:   "Membership Application Submitted",
			Message: "Your membership application is under review.",
		},
	}

	if user.Status == models.UserStatusPaymentPending {
		plan.UserStatus = models.UserStatusInProgress
	}
	if EffectiveStatus(current, now) == models.MembershipStatusActive {
		plan.MembershipStatus = models.MembershipStatusActive
	}

	return plan, nil
}

// CancelPlan is the outcome of a user cancelling their current membership
type CancelPlan struct {
	MembershipID     int64
	UserStatus       models.UserStatus
	MembershipType   models.MembershipType
	MembershipStatus models.MembershipStatus
	Notice           Notice
}

// PlanCancel cancels m, which must be the holder's current membership and be
// PENDING or ACTIVE.
func PlanCancel(user *models.User, m, current *models.Membership, now time.Time) (CancelPlan, error) {
	if current == nil || current.ID != m.ID {
		return CancelPlan{}, apperrors.NewTransitionError("Only the current membership can be cancelled")
	}
	if !isLive(m, now) {
		return CancelPlan{}, apperrors.NewTransitionError("Only pending or active memberships can be cancelled")
	}

	plan := CancelPlan{
		MembershipID:     m.ID,
		UserStatus:       models.UserStatusPaymentPending,
		MembershipType:   models.MembershipTypeGeneral,
		MembershipStatus: models.MembershipStatusCancelled,
		Notice: Notice{
			Type:    models.NotificationTypeMembership,
			Title:   "Membership Cancelled",
			Message: "Your membership has been cancelled.",
		},
	}
	if user.Status == models.UserStatusRejected {
		plan.UserStatus = models.UserStatusRejected
	}

	return plan, nil
}

// RenewalPlan is the outcome of renewing a membership. Renewal always appends
// a new row; the previous row is left untouched.
type RenewalPlan struct {
	Membership       models.Membership
	UserStatus       models.UserStatus
	MembershipType   models.MembershipType
	MembershipStatus models.MembershipStatus
	Notice           Notice
}

// PlanRenewal renews onto tier, which defaults to the tier of current
func PlanRenewal(user *models.User, current *models.Membership, tier *models.MembershipTier, now time.Time) (RenewalPlan, error) {
	if current == nil {
		return RenewalPlan{}, apperrors.NewBadRequestError("No previous membership found")
	}
	if tier == nil {
		tier = current.Tier
	}
	if tier == nil || !tier.IsActive {
		return RenewalPlan{}, apperrors.NewBadRequestError("Membership tier is not available")
	}

	switch EffectiveStatus(current, now) {
	case models.MembershipStatusPending:
		return RenewalPlan{}, apperrors.NewTransitionError("Membership application is still pending review")
	case models.MembershipStatusActive:
		if current.Tier != nil && current.Tier.IsLifetime() {
			return RenewalPlan{}, apperrors.NewTransitionError("Lifetime memberships do not need renewal")
		}
	}

	end := PeriodEnd(tier, now)
	message := "Your " + tier.Name + " membership has been renewed."
	if end != nil {
		message = "Your " + tier.Name + " membership has been renewed and will be valid until " + dateLabel(*end) + "."
	}

	plan := RenewalPlan{
		Membership: models.Membership{
			UserID:        current.UserID,
			TierID:        tier.ID,
			Status:        models.MembershipStatusActive,
			StartDate:     now,
			EndDate:       end,
			Amount:        tier.Amount,
			PaymentMethod: current.PaymentMethod,
			Tier:          tier,
		},
		UserStatus:       user.Status,
		MembershipType:   tier.Type,
		MembershipStatus: models.MembershipStatusActive,
		Notice: Notice{
			Type:    models.NotificationTypeMembership,
			Title:   "Membership Renewed",
			Message: message,
		},
	}
	if user.Status == models.UserStatusPaymentPending {
		plan.UserStatus = models.UserStatusInProgress
	}

	return plan, nil
}

// AdminActionPlan is the outcome of a back-office membership override
type AdminActionPlan struct {
	MembershipID     *int64
	MembershipStatus models.MembershipStatus
	StartDate        *time.Time
	EndDate          *time.Time
	ResetDates       bool
	Notice           Notice
}

// ParseAdminAction validates the raw action name
func ParseAdminAction(raw string) (models.AdminAction, error) {
	switch action := models.AdminAction(raw); action {
	case models.AdminActionActivate, models.AdminActionCancel, models.AdminActionPending:
		return action, nil
	}
	return "", apperrors.NewValidationError("action", "Invalid action")
}

// PlanAdminMembershipAction applies action to the latest membership. Dates are
// only recomputed on ACTIVATE. Without any membership only the profile and
// notification are written.
func PlanAdminMembershipAction(action models.AdminAction, latest *models.Membership, now time.Time) (AdminActionPlan, error) {
	var plan AdminActionPlan

	switch action {
	case models.AdminActionActivate:
		plan.MembershipStatus = models.MembershipStatusActive
		plan.Notice.Message = "Your membership has been activated by an administrator."
	case models.AdminActionCancel:
		plan.MembershipStatus = models.MembershipStatusCancelled
		plan.Notice.Message = "Your membership has been cancelled by an administrator."
	case models.AdminActionPending:
		plan.MembershipStatus = models.MembershipStatusPending
		plan.Notice.Message = "Your membership has been set to pending by an administrator."
	default:
		return AdminActionPlan{}, apperrors.NewValidationError("action", "Invalid action")
	}
	plan.Notice.Type = models.NotificationTypeMembership
	plan.Notice.Title = "Membership Status Update"

	if latest != nil {
		id := latest.ID
		plan.MembershipID = &id
		if action == models.AdminActionActivate {
			start := now
			plan.StartDate = &start
			plan.EndDate = PeriodEnd(latest.Tier, now)
			plan.ResetDates = true
		}
	}

	return plan, nil
}
