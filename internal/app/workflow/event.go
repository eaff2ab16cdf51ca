package workflow

import (
	"strings"
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// JoinPayment is the payment evidence submitted to join a paid event
type JoinPayment struct {
	Method        models.PaymentMethod
	TransactionID string
	Proof         string
}

// JoinState is what the caller knows about the event and the joining user,
// read while holding the event row lock.
type JoinState struct {
	Event                 *models.Event
	AttendeeCount         int
	AlreadyAttending      bool
	HasRequiredMembership bool
	HasPendingPayment     bool
	// HasRejectedPayment is set when an earlier payment for this event was
	// rejected; the user stays out of the attendee set until an admin steps in.
	HasRejectedPayment bool
}

// JoinOutcome tells the service which write to perform
type JoinOutcome int

const (
	// JoinNoop means the user already attends
	JoinNoop JoinOutcome = iota
	// JoinAttend inserts the user into the attendee set
	JoinAttend
	// JoinAwaitPayment records a PENDING payment for admin review
	JoinAwaitPayment
)

// JoinPlan is the outcome of a join request
type JoinPlan struct {
	Outcome JoinOutcome
	Payment *models.EventPayment
	Notice  *Notice
}

// Status is the status reported back to the caller
func (p JoinPlan) Status() models.PaymentStatus {
	if p.Outcome == JoinAwaitPayment {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusApproved
}

// PlanJoin decides how userID joins the event described by state
func PlanJoin(userID int64, state JoinState, payment JoinPayment) (JoinPlan, error) {
	event := state.Event
	if state.AlreadyAttending {
		return JoinPlan{Outcome: JoinNoop}, nil
	}
	if state.HasRejectedPayment {
		return JoinPlan{}, apperrors.NewTransitionError("Your payment for this event was rejected, please contact an administrator")
	}
	if event.IsFull(state.AttendeeCount) {
		return JoinPlan{}, apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full").
			WithDetails(map[string]interface{}{"capacity": *event.Capacity})
	}
	if event.MembershipRequired != nil && !state.HasRequiredMembership {
		return JoinPlan{}, apperrors.NewCustomError(apperrors.ErrMembershipRequired, "Membership required")
	}

	if !event.IsPaid {
		return JoinPlan{Outcome: JoinAttend}, nil
	}

	if state.HasPendingPayment {
		return JoinPlan{}, apperrors.NewConflictError("A payment for this event is already under review")
	}
	if payment.Method == "" || strings.TrimSpace(payment.TransactionID) == "" || strings.TrimSpace(payment.Proof) == "" {
		return JoinPlan{}, apperrors.NewValidationError("payment", "Payment information required")
	}

	return JoinPlan{
		Outcome: JoinAwaitPayment,
		Payment: &models.EventPayment{
			EventID:       event.ID,
			UserID:        userID,
			Amount:        event.Fee(),
			Status:        models.PaymentStatusPending,
			PaymentMethod: payment.Method,
			TransactionID: strings.TrimSpace(payment.TransactionID),
			PaymentProof:  strings.TrimSpace(payment.Proof),
		},
		Notice: &Notice{
			Type:    models.NotificationTypeEvent,
			Title:   "New Event Payment",
			Message: "New payment submitted for event: " + event.Title,
		},
	}, nil
}

// PlanLeave refuses to withdraw a registration that an approved payment backs
func PlanLeave(hasApprovedPayment bool) error {
	if hasApprovedPayment {
		return apperrors.NewTransitionError("Paid registrations cannot be withdrawn, please contact an administrator")
	}
	return nil
}

// PaymentDecisionPlan is the outcome of an admin reviewing an event payment
type PaymentDecisionPlan struct {
	Status         models.PaymentStatus
	AddAttendee    bool
	RemoveAttendee bool
	Notice         Notice
}

// PlanPaymentDecision approves or rejects a PENDING payment. Both outcomes are terminal.
func PlanPaymentDecision(p *models.EventPayment, decision models.PaymentDecision) (PaymentDecisionPlan, error) {
	if p.Status != models.PaymentStatusPending {
		return PaymentDecisionPlan{}, apperrors.NewTransitionError("Payment has already been reviewed")
	}

	switch decision {
	case models.PaymentDecisionApprove:
		return PaymentDecisionPlan{
			Status:      models.PaymentStatusApproved,
			AddAttendee: true,
			Notice: Notice{
				Type:    models.NotificationTypeEvent,
				Title:   "Payment Approved",
				Message: "Your event payment has been approved. You are now registered for the event.",
			},
		}, nil
	case models.PaymentDecisionReject:
		return PaymentDecisionPlan{
			Status:         models.PaymentStatusRejected,
			RemoveAttendee: true,
			Notice: Notice{
				Type:    models.NotificationTypeEvent,
				Title:   "Payment Rejected",
				Message: "Your event payment has been rejected. Please contact support for more information.",
			},
		}, nil
	}

	return PaymentDecisionPlan{}, apperrors.NewBadRequestError("Unknown payment decision")
}

// HasRequiredMembership reports whether an active membership satisfies the
// event requirement. Lifetime donors satisfy every requirement.
func HasRequiredMembership(event *models.Event, m *models.Membership, now time.Time) bool {
	if event.MembershipRequired == nil {
		return true
	}
	if m == nil || m.Tier == nil || EffectiveStatus(m, now) != models.MembershipStatusActive {
		return false
	}
	return m.Tier.Type == *event.MembershipRequired || m.Tier.Type == models.MembershipTypeLifetimeDonor
}
