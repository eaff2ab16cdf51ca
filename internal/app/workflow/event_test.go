package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func TestPlanJoin_FreeEvent(t *testing.T) {
	event := &models.Event{ID: 1, Title: "Reunion", Capacity: intPtr(2)}

	plan, err := PlanJoin(7, JoinState{Event: event, AttendeeCount: 1}, JoinPayment{})
	require.NoError(t, err)
	assert.Equal(t, JoinAttend, plan.Outcome)
	assert.Equal(t, models.PaymentStatusApproved, plan.Status())

	_, err = PlanJoin(7, JoinState{Event: event, AttendeeCount: 2}, JoinPayment{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEventFull))
	assert.Equal(t, "Event is full", err.Error())

	plan, err = PlanJoin(7, JoinState{Event: event, AttendeeCount: 2, AlreadyAttending: true}, JoinPayment{})
	require.NoError(t, err)
	assert.Equal(t, JoinNoop, plan.Outcome)

	unlimited := &models.Event{ID: 2}
	plan, err = PlanJoin(7, JoinState{Event: unlimited, AttendeeCount: 5000}, JoinPayment{})
	require.NoError(t, err)
	assert.Equal(t, JoinAttend, plan.Outcome)
}

func TestPlanJoin_MembershipRequired(t *testing.T) {
	donor := models.MembershipTypeDonor
	event := &models.Event{ID: 1, MembershipRequired: &donor}

	_, err := PlanJoin(7, JoinState{Event: event}, JoinPayment{})
	assert.True(t, errors.Is(err, apperrors.ErrMembershipRequired))

	_, err = PlanJoin(7, JoinState{Event: event, HasRequiredMembership: true}, JoinPayment{})
	assert.NoError(t, err)

	lifetime := membership(models.MembershipStatusActive, tier(models.MembershipTypeLifetimeDonor, models.BillingPeriodOneTime))
	assert.True(t, HasRequiredMembership(event, lifetime, now))
	general := membership(models.MembershipStatusActive, tier(models.MembershipTypeGeneral, models.BillingPeriodMonthly))
	assert.False(t, HasRequiredMembership(event, general, now))
	assert.False(t, HasRequiredMembership(event, nil, now))
	assert.True(t, HasRequiredMembership(&models.Event{}, nil, now))
}

func TestPlanJoin_PaidEvent(t *testing.T) {
	price := 250.0
	event := &models.Event{ID: 3, Title: "Gala Dinner", IsPaid: true, Price: &price, Capacity: intPtr(100)}

	_, err := PlanJoin(7, JoinState{Event: event}, JoinPayment{Method: models.PaymentMethodBank})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, "Payment information required", err.Error())

	payment := JoinPayment{Method: models.PaymentMethodNagad, TransactionID: "NG-9", Proof: "https://cdn.example.com/p.png"}
	plan, err := PlanJoin(7, JoinState{Event: event}, payment)
	require.NoError(t, err)
	assert.Equal(t, JoinAwaitPayment, plan.Outcome)
	assert.Equal(t, models.PaymentStatusPending, plan.Status())
	require.NotNil(t, plan.Payment)
	assert.Equal(t, 250.0, plan.Payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, plan.Payment.Status)
	require.NotNil(t, plan.Notice)
	assert.Equal(t, "New payment submitted for event: Gala Dinner", plan.Notice.Message)

	_, err = PlanJoin(7, JoinState{Event: event, HasPendingPayment: true}, payment)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestPlanPaymentDecision(t *testing.T) {
	pending := &models.EventPayment{ID: 5, Status: models.PaymentStatusPending}

	plan, err := PlanPaymentDecision(pending, models.PaymentDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, plan.Status)
	assert.True(t, plan.AddAttendee)
	assert.False(t, plan.RemoveAttendee)
	assert.Equal(t, "Payment Approved", plan.Notice.Title)

	plan, err = PlanPaymentDecision(pending, models.PaymentDecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, plan.Status)
	assert.True(t, plan.RemoveAttendee)

	for _, status := range []models.PaymentStatus{models.PaymentStatusApproved, models.PaymentStatusRejected} {
		_, err := PlanPaymentDecision(&models.EventPayment{Status: status}, models.PaymentDecisionApprove)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	}
}

func TestPlanLeave(t *testing.T) {
	assert.NoError(t, PlanLeave(false))
	assert.True(t, errors.Is(PlanLeave(true), apperrors.ErrInvalidTransition))
}

func TestPlanJoin_RejectedPayment(t *testing.T) {
	price := 250.0
	paid := &models.Event{ID: 3, Title: "Gala Dinner", IsPaid: true, Price: &price}
	proof := JoinPayment{Method: models.PaymentMethodBank, TransactionID: "TX-9", Proof: "https://cdn.example.com/p.png"}

	_, err := PlanJoin(7, JoinState{Event: paid, HasRejectedPayment: true}, proof)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))

	_, err = PlanJoin(7, JoinState{Event: &models.Event{ID: 4}, HasRejectedPayment: true}, JoinPayment{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}
