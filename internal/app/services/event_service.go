package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// EventService manages events, attendance and event payments
type EventService struct {
	tx             Transactor
	eventRepo      EventStore
	paymentRepo    EventPaymentStore
	membershipRepo MembershipStore
	notifier       *Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	tx Transactor,
	eventRepo EventStore,
	paymentRepo EventPaymentStore,
	membershipRepo MembershipStore,
	notifier *Notifier,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		tx:             tx,
		eventRepo:      eventRepo,
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// ListEvents returns the events in the requested window
func (s *EventService) ListEvents(ctx context.Context, query dto.EventListQuery) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, repositories.EventFilter{
		Window:     query.Filter,
		AttendeeID: query.UserID,
		Now:        s.now(),
	})
}

// GetEvent returns an event with its attendees. When viewerID is set the
// response also tells whether the viewer attends and lists their payments.
func (s *EventService) GetEvent(ctx context.Context, id, viewerID int64) (*dto.EventDetailResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attendees, err := s.eventRepo.ListAttendees(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.EventDetailResponse{
		Event:     *event,
		Attendees: make([]dto.AttendeeResponse, 0, len(attendees)),
	}
	for _, a := range attendees {
		resp.Attendees = append(resp.Attendees, dto.AttendeeResponse{ID: a.ID, Name: a.Name, Image: a.Image})
		if a.ID == viewerID {
			resp.IsAttendee = true
		}
	}

	if viewerID > 0 {
		payments, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{EventID: id, UserID: viewerID})
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			resp.Payments = append(resp.Payments, *p)
		}
	}

	return resp, nil
}

// CreateEvent publishes a new event organised by organizerID
func (s *EventService) CreateEvent(ctx context.Context, organizerID int64, req *dto.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Text(req.Description),
		Date:        req.Date,
		Location:    sanitize.Text(req.Location),
		Image:       sanitize.OptionalText(&req.Image),
		Capacity:    req.Capacity,
		IsPaid:      req.IsPaid,
		Price:       req.Price,
		OrganizerID: &organizerID,
	}
	if req.MembershipRequired != "" {
		required := models.MembershipType(req.MembershipRequired)
		event.MembershipRequired = &required
	}

	if err := checkPricing(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	return event, nil
}

// UpdateEvent applies a partial update. A capacity of 0 removes the limit
// and a membership requirement of NONE clears it.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = sanitize.Text(*req.Title)
	}
	if req.Description != nil {
		event.Description = sanitize.Text(*req.Description)
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Location != nil {
		event.Location = sanitize.Text(*req.Location)
	}
	if req.Image != nil {
		event.Image = sanitize.OptionalText(req.Image)
	}
	if req.Capacity != nil {
		if *req.Capacity == 0 {
			event.Capacity = nil
		} else {
			capacity := *req.Capacity
			event.Capacity = &capacity
		}
	}
	if req.IsPaid != nil {
		event.IsPaid = *req.IsPaid
	}
	if req.Price != nil {
		price := *req.Price
		event.Price = &price
	}
	if req.MembershipRequired != nil {
		if *req.MembershipRequired == "NONE" {
			event.MembershipRequired = nil
		} else {
			required := models.MembershipType(*req.MembershipRequired)
			event.MembershipRequired = &required
		}
	}

	if err := checkPricing(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event with its attendance and payments
func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", id).Msg("Event deleted")
	return nil
}

func checkPricing(e *models.Event) error {
	if e.IsPaid && (e.Price == nil || *e.Price <= 0) {
		return apperrors.NewValidationError("price", "Price is required for paid events")
	}
	return nil
}

// JoinEvent registers userID for an event. Free events add the attendee at
// once; paid events record a PENDING payment for review.
func (s *EventService) JoinEvent(ctx context.Context, userID, eventID int64, req *dto.JoinEventRequest) (*dto.JoinEventResponse, error) {
	now := s.now()
	payment := workflow.JoinPayment{
		Method:        models.PaymentMethod(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Proof:         strings.TrimSpace(req.PaymentProof),
	}

	var out outbox
	var plan workflow.JoinPlan
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.LockByID(ctx, eventID)
		if err != nil {
			return err
		}

		state := workflow.JoinState{Event: event}
		if state.AttendeeCount, err = s.eventRepo.CountAttendees(ctx, eventID); err != nil {
			return err
		}
		if state.AlreadyAttending, err = s.eventRepo.IsAttendee(ctx, eventID, userID); err != nil {
			return err
		}
		if state.HasRejectedPayment, err = s.paymentRepo.HasStatus(ctx, eventID, userID, models.PaymentStatusRejected); err != nil {
			return err
		}
		if event.MembershipRequired != nil {
			current, err := s.membershipRepo.Current(ctx, userID)
			if err != nil {
				return err
			}
			state.HasRequiredMembership = workflow.HasRequiredMembership(event, current, now)
		}
		if event.IsPaid {
			if state.HasPendingPayment, err = s.paymentRepo.HasStatus(ctx, eventID, userID, models.PaymentStatusPending); err != nil {
				return err
			}
		}

		plan, err = workflow.PlanJoin(userID, state, payment)
		if err != nil {
			return err
		}

		switch plan.Outcome {
		case workflow.JoinAttend:
			if err := s.eventRepo.AddAttendee(ctx, eventID, userID); err != nil {
				return err
			}
		case workflow.JoinAwaitPayment:
			if err := s.paymentRepo.Create(ctx, plan.Payment); err != nil {
				return err
			}
		}

		if plan.Notice != nil {
			return s.notifier.Record(ctx, &out, userID, *plan.Notice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	resp := &dto.JoinEventResponse{Status: plan.Status()}
	if plan.Payment != nil {
		id := plan.Payment.ID
		resp.PaymentID = &id
	}

	s.logger.Info().
		Int64("userID", userID).
		Int64("eventID", eventID).
		Str("status", string(resp.Status)).
		Msg("Event join processed")
	return resp, nil
}

// LeaveEvent withdraws userID from an event. Leaving an event the user does
// not attend is a no-op.
func (s *EventService) LeaveEvent(ctx context.Context, userID, eventID int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.eventRepo.LockByID(ctx, eventID); err != nil {
			return err
		}

		approved, err := s.paymentRepo.HasStatus(ctx, eventID, userID, models.PaymentStatusApproved)
		if err != nil {
			return err
		}
		if err := workflow.PlanLeave(approved); err != nil {
			return err
		}

		return s.eventRepo.RemoveAttendee(ctx, eventID, userID)
	})
}

// ListPayments returns event payments for review, newest first
func (s *EventService) ListPayments(ctx context.Context, query dto.PaymentListQuery) ([]*models.EventPayment, error) {
	return s.paymentRepo.List(ctx, repositories.PaymentFilter{
		EventID: query.EventID,
		Status:  models.PaymentStatus(query.Status),
	})
}

// DecidePayment approves or rejects a PENDING payment of an event and
// updates the attendee set to match
func (s *EventService) DecidePayment(ctx context.Context, eventID, paymentID int64, decision models.PaymentDecision) (*models.EventPayment, error) {
	var out outbox
	var payment *models.EventPayment
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.LockByID(ctx, eventID)
		if err != nil {
			return err
		}

		payment, err = s.paymentRepo.LockForEvent(ctx, eventID, paymentID)
		if err != nil {
			return err
		}

		plan, err := workflow.PlanPaymentDecision(payment, decision)
		if err != nil {
			return err
		}

		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, plan.Status); err != nil {
			return err
		}
		payment.Status = plan.Status

		switch {
		case plan.AddAttendee:
			if err := s.eventRepo.AddAttendee(ctx, eventID, payment.UserID); err != nil {
				return err
			}
			count, err := s.eventRepo.CountAttendees(ctx, eventID)
			if err != nil {
				return err
			}
			if event.Capacity != nil && count > *event.Capacity {
				s.logger.Warn().
					Int64("eventID", eventID).
					Int("capacity", *event.Capacity).
					Int("attendees", count).
					Msg("Approved payment pushed attendance over capacity")
			}
		case plan.RemoveAttendee:
			if err := s.eventRepo.RemoveAttendee(ctx, eventID, payment.UserID); err != nil {
				return err
			}
		}

		return s.notifier.Record(ctx, &out, payment.UserID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().
		Int64("eventID", eventID).
		Int64("paymentID", paymentID).
		Str("status", string(payment.Status)).
		Msg("Event payment reviewed")
	return payment, nil
}
