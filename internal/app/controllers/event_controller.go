package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// EventController handles events, attendance and event payments
type EventController struct {
	eventService *services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{eventService: eventService, logger: logger}
}

// ListEvents lists events
// @Summary List events
// @Tags events
// @Produce json
// @Param filter query string false "upcoming or past" Enums(upcoming, past)
// @Param userId query int false "Only events this user attends"
// @Success 200 {object} dto.APIResponse{data=[]models.Event} "Events"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var query dto.EventListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	events, err := c.eventService.ListEvents(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, events)
}

// GetEvent returns an event with its attendees. Signed-in callers also
// see whether they attend and their own payments.
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var viewerID int64
	if principal, ok := middleware.CurrentPrincipal(ctx); ok {
		viewerID = principal.UserID
	}

	event, err := c.eventService.GetEvent(ctx.Request.Context(), id, viewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, event)
}

// CreateEvent creates an event organised by the caller
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), principal.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	respondCreated(ctx, event)
}

// UpdateEvent partially updates an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [patch]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, event)
}

// DeleteEvent removes an event
// @Summary Delete event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("eventID", id).Msg("Event deleted")
	respondMessage(ctx, "Event deleted")
}

// JoinEvent registers the caller for an event. Paid events record a
// PENDING payment instead and require payment details in the body.
// @Summary Join event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.JoinEventRequest false "Payment details, paid events only"
// @Success 200 {object} dto.APIResponse{data=dto.JoinEventResponse} "APPROVED when registered, PENDING when awaiting payment review"
// @Failure 400 {object} dto.ErrorResponse "Event full or payment details missing"
// @Failure 403 {object} dto.ErrorResponse "Membership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Payment already pending"
// @Router /events/{id}/join [post]
func (c *EventController) JoinEvent(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.JoinEventRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	resp, err := c.eventService.JoinEvent(ctx.Request.Context(), principal.UserID, eventID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", principal.UserID).Int64("eventID", eventID).Msg("Join event failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// LeaveEvent removes the caller from an event's attendees
// @Summary Leave event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Left"
// @Failure 400 {object} dto.ErrorResponse "Paid registration cannot be withdrawn"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/join [delete]
func (c *EventController) LeaveEvent(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.LeaveEvent(ctx.Request.Context(), principal.UserID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Left event")
}

// ListPayments lists event payments for review
// @Summary List event payments
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventId query int false "Event ID"
// @Param status query string false "Payment status" Enums(PENDING, APPROVED, REJECTED)
// @Success 200 {object} dto.APIResponse{data=[]models.EventPayment} "Payments"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /events/payments [get]
func (c *EventController) ListPayments(ctx *gin.Context) {
	var query dto.PaymentListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	payments, err := c.eventService.ListPayments(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, payments)
}

// ApprovePayment approves a PENDING payment and registers its payer
// @Summary Approve event payment
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param paymentId path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=models.EventPayment} "Approved"
// @Failure 400 {object} dto.ErrorResponse "Payment already decided"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event or payment not found"
// @Router /events/{id}/payments/{paymentId}/approve [post]
func (c *EventController) ApprovePayment(ctx *gin.Context) {
	c.decide(ctx, models.PaymentDecisionApprove)
}

// RejectPayment rejects a PENDING payment
// @Summary Reject event payment
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param paymentId path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=models.EventPayment} "Rejected"
// @Failure 400 {object} dto.ErrorResponse "Payment already decided"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event or payment not found"
// @Router /events/{id}/payments/{paymentId}/reject [post]
func (c *EventController) RejectPayment(ctx *gin.Context) {
	c.decide(ctx, models.PaymentDecisionReject)
}

func (c *EventController) decide(ctx *gin.Context, decision models.PaymentDecision) {
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(ctx, "paymentId")
	if !ok {
		return
	}

	payment, err := c.eventService.DecidePayment(ctx.Request.Context(), eventID, paymentID, decision)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("eventID", eventID).
		Int64("paymentID", paymentID).
		Str("decision", string(decision)).
		Msg("Event payment decided")
	respondOK(ctx, payment)
}
