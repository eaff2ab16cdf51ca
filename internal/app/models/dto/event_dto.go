package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// CreateEventRequest represents a new event
type CreateEventRequest struct {
	Title              string    `json:"title" binding:"required,max=200"`
	Description        string    `json:"description" binding:"required"`
	Date               time.Time `json:"date" binding:"required"`
	Location           string    `json:"location" binding:"required"`
	Image              string    `json:"image" binding:"omitempty,url"`
	Capacity           *int      `json:"capacity" binding:"omitempty,min=1"`
	IsPaid             bool      `json:"isPaid"`
	Price              *float64  `json:"price" binding:"omitempty,min=0"`
	MembershipRequired string    `json:"membershipRequired" binding:"omitempty,membership_type"`
}

// UpdateEventRequest is a partial event update
type UpdateEventRequest struct {
	Title              *string    `json:"title" binding:"omitempty,max=200"`
	Description        *string    `json:"description"`
	Date               *time.Time `json:"date"`
	Location           *string    `json:"location"`
	Image              *string    `json:"image" binding:"omitempty,url"`
	Capacity           *int       `json:"capacity" binding:"omitempty,min=0"` // 0 clears the limit
	IsPaid             *bool      `json:"isPaid"`
	Price              *float64   `json:"price" binding:"omitempty,min=0"`
	MembershipRequired *string    `json:"membershipRequired" binding:"omitempty,oneof=NONE GENERAL DONOR LIFETIME_DONOR"`
}

// EventListQuery filters the event list
type EventListQuery struct {
	Filter string `form:"filter" binding:"omitempty,oneof=upcoming past"`
	UserID int64  `form:"userId" binding:"omitempty,min=1"`
}

// JoinEventRequest carries payment information; only paid events require it
type JoinEventRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,payment_method"`
	TransactionID string `json:"transactionId"`
	PaymentProof  string `json:"paymentProof" binding:"omitempty,url"`
}

// JoinEventResponse reports the outcome of a join
type JoinEventResponse struct {
	Status    models.PaymentStatus `json:"status"`
	PaymentID *int64               `json:"paymentId,omitempty"`
}

// AttendeeResponse is a registered participant
type AttendeeResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// EventDetailResponse is an event with attendees and the caller's payments
type EventDetailResponse struct {
	models.Event
	Attendees  []AttendeeResponse    `json:"attendees"`
	IsAttendee bool                  `json:"isAttendee"`
	Payments   []models.EventPayment `json:"payments,omitempty"`
}

// PaymentListQuery filters the admin payment list
type PaymentListQuery struct {
	EventID int64  `form:"eventId" binding:"omitempty,min=1"`
	Status  string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}
