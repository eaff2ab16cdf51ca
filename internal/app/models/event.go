package models

import "time"

// Event is a scheduled gathering with an attendee set
type Event struct {
	ID                 int64           `json:"id" db:"id"`
	Title              string          `json:"title" db:"title"`
	Description        string          `json:"description" db:"description"`
	Date               time.Time       `json:"date" db:"date"`
	Location           string          `json:"location" db:"location"`
	Image              *string         `json:"image,omitempty" db:"image"`
	Capacity           *int            `json:"capacity,omitempty" db:"capacity"` // nil means unlimited
	IsPaid             bool            `json:"isPaid" db:"is_paid"`
	Price              *float64        `json:"price,omitempty" db:"price"`
	MembershipRequired *MembershipType `json:"membershipRequired,omitempty" db:"membership_required"`
	OrganizerID        *int64          `json:"organizerId,omitempty" db:"organizer_id"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time       `json:"updatedAt" db:"updated_at"`
	AttendeeCount      int             `json:"attendeeCount"` // Computed, no db tag
	OrganizerName      string          `json:"organizerName,omitempty"`
}

// Fee returns the price charged for a paid event
func (e *Event) Fee() float64 {
	if e.Price == nil {
		return 0
	}
	return *e.Price
}

// IsFull reports whether count attendees exhaust the capacity
func (e *Event) IsFull(count int) bool {
	return e.Capacity != nil && count >= *e.Capacity
}

// EventPayment is a manual payment submitted to join a paid event
type EventPayment struct {
	ID            int64         `json:"id" db:"id"`
	EventID       int64         `json:"eventId" db:"event_id"`
	UserID        int64         `json:"userId" db:"user_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	TransactionID string        `json:"transactionId" db:"transaction_id"`
	PaymentProof  string        `json:"paymentProof" db:"payment_proof"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	EventTitle    string        `json:"eventTitle,omitempty"` // Relation, no db tag
	UserName      string        `json:"userName,omitempty"`   // Relation, no db tag
	UserEmail     string        `json:"userEmail,omitempty"`  // Relation, no db tag
}
