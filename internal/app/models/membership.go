package models

import "time"

// MembershipTier is an admin-managed plan in the membership catalogue
type MembershipTier struct {
	ID          int64          `json:"id" db:"id" example:"1"`
	Name        string         `json:"name" db:"name" example:"General Member"`
	Type        MembershipType `json:"type" db:"type" example:"GENERAL"`
	Period      BillingPeriod  `json:"period" db:"period" example:"MONTHLY"`
	Amount      float64        `json:"amount" db:"amount" example:"500"`
	Description *string        `json:"description,omitempty" db:"description"`
	Benefits    []string       `json:"benefits" db:"benefits"`
	IsActive    bool           `json:"isActive" db:"is_active"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsLifetime reports whether memberships on this tier never receive an end date
func (t *MembershipTier) IsLifetime() bool {
	return t.Type == MembershipTypeLifetimeDonor || t.Period == BillingPeriodOneTime
}

// Membership is one application or renewal of a tier by a user. Historical
// rows are retained; the most recent by created_at is the current one.
type Membership struct {
	ID             int64            `json:"id" db:"id"`
	UserID         int64            `json:"userId" db:"user_id"`
	TierID         int64            `json:"tierId" db:"tier_id"`
	Status         MembershipStatus `json:"status" db:"status"`
	StartDate      time.Time        `json:"startDate" db:"start_date"`
	EndDate        *time.Time       `json:"endDate,omitempty" db:"end_date"`
	Amount         float64          `json:"amount" db:"amount"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod" db:"payment_method"`
	TransactionID  string           `json:"transactionId" db:"transaction_id"`
	PaymentDetails *string          `json:"paymentDetails,omitempty" db:"payment_details"`
	PaymentProof   *string          `json:"paymentProof,omitempty" db:"payment_proof"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
	Tier           *MembershipTier  `json:"tier,omitempty"` // Relation, no db tag
}
