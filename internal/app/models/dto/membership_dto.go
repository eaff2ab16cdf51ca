package dto

import (
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
)

// CreateTierRequest represents a new catalogue tier
type CreateTierRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Type        string   `json:"type" binding:"required,membership_type"`
	Period      string   `json:"period" binding:"required,billing_period"`
	Amount      float64  `json:"amount" binding:"min=0"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits" binding:"omitempty,dive,required"`
}

// UpdateTierRequest is a partial tier update
type UpdateTierRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Type        *string  `json:"type" binding:"omitempty,membership_type"`
	Period      *string  `json:"period" binding:"omitempty,billing_period"`
	Amount      *float64 `json:"amount" binding:"omitempty,min=0"`
	Description *string  `json:"description"`
	Benefits    []string `json:"benefits" binding:"omitempty,dive,required"`
	IsActive    *bool    `json:"isActive"`
}

// MembershipApplicationRequest applies for a tier with manual payment proof
type MembershipApplicationRequest struct {
	TierID         int64  `json:"tierId" binding:"required,min=1"`
	PaymentMethod  string `json:"paymentMethod" binding:"required,payment_method"`
	TransactionID  string `json:"transactionId" binding:"required"`
	PaymentDetails string `json:"paymentDetails"`
	PaymentProof   string `json:"paymentProof" binding:"omitempty,url"`
}

// RenewMembershipRequest optionally switches tier on renewal
type RenewMembershipRequest struct {
	TierID int64 `json:"tierId" binding:"omitempty,min=1"`
}

// MembershipResponse is a membership with its effective status and tier
type MembershipResponse struct {
	ID             int64                   `json:"id"`
	TierID         int64                   `json:"tierId"`
	Status         models.MembershipStatus `json:"status"`
	StartDate      time.Time               `json:"startDate"`
	EndDate        *time.Time              `json:"endDate,omitempty"`
	Amount         float64                 `json:"amount"`
	PaymentMethod  models.PaymentMethod    `json:"paymentMethod"`
	TransactionID  string                  `json:"transactionId"`
	PaymentDetails *string                 `json:"paymentDetails,omitempty"`
	PaymentProof   *string                 `json:"paymentProof,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	Tier           *models.MembershipTier  `json:"tier,omitempty"`
}

// NewMembershipResponse converts a membership using an already-computed effective status
func NewMembershipResponse(m *models.Membership, effective models.MembershipStatus) *MembershipResponse {
	if m == nil {
		return nil
	}
	return &MembershipResponse{
		ID:             m.ID,
		TierID:         m.TierID,
		Status:         effective,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Amount:         m.Amount,
		PaymentMethod:  m.PaymentMethod,
		TransactionID:  m.TransactionID,
		PaymentDetails: m.PaymentDetails,
		PaymentProof:   m.PaymentProof,
		CreatedAt:      m.CreatedAt,
		Tier:           m.Tier,
	}
}
