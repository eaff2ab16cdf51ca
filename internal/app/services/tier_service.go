package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// TierService manages the membership catalogue
type TierService struct {
	tierRepo TierStore
	logger   zerolog.Logger
}

// NewTierService creates a new TierService
func NewTierService(tierRepo TierStore, logger zerolog.Logger) *TierService {
	return &TierService{tierRepo: tierRepo, logger: logger}
}

// ListTiers returns the catalogue ordered by amount. Admins also see
// inactive tiers.
func (s *TierService) ListTiers(ctx context.Context, includeInactive bool) ([]*models.MembershipTier, error) {
	return s.tierRepo.List(ctx, !includeInactive)
}

// GetTier returns a single tier
func (s *TierService) GetTier(ctx context.Context, id int64) (*models.MembershipTier, error) {
	return s.tierRepo.GetByID(ctx, id)
}

// CreateTier adds an active tier to the catalogue
func (s *TierService) CreateTier(ctx context.Context, req *dto.CreateTierRequest) (*models.MembershipTier, error) {
	tier := &models.MembershipTier{
		Name:        sanitize.Text(req.Name),
		Type:        models.MembershipType(req.Type),
		Period:      models.BillingPeriod(req.Period),
		Amount:      req.Amount,
		Description: sanitize.OptionalText(&req.Description),
		Benefits:    sanitize.Lines(req.Benefits),
		IsActive:    true,
	}
	if err := s.tierRepo.Create(ctx, tier); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("tierID", tier.ID).Str("name", tier.Name).Msg("Membership tier created")
	return tier, nil
}

// UpdateTier applies a partial update
func (s *TierService) UpdateTier(ctx context.Context, id int64, req *dto.UpdateTierRequest) (*models.MembershipTier, error) {
	tier, err := s.tierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tier.Name = sanitize.Text(*req.Name)
	}
	if req.Type != nil {
		tier.Type = models.MembershipType(*req.Type)
	}
	if req.Period != nil {
		tier.Period = models.BillingPeriod(*req.Period)
	}
	if req.Amount != nil {
		tier.Amount = *req.Amount
	}
	if req.Description != nil {
		tier.Description = sanitize.OptionalText(req.Description)
	}
	if req.Benefits != nil {
		tier.Benefits = sanitize.Lines(req.Benefits)
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if err := s.tierRepo.Update(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// DeleteTier removes a tier that no membership references
func (s *TierService) DeleteTier(ctx context.Context, id int64) error {
	if err := s.tierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("tierID", id).Msg("Membership tier deleted")
	return nil
}
