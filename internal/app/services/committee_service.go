package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// CommitteeService manages the committee listing
type CommitteeService struct {
	committeeRepo CommitteeStore
	logger        zerolog.Logger
}

// NewCommitteeService creates a new CommitteeService
func NewCommitteeService(committeeRepo CommitteeStore, logger zerolog.Logger) *CommitteeService {
	return &CommitteeService{committeeRepo: committeeRepo, logger: logger}
}

// List returns committee members in display order
func (s *CommitteeService) List(ctx context.Context) ([]*models.CommitteeMember, error) {
	return s.committeeRepo.List(ctx)
}

// Create adds a committee member
func (s *CommitteeService) Create(ctx context.Context, req *dto.CommitteeMemberRequest) (*models.CommitteeMember, error) {
	member := committeeMemberFromRequest(req)
	if err := s.committeeRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Update replaces a committee member
func (s *CommitteeService) Update(ctx context.Context, id int64, req *dto.CommitteeMemberRequest) (*models.CommitteeMember, error) {
	member := committeeMemberFromRequest(req)
	member.ID = id
	if err := s.committeeRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a committee member
func (s *CommitteeService) Delete(ctx context.Context, id int64) error {
	return s.committeeRepo.Delete(ctx, id)
}

func committeeMemberFromRequest(req *dto.CommitteeMemberRequest) *models.CommitteeMember {
	return &models.CommitteeMember{
		Name:        sanitize.Text(req.Name),
		Designation: sanitize.Text(req.Designation),
		Image:       sanitize.OptionalText(&req.Image),
		Order:       req.Order,
	}
}
