package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// MembershipService runs the member-facing membership lifecycle
type MembershipService struct {
	tx             Transactor
	userRepo       UserStore
	profileRepo    ProfileStore
	tierRepo       TierStore
	membershipRepo MembershipStore
	notifier       *Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	tx Transactor,
	userRepo UserStore,
	profileRepo ProfileStore,
	tierRepo TierStore,
	membershipRepo MembershipStore,
	notifier *Notifier,
	logger zerolog.Logger,
) *MembershipService {
	return &MembershipService{
		tx:             tx,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		tierRepo:       tierRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// GetCurrent returns the current membership of userID, or nil
func (s *MembershipService) GetCurrent(ctx context.Context, userID int64) (*dto.MembershipResponse, error) {
	current, err := s.membershipRepo.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewMembershipResponse(current, workflow.EffectiveStatus(current, s.now())), nil
}

// Apply files a PENDING membership application for a tier
func (s *MembershipService) Apply(ctx context.Context, userID int64, req *dto.MembershipApplicationRequest) (*dto.MembershipResponse, error) {
	now := s.now()
	application := workflow.Application{
		Method:         models.PaymentMethod(req.PaymentMethod),
		TransactionID:  strings.TrimSpace(req.TransactionID),
		PaymentDetails: sanitize.OptionalText(&req.PaymentDetails),
		PaymentProof:   sanitize.OptionalText(&req.PaymentProof),
	}

	var out outbox
	var created models.Membership
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockByID(ctx, userID)
		if err != nil {
			return err
		}

		tier, err := s.tierRepo.GetByID(ctx, req.TierID)
		if err != nil {
			return err
		}

		current, err := s.membershipRepo.Current(ctx, userID)
		if err != nil {
			return err
		}

		plan, err := workflow.PlanMembershipApplication(user, current, tier, application, now)
		if err != nil {
			return err
		}

		created = plan.Membership
		if err := s.membershipRepo.Create(ctx, &created); err != nil {
			return err
		}
		if err := s.applyStanding(ctx, user, plan.UserStatus, &plan.MembershipType, plan.MembershipStatus); err != nil {
			return err
		}
		return s.notifier.Record(ctx, &out, userID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().
		Int64("userID", userID).
		Int64("membershipID", created.ID).
		Int64("tierID", created.TierID).
		Msg("Membership application submitted")
	return dto.NewMembershipResponse(&created, created.Status), nil
}

// Cancel cancels the caller's current membership. A membership owned by
// somebody else is reported as missing.
func (s *MembershipService) Cancel(ctx context.Context, userID, membershipID int64) (*dto.MembershipResponse, error) {
	now := s.now()

	var out outbox
	var cancelled *models.Membership
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockByID(ctx, userID)
		if err != nil {
			return err
		}

		m, err := s.membershipRepo.GetByID(ctx, membershipID)
		if err != nil {
			return err
		}
		if m.UserID != userID {
			return apperrors.NewCustomError(apperrors.ErrMembershipNotFound, "Membership not found")
		}

		current, err := s.membershipRepo.Current(ctx, userID)
		if err != nil {
			return err
		}

		plan, err := workflow.PlanCancel(user, m, current, now)
		if err != nil {
			return err
		}

		if err := s.membershipRepo.UpdateState(ctx, plan.MembershipID, models.MembershipStatusCancelled, nil, nil, false); err != nil {
			return err
		}
		if err := s.applyStanding(ctx, user, plan.UserStatus, &plan.MembershipType, plan.MembershipStatus); err != nil {
			return err
		}

		m.Status = models.MembershipStatusCancelled
		cancelled = m
		return s.notifier.Record(ctx, &out, userID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Int64("membershipID", membershipID).Msg("Membership cancelled")
	return dto.NewMembershipResponse(cancelled, cancelled.Status), nil
}

// Renew appends a new ACTIVE membership, optionally on a different tier
func (s *MembershipService) Renew(ctx context.Context, userID int64, req *dto.RenewMembershipRequest) (*dto.MembershipResponse, error) {
	now := s.now()

	var out outbox
	var renewed models.Membership
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockByID(ctx, userID)
		if err != nil {
			return err
		}

		current, err := s.membershipRepo.Current(ctx, userID)
		if err != nil {
			return err
		}

		var tier *models.MembershipTier
		if req != nil && req.TierID > 0 {
			if tier, err = s.tierRepo.GetByID(ctx, req.TierID); err != nil {
				return err
			}
		}

		plan, err := workflow.PlanRenewal(user, current, tier, now)
		if err != nil {
			return err
		}

		renewed = plan.Membership
		if err := s.membershipRepo.Create(ctx, &renewed); err != nil {
			return err
		}
		if err := s.applyStanding(ctx, user, plan.UserStatus, &plan.MembershipType, plan.MembershipStatus); err != nil {
			return err
		}
		return s.notifier.Record(ctx, &out, userID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Int64("membershipID", renewed.ID).Msg("Membership renewed")
	return dto.NewMembershipResponse(&renewed, renewed.Status), nil
}

// applyStanding writes the user status when it changed and mirrors the
// membership onto the profile
func (s *MembershipService) applyStanding(ctx context.Context, user *models.User, status models.UserStatus, membershipType *models.MembershipType, membershipStatus models.MembershipStatus) error {
	if status != user.Status {
		if err := s.userRepo.UpdateStatus(ctx, user.ID, status); err != nil {
			return err
		}
	}
	return s.profileRepo.UpdateMembership(ctx, user.ID, membershipType, membershipStatus)
}
