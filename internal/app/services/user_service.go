package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// UserService handles back-office user administration and the alumni directory
type UserService struct {
	tx             Transactor
	userRepo       UserStore
	profileRepo    ProfileStore
	membershipRepo MembershipStore
	notifier       *Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(
	tx Transactor,
	userRepo UserStore,
	profileRepo ProfileStore,
	membershipRepo MembershipStore,
	notifier *Notifier,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		tx:             tx,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// ListUsers returns a page of users with their profile and current membership
func (s *UserService) ListUsers(ctx context.Context, query dto.UserListQuery, page, size int) (*dto.AdminUserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Status: models.UserStatus(query.Status),
		Search: query.Search,
	}, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	profiles, err := s.profileRepo.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	memberships, err := s.membershipRepo.CurrentByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.AdminUserListResponse{
		Users:      make([]dto.AdminUserResponse, 0, len(users)),
		Pagination: helpers.NewPaginationInfo(int64(total), page, size),
	}
	for _, u := range users {
		item := dto.AdminUserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
			Profile:   profiles[u.ID],
		}
		if p := profiles[u.ID]; p != nil {
			item.MembershipType = p.MembershipType
			item.MembershipStatus = p.MembershipStatus
		}
		if m := memberships[u.ID]; m != nil {
			effective := workflow.EffectiveStatus(m, now)
			item.Membership = dto.NewMembershipResponse(m, effective)
			item.MembershipStatus = effective
		}
		resp.Users = append(resp.Users, item)
	}

	return resp, nil
}

// VerifyUser grants full access and activates the pending membership, if any
func (s *UserService) VerifyUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	now := s.now()

	var out outbox
	var user *models.User
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if user, err = s.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}

		pending, err := s.membershipRepo.LatestPending(ctx, userID)
		if err != nil {
			return err
		}

		plan, err := workflow.PlanVerify(user, pending, now)
		if err != nil {
			return err
		}

		if err := s.userRepo.UpdateStatus(ctx, userID, plan.UserStatus); err != nil {
			return err
		}

		var membershipType *models.MembershipType
		if plan.ActivateMembershipID != nil {
			start := plan.StartDate
			if err := s.membershipRepo.UpdateState(ctx, *plan.ActivateMembershipID, models.MembershipStatusActive, &start, plan.EndDate, true); err != nil {
				return err
			}
			if pending.Tier != nil {
				membershipType = &pending.Tier.Type
			}
		}
		if err := s.profileRepo.UpdateMembership(ctx, userID, membershipType, plan.MembershipStatus); err != nil {
			return err
		}

		for _, notice := range plan.Notices {
			if err := s.notifier.Record(ctx, &out, userID, notice); err != nil {
				return err
			}
		}
		s.notifier.QueueMail(&out, user, plan.Notices[0])

		user.Status = plan.UserStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Msg("User verified")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// RejectUser rejects a user with a mandatory reason and cancels every
// pending membership application
func (s *UserService) RejectUser(ctx context.Context, userID int64, reason string) (*dto.UserResponse, error) {
	reason = sanitize.Text(reason)

	var out outbox
	var user *models.User
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if user, err = s.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}

		plan, err := workflow.PlanReject(user, reason)
		if err != nil {
			return err
		}

		if err := s.userRepo.UpdateStatus(ctx, userID, plan.UserStatus); err != nil {
			return err
		}
		cancelled, err := s.membershipRepo.CancelPending(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.profileRepo.UpdateMembership(ctx, userID, nil, plan.MembershipStatus); err != nil {
			return err
		}
		if err := s.notifier.Record(ctx, &out, userID, plan.Notice); err != nil {
			return err
		}
		s.notifier.QueueMail(&out, user, plan.Notice)

		s.logger.Debug().Int64("userID", userID).Int64("cancelled", cancelled).Msg("Pending memberships cancelled")
		user.Status = plan.UserStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Msg("User rejected")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateMembership applies a back-office override to the latest membership
// of a user
func (s *UserService) UpdateMembership(ctx context.Context, userID int64, rawAction string) (*dto.MembershipResponse, error) {
	action, err := workflow.ParseAdminAction(rawAction)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var out outbox
	var latest *models.Membership
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}

		if latest, err = s.membershipRepo.Current(ctx, userID); err != nil {
			return err
		}

		plan, err := workflow.PlanAdminMembershipAction(action, latest, now)
		if err != nil {
			return err
		}

		if plan.MembershipID != nil {
			if err := s.membershipRepo.UpdateState(ctx, *plan.MembershipID, plan.MembershipStatus, plan.StartDate, plan.EndDate, plan.ResetDates); err != nil {
				return err
			}
			latest.Status = plan.MembershipStatus
			if plan.ResetDates {
				latest.StartDate = *plan.StartDate
				latest.EndDate = plan.EndDate
			}
		}
		if err := s.profileRepo.UpdateMembership(ctx, userID, nil, plan.MembershipStatus); err != nil {
			return err
		}
		return s.notifier.Record(ctx, &out, userID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Str("action", string(action)).Msg("Membership updated by administrator")
	return dto.NewMembershipResponse(latest, workflow.EffectiveStatus(latest, now)), nil
}

// DeleteUser removes a user and everything attached to it. Administrators
// cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return apperrors.NewBadRequestError("You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", userID).Int64("actorID", actorID).Msg("User deleted")
	return nil
}

// ListAlumni returns a page of the verified alumni directory
func (s *UserService) ListAlumni(ctx context.Context, search string, page, size int) (*dto.AlumniListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Role:   models.RoleAlumni,
		Status: models.UserStatusVerified,
		Search: search,
	}, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	profiles, err := s.profileRepo.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.AlumniListResponse{
		Alumni:     make([]dto.AlumniResponse, 0, len(users)),
		Pagination: helpers.NewPaginationInfo(int64(total), page, size),
	}
	for _, u := range users {
		u.Profile = profiles[u.ID]
		resp.Alumni = append(resp.Alumni, dto.NewAlumniResponse(u))
	}
	return resp, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}
