package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// ProfileService manages the caller's own profile
type ProfileService struct {
	tx             Transactor
	userRepo       UserStore
	profileRepo    ProfileStore
	membershipRepo MembershipStore
	notifier       *Notifier
	logger         zerolog.Logger
	now            func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	tx Transactor,
	userRepo UserStore,
	profileRepo ProfileStore,
	membershipRepo MembershipStore,
	notifier *Notifier,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		tx:             tx,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// GetProfile returns the account, profile and current membership of userID
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	current, err := s.membershipRepo.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User:       dto.NewUserResponse(user),
		Profile:    profile,
		Membership: dto.NewMembershipResponse(current, workflow.EffectiveStatus(current, s.now())),
	}, nil
}

// SubmitProfile creates or replaces the profile of userID and moves the
// account into review or payment
func (s *ProfileService) SubmitProfile(ctx context.Context, userID int64, req *dto.ProfileRequest) (*dto.ProfileResponse, error) {
	now := s.now()
	var out outbox

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.LockByID(ctx, userID)
		if err != nil {
			return err
		}

		current, err := s.membershipRepo.Current(ctx, userID)
		if err != nil {
			return err
		}

		plan := workflow.PlanProfileSubmission(user, current, now)

		profile := profileFromRequest(req)
		profile.UserID = userID
		profile.MembershipType = plan.MembershipType
		profile.MembershipStatus = plan.MembershipStatus
		if err := s.profileRepo.Upsert(ctx, profile); err != nil {
			return err
		}

		if name := sanitize.Text(req.Name); name != "" && name != user.Name {
			if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
				return err
			}
		}
		if profile.Photo != nil {
			if err := s.userRepo.UpdateImage(ctx, userID, profile.Photo); err != nil {
				return err
			}
		}

		if plan.UserStatus != user.Status {
			if err := s.userRepo.UpdateStatus(ctx, userID, plan.UserStatus); err != nil {
				return err
			}
		}

		return s.notifier.Record(ctx, &out, userID, plan.Notice)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", userID).Msg("Profile submitted")
	return s.GetProfile(ctx, userID)
}

func profileFromRequest(req *dto.ProfileRequest) *models.Profile {
	return &models.Profile{
		FatherName:       sanitize.Text(req.FatherName),
		MotherName:       sanitize.Text(req.MotherName),
		PresentAddress:   sanitize.Text(req.PresentAddress),
		PermanentAddress: sanitize.Text(req.PermanentAddress),
		MobileNumber:     sanitize.Text(req.MobileNumber),
		Birthday:         req.Birthday,
		Nationality:      sanitize.Text(req.Nationality),
		Religion:         sanitize.OptionalText(&req.Religion),
		SSCRegNumber:     sanitize.Text(req.SSCRegNumber),
		SSCRollNumber:    sanitize.Text(req.SSCRollNumber),
		PassingYear:      req.PassingYear,
		Occupation:       sanitize.Text(req.Occupation),
		EmployerName:     sanitize.OptionalText(&req.EmployerName),
		Designation:      sanitize.OptionalText(&req.Designation),
		EmployerAddress:  sanitize.OptionalText(&req.EmployerAddress),
		Reference:        sanitize.OptionalText(&req.Reference),
		Signature:        sanitize.OptionalText(&req.Signature),
		Photo:            sanitize.OptionalText(&req.Photo),
		SocialLinks: models.SocialLinks{
			Facebook:  req.SocialLinks.Facebook,
			LinkedIn:  req.SocialLinks.LinkedIn,
			Twitter:   req.SocialLinks.Twitter,
			Instagram: req.SocialLinks.Instagram,
		},
	}
}
