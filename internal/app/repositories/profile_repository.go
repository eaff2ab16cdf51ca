package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var profileColumns = []string{
	"id", "user_id", "father_name", "mother_name", "present_address", "permanent_address",
	"mobile_number", "birthday", "nationality", "religion", "ssc_reg_number", "ssc_roll_number",
	"passing_year", "occupation", "employer_name", "designation", "employer_address", "reference",
	"signature", "photo", "social_links", "membership_type", "membership_status", "created_at", "updated_at",
}

// ProfileRepository handles alumni profile database operations
type ProfileRepository struct {
	base
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{base: newBase(pool)}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.FatherName, &p.MotherName, &p.PresentAddress, &p.PermanentAddress,
		&p.MobileNumber, &p.Birthday, &p.Nationality, &p.Religion, &p.SSCRegNumber, &p.SSCRollNumber,
		&p.PassingYear, &p.Occupation, &p.EmployerName, &p.Designation, &p.EmployerAddress, &p.Reference,
		&p.Signature, &p.Photo, &p.SocialLinks, &p.MembershipType, &p.MembershipStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetByUserID retrieves the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Profile not found")
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return profile, nil
}

// ListByUserIDs loads the profiles of several users keyed by user ID.
// Users without a profile are absent from the map.
func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	result := make(map[int64]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		result[profile.UserID] = profile
	}
	return result, rows.Err()
}

// Upsert creates the profile of profile.UserID or replaces every field of
// the existing one
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("profiles").
		Columns(
			"user_id", "father_name", "mother_name", "present_address", "permanent_address",
			"mobile_number", "birthday", "nationality", "religion", "ssc_reg_number", "ssc_roll_number",
			"passing_year", "occupation", "employer_name", "designation", "employer_address", "reference",
			"signature", "photo", "social_links", "membership_type", "membership_status", "created_at", "updated_at",
		).
		Values(
			p.UserID, p.FatherName, p.MotherName, p.PresentAddress, p.PermanentAddress,
			p.MobileNumber, p.Birthday, p.Nationality, p.Religion, p.SSCRegNumber, p.SSCRollNumber,
			p.PassingYear, p.Occupation, p.EmployerName, p.Designation, p.EmployerAddress, p.Reference,
			p.Signature, p.Photo, p.SocialLinks, p.MembershipType, p.MembershipStatus, now, now,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			father_name = EXCLUDED.father_name,
			mother_name = EXCLUDED.mother_name,
			present_address = EXCLUDED.present_address,
			permanent_address = EXCLUDED.permanent_address,
			mobile_number = EXCLUDED.mobile_number,
			birthday = EXCLUDED.birthday,
			nationality = EXCLUDED.nationality,
			religion = EXCLUDED.religion,
			ssc_reg_number = EXCLUDED.ssc_reg_number,
			ssc_roll_number = EXCLUDED.ssc_roll_number,
			passing_year = EXCLUDED.passing_year,
			occupation = EXCLUDED.occupation,
			employer_name = EXCLUDED.employer_name,
			designation = EXCLUDED.designation,
			employer_address = EXCLUDED.employer_address,
			reference = EXCLUDED.reference,
			signature = EXCLUDED.signature,
			photo = EXCLUDED.photo,
			social_links = EXCLUDED.social_links,
			membership_type = EXCLUDED.membership_type,
			membership_status = EXCLUDED.membership_status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert profile SQL")
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error upserting profile")
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}

// UpdateMembership mirrors the membership type and status onto the profile.
// A nil membershipType leaves the stored type unchanged. Users without a
// profile are skipped.
func (r *ProfileRepository) UpdateMembership(ctx context.Context, userID int64, membershipType *models.MembershipType, status models.MembershipStatus) error {
	builder := r.sb.Update("profiles").
		Set("membership_status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID})
	if membershipType != nil {
		builder = builder.Set("membership_type", *membershipType)
	}

	if _, err := r.exec(ctx, "update profile membership", builder); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating profile membership")
		return err
	}
	return nil
}
