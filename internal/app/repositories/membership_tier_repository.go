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
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var tierColumns = []string{
	"id", "name", "type", "period", "amount", "description", "benefits", "is_active", "created_at", "updated_at",
}

// MembershipTierRepository handles membership catalogue operations
type MembershipTierRepository struct {
	base
}

// NewMembershipTierRepository creates a new MembershipTierRepository
func NewMembershipTierRepository(pool *pgxpool.Pool) *MembershipTierRepository {
	return &MembershipTierRepository{base: newBase(pool)}
}

func scanTier(row pgx.Row) (*models.MembershipTier, error) {
	t := &models.MembershipTier{}
	err := row.Scan(&t.ID, &t.Name, &t.Type, &t.Period, &t.Amount, &t.Description,
		&t.Benefits, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if t.Benefits == nil {
		t.Benefits = []string{}
	}
	return t, err
}

// Create inserts a tier
func (r *MembershipTierRepository) Create(ctx context.Context, tier *models.MembershipTier) error {
	now := time.Now()
	benefits := tier.Benefits
	if benefits == nil {
		benefits = []string{}
	}

	sql, args, err := r.sb.Insert("membership_tiers").
		Columns("name", "type", "period", "amount", "description", "benefits", "is_active", "created_at", "updated_at").
		Values(tier.Name, tier.Type, tier.Period, tier.Amount, tier.Description, benefits, tier.IsActive, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create tier query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&tier.ID, &tier.CreatedAt, &tier.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("name", tier.Name).Msg("Error creating membership tier")
		return fmt.Errorf("error creating membership tier: %w", err)
	}
	tier.Benefits = benefits
	return nil
}

// GetByID retrieves a tier
func (r *MembershipTierRepository) GetByID(ctx context.Context, id int64) (*models.MembershipTier, error) {
	sql, args, err := r.sb.Select(tierColumns...).
		From("membership_tiers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tier query: %w", err)
	}

	tier, err := scanTier(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
		}
		return nil, fmt.Errorf("error retrieving membership tier: %w", err)
	}
	return tier, nil
}

// List returns the catalogue ordered by price. activeOnly hides retired tiers.
func (r *MembershipTierRepository) List(ctx context.Context, activeOnly bool) ([]*models.MembershipTier, error) {
	builder := r.sb.Select(tierColumns...).From("membership_tiers").OrderBy("amount ASC", "id ASC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tiers query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing membership tiers: %w", err)
	}
	defer rows.Close()

	tiers := []*models.MembershipTier{}
	for rows.Next() {
		tier, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning membership tier: %w", err)
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}

// Update writes every mutable field of tier
func (r *MembershipTierRepository) Update(ctx context.Context, tier *models.MembershipTier) error {
	tier.UpdatedAt = time.Now()
	affected, err := r.exec(ctx, "update tier", r.sb.Update("membership_tiers").
		Set("name", tier.Name).
		Set("type", tier.Type).
		Set("period", tier.Period).
		Set("amount", tier.Amount).
		Set("description", tier.Description).
		Set("benefits", tier.Benefits).
		Set("is_active", tier.IsActive).
		Set("updated_at", tier.UpdatedAt).
		Where(squirrel.Eq{"id": tier.ID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
	}
	return nil
}

// Delete removes a tier that no membership references
func (r *MembershipTierRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete tier", r.sb.Delete("membership_tiers").Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewConflictError("Membership tier is in use; deactivate it instead")
		}
		return err
	}
	if affected == 0 {
		return apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
	}
	return nil
}
