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

var membershipColumns = []string{
	"m.id", "m.user_id", "m.tier_id", "m.status", "m.start_date", "m.end_date", "m.amount",
	"m.payment_method", "m.transaction_id", "m.payment_details", "m.payment_proof", "m.created_at", "m.updated_at",
	"t.id", "t.name", "t.type", "t.period", "t.amount", "t.description", "t.benefits", "t.is_active",
	"t.created_at", "t.updated_at",
}

// MembershipRepository handles membership database operations. Rows are
// append-only history; the most recent row per user is the current one.
type MembershipRepository struct {
	base
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{base: newBase(pool)}
}

func scanMembership(row pgx.Row) (*models.Membership, error) {
	m := &models.Membership{Tier: &models.MembershipTier{}}
	t := m.Tier
	err := row.Scan(
		&m.ID, &m.UserID, &m.TierID, &m.Status, &m.StartDate, &m.EndDate, &m.Amount,
		&m.PaymentMethod, &m.TransactionID, &m.PaymentDetails, &m.PaymentProof, &m.CreatedAt, &m.UpdatedAt,
		&t.ID, &t.Name, &t.Type, &t.Period, &t.Amount, &t.Description, &t.Benefits, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return m, err
}

func (r *MembershipRepository) selectWithTier() squirrel.SelectBuilder {
	return r.sb.Select(membershipColumns...).
		From("memberships m").
		Join("membership_tiers t ON t.id = m.tier_id")
}

func (r *MembershipRepository) queryOne(ctx context.Context, builder squirrel.SelectBuilder) (*models.Membership, error) {
	sql, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build membership query: %w", err)
	}

	m, err := scanMembership(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving membership: %w", err)
	}
	return m, nil
}

// Create inserts a membership row
func (r *MembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("memberships").
		Columns("user_id", "tier_id", "status", "start_date", "end_date", "amount", "payment_method",
			"transaction_id", "payment_details", "payment_proof", "created_at", "updated_at").
		Values(m.UserID, m.TierID, m.Status, m.StartDate, m.EndDate, m.Amount, m.PaymentMethod,
			m.TransactionID, m.PaymentDetails, m.PaymentProof, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create membership query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", m.UserID).Msg("Error creating membership")
		return fmt.Errorf("error creating membership: %w", err)
	}
	return nil
}

// GetByID retrieves a membership with its tier
func (r *MembershipRepository) GetByID(ctx context.Context, id int64) (*models.Membership, error) {
	m, err := r.queryOne(ctx, r.selectWithTier().Where(squirrel.Eq{"m.id": id}))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrMembershipNotFound, "Membership not found")
	}
	return m, nil
}

// Current returns the most recent membership of a user, or nil when the
// user never applied
func (r *MembershipRepository) Current(ctx context.Context, userID int64) (*models.Membership, error) {
	return r.queryOne(ctx, r.selectWithTier().
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("m.created_at DESC", "m.id DESC"))
}

// LatestPending returns the most recent PENDING membership of a user, or nil
func (r *MembershipRepository) LatestPending(ctx context.Context, userID int64) (*models.Membership, error) {
	return r.queryOne(ctx, r.selectWithTier().
		Where(squirrel.Eq{"m.user_id": userID, "m.status": models.MembershipStatusPending}).
		OrderBy("m.created_at DESC", "m.id DESC"))
}

// CurrentByUserIDs loads the current membership of several users at once
func (r *MembershipRepository) CurrentByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Membership, error) {
	result := make(map[int64]*models.Membership, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select(membershipColumns...).
		Options("DISTINCT ON (m.user_id)").
		From("memberships m").
		Join("membership_tiers t ON t.id = m.tier_id").
		Where(squirrel.Eq{"m.user_id": userIDs}).
		OrderBy("m.user_id", "m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build current memberships query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing current memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning membership row: %w", err)
		}
		result[m.UserID] = m
	}
	return result, rows.Err()
}

// UpdateState sets the status of a membership. When resetDates is true the
// start and end dates are replaced as well; a nil end clears it.
func (r *MembershipRepository) UpdateState(ctx context.Context, id int64, status models.MembershipStatus, start *time.Time, end *time.Time, resetDates bool) error {
	builder := r.sb.Update("memberships").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	if resetDates {
		if start != nil {
			builder = builder.Set("start_date", *start)
		}
		builder = builder.Set("end_date", end)
	}

	affected, err := r.exec(ctx, "update membership", builder)
	if err != nil {
		logger.Error().Err(err).Int64("membershipID", id).Msg("Error updating membership")
		return err
	}
	if affected == 0 {
		return apperrors.NewCustomError(apperrors.ErrMembershipNotFound, "Membership not found")
	}
	return nil
}

// CancelPending cancels every PENDING membership of a user
func (r *MembershipRepository) CancelPending(ctx context.Context, userID int64) (int64, error) {
	return r.exec(ctx, "cancel pending memberships", r.sb.Update("memberships").
		Set("status", models.MembershipStatusCancelled).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "status": models.MembershipStatusPending}))
}
