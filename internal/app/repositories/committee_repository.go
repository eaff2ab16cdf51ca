package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// CommitteeMemberRepository handles committee listing database operations
type CommitteeMemberRepository struct {
	base
}

// NewCommitteeMemberRepository creates a new CommitteeMemberRepository
func NewCommitteeMemberRepository(pool *pgxpool.Pool) *CommitteeMemberRepository {
	return &CommitteeMemberRepository{base: newBase(pool)}
}

func committeeMemberNotFound() error {
	return apperrors.NewResourceNotFoundError("Committee member not found")
}

// Create inserts a committee member
func (r *CommitteeMemberRepository) Create(ctx context.Context, m *models.CommitteeMember) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("committee_members").
		Columns("name", "designation", "image", "sort_order", "created_at", "updated_at").
		Values(m.Name, m.Designation, m.Image, m.Order, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create committee member query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("error creating committee member: %w", err)
	}
	return nil
}

// List returns the committee by display order
func (r *CommitteeMemberRepository) List(ctx context.Context) ([]*models.CommitteeMember, error) {
	sql, args, err := r.sb.Select("id", "name", "designation", "image", "sort_order", "created_at", "updated_at").
		From("committee_members").
		OrderBy("sort_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list committee query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing committee members: %w", err)
	}
	defer rows.Close()

	members := []*models.CommitteeMember{}
	for rows.Next() {
		m := &models.CommitteeMember{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Designation, &m.Image, &m.Order, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning committee member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Update replaces a committee entry
func (r *CommitteeMemberRepository) Update(ctx context.Context, m *models.CommitteeMember) error {
	m.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("committee_members").
		Set("name", m.Name).
		Set("designation", m.Designation).
		Set("image", m.Image).
		Set("sort_order", m.Order).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update committee member query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&m.CreatedAt); err != nil {
		if isNoRows(err) {
			return committeeMemberNotFound()
		}
		return fmt.Errorf("error updating committee member: %w", err)
	}
	return nil
}

// Delete removes a committee entry
func (r *CommitteeMemberRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete committee member", r.sb.Delete("committee_members").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return committeeMemberNotFound()
	}
	return nil
}
