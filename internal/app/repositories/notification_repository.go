package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// NotificationFeedSize is the number of notifications returned in a feed
const NotificationFeedSize = 10

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	base
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{base: newBase(pool)}
}

// Create appends a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "title", "message", "type", "read", "created_at").
		Values(n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&n.ID); err != nil {
		logger.Error().Err(err).Int64("userID", n.UserID).Msg("Error creating notification")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListRecent returns the newest notifications of a user
func (r *NotificationRepository) ListRecent(ctx context.Context, userID int64, limit uint64) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "user_id", "title", "message", "type", "read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead sets the read flag of a notification owned by userID. Someone
// else's notification is reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	affected, err := r.exec(ctx, "mark notification read", r.sb.Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewResourceNotFoundError("Notification not found")
	}
	return nil
}
