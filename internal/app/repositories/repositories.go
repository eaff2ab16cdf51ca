package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository            *UserRepository
	ProfileRepository         *ProfileRepository
	TokenRepository           *TokenRepository
	MembershipTierRepository  *MembershipTierRepository
	MembershipRepository      *MembershipRepository
	EventRepository           *EventRepository
	EventPaymentRepository    *EventPaymentRepository
	NotificationRepository    *NotificationRepository
	GalleryRepository         *GalleryRepository
	AlbumRepository           *AlbumRepository
	CommitteeMemberRepository *CommitteeMemberRepository
	PaymentInfoRepository     *PaymentInfoRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:            NewUserRepository(pool),
		ProfileRepository:         NewProfileRepository(pool),
		TokenRepository:           NewTokenRepository(pool),
		MembershipTierRepository:  NewMembershipTierRepository(pool),
		MembershipRepository:      NewMembershipRepository(pool),
		EventRepository:           NewEventRepository(pool),
		EventPaymentRepository:    NewEventPaymentRepository(pool),
		NotificationRepository:    NewNotificationRepository(pool),
		GalleryRepository:         NewGalleryRepository(pool),
		AlbumRepository:           NewAlbumRepository(pool),
		CommitteeMemberRepository: NewCommitteeMemberRepository(pool),
		PaymentInfoRepository:     NewPaymentInfoRepository(pool),
	}
}

// base carries the pool and the dollar-placeholder statement builder shared
// by every repository. Queries run on the transaction in ctx when present.
type base struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

func newBase(pool *pgxpool.Pool) base {
	return base{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (b base) q(ctx context.Context) db.Querier {
	return db.Executor(ctx, b.pool)
}

// exec builds and runs a write, returning the number of affected rows
func (b base) exec(ctx context.Context, op string, builder squirrel.Sqlizer) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return 0, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := b.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error executing %s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

// count runs a SELECT COUNT(*) builder
func (b base) count(ctx context.Context, op string, builder squirrel.SelectBuilder) (int, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	var total int
	if err := b.q(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error executing %s: %w", op, err)
	}
	return total, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
