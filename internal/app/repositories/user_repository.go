package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var userColumns = []string{
	"id", "email", "password", "name", "image", "role", "status", "created_at", "updated_at",
}

// UserFilter narrows a user listing
type UserFilter struct {
	Role   models.Role
	Status models.UserStatus
	Search string // matched against name and email
}

// UserRepository handles user database operations
type UserRepository struct {
	base
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{base: newBase(pool)}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.Image,
		&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Create inserts a user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "name", "image", "role", "status", "created_at", "updated_at").
		Values(strings.ToLower(user.Email), user.Password, user.Name, user.Image, user.Role, user.Status, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.q(ctx).QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User with this email already exists")
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*models.User, error) {
	builder := r.sb.Select(userColumns...).From("users").Where(where).Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}, false)
}

// LockByID reads a user with a row lock held until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *UserRepository) LockByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true)
}

// UpdateStatus sets the verification status of a user
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	affected, err := r.exec(ctx, "update user status", r.sb.Update("users").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating user status")
		return err
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateImage replaces the avatar URL of a user
func (r *UserRepository) UpdateImage(ctx context.Context, id int64, image *string) error {
	_, err := r.exec(ctx, "update user image", r.sb.Update("users").
		Set("image", image).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}))
	return err
}

// UpdateName changes the display name of a user
func (r *UserRepository) UpdateName(ctx context.Context, id int64, name string) error {
	_, err := r.exec(ctx, "update user name", r.sb.Update("users").
		Set("name", name).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}))
	return err
}

// Delete removes a user. Profile, memberships, payments, attendance,
// notifications and refresh tokens go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete user", r.sb.Delete("users").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error deleting user")
		return err
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func applyUserFilter(builder squirrel.SelectBuilder, filter UserFilter) squirrel.SelectBuilder {
	if filter.Role != "" {
		builder = builder.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	return builder
}

// List returns one page of users matching filter, newest first, with the
// total number of matches
func (r *UserRepository) List(ctx context.Context, filter UserFilter, offset, limit uint64) ([]*models.User, int, error) {
	total, err := r.count(ctx, "count users", applyUserFilter(r.sb.Select("COUNT(*)").From("users"), filter))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := applyUserFilter(r.sb.Select(userColumns...).From("users"), filter).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}
