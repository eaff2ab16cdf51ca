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
)

// AlbumRepository handles album database operations
type AlbumRepository struct {
	base
}

// NewAlbumRepository creates a new AlbumRepository
func NewAlbumRepository(pool *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{base: newBase(pool)}
}

func albumNotFound() error {
	return apperrors.NewResourceNotFoundError("Album not found")
}

func (r *AlbumRepository) selectWithCount() squirrel.SelectBuilder {
	return r.sb.Select("a.id", "a.title", "a.description", "a.created_at", "a.updated_at").
		Column("(SELECT COUNT(*) FROM gallery_items g WHERE g.album_id = a.id) AS image_count").
		From("albums a")
}

func scanAlbum(row pgx.Row) (*models.Album, error) {
	a := &models.Album{}
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt, &a.UpdatedAt, &a.ImageCount)
	return a, err
}

// Create inserts an album
func (r *AlbumRepository) Create(ctx context.Context, a *models.Album) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("albums").
		Columns("title", "description", "created_at", "updated_at").
		Values(a.Title, a.Description, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create album query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("error creating album: %w", err)
	}
	return nil
}

// GetByID retrieves an album with its image count
func (r *AlbumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	sql, args, err := r.selectWithCount().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get album query: %w", err)
	}

	a, err := scanAlbum(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, albumNotFound()
		}
		return nil, fmt.Errorf("error retrieving album: %w", err)
	}
	return a, nil
}

// List returns all albums, newest first
func (r *AlbumRepository) List(ctx context.Context) ([]*models.Album, error) {
	sql, args, err := r.selectWithCount().OrderBy("a.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list albums query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing albums: %w", err)
	}
	defer rows.Close()

	albums := []*models.Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning album: %w", err)
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// Update replaces album metadata
func (r *AlbumRepository) Update(ctx context.Context, a *models.Album) error {
	a.UpdatedAt = time.Now()
	affected, err := r.exec(ctx, "update album", r.sb.Update("albums").
		Set("title", a.Title).
		Set("description", a.Description).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return albumNotFound()
	}
	return nil
}

// Delete removes an album; its images stay in the gallery without an album
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete album", r.sb.Delete("albums").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return albumNotFound()
	}
	return nil
}
