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
)

var galleryColumns = []string{"id", "title", "category", "image", "sort_order", "album_id", "created_at", "updated_at"}

// GalleryFilter narrows the gallery listing
type GalleryFilter struct {
	AlbumID int64
	Limit   uint64
}

// GalleryRepository handles gallery item database operations
type GalleryRepository struct {
	base
}

// NewGalleryRepository creates a new GalleryRepository
func NewGalleryRepository(pool *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{base: newBase(pool)}
}

func scanGalleryItem(row pgx.Row) (*models.GalleryItem, error) {
	g := &models.GalleryItem{}
	err := row.Scan(&g.ID, &g.Title, &g.Category, &g.Image, &g.Order, &g.AlbumID, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func unknownAlbum(err error) error {
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewBadRequestError("Album does not exist")
	}
	return err
}

// Create inserts a gallery item
func (r *GalleryRepository) Create(ctx context.Context, g *models.GalleryItem) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("gallery_items").
		Columns("title", "category", "image", "sort_order", "album_id", "created_at", "updated_at").
		Values(g.Title, g.Category, g.Image, g.Order, g.AlbumID, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create gallery item query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return unknownAlbum(fmt.Errorf("error creating gallery item: %w", err))
	}
	return nil
}

// GetByID retrieves a gallery item
func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*models.GalleryItem, error) {
	sql, args, err := r.sb.Select(galleryColumns...).From("gallery_items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get gallery item query: %w", err)
	}

	g, err := scanGalleryItem(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("Gallery item not found")
		}
		return nil, fmt.Errorf("error retrieving gallery item: %w", err)
	}
	return g, nil
}

// List returns gallery items by display order
func (r *GalleryRepository) List(ctx context.Context, filter GalleryFilter) ([]*models.GalleryItem, error) {
	builder := r.sb.Select(galleryColumns...).From("gallery_items").OrderBy("sort_order ASC", "created_at DESC")
	if filter.AlbumID > 0 {
		builder = builder.Where(squirrel.Eq{"album_id": filter.AlbumID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list gallery query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing gallery items: %w", err)
	}
	defer rows.Close()

	items := []*models.GalleryItem{}
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning gallery item: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// Update writes every mutable field of g
func (r *GalleryRepository) Update(ctx context.Context, g *models.GalleryItem) error {
	g.UpdatedAt = time.Now()
	affected, err := r.exec(ctx, "update gallery item", r.sb.Update("gallery_items").
		Set("title", g.Title).
		Set("category", g.Category).
		Set("image", g.Image).
		Set("sort_order", g.Order).
		Set("album_id", g.AlbumID).
		Set("updated_at", g.UpdatedAt).
		Where(squirrel.Eq{"id": g.ID}))
	if err != nil {
		return unknownAlbum(err)
	}
	if affected == 0 {
		return apperrors.NewResourceNotFoundError("Gallery item not found")
	}
	return nil
}

// Delete removes a gallery item
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete gallery item", r.sb.Delete("gallery_items").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewResourceNotFoundError("Gallery item not found")
	}
	return nil
}
