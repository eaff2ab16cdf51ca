package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// GalleryService manages gallery photos and albums
type GalleryService struct {
	galleryRepo GalleryStore
	albumRepo   AlbumStore
	logger      zerolog.Logger
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(galleryRepo GalleryStore, albumRepo AlbumStore, logger zerolog.Logger) *GalleryService {
	return &GalleryService{galleryRepo: galleryRepo, albumRepo: albumRepo, logger: logger}
}

// ListItems returns the public gallery
func (s *GalleryService) ListItems(ctx context.Context, query dto.GalleryQuery) ([]*models.GalleryItem, error) {
	return s.galleryRepo.List(ctx, repositories.GalleryFilter{AlbumID: query.AlbumID, Limit: uint64(query.Limit)})
}

// CreateItem publishes a photo
func (s *GalleryService) CreateItem(ctx context.Context, req *dto.GalleryItemRequest) (*models.GalleryItem, error) {
	item := &models.GalleryItem{
		Title:    sanitize.Text(req.Title),
		Category: sanitize.Text(req.Category),
		Image:    req.Image,
		Order:    req.Order,
		AlbumID:  req.AlbumID,
	}
	if err := s.galleryRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("itemID", item.ID).Msg("Gallery item created")
	return item, nil
}

// UpdateItem applies a partial update to a photo
func (s *GalleryService) UpdateItem(ctx context.Context, id int64, req *dto.UpdateGalleryItemRequest) (*models.GalleryItem, error) {
	item, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = sanitize.Text(*req.Title)
	}
	if req.Category != nil {
		item.Category = sanitize.Text(*req.Category)
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Order != nil {
		item.Order = *req.Order
	}
	if req.AlbumID != nil {
		item.AlbumID = req.AlbumID
	}

	if err := s.galleryRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a photo
func (s *GalleryService) DeleteItem(ctx context.Context, id int64) error {
	return s.galleryRepo.Delete(ctx, id)
}

// ListAlbums returns every album with its image count
func (s *GalleryService) ListAlbums(ctx context.Context) ([]*models.Album, error) {
	return s.albumRepo.List(ctx)
}

// GetAlbum returns an album with its images
func (s *GalleryService) GetAlbum(ctx context.Context, id int64) (*dto.AlbumDetailResponse, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.galleryRepo.List(ctx, repositories.GalleryFilter{AlbumID: id})
	if err != nil {
		return nil, err
	}

	return &dto.AlbumDetailResponse{Album: *album, Images: images}, nil
}

// CreateAlbum adds an album
func (s *GalleryService) CreateAlbum(ctx context.Context, req *dto.AlbumRequest) (*models.Album, error) {
	album := &models.Album{
		Title:       sanitize.Text(req.Title),
		Description: sanitize.OptionalText(&req.Description),
	}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// UpdateAlbum replaces album metadata
func (s *GalleryService) UpdateAlbum(ctx context.Context, id int64, req *dto.AlbumRequest) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	album.Title = sanitize.Text(req.Title)
	album.Description = sanitize.OptionalText(&req.Description)

	if err := s.albumRepo.Update(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// DeleteAlbum removes an album; its photos stay in the gallery
func (s *GalleryService) DeleteAlbum(ctx context.Context, id int64) error {
	return s.albumRepo.Delete(ctx, id)
}
