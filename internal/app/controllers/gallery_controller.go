package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// GalleryController manages gallery photos and albums
type GalleryController struct {
	galleryService *services.GalleryService
	logger         zerolog.Logger
}

// NewGalleryController creates a new GalleryController
func NewGalleryController(galleryService *services.GalleryService, logger zerolog.Logger) *GalleryController {
	return &GalleryController{galleryService: galleryService, logger: logger}
}

// ListItems returns gallery photos
// @Summary List gallery photos
// @Tags gallery
// @Produce json
// @Param albumId query int false "Album ID"
// @Param limit query int false "Maximum number of photos"
// @Success 200 {object} dto.APIResponse{data=[]models.GalleryItem} "Photos"
// @Router /gallery [get]
func (c *GalleryController) ListItems(ctx *gin.Context) {
	var query dto.GalleryQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	items, err := c.galleryService.ListItems(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items)
}

// CreateItem adds a photo
// @Summary Add gallery photo
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GalleryItemRequest true "Photo"
// @Success 201 {object} dto.APIResponse{data=models.GalleryItem} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /gallery [post]
func (c *GalleryController) CreateItem(ctx *gin.Context) {
	var req dto.GalleryItemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.galleryService.CreateItem(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, item)
}

// UpdateItem partially updates a photo
// @Summary Update gallery photo
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Photo ID"
// @Param request body dto.UpdateGalleryItemRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.GalleryItem} "Updated"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Photo not found"
// @Router /gallery/{id} [patch]
func (c *GalleryController) UpdateItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateGalleryItemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.galleryService.UpdateItem(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, item)
}

// DeleteItem removes a photo
// @Summary Delete gallery photo
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path int true "Photo ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Photo not found"
// @Router /gallery/{id} [delete]
func (c *GalleryController) DeleteItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.galleryService.DeleteItem(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Photo deleted")
}

// ListAlbums returns every album
// @Summary List albums
// @Tags gallery
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Album} "Albums"
// @Router /albums [get]
func (c *GalleryController) ListAlbums(ctx *gin.Context) {
	albums, err := c.galleryService.ListAlbums(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, albums)
}

// GetAlbum returns an album with its photos
// @Summary Get album
// @Tags gallery
// @Produce json
// @Param albumId path int true "Album ID"
// @Success 200 {object} dto.APIResponse{data=dto.AlbumDetailResponse} "Album"
// @Failure 404 {object} dto.ErrorResponse "Album not found"
// @Router /albums/{albumId} [get]
func (c *GalleryController) GetAlbum(ctx *gin.Context) {
	id, ok := pathID(ctx, "albumId")
	if !ok {
		return
	}

	album, err := c.galleryService.GetAlbum(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, album)
}

// CreateAlbum creates an album
// @Summary Create album
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AlbumRequest true "Album"
// @Success 201 {object} dto.APIResponse{data=models.Album} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /albums [post]
func (c *GalleryController) CreateAlbum(ctx *gin.Context) {
	var req dto.AlbumRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	album, err := c.galleryService.CreateAlbum(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, album)
}

// UpdateAlbum replaces album metadata
// @Summary Update album
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param albumId path int true "Album ID"
// @Param request body dto.AlbumRequest true "Album"
// @Success 200 {object} dto.APIResponse{data=models.Album} "Updated"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Album not found"
// @Router /albums/{albumId} [patch]
func (c *GalleryController) UpdateAlbum(ctx *gin.Context) {
	id, ok := pathID(ctx, "albumId")
	if !ok {
		return
	}

	var req dto.AlbumRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	album, err := c.galleryService.UpdateAlbum(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, album)
}

// DeleteAlbum removes an album
// @Summary Delete album
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param albumId path int true "Album ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Album not found"
// @Router /albums/{albumId} [delete]
func (c *GalleryController) DeleteAlbum(ctx *gin.Context) {
	id, ok := pathID(ctx, "albumId")
	if !ok {
		return
	}

	if err := c.galleryService.DeleteAlbum(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Album deleted")
}
