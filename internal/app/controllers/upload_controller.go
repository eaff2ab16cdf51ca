package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// UploadController accepts image uploads such as payment proofs
type UploadController struct {
	uploadService *services.UploadService
	logger        zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService *services.UploadService, logger zerolog.Logger) *UploadController {
	return &UploadController{uploadService: uploadService, logger: logger}
}

// Upload stores an image and returns its public URL
// @Summary Upload an image
// @Description Stores an image (jpeg, png, gif or webp, sniffed from content) and returns its URL
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Param folder formData string false "Target folder, e.g. payments"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse} "Stored"
// @Failure 400 {object} dto.ErrorResponse "Missing file, unsupported type or too large"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	if !parseUpload(ctx, c.uploadService.MaxBytes(), 1) {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file", "file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	resp, err := c.uploadService.UploadImage(ctx.Request.Context(), principal.UserID, ctx.PostForm("folder"), header.Filename, header.Size, file)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", principal.UserID).Msg("Upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}
