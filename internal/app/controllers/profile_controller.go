package controllers

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// ProfileController serves the caller's own profile
type ProfileController struct {
	profileService *services.ProfileService
	uploadService  *services.UploadService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, uploadService *services.UploadService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		uploadService:  uploadService,
		logger:         logger,
	}
}

// GetProfile returns the caller's account, profile and current membership
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	resp, err := c.profileService.GetProfile(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// SubmitProfile creates or replaces the caller's profile
// @Summary Submit profile
// @Description Upserts the profile and moves the account to PAYMENT_PENDING, or INPROGRESS when a membership application is already pending. Accepts JSON or multipart with optional photoFile and signatureFile parts.
// @Tags profile
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile saved"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [post]
func (c *ProfileController) SubmitProfile(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	isMultipart := strings.HasPrefix(ctx.ContentType(), "multipart/")
	if isMultipart && !parseUpload(ctx, c.uploadService.MaxBytes(), 2) {
		return
	}

	var req dto.ProfileRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	if isMultipart {
		photo, ok := c.uploadPart(ctx, principal.UserID, "photoFile", "profiles")
		if !ok {
			return
		}
		if photo != "" {
			req.Photo = photo
		}

		signature, ok := c.uploadPart(ctx, principal.UserID, "signatureFile", "signatures")
		if !ok {
			return
		}
		if signature != "" {
			req.Signature = signature
		}
	}

	resp, err := c.profileService.SubmitProfile(ctx.Request.Context(), principal.UserID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", principal.UserID).Msg("Profile submission failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// uploadPart stores an optional file part and returns its URL, or "" when
// the part is absent
func (c *ProfileController) uploadPart(ctx *gin.Context, userID int64, field, folder string) (string, bool) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return "", true
	}

	url, err := c.storeFile(ctx, userID, folder, header)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return url, true
}

func (c *ProfileController) storeFile(ctx *gin.Context, userID int64, folder string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	resp, err := c.uploadService.UploadImage(ctx.Request.Context(), userID, folder, header.Filename, header.Size, file)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
