// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// caller returns the authenticated principal, writing a 401 when there is none
func caller(ctx *gin.Context) (auth.Principal, bool) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return auth.Principal{}, false
	}
	return principal, true
}

// pathID parses a positive id path parameter, writing a 400 when it is malformed
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := helpers.ParseIDParam(ctx, name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func respondMessage(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: msg}))
}

// multipartOverhead covers part headers and the text fields sent alongside files
const multipartOverhead int64 = 1 << 20

// parseUpload caps the request body at files*maxFileBytes plus overhead, then
// parses the multipart form so oversized bodies are refused before they are
// spooled to disk. It writes a 400 and returns false when the cap is hit;
// other parse errors are left to the binding that follows.
func parseUpload(ctx *gin.Context, maxFileBytes int64, files int) bool {
	limit := int64(files)*maxFileBytes + multipartOverhead
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)

	if _, err := ctx.MultipartForm(); err != nil && isBodyTooLarge(err) {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("Upload exceeds the %d MB limit", maxFileBytes>>20)))
		return false
	}
	return true
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
