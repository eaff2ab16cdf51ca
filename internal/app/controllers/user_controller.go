package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// UserController handles account review and the alumni directory
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

// ListUsers returns a page of users for review
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "User status" Enums(PENDING, INPROGRESS, PAYMENT_PENDING, VERIFIED, REJECTED)
// @Param search query string false "Name or email contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.AdminUserListResponse} "Users"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var query dto.UserListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.userService.ListUsers(ctx.Request.Context(), query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetUser returns one user
// @Summary Get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.NewUserResponse(user))
}

// VerifyUser verifies an account and activates its pending membership
// @Summary Verify user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Verified"
// @Failure 400 {object} dto.ErrorResponse "User cannot be verified"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/verify [post]
func (c *UserController) VerifyUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.VerifyUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, user)
}

// RejectUser rejects an account with a mandatory reason
// @Summary Reject user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.RejectUserRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Rejected"
// @Failure 400 {object} dto.ErrorResponse "Rejection reason is required"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/reject [post]
func (c *UserController) RejectUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.RejectUser(ctx.Request.Context(), id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, user)
}

// UpdateMembership applies ACTIVATE, CANCEL or PENDING to a user's membership
// @Summary Override user membership
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.AdminMembershipActionRequest true "Action"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Updated membership, null when the user has none"
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [patch]
func (c *UserController) UpdateMembership(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.AdminMembershipActionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.userService.UpdateMembership(ctx.Request.Context(), id, strings.ToUpper(req.Action))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// DeleteUser deletes an account
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Cannot delete own account"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), principal.UserID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "User deleted")
}

// ListAlumni returns the verified alumni directory
// @Summary Alumni directory
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.AlumniListResponse} "Alumni"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account not verified"
// @Router /alumni [get]
func (c *UserController) ListAlumni(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.userService.ListAlumni(ctx.Request.Context(), strings.TrimSpace(ctx.Query("search")), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
