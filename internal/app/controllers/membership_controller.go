package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// MembershipController handles the caller's own membership lifecycle
type MembershipController struct {
	membershipService *services.MembershipService
	logger            zerolog.Logger
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(membershipService *services.MembershipService, logger zerolog.Logger) *MembershipController {
	return &MembershipController{membershipService: membershipService, logger: logger}
}

// GetCurrent returns the caller's current membership
// @Summary Get current membership
// @Description Returns the most recent ACTIVE membership, or the most recent PENDING one. Status is EXPIRED once the end date has passed.
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Current membership, data is null when none"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /membership [get]
func (c *MembershipController) GetCurrent(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.GetCurrent(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// Apply submits a membership application with manual payment proof
// @Summary Apply for membership
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MembershipApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=dto.MembershipResponse} "Application recorded as PENDING"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or application not allowed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Tier not found"
// @Router /membership [post]
func (c *MembershipController) Apply(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.MembershipApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.membershipService.Apply(ctx.Request.Context(), principal.UserID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", principal.UserID).Msg("Membership application failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// Cancel cancels one of the caller's memberships
// @Summary Cancel membership
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Cancelled"
// @Failure 400 {object} dto.ErrorResponse "Membership cannot be cancelled"
// @Failure 404 {object} dto.ErrorResponse "Membership not found"
// @Router /membership/{id}/cancel [patch]
func (c *MembershipController) Cancel(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}
	membershipID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.membershipService.Cancel(ctx.Request.Context(), principal.UserID, membershipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// Renew appends a new membership period for the caller
// @Summary Renew membership
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RenewMembershipRequest false "Optional tier switch"
// @Success 201 {object} dto.APIResponse{data=dto.MembershipResponse} "Renewed membership"
// @Failure 400 {object} dto.ErrorResponse "Nothing to renew"
// @Failure 404 {object} dto.ErrorResponse "Tier not found"
// @Router /membership/renew [post]
func (c *MembershipController) Renew(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.RenewMembershipRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	resp, err := c.membershipService.Renew(ctx.Request.Context(), principal.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}
