package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// TierController manages the membership tier catalogue
type TierController struct {
	tierService *services.TierService
	logger      zerolog.Logger
}

// NewTierController creates a new TierController
func NewTierController(tierService *services.TierService, logger zerolog.Logger) *TierController {
	return &TierController{tierService: tierService, logger: logger}
}

// ListTiers returns the active tiers
// @Summary List membership tiers
// @Tags membership
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.MembershipTier} "Active tiers"
// @Router /membership/tiers [get]
func (c *TierController) ListTiers(ctx *gin.Context) {
	tiers, err := c.tierService.ListTiers(ctx.Request.Context(), false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, tiers)
}

// GetTier returns one tier
// @Summary Get membership tier
// @Tags membership
// @Produce json
// @Param tierId path int true "Tier ID"
// @Success 200 {object} dto.APIResponse{data=models.MembershipTier} "Tier"
// @Failure 404 {object} dto.ErrorResponse "Tier not found"
// @Router /membership-tiers/{tierId} [get]
func (c *TierController) GetTier(ctx *gin.Context) {
	id, ok := pathID(ctx, "tierId")
	if !ok {
		return
	}

	tier, err := c.tierService.GetTier(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, tier)
}

// CreateTier adds a tier to the catalogue
// @Summary Create membership tier
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTierRequest true "Tier"
// @Success 201 {object} dto.APIResponse{data=models.MembershipTier} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /membership-tiers [post]
func (c *TierController) CreateTier(ctx *gin.Context) {
	var req dto.CreateTierRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tier, err := c.tierService.CreateTier(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("tierID", tier.ID).Str("name", tier.Name).Msg("Membership tier created")
	respondCreated(ctx, tier)
}

// UpdateTier partially updates a tier
// @Summary Update membership tier
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tierId path int true "Tier ID"
// @Param request body dto.UpdateTierRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.MembershipTier} "Updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Tier not found"
// @Router /membership-tiers/{tierId} [patch]
func (c *TierController) UpdateTier(ctx *gin.Context) {
	id, ok := pathID(ctx, "tierId")
	if !ok {
		return
	}

	var req dto.UpdateTierRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tier, err := c.tierService.UpdateTier(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, tier)
}

// DeleteTier removes a tier
// @Summary Delete membership tier
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Param tierId path int true "Tier ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Tier not found"
// @Failure 409 {object} dto.ErrorResponse "Tier still referenced"
// @Router /membership-tiers/{tierId} [delete]
func (c *TierController) DeleteTier(ctx *gin.Context) {
	id, ok := pathID(ctx, "tierId")
	if !ok {
		return
	}

	if err := c.tierService.DeleteTier(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("tierID", id).Msg("Membership tier deleted")
	respondMessage(ctx, "Membership tier deleted")
}
