package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
)

// SiteController serves association-wide content: the committee, payment
// instructions and the health check
type SiteController struct {
	committeeService   *services.CommitteeService
	paymentInfoService *services.PaymentInfoService
	db                 Pinger
	logger             zerolog.Logger
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewSiteController creates a new SiteController
func NewSiteController(committeeService *services.CommitteeService, paymentInfoService *services.PaymentInfoService, db Pinger, logger zerolog.Logger) *SiteController {
	return &SiteController{
		committeeService:   committeeService,
		paymentInfoService: paymentInfoService,
		db:                 db,
		logger:             logger,
	}
}

// Health reports liveness and database reachability
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *SiteController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable"),
		))
		return
	}
	respondOK(ctx, gin.H{"status": "ok"})
}

// ListCommittee returns the committee in display order
// @Summary List committee members
// @Tags committee
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.CommitteeMember} "Committee"
// @Router /committee [get]
func (c *SiteController) ListCommittee(ctx *gin.Context) {
	members, err := c.committeeService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, members)
}

// CreateCommitteeMember adds a committee member
// @Summary Add committee member
// @Tags committee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommitteeMemberRequest true "Member"
// @Success 201 {object} dto.APIResponse{data=models.CommitteeMember} "Created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /admin/committee [post]
func (c *SiteController) CreateCommitteeMember(ctx *gin.Context) {
	var req dto.CommitteeMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.committeeService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, member)
}

// UpdateCommitteeMember replaces a committee member
// @Summary Update committee member
// @Tags committee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member ID"
// @Param request body dto.CommitteeMemberRequest true "Member"
// @Success 200 {object} dto.APIResponse{data=models.CommitteeMember} "Updated"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/committee/{memberId} [patch]
func (c *SiteController) UpdateCommitteeMember(ctx *gin.Context) {
	id, ok := pathID(ctx, "memberId")
	if !ok {
		return
	}

	var req dto.CommitteeMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.committeeService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, member)
}

// DeleteCommitteeMember removes a committee member
// @Summary Delete committee member
// @Tags committee
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/committee/{memberId} [delete]
func (c *SiteController) DeleteCommitteeMember(ctx *gin.Context) {
	id, ok := pathID(ctx, "memberId")
	if !ok {
		return
	}

	if err := c.committeeService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Committee member deleted")
}

// GetPaymentInfo returns the manual payment instructions
// @Summary Get payment instructions
// @Tags payment-info
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PaymentInfo} "Payment instructions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /payment-info [get]
func (c *SiteController) GetPaymentInfo(ctx *gin.Context) {
	info, err := c.paymentInfoService.Get(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, info)
}

// SavePaymentInfo replaces the manual payment instructions
// @Summary Save payment instructions
// @Tags payment-info
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentInfoRequest true "Payment instructions"
// @Success 200 {object} dto.APIResponse{data=models.PaymentInfo} "Saved"
// @Failure 401 {object} dto.ErrorResponse "Admin only"
// @Router /admin/payment-info [post]
func (c *SiteController) SavePaymentInfo(ctx *gin.Context) {
	var req dto.PaymentInfoRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	info, err := c.paymentInfoService.Save(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, info)
}
