package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// PaymentInfoService exposes the manual payment instructions
type PaymentInfoService struct {
	paymentInfoRepo PaymentInfoStore
	logger          zerolog.Logger
}

// NewPaymentInfoService creates a new PaymentInfoService
func NewPaymentInfoService(paymentInfoRepo PaymentInfoStore, logger zerolog.Logger) *PaymentInfoService {
	return &PaymentInfoService{paymentInfoRepo: paymentInfoRepo, logger: logger}
}

// Get returns the payment instructions; an unconfigured row reads as empty
func (s *PaymentInfoService) Get(ctx context.Context) (*models.PaymentInfo, error) {
	info, err := s.paymentInfoRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &models.PaymentInfo{}, nil
	}
	return info, nil
}

// Save replaces the payment instructions
func (s *PaymentInfoService) Save(ctx context.Context, req *dto.PaymentInfoRequest) (*models.PaymentInfo, error) {
	info := &models.PaymentInfo{
		BankInfo:   sanitize.Text(req.BankInfo),
		BkashInfo:  sanitize.Text(req.BkashInfo),
		NagadInfo:  sanitize.Text(req.NagadInfo),
		RocketInfo: sanitize.Text(req.RocketInfo),
	}
	if err := s.paymentInfoRepo.Save(ctx, info); err != nil {
		return nil, err
	}
	s.logger.Info().Msg("Payment information updated")
	return info, nil
}
