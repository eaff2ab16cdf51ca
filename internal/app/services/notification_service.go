package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

// NotificationService serves the notification feed
type NotificationService struct {
	tx               Transactor
	userRepo         UserStore
	notificationRepo NotificationStore
	notifier         *Notifier
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(tx Transactor, userRepo UserStore, notificationRepo NotificationStore, notifier *Notifier, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		tx:               tx,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// List returns the latest notifications of userID, newest first
func (s *NotificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.notificationRepo.ListRecent(ctx, userID, repositories.NotificationFeedSize)
}

// Create appends a notification. Administrators may address any user;
// everybody else writes to their own feed.
func (s *NotificationService) Create(ctx context.Context, caller auth.Principal, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	target := caller.UserID
	if req.UserID != 0 && req.UserID != caller.UserID {
		if !caller.IsAdmin() {
			return nil, apperrors.NewForbiddenError("Only administrators can notify other users")
		}
		target = req.UserID
	}

	notice := workflow.Notice{
		Type:    models.NotificationType(req.Type),
		Title:   sanitize.Text(req.Title),
		Message: sanitize.Text(req.Message),
	}
	if notice.Title == "" || notice.Message == "" {
		return nil, apperrors.NewValidationError("message", "Title and message are required")
	}

	var out outbox
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, target); err != nil {
			return err
		}
		return s.notifier.Record(ctx, &out, target, notice)
	})
	if err != nil {
		return nil, err
	}
	created := out.last()
	s.notifier.Flush(&out)

	return created, nil
}

// MarkRead flags one of the caller's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}
