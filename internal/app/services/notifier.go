package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/email"
)

// Pusher delivers a stored notification to live connections
type Pusher interface {
	PushNotification(n *models.Notification)
}

// outbox collects side effects of a transaction that must only be
// delivered once it has committed
type outbox struct {
	notifications []*models.Notification
	mails         []mail
}

func (o *outbox) last() *models.Notification {
	if len(o.notifications) == 0 {
		return nil
	}
	return o.notifications[len(o.notifications)-1]
}

type mail struct {
	user  *models.User
	title string
	body  string
}

// Notifier writes notification rows inside the caller's transaction and
// delivers them after commit
type Notifier struct {
	store  NotificationStore
	pusher Pusher
	mailer email.EmailService
	logger zerolog.Logger
}

// NewNotifier creates a Notifier. pusher and mailer may be nil.
func NewNotifier(store NotificationStore, pusher Pusher, mailer email.EmailService, logger zerolog.Logger) *Notifier {
	return &Notifier{store: store, pusher: pusher, mailer: mailer, logger: logger}
}

// Record stores notice for userID and queues it on out for delivery
func (n *Notifier) Record(ctx context.Context, out *outbox, userID int64, notice workflow.Notice) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   notice.Title,
		Message: notice.Message,
		Type:    notice.Type,
	}
	if err := n.store.Create(ctx, notification); err != nil {
		return err
	}
	out.notifications = append(out.notifications, notification)
	return nil
}

// QueueMail schedules an e-mail copy of notice for user
func (n *Notifier) QueueMail(out *outbox, user *models.User, notice workflow.Notice) {
	out.mails = append(out.mails, mail{user: user, title: notice.Title, body: notice.Message})
}

// Flush delivers everything queued on out. Failures are logged and never
// returned; the database already holds the authoritative record.
func (n *Notifier) Flush(out *outbox) {
	if n.pusher != nil {
		for _, notification := range out.notifications {
			n.pusher.PushNotification(notification)
		}
	}

	if n.mailer != nil {
		for _, m := range out.mails {
			if err := n.mailer.SendStatusEmail(m.user.Email, m.user.Name, m.title, m.body); err != nil {
				n.logger.Warn().
					Err(err).
					Int64("userID", m.user.ID).
					Str("title", m.title).
					Msg("Failed to send status e-mail")
			}
		}
	}

	out.notifications = nil
	out.mails = nil
}
