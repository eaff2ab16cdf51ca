// Package services orchestrates the portal's use cases. Each operation that
// changes state resolves a plan from the workflow package, applies all of
// its writes inside one transaction and delivers notifications after commit.
package services

import (
	"context"
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
)

// Transactor runs fn atomically; stores called with the ctx fn receives
// take part in the same transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	LockByID(ctx context.Context, id int64) (*models.User, error)
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	UpdateImage(ctx context.Context, id int64, image *string) error
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repositories.UserFilter, offset, limit uint64) ([]*models.User, int, error)
}

// ProfileStore persists alumni profiles
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateMembership(ctx context.Context, userID int64, membershipType *models.MembershipType, status models.MembershipStatus) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// TierStore persists the membership catalogue
type TierStore interface {
	Create(ctx context.Context, tier *models.MembershipTier) error
	GetByID(ctx context.Context, id int64) (*models.MembershipTier, error)
	List(ctx context.Context, activeOnly bool) ([]*models.MembershipTier, error)
	Update(ctx context.Context, tier *models.MembershipTier) error
	Delete(ctx context.Context, id int64) error
}

// MembershipStore persists membership history
type MembershipStore interface {
	Create(ctx context.Context, m *models.Membership) error
	GetByID(ctx context.Context, id int64) (*models.Membership, error)
	Current(ctx context.Context, userID int64) (*models.Membership, error)
	LatestPending(ctx context.Context, userID int64) (*models.Membership, error)
	CurrentByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Membership, error)
	UpdateState(ctx context.Context, id int64, status models.MembershipStatus, start *time.Time, end *time.Time, resetDates bool) error
	CancelPending(ctx context.Context, userID int64) (int64, error)
}

// EventStore persists events and their attendee sets
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	LockByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) error
	CountAttendees(ctx context.Context, eventID int64) (int, error)
	IsAttendee(ctx context.Context, eventID, userID int64) (bool, error)
	AddAttendee(ctx context.Context, eventID, userID int64) error
	RemoveAttendee(ctx context.Context, eventID, userID int64) error
	ListAttendees(ctx context.Context, eventID int64) ([]*models.User, error)
}

// EventPaymentStore persists paid-event payments
type EventPaymentStore interface {
	Create(ctx context.Context, p *models.EventPayment) error
	LockForEvent(ctx context.Context, eventID, paymentID int64) (*models.EventPayment, error)
	HasStatus(ctx context.Context, eventID, userID int64, status models.PaymentStatus) (bool, error)
	List(ctx context.Context, filter repositories.PaymentFilter) ([]*models.EventPayment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error
}

// NotificationStore persists the notification feed
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListRecent(ctx context.Context, userID int64, limit uint64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// GalleryStore persists gallery items
type GalleryStore interface {
	Create(ctx context.Context, g *models.GalleryItem) error
	GetByID(ctx context.Context, id int64) (*models.GalleryItem, error)
	List(ctx context.Context, filter repositories.GalleryFilter) ([]*models.GalleryItem, error)
	Update(ctx context.Context, g *models.GalleryItem) error
	Delete(ctx context.Context, id int64) error
}

// AlbumStore persists albums
type AlbumStore interface {
	Create(ctx context.Context, a *models.Album) error
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	List(ctx context.Context) ([]*models.Album, error)
	Update(ctx context.Context, a *models.Album) error
	Delete(ctx context.Context, id int64) error
}

// CommitteeStore persists committee members
type CommitteeStore interface {
	Create(ctx context.Context, m *models.CommitteeMember) error
	List(ctx context.Context) ([]*models.CommitteeMember, error)
	Update(ctx context.Context, m *models.CommitteeMember) error
	Delete(ctx context.Context, id int64) error
}

// PaymentInfoStore persists the payment instruction row
type PaymentInfoStore interface {
	Get(ctx context.Context) (*models.PaymentInfo, error)
	Save(ctx context.Context, info *models.PaymentInfo) error
}

// Services holds every service instance
type Services struct {
	AuthService         *AuthService
	ProfileService      *ProfileService
	TierService         *TierService
	MembershipService   *MembershipService
	EventService        *EventService
	UserService         *UserService
	NotificationService *NotificationService
	GalleryService      *GalleryService
	CommitteeService    *CommitteeService
	PaymentInfoService  *PaymentInfoService
	UploadService       *UploadService
}
