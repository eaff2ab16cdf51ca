package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var paymentColumns = []string{
	"p.id", "p.event_id", "p.user_id", "p.amount", "p.status", "p.payment_method", "p.transaction_id",
	"p.payment_proof", "p.created_at", "p.updated_at", "e.title", "u.name", "u.email",
}

// PaymentFilter narrows the admin payment listing
type PaymentFilter struct {
	EventID int64
	UserID  int64
	Status  models.PaymentStatus
}

// EventPaymentRepository handles event payment database operations
type EventPaymentRepository struct {
	base
}

// NewEventPaymentRepository creates a new EventPaymentRepository
func NewEventPaymentRepository(pool *pgxpool.Pool) *EventPaymentRepository {
	return &EventPaymentRepository{base: newBase(pool)}
}

func paymentNotFound() error {
	return apperrors.NewCustomError(apperrors.ErrPaymentNotFound, "Payment not found")
}

func scanPayment(row pgx.Row) (*models.EventPayment, error) {
	p := &models.EventPayment{}
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Amount, &p.Status, &p.PaymentMethod, &p.TransactionID,
		&p.PaymentProof, &p.CreatedAt, &p.UpdatedAt, &p.EventTitle, &p.UserName, &p.UserEmail)
	return p, err
}

func (r *EventPaymentRepository) selectDetailed() squirrel.SelectBuilder {
	return r.sb.Select(paymentColumns...).
		From("event_payments p").
		Join("events e ON e.id = p.event_id").
		Join("users u ON u.id = p.user_id")
}

// Create inserts a PENDING payment. A second pending payment for the same
// event and user violates event_payments_pending_key.
func (r *EventPaymentRepository) Create(ctx context.Context, p *models.EventPayment) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("event_payments").
		Columns("event_id", "user_id", "amount", "status", "payment_method", "transaction_id",
			"payment_proof", "created_at", "updated_at").
		Values(p.EventID, p.UserID, p.Amount, p.Status, p.PaymentMethod, p.TransactionID,
			p.PaymentProof, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create payment query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "event_payments_pending_key") {
			return apperrors.NewConflictError("A payment for this event is already under review")
		}
		logger.Error().Err(err).Int64("eventID", p.EventID).Int64("userID", p.UserID).Msg("Error creating event payment")
		return fmt.Errorf("error creating event payment: %w", err)
	}
	return nil
}

// LockForEvent reads a payment of an event FOR UPDATE
func (r *EventPaymentRepository) LockForEvent(ctx context.Context, eventID, paymentID int64) (*models.EventPayment, error) {
	sql, args, err := r.selectDetailed().
		Where(squirrel.Eq{"p.id": paymentID, "p.event_id": eventID}).
		Suffix("FOR UPDATE OF p").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	p, err := scanPayment(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, paymentNotFound()
		}
		return nil, fmt.Errorf("error retrieving event payment: %w", err)
	}
	return p, nil
}

// HasStatus reports whether the user has a payment in status for the event
func (r *EventPaymentRepository) HasStatus(ctx context.Context, eventID, userID int64, status models.PaymentStatus) (bool, error) {
	n, err := r.count(ctx, "check payment status", r.sb.Select("COUNT(*)").
		From("event_payments").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID, "status": status}))
	return n > 0, err
}

// List returns payments matching filter, newest first
func (r *EventPaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*models.EventPayment, error) {
	builder := r.selectDetailed().OrderBy("p.created_at DESC", "p.id DESC")
	if filter.EventID > 0 {
		builder = builder.Where(squirrel.Eq{"p.event_id": filter.EventID})
	}
	if filter.UserID > 0 {
		builder = builder.Where(squirrel.Eq{"p.user_id": filter.UserID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"p.status": filter.Status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list payments query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing event payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.EventPayment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// UpdateStatus records the review outcome of a payment
func (r *EventPaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	affected, err := r.exec(ctx, "update payment status", r.sb.Update("event_payments").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return paymentNotFound()
	}
	return nil
}
