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
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// Event list windows
const (
	EventWindowUpcoming = "upcoming"
	EventWindowPast     = "past"
)

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.date", "e.location", "e.image", "e.capacity", "e.is_paid",
	"e.price", "e.membership_required", "e.organizer_id", "e.created_at", "e.updated_at",
}

// EventFilter narrows an event listing
type EventFilter struct {
	Window     string // EventWindowUpcoming, EventWindowPast or empty for all
	AttendeeID int64  // only events this user attends
	Now        time.Time
}

// EventRepository handles event and attendance database operations
type EventRepository struct {
	base
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{base: newBase(pool)}
}

func eventNotFound() error {
	return apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found")
}

func scanEventInto(e *models.Event, extra ...any) []any {
	return append([]any{
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Image, &e.Capacity, &e.IsPaid,
		&e.Price, &e.MembershipRequired, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	}, extra...)
}

func (r *EventRepository) selectDetailed() squirrel.SelectBuilder {
	return r.sb.Select(eventColumns...).
		Column("(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count").
		Column("COALESCE(u.name, '') AS organizer_name").
		From("events e").
		LeftJoin("users u ON u.id = e.organizer_id")
}

func scanDetailedEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(scanEventInto(e, &e.AttendeeCount, &e.OrganizerName)...)
	return e, err
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "date", "location", "image", "capacity", "is_paid", "price",
			"membership_required", "organizer_id", "created_at", "updated_at").
		Values(e.Title, e.Description, e.Date, e.Location, e.Image, e.Capacity, e.IsPaid, e.Price,
			e.MembershipRequired, e.OrganizerID, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("title", e.Title).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event with its attendee count and organizer name
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.selectDetailed().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanDetailedEvent(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, eventNotFound()
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

// LockByID reads an event row FOR UPDATE so attendance changes on it
// serialise until the surrounding transaction ends
func (r *EventRepository) LockByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events e").
		Where(squirrel.Eq{"e.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock event query: %w", err)
	}

	e := &models.Event{}
	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(scanEventInto(e)...); err != nil {
		if isNoRows(err) {
			return nil, eventNotFound()
		}
		return nil, fmt.Errorf("error locking event: %w", err)
	}
	return e, nil
}

// List returns events in the requested window. Upcoming and unfiltered
// listings run soonest first; past listings run most recent first.
func (r *EventRepository) List(ctx context.Context, filter EventFilter) ([]*models.Event, error) {
	builder := r.selectDetailed()

	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	switch filter.Window {
	case EventWindowUpcoming:
		builder = builder.Where(squirrel.GtOrEq{"e.date": now}).OrderBy("e.date ASC")
	case EventWindowPast:
		builder = builder.Where(squirrel.Lt{"e.date": now}).OrderBy("e.date DESC")
	default:
		builder = builder.OrderBy("e.date ASC")
	}
	if filter.AttendeeID > 0 {
		builder = builder.Where(
			"EXISTS (SELECT 1 FROM event_attendees fa WHERE fa.event_id = e.id AND fa.user_id = ?)",
			filter.AttendeeID,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanDetailedEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes every mutable field of e
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	e.UpdatedAt = time.Now()
	affected, err := r.exec(ctx, "update event", r.sb.Update("events").
		Set("title", e.Title).
		Set("description", e.Description).
		Set("date", e.Date).
		Set("location", e.Location).
		Set("image", e.Image).
		Set("capacity", e.Capacity).
		Set("is_paid", e.IsPaid).
		Set("price", e.Price).
		Set("membership_required", e.MembershipRequired).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return eventNotFound()
	}
	return nil
}

// Delete removes an event together with its attendance and payments
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "delete event", r.sb.Delete("events").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return eventNotFound()
	}
	return nil
}

// CountAttendees returns the size of the attendee set
func (r *EventRepository) CountAttendees(ctx context.Context, eventID int64) (int, error) {
	return r.count(ctx, "count attendees", r.sb.Select("COUNT(*)").
		From("event_attendees").
		Where(squirrel.Eq{"event_id": eventID}))
}

// IsAttendee reports whether the user is in the attendee set
func (r *EventRepository) IsAttendee(ctx context.Context, eventID, userID int64) (bool, error) {
	n, err := r.count(ctx, "check attendee", r.sb.Select("COUNT(*)").
		From("event_attendees").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}))
	return n > 0, err
}

// AddAttendee inserts the user into the attendee set; repeating it is a no-op
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID int64) error {
	_, err := r.exec(ctx, "add attendee", r.sb.Insert("event_attendees").
		Columns("event_id", "user_id", "created_at").
		Values(eventID, userID, time.Now()).
		Suffix("ON CONFLICT (event_id, user_id) DO NOTHING"))
	return err
}

// RemoveAttendee deletes the user from the attendee set; repeating it is a no-op
func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, userID int64) error {
	_, err := r.exec(ctx, "remove attendee", r.sb.Delete("event_attendees").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}))
	return err
}

// ListAttendees returns the users attending an event in join order. Only
// id, name and image are populated.
func (r *EventRepository) ListAttendees(ctx context.Context, eventID int64) ([]*models.User, error) {
	sql, args, err := r.sb.Select("u.id", "u.name", "u.image").
		From("event_attendees a").
		Join("users u ON u.id = a.user_id").
		Where(squirrel.Eq{"a.event_id": eventID}).
		OrderBy("a.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendees query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attendees: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Image); err != nil {
			return nil, fmt.Errorf("error scanning attendee row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
