package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

var errInjected = errors.New("injected failure")

// memDB is an in-memory stand-in for the relational store. The transactor
// snapshots it before a transaction and restores it on error.
type memDB struct {
	nextID        int64
	clock         time.Time
	users         map[int64]models.User
	profiles      map[int64]models.Profile
	tokens        map[string]models.RefreshToken
	tiers         map[int64]models.MembershipTier
	memberships   map[int64]models.Membership
	events        map[int64]models.Event
	attendees     map[int64]map[int64]bool
	payments      map[int64]models.EventPayment
	notifications map[int64]models.Notification

	failNotifications bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		users:         map[int64]models.User{},
		profiles:      map[int64]models.Profile{},
		tokens:        map[string]models.RefreshToken{},
		tiers:         map[int64]models.MembershipTier{},
		memberships:   map[int64]models.Membership{},
		events:        map[int64]models.Event{},
		attendees:     map[int64]map[int64]bool{},
		payments:      map[int64]models.EventPayment{},
		notifications: map[int64]models.Notification{},
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

// tick returns a strictly increasing timestamp so created_at ordering is stable
func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memDB) clone() *memDB {
	c := *m
	c.users = copyMap(m.users)
	c.profiles = copyMap(m.profiles)
	c.tokens = copyMap(m.tokens)
	c.tiers = copyMap(m.tiers)
	c.memberships = copyMap(m.memberships)
	c.events = copyMap(m.events)
	c.payments = copyMap(m.payments)
	c.notifications = copyMap(m.notifications)
	c.attendees = make(map[int64]map[int64]bool, len(m.attendees))
	for k, v := range m.attendees {
		c.attendees[k] = copyMap(v)
	}
	return &c
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// memTx runs fn and rolls the store back when fn fails
type memTx struct {
	db    *memDB
	calls int
}

func (t *memTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	snapshot := t.db.clone()
	if err := fn(ctx); err != nil {
		failFlag := t.db.failNotifications
		*t.db = *snapshot
		t.db.failNotifications = failFlag
		return err
	}
	return nil
}

// users

type memUsers struct{ db *memDB }

func (s memUsers) Create(ctx context.Context, user *models.User) error {
	email := strings.ToLower(user.Email)
	for _, u := range s.db.users {
		if u.Email == email {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User with this email already exists")
		}
	}
	user.ID = s.db.id()
	user.Email = email
	user.CreatedAt = s.db.tick()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	stored.Profile = nil
	s.db.users[user.ID] = stored
	return nil
}

func (s memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (s memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.db.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s memUsers) LockByID(ctx context.Context, id int64) (*models.User, error) {
	return s.GetByID(ctx, id)
}

func (s memUsers) update(id int64, fn func(u *models.User)) error {
	u, ok := s.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	fn(&u)
	s.db.users[id] = u
	return nil
}

func (s memUsers) UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return s.update(id, func(u *models.User) { u.Status = status })
}

func (s memUsers) UpdateImage(ctx context.Context, id int64, image *string) error {
	return s.update(id, func(u *models.User) { u.Image = image })
}

func (s memUsers) UpdateName(ctx context.Context, id int64, name string) error {
	return s.update(id, func(u *models.User) { u.Name = name })
}

func (s memUsers) Delete(ctx context.Context, id int64) error {
	if _, ok := s.db.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(s.db.users, id)
	delete(s.db.profiles, id)
	for mid, m := range s.db.memberships {
		if m.UserID == id {
			delete(s.db.memberships, mid)
		}
	}
	for nid, n := range s.db.notifications {
		if n.UserID == id {
			delete(s.db.notifications, nid)
		}
	}
	for pid, p := range s.db.payments {
		if p.UserID == id {
			delete(s.db.payments, pid)
		}
	}
	for _, set := range s.db.attendees {
		delete(set, id)
	}
	return nil
}

func (s memUsers) List(ctx context.Context, filter repositories.UserFilter, offset, limit uint64) ([]*models.User, int, error) {
	var matched []*models.User
	for _, u := range s.db.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if q := strings.ToLower(filter.Search); q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(u.Email, q) {
			continue
		}
		u := u
		matched = append(matched, &u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset >= uint64(total) {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > uint64(total) {
		end = uint64(total)
	}
	return matched[offset:end], total, nil
}

// profiles

type memProfiles struct{ db *memDB }

func (s memProfiles) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	p, ok := s.db.profiles[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Profile not found")
	}
	return &p, nil
}

func (s memProfiles) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	out := map[int64]*models.Profile{}
	for _, id := range userIDs {
		if p, ok := s.db.profiles[id]; ok {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

func (s memProfiles) Upsert(ctx context.Context, profile *models.Profile) error {
	if existing, ok := s.db.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.ID = s.db.id()
		profile.CreatedAt = s.db.tick()
	}
	profile.UpdatedAt = s.db.tick()
	s.db.profiles[profile.UserID] = *profile
	return nil
}

func (s memProfiles) UpdateMembership(ctx context.Context, userID int64, membershipType *models.MembershipType, status models.MembershipStatus) error {
	p, ok := s.db.profiles[userID]
	if !ok {
		return nil
	}
	if membershipType != nil {
		p.MembershipType = *membershipType
	}
	p.MembershipStatus = status
	s.db.profiles[userID] = p
	return nil
}

// tokens

type memTokens struct{ db *memDB }

func (s memTokens) CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	s.db.tokens[token] = models.RefreshToken{ID: s.db.id(), UserID: userID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (s memTokens) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := s.db.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return &t, nil
}

func (s memTokens) RevokeToken(ctx context.Context, token string) error {
	t, ok := s.db.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.IsRevoked = true
	s.db.tokens[token] = t
	return nil
}

func (s memTokens) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for k, t := range s.db.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
			s.db.tokens[k] = t
		}
	}
	return nil
}

// tiers

type memTiers struct{ db *memDB }

func (s memTiers) Create(ctx context.Context, tier *models.MembershipTier) error {
	tier.ID = s.db.id()
	tier.CreatedAt = s.db.tick()
	s.db.tiers[tier.ID] = *tier
	return nil
}

func (s memTiers) GetByID(ctx context.Context, id int64) (*models.MembershipTier, error) {
	t, ok := s.db.tiers[id]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
	}
	return &t, nil
}

func (s memTiers) List(ctx context.Context, activeOnly bool) ([]*models.MembershipTier, error) {
	var out []*models.MembershipTier
	for _, t := range s.db.tiers {
		if activeOnly && !t.IsActive {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount < out[j].Amount })
	return out, nil
}

func (s memTiers) Update(ctx context.Context, tier *models.MembershipTier) error {
	if _, ok := s.db.tiers[tier.ID]; !ok {
		return apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
	}
	s.db.tiers[tier.ID] = *tier
	return nil
}

func (s memTiers) Delete(ctx context.Context, id int64) error {
	if _, ok := s.db.tiers[id]; !ok {
		return apperrors.NewCustomError(apperrors.ErrTierNotFound, "Membership tier not found")
	}
	for _, m := range s.db.memberships {
		if m.TierID == id {
			return apperrors.NewConflictError("Membership tier is in use; deactivate it instead")
		}
	}
	delete(s.db.tiers, id)
	return nil
}

// memberships

type memMemberships struct{ db *memDB }

func (s memMemberships) withTier(m models.Membership) *models.Membership {
	if t, ok := s.db.tiers[m.TierID]; ok {
		m.Tier = &t
	}
	return &m
}

func (s memMemberships) Create(ctx context.Context, m *models.Membership) error {
	m.ID = s.db.id()
	m.CreatedAt = s.db.tick()
	m.UpdatedAt = m.CreatedAt
	stored := *m
	stored.Tier = nil
	s.db.memberships[m.ID] = stored
	return nil
}

func (s memMemberships) GetByID(ctx context.Context, id int64) (*models.Membership, error) {
	m, ok := s.db.memberships[id]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrMembershipNotFound, "Membership not found")
	}
	return s.withTier(m), nil
}

func (s memMemberships) latest(userID int64, status models.MembershipStatus) *models.Membership {
	var found *models.Membership
	for _, m := range s.db.memberships {
		if m.UserID != userID || (status != "" && m.Status != status) {
			continue
		}
		if found == nil || m.CreatedAt.After(found.CreatedAt) ||
			(m.CreatedAt.Equal(found.CreatedAt) && m.ID > found.ID) {
			found = s.withTier(m)
		}
	}
	return found
}

func (s memMemberships) Current(ctx context.Context, userID int64) (*models.Membership, error) {
	return s.latest(userID, ""), nil
}

func (s memMemberships) LatestPending(ctx context.Context, userID int64) (*models.Membership, error) {
	return s.latest(userID, models.MembershipStatusPending), nil
}

func (s memMemberships) CurrentByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Membership, error) {
	out := map[int64]*models.Membership{}
	for _, id := range userIDs {
		if m := s.latest(id, ""); m != nil {
			out[id] = m
		}
	}
	return out, nil
}

func (s memMemberships) UpdateState(ctx context.Context, id int64, status models.MembershipStatus, start *time.Time, end *time.Time, resetDates bool) error {
	m, ok := s.db.memberships[id]
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrMembershipNotFound, "Membership not found")
	}
	m.Status = status
	if resetDates {
		if start != nil {
			m.StartDate = *start
		}
		m.EndDate = end
	}
	s.db.memberships[id] = m
	return nil
}

func (s memMemberships) CancelPending(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for id, m := range s.db.memberships {
		if m.UserID == userID && m.Status == models.MembershipStatusPending {
			m.Status = models.MembershipStatusCancelled
			s.db.memberships[id] = m
			n++
		}
	}
	return n, nil
}

// events

type memEvents struct{ db *memDB }

func (s memEvents) Create(ctx context.Context, e *models.Event) error {
	e.ID = s.db.id()
	e.CreatedAt = s.db.tick()
	s.db.events[e.ID] = *e
	return nil
}

func (s memEvents) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := s.db.events[id]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found")
	}
	e.AttendeeCount = len(s.db.attendees[id])
	return &e, nil
}

func (s memEvents) LockByID(ctx context.Context, id int64) (*models.Event, error) {
	return s.GetByID(ctx, id)
}

func (s memEvents) List(ctx context.Context, filter repositories.EventFilter) ([]*models.Event, error) {
	var out []*models.Event
	for id := range s.db.events {
		e, _ := s.GetByID(ctx, id)
		switch filter.Window {
		case repositories.EventWindowUpcoming:
			if e.Date.Before(filter.Now) {
				continue
			}
		case repositories.EventWindowPast:
			if !e.Date.Before(filter.Now) {
				continue
			}
		}
		if filter.AttendeeID > 0 && !s.db.attendees[id][filter.AttendeeID] {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s memEvents) Update(ctx context.Context, e *models.Event) error {
	if _, ok := s.db.events[e.ID]; !ok {
		return apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found")
	}
	s.db.events[e.ID] = *e
	return nil
}

func (s memEvents) Delete(ctx context.Context, id int64) error {
	if _, ok := s.db.events[id]; !ok {
		return apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found")
	}
	delete(s.db.events, id)
	delete(s.db.attendees, id)
	return nil
}

func (s memEvents) CountAttendees(ctx context.Context, eventID int64) (int, error) {
	return len(s.db.attendees[eventID]), nil
}

func (s memEvents) IsAttendee(ctx context.Context, eventID, userID int64) (bool, error) {
	return s.db.attendees[eventID][userID], nil
}

func (s memEvents) AddAttendee(ctx context.Context, eventID, userID int64) error {
	if s.db.attendees[eventID] == nil {
		s.db.attendees[eventID] = map[int64]bool{}
	}
	s.db.attendees[eventID][userID] = true
	return nil
}

func (s memEvents) RemoveAttendee(ctx context.Context, eventID, userID int64) error {
	delete(s.db.attendees[eventID], userID)
	return nil
}

func (s memEvents) ListAttendees(ctx context.Context, eventID int64) ([]*models.User, error) {
	var out []*models.User
	for id := range s.db.attendees[eventID] {
		if u, ok := s.db.users[id]; ok {
			out = append(out, &models.User{ID: u.ID, Name: u.Name, Image: u.Image})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// event payments

type memPayments struct{ db *memDB }

func (s memPayments) Create(ctx context.Context, p *models.EventPayment) error {
	for _, existing := range s.db.payments {
		if existing.EventID == p.EventID && existing.UserID == p.UserID && existing.Status == models.PaymentStatusPending {
			return apperrors.NewConflictError("A payment for this event is already under review")
		}
	}
	p.ID = s.db.id()
	p.CreatedAt = s.db.tick()
	s.db.payments[p.ID] = *p
	return nil
}

func (s memPayments) LockForEvent(ctx context.Context, eventID, paymentID int64) (*models.EventPayment, error) {
	p, ok := s.db.payments[paymentID]
	if !ok || p.EventID != eventID {
		return nil, apperrors.NewCustomError(apperrors.ErrPaymentNotFound, "Payment not found")
	}
	return &p, nil
}

func (s memPayments) HasStatus(ctx context.Context, eventID, userID int64, status models.PaymentStatus) (bool, error) {
	for _, p := range s.db.payments {
		if p.EventID == eventID && p.UserID == userID && p.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (s memPayments) List(ctx context.Context, filter repositories.PaymentFilter) ([]*models.EventPayment, error) {
	var out []*models.EventPayment
	for _, p := range s.db.payments {
		if filter.EventID > 0 && p.EventID != filter.EventID {
			continue
		}
		if filter.UserID > 0 && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s memPayments) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	p, ok := s.db.payments[id]
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrPaymentNotFound, "Payment not found")
	}
	p.Status = status
	s.db.payments[id] = p
	return nil
}

// notifications

type memNotifications struct{ db *memDB }

func (s memNotifications) Create(ctx context.Context, n *models.Notification) error {
	if s.db.failNotifications {
		return errInjected
	}
	n.ID = s.db.id()
	n.CreatedAt = s.db.tick()
	s.db.notifications[n.ID] = *n
	return nil
}

func (s memNotifications) ListRecent(ctx context.Context, userID int64, limit uint64) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range s.db.notifications {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memNotifications) MarkRead(ctx context.Context, id, userID int64) error {
	n, ok := s.db.notifications[id]
	if !ok || n.UserID != userID {
		return apperrors.NewResourceNotFoundError("Notification not found")
	}
	n.Read = true
	s.db.notifications[id] = n
	return nil
}

// delivery fakes

type capturePusher struct{ pushed []*models.Notification }

func (p *capturePusher) PushNotification(n *models.Notification) {
	p.pushed = append(p.pushed, n)
}

type sentMail struct{ to, title, body string }

type captureMailer struct{ sent []sentMail }

func (m *captureMailer) SendStatusEmail(toEmail, toName, title, message string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, title: title, body: message})
	return nil
}

// helpers shared by the tests

func (m *memDB) notificationsFor(userID int64) []models.Notification {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memDB) titlesFor(userID int64) []string {
	var titles []string
	for _, n := range m.notificationsFor(userID) {
		titles = append(titles, n.Title)
	}
	return titles
}

func (m *memDB) membershipsFor(userID int64) []models.Membership {
	var out []models.Membership
	for _, ms := range m.memberships {
		if ms.UserID == userID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memDB) addUser(name string, role models.Role, status models.UserStatus) *models.User {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	u := &models.User{Email: fmt.Sprintf("%s.%d@example.com", local, m.nextID+1), Name: name, Role: role, Status: status}
	_ = memUsers{m}.Create(context.Background(), u)
	return u
}

func (m *memDB) addTier(name string, typ models.MembershipType, period models.BillingPeriod, amount float64) *models.MembershipTier {
	t := &models.MembershipTier{Name: name, Type: typ, Period: period, Amount: amount, IsActive: true}
	_ = memTiers{m}.Create(context.Background(), t)
	return t
}

func (m *memDB) addMembership(userID int64, tier *models.MembershipTier, status models.MembershipStatus, start time.Time) *models.Membership {
	ms := &models.Membership{
		UserID:        userID,
		TierID:        tier.ID,
		Status:        status,
		StartDate:     start,
		EndDate:       workflow.PeriodEnd(tier, start),
		Amount:        tier.Amount,
		PaymentMethod: models.PaymentMethodBkash,
		TransactionID: "TX-1",
	}
	_ = memMemberships{m}.Create(context.Background(), ms)
	return ms
}

func (m *memDB) addProfile(userID int64) {
	_ = memProfiles{m}.Upsert(context.Background(), &models.Profile{
		UserID:           userID,
		MembershipType:   models.MembershipTypeGeneral,
		MembershipStatus: models.MembershipStatusPending,
	})
}
