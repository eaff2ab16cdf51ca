package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db     *memDB
	tx     *memTx
	pusher *capturePusher
	mailer *captureMailer

	auth          *AuthService
	profiles      *ProfileService
	tiers         *TierService
	memberships   *MembershipService
	events        *EventService
	users         *UserService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newMemDB()
	env := &testEnv{
		db:     db,
		tx:     &memTx{db: db},
		pusher: &capturePusher{},
		mailer: &captureMailer{},
	}
	log := zerolog.Nop()
	notifier := NewNotifier(memNotifications{db}, env.pusher, env.mailer, log)
	clock := func() time.Time { return testNow }

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "alumnihub-test",
	})

	env.auth = NewAuthService(env.tx, memUsers{db}, memTokens{db}, notifier, jwtService, nil, log)
	env.profiles = NewProfileService(env.tx, memUsers{db}, memProfiles{db}, memMemberships{db}, notifier, log)
	env.profiles.now = clock
	env.tiers = NewTierService(memTiers{db}, log)
	env.memberships = NewMembershipService(env.tx, memUsers{db}, memProfiles{db}, memTiers{db}, memMemberships{db}, notifier, log)
	env.memberships.now = clock
	env.events = NewEventService(env.tx, memEvents{db}, memPayments{db}, memMemberships{db}, notifier, log)
	env.events.now = clock
	env.users = NewUserService(env.tx, memUsers{db}, memProfiles{db}, memMemberships{db}, notifier, log)
	env.users.now = clock
	env.notifications = NewNotificationService(env.tx, memUsers{db}, memNotifications{db}, notifier, log)
	return env
}

func validProfile() *dto.ProfileRequest {
	return &dto.ProfileRequest{
		FatherName:       "Abdul Karim",
		MotherName:       "Salma Begum",
		PresentAddress:   "House 12, Road 5, Dhaka",
		PermanentAddress: "Village Rampur, Cumilla",
		MobileNumber:     "+8801711000000",
		Nationality:      "Bangladeshi",
		SSCRegNumber:     "123456",
		SSCRollNumber:    "654321",
		PassingYear:      2010,
		Occupation:       "Engineer <b>Senior</b>",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{Name: "Rahim Uddin", Email: "Rahim@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPending, resp.User.Status)
	assert.Equal(t, models.RoleAlumni, resp.User.Role)
	assert.Equal(t, "rahim@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Contains(t, env.db.tokens, resp.Token.RefreshToken)
	assert.Equal(t, []string{"Welcome"}, env.db.titlesFor(resp.User.ID))
	assert.Len(t, env.pusher.pushed, 1)

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "rahim@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "rahim@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	login, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "rahim@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestLogin_AccountWithoutPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.db.addUser("Google User", models.RoleAlumni, models.UserStatusPending)

	_, err := env.auth.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "anything"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshToken_RotatesAndDetectsReuse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, &dto.RegisterRequest{Name: "Rahim", Email: "rahim@example.com", Password: "secret123"})
	require.NoError(t, err)
	first := resp.Token.RefreshToken

	rotated, err := env.auth.RefreshToken(ctx, first)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated.Token.RefreshToken)
	assert.True(t, env.db.tokens[first].IsRevoked)

	_, err = env.auth.RefreshToken(ctx, first)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	assert.True(t, env.db.tokens[rotated.Token.RefreshToken].IsRevoked, "reuse revokes every session")

	_, err = env.auth.RefreshToken(ctx, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.GoogleLoginURL("state")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestSubmitProfile_WithoutMembershipRequiresPayment(t *testing.T) {
	env := newTestEnv(t)
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPending)

	resp, err := env.profiles.SubmitProfile(context.Background(), user.ID, validProfile())
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusPaymentPending, resp.User.Status)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Engineer Senior", resp.Profile.Occupation)
	assert.Equal(t, models.MembershipTypeGeneral, resp.Profile.MembershipType)
	assert.Equal(t, []string{"Payment Required"}, env.db.titlesFor(user.ID))
}

func TestSubmitProfile_WithPendingMembershipEntersReview(t *testing.T) {
	env := newTestEnv(t)
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPending)
	tier := env.db.addTier("Donor", models.MembershipTypeDonor, models.BillingPeriodYearly, 5000)
	env.db.addMembership(user.ID, tier, models.MembershipStatusPending, testNow)

	resp, err := env.profiles.SubmitProfile(context.Background(), user.ID, validProfile())
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusInProgress, resp.User.Status)
	assert.Equal(t, models.MembershipTypeDonor, resp.Profile.MembershipType)
	assert.Equal(t, models.MembershipStatusPending, resp.Profile.MembershipStatus)
	assert.Equal(t, []string{"Profile Updated"}, env.db.titlesFor(user.ID))
}

func TestSubmitProfile_RollsBackWhenNotificationFails(t *testing.T) {
	env := newTestEnv(t)
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPending)
	env.db.failNotifications = true

	_, err := env.profiles.SubmitProfile(context.Background(), user.ID, validProfile())
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, models.UserStatusPending, env.db.users[user.ID].Status)
	assert.NotContains(t, env.db.profiles, user.ID)
	assert.Empty(t, env.pusher.pushed)
}

func TestApplyForMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPaymentPending)
	env.db.addProfile(user.ID)
	tier := env.db.addTier("Donor", models.MembershipTypeDonor, models.BillingPeriodYearly, 5000)

	req := &dto.MembershipApplicationRequest{TierID: tier.ID, PaymentMethod: "BKASH", TransactionID: " TX-9 "}
	resp, err := env.memberships.Apply(ctx, user.ID, req)
	require.NoError(t, err)

	assert.Equal(t, models.MembershipStatusPending, resp.Status)
	assert.Equal(t, 5000.0, resp.Amount)
	assert.Equal(t, "TX-9", resp.TransactionID)
	assert.Equal(t, models.UserStatusInProgress, env.db.users[user.ID].Status)
	assert.Equal(t, models.MembershipTypeDonor, env.db.profiles[user.ID].MembershipType)
	assert.Equal(t, []string{"Membership Application Submitted"}, env.db.titlesFor(user.ID))

	_, err = env.memberships.Apply(ctx, user.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Len(t, env.db.membershipsFor(user.ID), 1)

	_, err = env.memberships.Apply(ctx, user.ID, &dto.MembershipApplicationRequest{TierID: 999, PaymentMethod: "BKASH", TransactionID: "X"})
	assert.ErrorIs(t, err, apperrors.ErrTierNotFound)
}

func TestCancelMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.db.addUser("Owner", models.RoleAlumni, models.UserStatusVerified)
	other := env.db.addUser("Other", models.RoleAlumni, models.UserStatusVerified)
	env.db.addProfile(owner.ID)
	tier := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodMonthly, 200)
	m := env.db.addMembership(owner.ID, tier, models.MembershipStatusActive, testNow)

	_, err := env.memberships.Cancel(ctx, other.ID, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrMembershipNotFound)

	resp, err := env.memberships.Cancel(ctx, owner.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusCancelled, resp.Status)
	assert.Equal(t, models.UserStatusPaymentPending, env.db.users[owner.ID].Status)
	assert.Equal(t, models.MembershipStatusCancelled, env.db.profiles[owner.ID].MembershipStatus)

	_, err = env.memberships.Cancel(ctx, owner.ID, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRenewMembership_AppendsRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusVerified)
	env.db.addProfile(user.ID)
	monthly := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodMonthly, 200)
	yearly := env.db.addTier("Donor", models.MembershipTypeDonor, models.BillingPeriodYearly, 5000)
	old := env.db.addMembership(user.ID, monthly, models.MembershipStatusActive, testNow.AddDate(0, -2, 0))

	resp, err := env.memberships.Renew(ctx, user.ID, &dto.RenewMembershipRequest{TierID: yearly.ID})
	require.NoError(t, err)

	rows := env.db.membershipsFor(user.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, old.Status, rows[0].Status, "previous row untouched")
	assert.Equal(t, models.MembershipStatusActive, resp.Status)
	assert.Equal(t, yearly.ID, resp.TierID)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, testNow.AddDate(0, 0, 365), *resp.EndDate)
	assert.Equal(t, models.MembershipTypeDonor, env.db.profiles[user.ID].MembershipType)
	assert.Equal(t, []string{"Membership Renewed"}, env.db.titlesFor(user.ID))

	stranger := env.db.addUser("Stranger", models.RoleAlumni, models.UserStatusPending)
	_, err = env.memberships.Renew(ctx, stranger.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestVerifyUser_ActivatesPendingMembership(t *testing.T) {
	env := newTestEnv(t)
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusInProgress)
	env.db.addProfile(user.ID)
	tier := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodMonthly, 200)
	m := env.db.addMembership(user.ID, tier, models.MembershipStatusPending, testNow.AddDate(0, 0, -3))

	resp, err := env.users.VerifyUser(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusVerified, resp.Status)
	stored := env.db.memberships[m.ID]
	assert.Equal(t, models.MembershipStatusActive, stored.Status)
	assert.Equal(t, testNow, stored.StartDate)
	require.NotNil(t, stored.EndDate)
	assert.Equal(t, testNow.AddDate(0, 0, 30), *stored.EndDate)
	assert.Equal(t, models.MembershipStatusActive, env.db.profiles[user.ID].MembershipStatus)
	assert.Equal(t, []string{"Account Verified", "Membership Activated"}, env.db.titlesFor(user.ID))
	assert.Len(t, env.pusher.pushed, 2)
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "Account Verified", env.mailer.sent[0].title)

	_, err = env.users.VerifyUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRejectUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusInProgress)
	env.db.addProfile(user.ID)
	tier := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodMonthly, 200)
	m := env.db.addMembership(user.ID, tier, models.MembershipStatusPending, testNow)

	t.Run("blank reason writes nothing", func(t *testing.T) {
		_, err := env.users.RejectUser(ctx, user.ID, "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, models.UserStatusInProgress, env.db.users[user.ID].Status)
		assert.Equal(t, models.MembershipStatusPending, env.db.memberships[m.ID].Status)
		assert.Empty(t, env.db.notificationsFor(user.ID))
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("reason cancels pending memberships", func(t *testing.T) {
		resp, err := env.users.RejectUser(ctx, user.ID, "Incomplete <i>documents</i>")
		require.NoError(t, err)
		assert.Equal(t, models.UserStatusRejected, resp.Status)
		assert.Equal(t, models.MembershipStatusCancelled, env.db.memberships[m.ID].Status)
		assert.Equal(t, models.MembershipStatusCancelled, env.db.profiles[user.ID].MembershipStatus)

		notices := env.db.notificationsFor(user.ID)
		require.Len(t, notices, 1)
		assert.Equal(t, "Profile Rejected", notices[0].Title)
		assert.Contains(t, notices[0].Message, "Incomplete documents")
		assert.Len(t, env.mailer.sent, 1)
	})
}

func TestUpdateMembership_AdminActions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusVerified)
	env.db.addProfile(user.ID)
	tier := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodWeekly, 50)
	m := env.db.addMembership(user.ID, tier, models.MembershipStatusCancelled, testNow.AddDate(0, -1, 0))

	_, err := env.users.UpdateMembership(ctx, user.ID, "DELETE")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := env.users.UpdateMembership(ctx, user.ID, "ACTIVATE")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusActive, resp.Status)
	stored := env.db.memberships[m.ID]
	assert.Equal(t, testNow, stored.StartDate)
	assert.Equal(t, testNow.AddDate(0, 0, 7), *stored.EndDate)
	assert.Equal(t, models.MembershipStatusActive, env.db.profiles[user.ID].MembershipStatus)

	_, err = env.users.UpdateMembership(ctx, user.ID, "CANCEL")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusCancelled, env.db.memberships[m.ID].Status)
	assert.Equal(t, testNow, env.db.memberships[m.ID].StartDate, "dates only move on activation")
	assert.Equal(t, []string{"Membership Status Update", "Membership Status Update"}, env.db.titlesFor(user.ID))

	bare := env.db.addUser("Bare", models.RoleAlumni, models.UserStatusPending)
	resp, err = env.users.UpdateMembership(ctx, bare.ID, "PENDING")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, []string{"Membership Status Update"}, env.db.titlesFor(bare.ID))
}

func TestListUsersAndAlumni(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	verified := env.db.addUser("Verified Alum", models.RoleAlumni, models.UserStatusVerified)
	env.db.addProfile(verified.ID)
	env.db.addUser("Pending Alum", models.RoleAlumni, models.UserStatusPending)
	env.db.addUser("Admin", models.RoleAdmin, models.UserStatusVerified)
	tier := env.db.addTier("General", models.MembershipTypeGeneral, models.BillingPeriodMonthly, 200)
	env.db.addMembership(verified.ID, tier, models.MembershipStatusActive, testNow.AddDate(0, -2, 0))

	list, err := env.users.ListUsers(ctx, dto.UserListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Users, 3)
	assert.Equal(t, 3, list.Pagination.TotalItems)
	for _, u := range list.Users {
		if u.ID == verified.ID {
			require.NotNil(t, u.Membership)
			assert.Equal(t, models.MembershipStatusExpired, u.Membership.Status)
			assert.Equal(t, models.MembershipStatusExpired, u.MembershipStatus)
		}
	}

	alumni, err := env.users.ListAlumni(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, alumni.Alumni, 1)
	assert.Equal(t, verified.ID, alumni.Alumni[0].ID)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.db.addUser("Admin", models.RoleAdmin, models.UserStatusVerified)
	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPending)
	env.db.addProfile(user.ID)

	assert.ErrorIs(t, env.users.DeleteUser(context.Background(), admin.ID, admin.ID), apperrors.ErrBadRequest)
	require.NoError(t, env.users.DeleteUser(context.Background(), admin.ID, user.ID))
	assert.NotContains(t, env.db.users, user.ID)
	assert.NotContains(t, env.db.profiles, user.ID)
	assert.ErrorIs(t, env.users.DeleteUser(context.Background(), admin.ID, user.ID), apperrors.ErrUserNotFound)
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.db.addUser("Admin", models.RoleAdmin, models.UserStatusVerified)
	alice := env.db.addUser("Alice", models.RoleAlumni, models.UserStatusVerified)
	bob := env.db.addUser("Bob", models.RoleAlumni, models.UserStatusVerified)

	req := &dto.CreateNotificationRequest{UserID: bob.ID, Title: "Hello", Message: "Hi Bob", Type: "SYSTEM"}
	_, err := env.notifications.Create(ctx, auth.PrincipalFromUser(alice), req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	created, err := env.notifications.Create(ctx, auth.PrincipalFromUser(admin), req)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, bob.ID, created.UserID)
	require.Len(t, env.pusher.pushed, 1)
	assert.Equal(t, bob.ID, env.pusher.pushed[0].UserID)

	for i := 0; i < 12; i++ {
		_, err := env.notifications.Create(ctx, auth.PrincipalFromUser(bob), &dto.CreateNotificationRequest{Title: "Note", Message: "Self", Type: "SYSTEM"})
		require.NoError(t, err)
	}
	feed, err := env.notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 10)

	assert.ErrorIs(t, env.notifications.MarkRead(ctx, alice.ID, created.ID), apperrors.ErrResourceNotFound)
	require.NoError(t, env.notifications.MarkRead(ctx, bob.ID, created.ID))
	assert.True(t, env.db.notifications[created.ID].Read)
}

func TestTierLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tier, err := env.tiers.CreateTier(ctx, &dto.CreateTierRequest{
		Name: "Donor", Type: "DONOR", Period: "YEARLY", Amount: 5000,
		Benefits: []string{"Priority seating", " ", "<b>Annual dinner</b>"},
	})
	require.NoError(t, err)
	assert.True(t, tier.IsActive)
	assert.Equal(t, []string{"Priority seating", "Annual dinner"}, tier.Benefits)

	inactive := false
	_, err = env.tiers.UpdateTier(ctx, tier.ID, &dto.UpdateTierRequest{IsActive: &inactive})
	require.NoError(t, err)

	public, err := env.tiers.ListTiers(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := env.tiers.ListTiers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	user := env.db.addUser("Rahim", models.RoleAlumni, models.UserStatusPending)
	env.db.addMembership(user.ID, tier, models.MembershipStatusPending, testNow)
	assert.ErrorIs(t, env.tiers.DeleteTier(ctx, tier.ID), apperrors.ErrConflict)
}
