package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

type stubUsers map[int64]*models.User

func (s stubUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestMiddleware(users stubUsers) (*AuthMiddleware, *auth.JWTService) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		AccessTokenExp:  time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "alumnihub-test",
	})
	return NewAuthMiddleware(jwtService, users, appauth.DefaultPolicy(), zerolog.Nop()), jwtService
}

func bearer(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestJWTAuth(t *testing.T) {
	alumni := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleAlumni, Status: models.UserStatusVerified}
	m, jwtService := newTestMiddleware(stubUsers{1: alumni})

	router := gin.New()
	router.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "role": p.Role})
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeTokenNotFound, decodeError(t, w).Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, jwtService, alumni))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userId":1,"role":"ALUMNI"}`, w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		token := strings.TrimPrefix(bearer(t, jwtService, alumni), "Bearer ")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, jwtService, &models.User{ID: 99, Email: "gone@example.com"}))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
	})
}

func TestJWTAuth_UsesStoredRole(t *testing.T) {
	// The token says ADMIN but storage says ALUMNI.
	stored := &models.User{ID: 5, Email: "x@example.com", Role: models.RoleAlumni, Status: models.UserStatusVerified}
	m, jwtService := newTestMiddleware(stubUsers{5: stored})

	router := gin.New()
	router.DELETE("/admin/users/:id", m.JWTAuth(), m.Authorize(appauth.ResourceUser, appauth.ActionDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	token := bearer(t, jwtService, &models.User{ID: 5, Email: "x@example.com", Role: models.RoleAdmin})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/users/7", nil)
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Error.Code)
}

func TestRequireVerified(t *testing.T) {
	pending := &models.User{ID: 1, Email: "p@example.com", Role: models.RoleAlumni, Status: models.UserStatusPending}
	admin := &models.User{ID: 2, Email: "admin@example.com", Role: models.RoleAdmin, Status: models.UserStatusPending}
	m, jwtService := newTestMiddleware(stubUsers{1: pending, 2: admin})

	router := gin.New()
	router.GET("/alumni", m.JWTAuth(), m.RequireVerified(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, tc := range []struct {
		user *models.User
		want int
	}{
		{pending, http.StatusForbidden},
		{admin, http.StatusOK},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/alumni", nil)
		req.Header.Set("Authorization", bearer(t, jwtService, tc.user))
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "user %d", tc.user.ID)
	}
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: 3, Email: "o@example.com", Role: models.RoleAlumni}
	m, jwtService := newTestMiddleware(stubUsers{3: user})

	router := gin.New()
	router.GET("/events/:id", m.OptionalAuth(), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, fmt.Sprint(p.UserID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/1", nil))
	assert.Equal(t, "0", w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/1", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, user))
	router.ServeHTTP(w, req)
	assert.Equal(t, "3", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/events/1", nil)
	req.Header.Set("Authorization", "Bearer broken")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"validation", apperrors.NewValidationError("reason", "Rejection reason is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Rejection reason is required"},
		{"transition", apperrors.NewTransitionError("Payment already decided"), http.StatusBadRequest, dto.ErrorCodeInvalidTransition, "Payment already decided"},
		{"event full", apperrors.ErrEventFull, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event is full"},
		{"membership required", apperrors.ErrMembershipRequired, http.StatusForbidden, dto.ErrorCodeForbidden, "Membership required"},
		{"forbidden", apperrors.NewForbiddenError("Only admins may notify other users"), http.StatusForbidden, dto.ErrorCodeForbidden, "Only admins may notify other users"},
		{"event not found", apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
		{"wrapped not found", fmt.Errorf("load: %w", apperrors.ErrUserNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
		{"conflict", apperrors.NewConflictError("Payment already submitted"), http.StatusConflict, dto.ErrorCodeConflict, "Payment already submitted"},
		{"email exists", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already registered"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already registered"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, tc.message, resp.Error.Message)
		})
	}
}

func TestHandleAPIError_CarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("price", "Price is required for paid events"))

	assert.Equal(t, "price", decodeError(t, w).Error.Field)
}

func TestBindJSON_ReportsFieldErrors(t *testing.T) {
	require.NoError(t, RegisterValidators())

	router := gin.New()
	router.POST("/membership", func(c *gin.Context) {
		var req dto.MembershipApplicationRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	body := `{"tierId":1,"paymentMethod":"CHEQUE","transactionId":"TX-1"}`
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/membership", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "paymentMethod", resp.Error.Field)
}

func TestBindOptionalJSON(t *testing.T) {
	require.NoError(t, RegisterValidators())

	var got dto.JoinEventRequest
	router := gin.New()
	router.POST("/join", func(c *gin.Context) {
		got = dto.JoinEventRequest{}
		if !BindOptionalJSON(c, &got) {
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(body io.Reader, contentLength int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/join", body)
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = contentLength
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	payment := `{"paymentMethod":"BKASH","transactionId":"TX-7","paymentProof":"https://cdn.example.com/p.png"}`

	t.Run("no body", func(t *testing.T) {
		w := send(nil, 0)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, got.PaymentMethod)
	})

	t.Run("chunked body", func(t *testing.T) {
		w := send(io.MultiReader(strings.NewReader(payment)), -1)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "BKASH", got.PaymentMethod)
		assert.Equal(t, "TX-7", got.TransactionID)
	})

	t.Run("empty chunked body", func(t *testing.T) {
		w := send(io.MultiReader(strings.NewReader("")), -1)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, got.PaymentMethod)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := send(io.MultiReader(strings.NewReader(`{"paymentMethod":"CHEQUE"}`)), -1)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "paymentMethod", decodeError(t, w).Error.Field)
	})
}
