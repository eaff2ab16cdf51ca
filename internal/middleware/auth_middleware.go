package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

// UserLookup loads the current state of the account behind a token
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLookup
	policy     *appauth.Policy
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLookup, policy *appauth.Policy, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		policy:     policy,
		logger:     logger,
	}
}

// JWTAuth validates the bearer token and attaches the caller's principal.
// Role and status come from storage, not from the token.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.authenticate(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and lets
// anonymous requests through untouched
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenFromRequest(c) == "" {
			c.Next()
			return
		}
		if principal, err := m.authenticate(c); err == nil {
			setPrincipal(c, principal)
		}
		c.Next()
	}
}

// Authorize consults the access policy for the caller's role
func (m *AuthMiddleware) Authorize(resource appauth.Resource, action appauth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		if !m.policy.Allows(resource, action, principal.Role) {
			m.logger.Warn().
				Int64("userID", principal.UserID).
				Str("role", string(principal.Role)).
				Str("resource", string(resource)).
				Str("action", string(action)).
				Msg("Access denied by policy")

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// RequireVerified rejects callers whose account has not been verified
func (m *AuthMiddleware) RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		if !principal.IsVerified() && !principal.IsAdmin() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeNotVerified, "Account not verified")
			errorDetail = errorDetail.WithDetails("Your account must be verified by an administrator to access this resource")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (auth.Principal, error) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return auth.Principal{}, apperrors.ErrTokenNotFound
	}

	tokenString, err := auth.ExtractBearerToken(tokenString)
	if err != nil {
		return auth.Principal{}, err
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		return auth.Principal{}, err
	}

	user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrResourceNotFound) {
			return auth.Principal{}, apperrors.ErrTokenInvalid
		}
		m.logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Failed to load user for token")
		return auth.Principal{}, err
	}

	return auth.PrincipalFromUser(user), nil
}

// tokenFromRequest reads the Authorization header, falling back to the
// "token" query parameter that browser WebSocket clients have to use
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return header
	}
	return c.Query("token")
}

func setPrincipal(c *gin.Context, principal auth.Principal) {
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
	c.Set("userID", principal.UserID)
	c.Set("role", string(principal.Role))
}

func abortUnauthorized(c *gin.Context, err error) {
	errorCode := dto.ErrorCodeUnauthorized
	details := "Authentication required"

	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		errorCode = dto.ErrorCodeExpiredToken
		details = "Token has expired"
	case errors.Is(err, apperrors.ErrTokenNotFound):
		errorCode = dto.ErrorCodeTokenNotFound
		details = "Authorization header missing"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		errorCode = dto.ErrorCodeInvalidToken
		details = "Invalid token"
	}

	errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// CurrentPrincipal returns the authenticated caller of the request
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	return auth.PrincipalFrom(c.Request.Context())
}
