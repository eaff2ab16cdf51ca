package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// AuthController handles authentication related operations
type AuthController struct {
	authService   *services.AuthService
	secureCookies bool
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController. secureCookies marks the
// OAuth state cookie Secure and should be set whenever TLS terminates in front of the API.
func NewAuthController(authService *services.AuthService, secureCookies bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Register handles user registration
// @Summary Register a new alumni account
// @Description Creates a PENDING alumni account, records a welcome notification and signs the user in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", resp.User.ID).Msg("User registered")
	respondCreated(ctx, resp)
}

// Login handles user login
// @Summary User login
// @Description Authenticates with email and password and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, resp)
}

// RefreshToken handles refresh token request
// @Summary Refresh access token
// @Description Rotates a refresh token. Presenting a token that was already used revokes every session of its owner.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Token refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked refresh token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Refresh token failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, resp)
}

// GoogleLogin starts the Google sign-in flow
// @Summary Start Google sign-in
// @Description Returns the Google consent URL and sets a short-lived state cookie checked on callback
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.GoogleLoginResponse} "Consent URL"
// @Failure 400 {object} dto.ErrorResponse "Google sign-in is not configured"
// @Router /auth/google/login [get]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	state := uuid.NewString()

	url, err := c.authService.GoogleLoginURL(state)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", c.secureCookies, true)
	respondOK(ctx, dto.GoogleLoginResponse{URL: url})
}

// GoogleCallback completes the Google sign-in flow
// @Summary Google sign-in callback
// @Description Exchanges the authorization code, creating a PENDING alumni account on first sign-in
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by /auth/google/login"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Signed in"
// @Failure 400 {object} dto.ErrorResponse "Missing code or state mismatch"
// @Failure 401 {object} dto.ErrorResponse "Google sign-in failed"
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Missing code or state"))
		return
	}

	expected, err := ctx.Cookie(oauthStateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		c.logger.Warn().Msg("OAuth state mismatch")
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid OAuth state"))
		return
	}
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", c.secureCookies, true)

	resp, err := c.authService.GoogleCallback(ctx.Request.Context(), code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", resp.User.ID).Msg("User signed in with Google")
	respondOK(ctx, resp)
}
