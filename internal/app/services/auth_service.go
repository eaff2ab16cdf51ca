package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/workflow"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
)

var welcomeNotice = workflow.Notice{
	Type:    models.NotificationTypeSystem,
	Title:   "Welcome",
	Message: "Welcome to the alumni association! Please complete your profile to continue.",
}

// AuthService handles registration, sign-in and token rotation
type AuthService struct {
	tx         Transactor
	userRepo   UserStore
	tokenRepo  TokenStore
	notifier   *Notifier
	jwtService *auth.JWTService
	google     *auth.GoogleProvider
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService. google may be nil when
// third-party sign-in is not configured.
func NewAuthService(
	tx Transactor,
	userRepo UserStore,
	tokenRepo TokenStore,
	notifier *Notifier,
	jwtService *auth.JWTService,
	google *auth.GoogleProvider,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		tx:         tx,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		notifier:   notifier,
		jwtService: jwtService,
		google:     google,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a PENDING alumni account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already registered")
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: &hashed,
		Name:     sanitize.Text(req.Name),
		Role:     models.RoleAlumni,
		Status:   models.UserStatusPending,
	}

	var out outbox
	var resp *dto.AuthResponse
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		if err := s.notifier.Record(ctx, &out, user.ID, welcomeNotice); err != nil {
			return err
		}
		resp, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return resp, nil
}

// Login authenticates credentials
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password == nil || !auth.CheckPassword(*user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token. Presenting a token that was already
// used revokes every token of its owner.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	var resp *dto.AuthResponse
	var reused int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.tokenRepo.GetToken(ctx, refreshToken)
		if err != nil {
			return err
		}

		if stored.IsRevoked {
			reused = stored.UserID
			return s.tokenRepo.RevokeAllUserTokens(ctx, stored.UserID)
		}
		if stored.IsExpired(s.now()) {
			return apperrors.ErrTokenExpired
		}

		user, err := s.userRepo.GetByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return apperrors.ErrTokenInvalid
			}
			return err
		}

		if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke old token: %w", err)
		}

		resp, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if reused != 0 {
		s.logger.Warn().Int64("userID", reused).Msg("Revoked refresh token presented again, all sessions revoked")
		return nil, apperrors.ErrTokenRevoked
	}
	return resp, nil
}

// GoogleLoginURL returns the consent page URL carrying state
func (s *AuthService) GoogleLoginURL(state string) (string, error) {
	if !s.google.Enabled() {
		return "", apperrors.NewBadRequestError("Google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback completes the Google code flow. The first sign-in of an
// e-mail creates a PENDING alumni account; later ones link by e-mail.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if !s.google.Enabled() {
		return nil, apperrors.NewBadRequestError("Google sign-in is not configured")
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google code exchange failed")
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthorized, "Google sign-in failed")
	}

	var out outbox
	var resp *dto.AuthResponse
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			if user.Image == nil && profile.Picture != "" {
				picture := profile.Picture
				if err := s.userRepo.UpdateImage(ctx, user.ID, &picture); err != nil {
					return err
				}
				user.Image = &picture
			}
		case errors.Is(err, apperrors.ErrUserNotFound):
			user = &models.User{
				Email:  strings.ToLower(profile.Email),
				Name:   sanitize.Text(profile.Name),
				Role:   models.RoleAlumni,
				Status: models.UserStatusPending,
			}
			if user.Name == "" {
				user.Name = user.Email
			}
			if profile.Picture != "" {
				picture := profile.Picture
				user.Image = &picture
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return err
			}
			if err := s.notifier.Record(ctx, &out, user.ID, welcomeNotice); err != nil {
				return err
			}
			s.logger.Info().Int64("userID", user.ID).Msg("User registered through Google")
		default:
			return err
		}

		resp, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Flush(&out)
	return resp, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           pair.AccessToken,
			TokenType:             "Bearer",
			ExpiresIn:             pair.ExpiresIn,
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresIn: pair.RefreshExpiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
