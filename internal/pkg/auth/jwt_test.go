package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "alumnihub-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT()
	user := &models.User{ID: 42, Email: "a@example.com", Role: models.RoleAlumni}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.Equal(t, int64(86400), pair.RefreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ALUMNI", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := newTestJWT()
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "alumnihub-test"})

	pair, err := other.GenerateTokenPair(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	wrongIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Minute, TokenIssuer: "someone-else"})
	pair, err = wrongIssuer.GenerateTokenPair(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	_, err = svc.ValidateAndExtractClaims("")
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("")
	assert.True(t, errors.Is(err, apperrors.ErrTokenNotFound))

	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestPrincipalContext(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: 3, Role: models.RoleAdmin, Status: models.UserStatusVerified})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.True(t, p.IsAdmin())
	assert.True(t, p.IsVerified())

	_, ok = PrincipalFrom(context.Background())
	assert.False(t, ok)
}
