package auth

import (
	"context"

	"github.com/yigit/alumnihub/internal/app/models"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID int64
	Role   models.Role
	Status models.UserStatus
}

// IsAdmin reports whether the caller holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IsVerified reports whether the caller passed admin verification
func (p Principal) IsVerified() bool {
	return p.Status == models.UserStatusVerified
}

// PrincipalFromUser projects the fields of user that authorization depends on
func PrincipalFromUser(user *models.User) Principal {
	return Principal{UserID: user.ID, Role: user.Role, Status: user.Status}
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
