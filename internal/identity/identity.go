// Package identity exposes the caller of the current request to the domain
// services. There is no anonymous user: a missing identity is an error.
package identity

import (
	"context"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
)

// User is the authenticated caller.
type User struct {
	ID uint `json:"id"`
}

// Provider resolves the current user.
type Provider interface {
	CurrentUser(ctx context.Context) (User, error)
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user stored by WithUser.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok && u.ID != 0
}

// ContextProvider reads the user placed on the context by the auth middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (User, error) {
	u, ok := FromContext(ctx)
	if !ok {
		return User{}, apperr.PermissionDenied("no authenticated user")
	}
	return u, nil
}
