// Package identity holds the request-scoped identity binding and the
// ownership guard used by every data-access operation. The resolved user
// travels in the request context only; there is no process-wide state, so
// concurrent requests can never observe each other's identity.
package identity

import (
	"context"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/server/models"
)

type ctxKey struct{}

// Bind attaches the resolved user to the context. A binding that is already
// present wins; a later token in the same request never replaces it.
func Bind(ctx context.Context, user *models.User) context.Context {
	if _, ok := ctx.Value(ctxKey{}).(*models.User); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, user)
}

// Current returns the identity bound to this request, or ErrorNoIdentity
// when the request is unauthenticated.
func Current(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	if !ok || user == nil {
		return nil, common.ErrorNoIdentity
	}
	return user, nil
}
