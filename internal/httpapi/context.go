package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jacentio/lattice/model"
	"github.com/jacentio/lattice/store"
)

type contextKey int

const (
	scopeContextKey contextKey = iota
	userContextKey
)

func withScope(ctx context.Context, scope *store.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, scope)
}

// scopeFrom returns the request's database scope. Handlers run below the
// scope middleware, so the value is always present.
func scopeFrom(ctx context.Context) *store.Scope {
	return ctx.Value(scopeContextKey).(*store.Scope)
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// userFrom returns the authenticated account. Handlers behind requireUser
// can rely on it being present.
func userFrom(ctx context.Context) *model.User {
	return ctx.Value(userContextKey).(*model.User)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
