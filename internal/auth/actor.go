// Package auth carries the acting user through request contexts.
package auth

import "context"

// Role gates the HTTP surface; each role sees a scoped subset of routes.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleFinance    Role = "finance"
	RoleSupplier   Role = "supplier"
)

// Actor identifies the authenticated user for audit fields and
// authorization decisions. It replaces any ambient current-user state:
// every workflow operation receives the acting user explicitly.
type Actor struct {
	UserID string
	Name   string
	Role   Role
	BPCode string
}

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom extracts the actor from the context.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
