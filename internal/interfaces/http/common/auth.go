package common

import "context"

type contextKey string

const authAdminContextKey contextKey = "authAdmin"

// AuthenticatedAdmin is the principal derived from an admin JWT.
type AuthenticatedAdmin struct {
	Subject string `json:"subject"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ContextWithAdmin stores the authenticated admin into context.
func ContextWithAdmin(ctx context.Context, admin AuthenticatedAdmin) context.Context {
	return context.WithValue(ctx, authAdminContextKey, admin)
}

// AdminFromContext extracts the authenticated admin from context.
func AdminFromContext(ctx context.Context) (AuthenticatedAdmin, bool) {
	admin, ok := ctx.Value(authAdminContextKey).(AuthenticatedAdmin)
	return admin, ok
}
