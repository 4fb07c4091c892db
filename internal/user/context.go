package user

import "context"

// Authenticated is the identity attached to every request after the auth
// middleware has run; handlers trust it unconditionally.
type Authenticated struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type authCtxKey string

const contextAuthKey authCtxKey = "authenticatedUser"

func ContextWithAuthenticated(ctx context.Context, u *Authenticated) context.Context {
	return context.WithValue(ctx, contextAuthKey, u)
}

func AuthenticatedFromContext(ctx context.Context) (*Authenticated, bool) {
	u, ok := ctx.Value(contextAuthKey).(*Authenticated)
	return u, ok
}
