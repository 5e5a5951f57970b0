package middleware

// contextKey is a private type for context keys so other packages cannot
// collide with them.
type contextKey string

const (
	userIDCtxKey   = contextKey("user_id")
	userRoleCtxKey = contextKey("user_role")
)
