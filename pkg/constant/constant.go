package constant

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context keys
const (
	CtxKeySessionUser ContextKey = "session_user"
	CtxKeySessionID   ContextKey = "session_id"
)

// HeaderServiceToken carries a signed service credential for trusted callers
// (mobile clients and internal tooling) instead of a session cookie.
const HeaderServiceToken = "X-Service-Token"

// User roles
const (
	RoleClient     = "CLIENT"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

// Default photo asset paths assigned when the caller supplies none.
const (
	DefaultProfilePhoto = "assets/images/default-profile.png"
	DefaultCarPhoto     = "assets/images/default-car.jpg"
)
