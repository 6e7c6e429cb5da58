package auth

// Role is the closed set of internal roles. Authorization is
// membership-based; roles carry no ordering.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "dokter"
)

// ParseRole maps a role string onto the enum, case-sensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleDoctor:
		return RoleDoctor, true
	}
	return "", false
}

// KnownRole reports whether s names a role. Used for startup validation of
// the configured default.
func KnownRole(s string) bool {
	_, ok := ParseRole(s)
	return ok
}

// roleRule extracts a candidate role string from a raw claim value. Rules
// are tried in order; the first that applies wins.
type roleRule func(claim interface{}) (string, bool)

var roleRules = []roleRule{
	// Non-empty list: take the first element.
	func(claim interface{}) (string, bool) {
		list, ok := claim.([]interface{})
		if !ok || len(list) == 0 {
			return "", false
		}
		s, ok := list[0].(string)
		return s, ok
	},
	// Plain string.
	func(claim interface{}) (string, bool) {
		s, ok := claim.(string)
		return s, ok
	},
}

// RoleResolver maps verified claims to a Role. Resolve is total: any claim
// shape or value that fails to map falls back to the configured default,
// which config validation guarantees is a known role.
type RoleResolver struct {
	claimName string
	fallback  Role
}

func NewRoleResolver(claimName string, fallback Role) *RoleResolver {
	return &RoleResolver{claimName: claimName, fallback: fallback}
}

func (r *RoleResolver) Resolve(claims *TokenClaims) Role {
	raw, _ := claims.Claim(r.claimName)

	candidate := string(r.fallback)
	for _, rule := range roleRules {
		if s, ok := rule(raw); ok {
			candidate = s
			break
		}
	}

	if role, ok := ParseRole(candidate); ok {
		return role
	}
	return r.fallback
}
