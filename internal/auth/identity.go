package auth

// Role is the permission level of a staff account.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Satisfies reports whether r may use a route guarded by required. Admins
// pass every guard.
func (r Role) Satisfies(required Role) bool {
	return r == required || r == RoleAdmin
}

// Identity is what a token says about its bearer.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Principal is an account tokens can be issued for.
type Principal interface {
	Identity() Identity
}
