package guard

// Role is the advisory role marker set at login. The guard trusts it for
// UX only; the backend re-checks authorization on every API call.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleEditor  Role = "editor"
	RoleAdmin   Role = "admin"
)

// AccessRule maps a canonical path prefix to its access requirements.
// Protection and role restriction live in one table on purpose so the
// two can never drift apart.
type AccessRule struct {
	Prefix    string
	Protected bool
	// Roles is the allowed set for this prefix. Empty means any
	// authenticated visitor.
	Roles []Role
}

func (r AccessRule) allows(role Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// DefaultRules is the application's route classification table,
// evaluated top-down with first-match-wins semantics. Paths matching no
// rule are public (blog, store, games, auth pages, the locale roots).
func DefaultRules() []AccessRule {
	return []AccessRule{
		{Prefix: "/patient", Protected: true, Roles: []Role{RolePatient}},
		{Prefix: "/doctor", Protected: true, Roles: []Role{RoleDoctor}},
		{Prefix: "/editor", Protected: true, Roles: []Role{RoleEditor, RoleAdmin}},
	}
}
