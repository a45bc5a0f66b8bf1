package domain

// Role identifies the portal a user belongs to. Values are stable and match
// the role codes persisted in the users collection.
type Role int

const (
	RoleAdmin    Role = 1
	RoleStaff    Role = 2
	RoleVet      Role = 3
	RoleCustomer Role = 4
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleStaff:    "staff",
	RoleVet:      "vet",
	RoleCustomer: "customer",
}

// loginPaths and dashboardPaths must stay total over all defined roles.
// The customer portal doubles as the public entry point.
var loginPaths = map[Role]string{
	RoleAdmin:    "/admin/login",
	RoleStaff:    "/staff/login",
	RoleVet:      "/vet/login",
	RoleCustomer: "/",
}

var dashboardPaths = map[Role]string{
	RoleAdmin:    "/admin/dashboard",
	RoleStaff:    "/staff/dashboard",
	RoleVet:      "/vet/dashboard",
	RoleCustomer: "/home",
}

// Roles lists every defined role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleVet, RoleCustomer}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// In reports whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// LoginPath returns the login route for the role. Unknown roles fall back to
// the public entry path so a broken session never strands the user.
func LoginPath(r Role) string {
	if p, ok := loginPaths[r]; ok {
		return p
	}
	return "/"
}

// DashboardPath returns the landing route for an authenticated role.
func DashboardPath(r Role) string {
	if p, ok := dashboardPaths[r]; ok {
		return p
	}
	return "/"
}

// ParseRole maps a role name (as carried in JWT claims) back to a Role.
func ParseRole(s string) (Role, bool) {
	for r, name := range roleNames {
		if name == s {
			return r, true
		}
	}
	return 0, false
}
