package user

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleVendor, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}
