package identity

import "github.com/purchase-invoice/backend/internal/domain/shared"

// Role is the business role of an account
type Role string

const (
	RolePurchasingSpecialist Role = "PURCHASING_SPECIALIST"
	RoleFinanceSpecialist    Role = "FINANCE_SPECIALIST"
)

// AllRoles lists every assignable role
var AllRoles = []Role{RolePurchasingSpecialist, RoleFinanceSpecialist}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RolePurchasingSpecialist, RoleFinanceSpecialist:
		return true
	}
	return false
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be PURCHASING_SPECIALIST or FINANCE_SPECIALIST")
	}
	return r, nil
}
