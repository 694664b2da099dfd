package identity

// Identity is the authenticated caller as the invoice lifecycle sees it.
// Email is the account key; names are part of the ownership check.
type Identity struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role,omitempty"`
}

// NewIdentity builds an identity value
func NewIdentity(email, firstName, lastName string, role Role) Identity {
	return Identity{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
}

// SamePerson compares email, first name and last name exactly.
// Role is not part of the comparison.
func (i Identity) SamePerson(other Identity) bool {
	return i.Email == other.Email &&
		i.FirstName == other.FirstName &&
		i.LastName == other.LastName
}

// HasRole reports whether the identity carries the role
func (i Identity) HasRole(role Role) bool {
	return i.Role == role
}

// IsZero reports whether no caller is set
func (i Identity) IsZero() bool {
	return i.Email == ""
}
