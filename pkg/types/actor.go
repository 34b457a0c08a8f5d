package types

import "github.com/casalink-ph/casalink-backend/pkg/enums"

// Actor identifies who is performing a workflow operation. Engines take it
// explicitly on every call instead of re-reading the currentUser cell.
type Actor struct {
	Username string
	Role     enums.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == enums.RoleAdmin
}

func (a Actor) IsAgent() bool {
	return a.Role == enums.RoleAgent
}

func (a Actor) IsCustomer() bool {
	return a.Role == enums.RoleCustomer
}
