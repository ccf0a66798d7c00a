package domain

// Capability is one named permission bit a role may hold.
type Capability string

const (
	CanViewPatients       Capability = "canViewPatients"
	CanEditPatients       Capability = "canEditPatients"
	CanDeletePatients     Capability = "canDeletePatients"
	CanViewReservations   Capability = "canViewReservations"
	CanCreateReservations Capability = "canCreateReservations"
	CanEditReservations   Capability = "canEditReservations"
	CanDeleteReservations Capability = "canDeleteReservations"
	CanViewActivity       Capability = "canViewActivity"
	CanManageUsers        Capability = "canManageUsers"
	CanViewSettings       Capability = "canViewSettings"
	CanEditSettings       Capability = "canEditSettings"
)

// Capabilities lists every capability, in table order.
var Capabilities = []Capability{
	CanViewPatients,
	CanEditPatients,
	CanDeletePatients,
	CanViewReservations,
	CanCreateReservations,
	CanEditReservations,
	CanDeleteReservations,
	CanViewActivity,
	CanManageUsers,
	CanViewSettings,
	CanEditSettings,
}

// Permissions is the full capability set for one role. A struct of booleans
// keeps the table total by construction: adding a capability without filling
// every role is a compile-visible omission, not a silent map miss.
type Permissions struct {
	ViewPatients       bool
	EditPatients       bool
	DeletePatients     bool
	ViewReservations   bool
	CreateReservations bool
	EditReservations   bool
	DeleteReservations bool
	ViewActivity       bool
	ManageUsers        bool
	ViewSettings       bool
	EditSettings       bool
}

// Has reports whether the set grants the given capability. Unknown
// capabilities are never granted.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CanViewPatients:
		return p.ViewPatients
	case CanEditPatients:
		return p.EditPatients
	case CanDeletePatients:
		return p.DeletePatients
	case CanViewReservations:
		return p.ViewReservations
	case CanCreateReservations:
		return p.CreateReservations
	case CanEditReservations:
		return p.EditReservations
	case CanDeleteReservations:
		return p.DeleteReservations
	case CanViewActivity:
		return p.ViewActivity
	case CanManageUsers:
		return p.ManageUsers
	case CanViewSettings:
		return p.ViewSettings
	case CanEditSettings:
		return p.EditSettings
	}
	return false
}

// rolePermissions fixes the role → capability mapping at compile time.
// Changing it is a deliberate policy decision, never a runtime mutation.
var rolePermissions = map[Role]Permissions{
	RoleAdmin: {
		ViewPatients:       true,
		EditPatients:       true,
		DeletePatients:     true,
		ViewReservations:   true,
		CreateReservations: true,
		EditReservations:   true,
		DeleteReservations: true,
		ViewActivity:       true,
		ManageUsers:        true,
		ViewSettings:       true,
		EditSettings:       true,
	},
	RoleDoctor: {
		ViewPatients:       true,
		EditPatients:       true,
		ViewReservations:   true,
		CreateReservations: true,
		EditReservations:   true,
		ViewActivity:       true,
		ViewSettings:       true,
	},
	RoleNurse: {
		ViewPatients:       true,
		EditPatients:       true,
		ViewReservations:   true,
		CreateReservations: true,
		EditReservations:   true,
		ViewActivity:       true,
		ViewSettings:       true,
	},
	RoleReceptionist: {
		ViewPatients:       true,
		EditPatients:       true,
		ViewReservations:   true,
		CreateReservations: true,
		EditReservations:   true,
		ViewSettings:       true,
	},
	RolePatient: {
		ViewReservations:   true,
		CreateReservations: true,
	},
}

// PermissionsFor returns the capability set for a role. Unknown roles get the
// zero set (no capabilities).
func PermissionsFor(role Role) Permissions {
	return rolePermissions[role]
}

// HasPermission answers a point-in-time authorization query. It is pure and
// total: any (role, capability) pair outside the table yields false.
func HasPermission(role Role, c Capability) bool {
	return rolePermissions[role].Has(c)
}
