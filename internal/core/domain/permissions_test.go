package domain

import "testing"

// expectedPermissions pins the full 5×11 capability table. Any change to the
// policy in permissions.go must be mirrored here deliberately.
var expectedPermissions = map[Role]map[Capability]bool{
	RoleAdmin: {
		CanViewPatients: true, CanEditPatients: true, CanDeletePatients: true,
		CanViewReservations: true, CanCreateReservations: true, CanEditReservations: true,
		CanDeleteReservations: true, CanViewActivity: true, CanManageUsers: true,
		CanViewSettings: true, CanEditSettings: true,
	},
	RoleDoctor: {
		CanViewPatients: true, CanEditPatients: true, CanDeletePatients: false,
		CanViewReservations: true, CanCreateReservations: true, CanEditReservations: true,
		CanDeleteReservations: false, CanViewActivity: true, CanManageUsers: false,
		CanViewSettings: true, CanEditSettings: false,
	},
	RoleNurse: {
		CanViewPatients: true, CanEditPatients: true, CanDeletePatients: false,
		CanViewReservations: true, CanCreateReservations: true, CanEditReservations: true,
		CanDeleteReservations: false, CanViewActivity: true, CanManageUsers: false,
		CanViewSettings: true, CanEditSettings: false,
	},
	RoleReceptionist: {
		CanViewPatients: true, CanEditPatients: true, CanDeletePatients: false,
		CanViewReservations: true, CanCreateReservations: true, CanEditReservations: true,
		CanDeleteReservations: false, CanViewActivity: false, CanManageUsers: false,
		CanViewSettings: true, CanEditSettings: false,
	},
	RolePatient: {
		CanViewPatients: false, CanEditPatients: false, CanDeletePatients: false,
		CanViewReservations: true, CanCreateReservations: true, CanEditReservations: false,
		CanDeleteReservations: false, CanViewActivity: false, CanManageUsers: false,
		CanViewSettings: false, CanEditSettings: false,
	},
}

func TestHasPermission_FullTable(t *testing.T) {
	if len(Roles) != 5 {
		t.Fatalf("expected 5 roles, got %d", len(Roles))
	}
	if len(Capabilities) != 11 {
		t.Fatalf("expected 11 capabilities, got %d", len(Capabilities))
	}

	for _, role := range Roles {
		want, ok := expectedPermissions[role]
		if !ok {
			t.Fatalf("no expectations for role %s", role)
		}
		for _, cap := range Capabilities {
			got := HasPermission(role, cap)
			if got != want[cap] {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", role, cap, got, want[cap])
			}
			// Deterministic: asking twice gives the same answer.
			if again := HasPermission(role, cap); again != got {
				t.Errorf("HasPermission(%s, %s) not deterministic", role, cap)
			}
		}
	}
}

func TestHasPermission_UnknownRole(t *testing.T) {
	for _, cap := range Capabilities {
		if HasPermission("", cap) {
			t.Errorf("empty role granted %s", cap)
		}
		if HasPermission("janitor", cap) {
			t.Errorf("unknown role granted %s", cap)
		}
	}
}

func TestPermissions_UnknownCapability(t *testing.T) {
	if PermissionsFor(RoleAdmin).Has("canDoAnything") {
		t.Fatal("unknown capability must never be granted")
	}
}

func TestRole_Valid(t *testing.T) {
	for _, role := range Roles {
		if !role.Valid() {
			t.Errorf("role %s should be valid", role)
		}
	}
	if Role("superuser").Valid() {
		t.Error("unexpected valid role")
	}
}
