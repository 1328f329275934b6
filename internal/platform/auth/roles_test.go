package auth

import "testing"

func TestRoleRank(t *testing.T) {
	if RoleRank(RoleTherapist) <= RoleRank(RoleOfficeAdmin) {
		t.Error("therapist must outrank office_admin")
	}
	if RoleRank(RoleOfficeAdmin) <= RoleRank(RoleClient) {
		t.Error("office_admin must outrank client")
	}
	if RoleRank("intruder") != 0 {
		t.Error("unknown role must rank below every real role")
	}
	if RoleRank("") != 0 {
		t.Error("empty role must rank below every real role")
	}
}

func TestHasRolePermission(t *testing.T) {
	cases := []struct {
		actual, required string
		want             bool
	}{
		{RoleTherapist, RoleTherapist, true},
		{RoleTherapist, RoleOfficeAdmin, true},
		{RoleTherapist, RoleClient, true},
		{RoleOfficeAdmin, RoleTherapist, false},
		{RoleOfficeAdmin, RoleOfficeAdmin, true},
		{RoleOfficeAdmin, RoleClient, true},
		{RoleClient, RoleTherapist, false},
		{RoleClient, RoleOfficeAdmin, false},
		{RoleClient, RoleClient, true},
		{"unknown", RoleClient, false},
	}
	for _, tc := range cases {
		if got := HasRolePermission(tc.actual, tc.required); got != tc.want {
			t.Errorf("HasRolePermission(%q, %q) = %v, want %v", tc.actual, tc.required, got, tc.want)
		}
	}
}

func TestRolePredicates(t *testing.T) {
	if !IsTherapistRole(RoleTherapist) || IsTherapistRole(RoleOfficeAdmin) || IsTherapistRole(RoleClient) {
		t.Error("IsTherapistRole must match therapist only")
	}
	if !IsOfficeAdminRole(RoleTherapist) || !IsOfficeAdminRole(RoleOfficeAdmin) || IsOfficeAdminRole(RoleClient) {
		t.Error("IsOfficeAdminRole must match office_admin and above")
	}
}
