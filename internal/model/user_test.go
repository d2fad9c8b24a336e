package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleFaculty, true},
		{RoleAdmin, RoleStudent, true},
		{RoleFaculty, RoleAdmin, false},
		{RoleFaculty, RoleFaculty, true},
		{RoleFaculty, RoleStudent, true},
		{RoleStudent, RoleAdmin, false},
		{RoleStudent, RoleFaculty, false},
		{RoleStudent, RoleStudent, true},
		// Unknown roles fail-closed.
		{"unknown", RoleStudent, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"", true},
		{"not-an-email", true},
		{"Ana <ana@uni.edu>", true},
		{"ana@uni.edu", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.addr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
		}
	}
}

func TestValidateMobile(t *testing.T) {
	tests := []struct {
		number  string
		wantErr bool
	}{
		{"", true},
		{"12345", true},
		{"+3861234567a", true},
		{"0401234567", false},
		{"+38640123456", false},
		{"1234567890123456", true},
	}

	for _, tt := range tests {
		err := ValidateMobile(tt.number)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMobile(%q) error = %v, wantErr %v", tt.number, err, tt.wantErr)
		}
	}
}
