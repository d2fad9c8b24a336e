package model

import (
	"fmt"
	"net/mail"
	"time"
)

// User is a student, faculty member or administrator.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Mobile         string    `json:"mobile,omitempty"`
	Role           string    `json:"role"`
	EmailVerified  bool      `json:"email_verified"`
	MobileVerified bool      `json:"mobile_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile returns the verification flags used by claim trust scoring.
func (u *User) Profile() ClaimantProfile {
	return ClaimantProfile{EmailVerified: u.EmailVerified, MobileVerified: u.MobileVerified}
}

// Contact returns the preferred contact address.
func (u *User) Contact() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Mobile
}

// Roles.
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:   3,
		RoleFaculty: 2,
		RoleStudent: 1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}

// ValidateEmail checks that an address parses as a bare email.
func ValidateEmail(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

// ValidateMobile checks that a mobile number is 10 to 15 digits, optionally prefixed with '+'.
func ValidateMobile(number string) error {
	digits := number
	if len(digits) > 0 && digits[0] == '+' {
		digits = digits[1:]
	}
	if len(digits) < 10 || len(digits) > 15 {
		return fmt.Errorf("%w: mobile number must have 10 to 15 digits", ErrInvalidInput)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: mobile number must contain only digits", ErrInvalidInput)
		}
	}
	return nil
}
