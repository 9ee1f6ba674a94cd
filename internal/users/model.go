package users

import (
	"strings"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// User is the account currently signed in to a browsing session.
type User struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	FullName      string         `json:"full_name"`
	Role          enums.UserRole `json:"role"`
	IsVerified    bool           `json:"is_verified"`
	ContactNumber string         `json:"contact_number,omitempty"`
	Address       string         `json:"address,omitempty"`
}

// IsVendor reports whether the user lists products.
func (u User) IsVendor() bool {
	return u.Role == enums.UserRoleVendor
}

// NormalizeEmail lowercases and trims an email for comparisons and keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
