package validation

import "strings"

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?`~\"'"

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return strings.ContainsAny(s, specialChars)
}

// IsStrongPassword requires at least 8 characters with one special character.
func IsStrongPassword(s string) bool {
	return len(s) >= 8 && HasSpecialChar(s)
}
