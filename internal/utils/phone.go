package utils

import "strings"

// NormalizePhone trims surrounding whitespace and removes inner spaces so a
// phone string keys at most one user record.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// PlaceholderEmail derives the deterministic address written to a
// pre-registered record before the account holder supplies a real one.
func PlaceholderEmail(phone string) string {
	return strings.ToLower(NormalizePhone(phone) + "@example.com")
}
