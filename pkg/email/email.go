package email

import "strings"

// IsValidEmail performs lightweight validation of an email address format.
// Principal identifiers are email addresses; full RFC 5322 parsing is left to
// the account directory, which is the authority on deliverability.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" || parts[1] == "" {
		return false
	}
	return true
}
