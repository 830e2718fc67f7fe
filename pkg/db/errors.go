package db

import "strings"

// IsUniqueViolation reports whether the error is a unique constraint
// violation. Matches on the driver message so it covers both the postgres
// and sqlite phrasings.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
