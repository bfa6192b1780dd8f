package database

import "github.com/google/uuid"

// MalformedID reports whether id can never match a UUID column. Lookups
// answer such ids as missing rows instead of sending them to postgres, where
// the failed cast would also abort the surrounding transaction.
func MalformedID(id string) bool {
	return uuid.Validate(id) != nil
}
