package sqlite

import (
	"strings"

	"campusmart/internal/repository"
)

// mapWriteErr translates driver-level unique-key violations on
// append-only tables into the repository's sentinel error so callers
// see a rejected write, not a bare driver string.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed") {
		return repository.ErrDuplicate
	}
	return err
}
