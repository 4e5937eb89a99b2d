package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a write violated a unique index (cliente email
// or idempotency scope/key).
var ErrDuplicate = errors.New("duplicate")

// isDuplicate detects unique-constraint violations across drivers. With
// TranslateError enabled gorm reports gorm.ErrDuplicatedKey; the string
// checks cover handles opened without it.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}
