package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Tagged store errors. Drivers report uniqueness and missing rows differently;
// classify converts them once so callers only match these values.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrActiveGameExists  = errors.New("user already has a game in progress")
	ErrStaleUpdate       = errors.New("record changed since it was read")
	ErrGameNotInProgress = errors.New("game is not in progress")
)

// classify maps driver errors onto the tagged variants above.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// fallback for dialects without error translation
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
