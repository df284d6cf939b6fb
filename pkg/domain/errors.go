package domain

import (
	"errors"
	"fmt"
)

// ErrDonorNotFound matches any ErrNotFound for a donor via errors.Is.
var ErrDonorNotFound = ErrNotFound{Entity: EntityDonor}

// ErrNotFound is returned when a referenced record does not exist.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is matches another ErrNotFound of the same entity; an empty target ID
// matches every ID.
func (e ErrNotFound) Is(target error) bool {
	var other ErrNotFound
	if !errors.As(target, &other) {
		return false
	}
	if other.Entity != e.Entity {
		return false
	}
	return other.ID == "" || other.ID == e.ID
}

// IsNotFound reports whether err is an ErrNotFound of any entity.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
