package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Stored world errors.
var (
	// ErrWorldNotFound is returned when a named world does not exist in a store.
	ErrWorldNotFound = errors.New("world not found")

	// ErrInvalidWorldName is returned for names that cannot be used as store keys.
	ErrInvalidWorldName = errors.New("invalid world name")
)

var worldNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateWorldName checks that name is usable as a file name and a store key:
// letters, digits, dot, dash and underscore, starting with a letter or digit.
func ValidateWorldName(name string) error {
	if !worldNamePattern.MatchString(name) || len(name) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidWorldName, name)
	}
	return nil
}
