package modules

import (
	"errors"
	"fmt"
)

// ErrInvalidManifest is matched by every *ValidationError via errors.Is.
var ErrInvalidManifest = errors.New("invalid package.json")

// Reason says why a candidate failed validation.
type Reason string

const (
	// ReasonInvalidManifest means no string name could be read from the
	// candidate: it was unreadable, not JSON, not an object, or had no
	// non-empty string name.
	ReasonInvalidManifest Reason = "invalid-manifest"
	// ReasonExcludedName means the candidate declared a name listed in
	// ExcludeNames while AbortOnExcluded was set.
	ReasonExcludedName Reason = "excluded-name"
)

// ValidationError aborts a fail-fast listing. File is the offending
// candidate relative to the search root.
type ValidationError struct {
	File   string
	Reason Reason
	// Name is the excluded module name for ReasonExcludedName.
	Name string
}

// Error returns the validation failure message.
func (e *ValidationError) Error() string {
	if e.Reason == ReasonExcludedName {
		return fmt.Sprintf("invalid package.json found at %s: module %q is excluded", e.File, e.Name)
	}
	return fmt.Sprintf("invalid package.json found at %s", e.File)
}

// Is reports whether target is ErrInvalidManifest.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidManifest
}
