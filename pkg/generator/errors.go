package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryCreation is matched by every DirectoryCreationError.
	ErrDirectoryCreation = errors.New("output directory cannot be prepared")
	// ErrInvalidVolume is returned for a negative total volume limit.
	ErrInvalidVolume = errors.New("total volume limit must not be negative")
)

// DirectoryCreationError reports that the output location could not be
// created or is not writable. No file has been written when it is returned.
type DirectoryCreationError struct {
	Location string
	Err      error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("cannot prepare output %s: %v", e.Location, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDirectoryCreation) hold.
func (e *DirectoryCreationError) Is(target error) bool {
	return target == ErrDirectoryCreation
}
