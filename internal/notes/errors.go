package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by every operation invoked before Load has
	// completed. It signals a sequencing fault in the caller.
	ErrNotReady = errors.New("notes store not loaded")

	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("invalid note")

	// ErrProtectedFolder matches any *ProtectedFolderError via errors.Is.
	ErrProtectedFolder = errors.New("protected folder")
)

// ValidationError reports a rejected save. No state changes when it is
// returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProtectedFolderError reports an attempt to delete the root folder.
type ProtectedFolderError struct {
	Folder string
}

func (e *ProtectedFolderError) Error() string {
	return fmt.Sprintf("folder %q cannot be deleted", e.Folder)
}

func (e *ProtectedFolderError) Is(target error) bool {
	return target == ErrProtectedFolder
}
