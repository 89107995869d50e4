package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any state was changed.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireIDs(groupID, userID string) error {
	if groupID == "" {
		return invalidf("group is required")
	}
	if userID == "" {
		return invalidf("user is required")
	}
	return nil
}
