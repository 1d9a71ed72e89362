// Package errs holds the error taxonomy shared by the registration workflow.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrElementNotFound = errors.New("element not found")
	ErrSubmission      = errors.New("submission error")
	ErrRejected        = errors.New("submission rejected")
	ErrInputClosed     = errors.New("input stream closed")
)

// Configuration reports missing or invalid configuration keys.
func Configuration(keys ...string) error {
	return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(keys, ", "))
}

// NotFound reports that no element matched what.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, what)
}

// Submission wraps a failure raised while triggering the submit action.
func Submission(cause error) error {
	return fmt.Errorf("%w: %w", ErrSubmission, cause)
}
