// Package errors defines the failure kinds reported by registry operations.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind string

// Failure kinds.
const (
	// KindGit reports a failed backend call: unopenable repository, clone or remote command failure.
	KindGit Kind = Kind("git")
	// KindRemote reports a named remote that is missing or whose URL is invalid.
	KindRemote Kind = Kind("remote")
	// KindState reports a registry inconsistency such as an unresolved repository or a malformed state document.
	KindState Kind = Kind("state")
	// KindIO reports a failed filesystem operation.
	KindIO Kind = Kind("io")
)

const (
	errorWithSubjectTemplateConstant = "%s error (%s): %s"
	errorTemplateConstant            = "%s error: %s"
	causeSuffixTemplateConstant      = "%s: %v"
)

// OperationError describes a failure of a registry operation.
type OperationError struct {
	Kind    Kind
	Subject string
	Message string
	Cause   error
}

// Error renders the kind, the offending subject when known, and the cause.
func (operationError *OperationError) Error() string {
	message := operationError.Message
	if operationError.Cause != nil {
		if len(message) == 0 {
			message = operationError.Cause.Error()
		} else {
			message = fmt.Sprintf(causeSuffixTemplateConstant, message, operationError.Cause)
		}
	}
	if len(operationError.Subject) == 0 {
		return fmt.Sprintf(errorTemplateConstant, operationError.Kind, message)
	}
	return fmt.Sprintf(errorWithSubjectTemplateConstant, operationError.Kind, operationError.Subject, message)
}

// Unwrap exposes the underlying cause.
func (operationError *OperationError) Unwrap() error {
	return operationError.Cause
}

// NewGitError reports a backend failure for the repository at subject.
func NewGitError(subject string, message string, cause error) error {
	return &OperationError{Kind: KindGit, Subject: subject, Message: message, Cause: cause}
}

// NewRemoteError reports a failure tied to the named remote.
func NewRemoteError(remoteName string, message string, cause error) error {
	return &OperationError{Kind: KindRemote, Subject: remoteName, Message: message, Cause: cause}
}

// NewStateError reports a registry inconsistency concerning subject.
func NewStateError(subject string, message string, cause error) error {
	return &OperationError{Kind: KindState, Subject: subject, Message: message, Cause: cause}
}

// NewIOError reports a filesystem failure concerning subject.
func NewIOError(subject string, message string, cause error) error {
	return &OperationError{Kind: KindIO, Subject: subject, Message: message, Cause: cause}
}

// IsKind reports whether err carries an OperationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var operationError *OperationError
	if !stdErrors.As(err, &operationError) {
		return false
	}
	return operationError.Kind == kind
}

// KindOf returns the kind of the first OperationError in the chain.
func KindOf(err error) (Kind, bool) {
	var operationError *OperationError
	if !stdErrors.As(err, &operationError) {
		return "", false
	}
	return operationError.Kind, true
}
