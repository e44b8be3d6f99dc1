package guard

import (
	"fmt"
	"strconv"
	"strings"
)

// NotFoundError indicates that a token matched no resource.
type NotFoundError struct {
	// Kind is the resource type, e.g. "CCI".
	Kind string
	// Token is the identifier as supplied by the user.
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s %q", e.Kind, e.Token)
}

// AmbiguousIdentifierError indicates that a token matched more than one
// resource. Candidates lists every match so the user can pick one by ID.
type AmbiguousIdentifierError struct {
	Kind       string
	Token      string
	Candidates []int
}

func (e *AmbiguousIdentifierError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, id := range e.Candidates {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("multiple %ss match %q: %s", e.Kind, e.Token, strings.Join(ids, ", "))
}

// AbortedError indicates that the user declined a confirmation.
type AbortedError struct {
	Message string
}

func (e *AbortedError) Error() string {
	if e.Message == "" {
		return "aborted"
	}
	return e.Message
}

// ValidationError indicates invalid user input detected before any remote
// call was made.
type ValidationError struct {
	// Field names the offending flag or argument, when there is one.
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Invalidf returns a ValidationError not tied to a single field.
func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
