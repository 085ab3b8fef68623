package container

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateBean
	ErrCodeMissingDependency
	ErrCodeAmbiguousBean
	ErrCodeCircularDependency
	ErrCodeConstruction
	ErrCodePostConstruct
	ErrCodePreDestroy
	ErrCodeNotFound
	ErrCodeInvalidDefinition
	ErrCodeValidationFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeDuplicateBean:      "DUPLICATE_BEAN",
	ErrCodeMissingDependency:  "MISSING_DEPENDENCY",
	ErrCodeAmbiguousBean:      "AMBIGUOUS_BEAN",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeConstruction:       "CONSTRUCTION_FAILED",
	ErrCodePostConstruct:      "POST_CONSTRUCT_FAILED",
	ErrCodePreDestroy:         "PRE_DESTROY_FAILED",
	ErrCodeNotFound:           "BEAN_NOT_FOUND",
	ErrCodeInvalidDefinition:  "INVALID_DEFINITION",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the typed error produced by the registry and the resolution
// engine. Cycle is populated only for ErrCodeCircularDependency and
// holds the ordered cycle of bean names, first bean repeated at the end.
type Error struct {
	Code    ErrorCode
	Message string
	Bean    string
	Cause   error
	Cycle   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Bean != "" {
		b.WriteString(fmt.Sprintf(" bean=%q:", e.Bean))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithBean(name string) *Error {
	e.Bean = name
	return e
}

func (e *Error) WithCycle(path []string) *Error {
	e.Cycle = path
	return e
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// RefreshError aggregates every per-bean failure of one Refresh pass,
// keyed by bean name, so callers see all problems at once rather than
// just the first.
type RefreshError struct {
	Failures map[string]error
}

func (e *RefreshError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "refresh failed for %d bean(s):", len(e.Failures))
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %v", name, e.Failures[name])
	}
	return b.String()
}

// Unwrap exposes the per-bean failures to errors.Is and errors.As.
func (e *RefreshError) Unwrap() []error {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, e.Failures[name])
	}
	return errs
}
