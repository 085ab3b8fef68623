package appctx

import (
	"errors"

	"github.com/wssccc/appctx/internal/container"
)

// Error is the typed error produced by registration, resolution, and
// lookup. Inspect it with errors.As or the IsXxx predicates below.
type Error = container.Error

type ErrorCode = container.ErrorCode

const (
	ErrCodeDuplicateBean      = container.ErrCodeDuplicateBean
	ErrCodeMissingDependency  = container.ErrCodeMissingDependency
	ErrCodeAmbiguousBean      = container.ErrCodeAmbiguousBean
	ErrCodeCircularDependency = container.ErrCodeCircularDependency
	ErrCodeConstruction       = container.ErrCodeConstruction
	ErrCodePostConstruct      = container.ErrCodePostConstruct
	ErrCodePreDestroy         = container.ErrCodePreDestroy
	ErrCodeNotFound           = container.ErrCodeNotFound
	ErrCodeInvalidDefinition  = container.ErrCodeInvalidDefinition
	ErrCodeValidationFailed   = container.ErrCodeValidationFailed
)

// RefreshError aggregates every per-bean failure of one Refresh pass.
type RefreshError = container.RefreshError

func IsDuplicateBean(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDuplicateBean
}

func IsMissingDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeMissingDependency
}

func IsAmbiguousBean(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAmbiguousBean
}

func IsCircularDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircularDependency
}

func IsConstructionFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConstruction
}

func IsPostConstructFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodePostConstruct
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// CycleOf extracts the ordered cycle of bean names from a circular
// dependency error, first bean repeated at the end, or nil.
func CycleOf(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	for e != nil {
		if e.Code == ErrCodeCircularDependency && len(e.Cycle) > 0 {
			return e.Cycle
		}
		var next *Error
		if !errors.As(e.Unwrap(), &next) {
			return nil
		}
		e = next
	}
	return nil
}

// FailuresOf extracts the per-bean failure map from a Refresh error,
// or nil when err is not a refresh failure.
func FailuresOf(err error) map[string]error {
	var re *RefreshError
	if errors.As(err, &re) {
		return re.Failures
	}
	return nil
}
