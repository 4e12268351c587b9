package query

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes normalization errors.
type ErrorCode string

const (
	// ErrCodeInvalidFilterShape indicates structurally malformed filter input,
	// e.g. a tuple array with a trailing incomplete triple.
	ErrCodeInvalidFilterShape ErrorCode = "INVALID_FILTER_SHAPE"

	// ErrCodeInvalidPagination indicates a negative offset or limit.
	ErrCodeInvalidPagination ErrorCode = "INVALID_PAGINATION"

	// ErrCodeInvalidSortSpec indicates an unparseable sort string or shape.
	ErrCodeInvalidSortSpec ErrorCode = "INVALID_SORT_SPEC"
)

// Error represents a normalization failure. All malformed query input is
// rejected with an Error before compilation or evaluation; the downstream
// stages are total functions over well-formed input and never fail.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidFilterShape reports whether err is a filter-shape error.
// Uses errors.As to handle wrapped errors.
func IsInvalidFilterShape(err error) bool { return hasCode(err, ErrCodeInvalidFilterShape) }

// IsInvalidPagination reports whether err is a pagination error.
func IsInvalidPagination(err error) bool { return hasCode(err, ErrCodeInvalidPagination) }

// IsInvalidSortSpec reports whether err is a sort-spec error.
func IsInvalidSortSpec(err error) bool { return hasCode(err, ErrCodeInvalidSortSpec) }

func hasCode(err error, code ErrorCode) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

func filterErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidFilterShape, Message: fmt.Sprintf(format, args...)}
}

func paginationErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidPagination, Message: fmt.Sprintf(format, args...)}
}

func sortErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidSortSpec, Message: fmt.Sprintf(format, args...)}
}
