package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource changed underneath the caller (e.g. a status
// transition lost a race).
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected failure in the engine or its storage.
var ErrInternal = errors.New("internal error")

// Machine-readable error codes carried by AppError.
const (
	CodeInsufficientLines = "INSUFFICIENT_LINES"
	CodeInvalidLine       = "INVALID_LINE"
	CodeUnbalancedEntry   = "UNBALANCED_ENTRY"
	CodeInvalidCurrency   = "INVALID_CURRENCY"
	CodeUnknownAccounts   = "UNKNOWN_ACCOUNTS"
	CodeInactiveAccounts  = "INACTIVE_ACCOUNTS"
	CodeEntryNotPosted    = "ENTRY_NOT_POSTED"
	CodeReversalExists    = "REVERSAL_EXISTS"
	CodeNoReversalFound   = "NO_REVERSAL_FOUND"
	CodeEntryNotFound     = "ENTRY_NOT_FOUND"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInternal          = "INTERNAL"
)

// AppError is a structured error. Kind is one of the sentinels above so callers can keep
// using errors.Is(err, apperrors.ErrValidation).
type AppError struct {
	Kind    error
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and the wrapped cause.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WithDetail adds a key/value pair to the error details and returns the same error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewAppError builds an AppError of the given kind.
func NewAppError(kind error, code, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrValidation, code, message, nil)
}

func NewNotFoundError(code, message string) *AppError {
	return NewAppError(ErrNotFound, code, message, nil)
}

func NewConflictError(code, message string) *AppError {
	return NewAppError(ErrConflict, code, message, nil)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(ErrInternal, CodeInternal, message, err)
}

// As returns the first AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
