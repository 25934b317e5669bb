package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeDeletionDisabled = "DELETION_DISABLED"
	ErrCodeStoreError       = "STORE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that never reached the store.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a domain error with the validation code.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Validation errors block an action locally.
var (
	ErrEmptyCart           = NewValidationError("empty cart")
	ErrMissingTable        = NewValidationError("missing table")
	ErrMissingDeliveryInfo = NewValidationError("missing delivery info")
	ErrInvalidTable        = NewValidationError("table number out of range")
	ErrInvalidOrderType    = NewValidationError("order type must be dine-in or delivery")
	ErrItemUnavailable     = NewValidationError("menu item is not available")
	ErrInvalidMenuItem     = NewValidationError("menu item requires a name and a price")
	ErrInvalidPrice        = NewValidationError("price must be a non-negative number")
	ErrInvalidPortion      = NewValidationError("portion must be Full, Half, Regular or Jumbo")
	ErrInvalidTableCount   = NewValidationError("table count must be at least 1")
	ErrInvalidCredentials  = NewValidationError("invalid email or password")
	ErrWeakPassword        = NewValidationError("password must be at least 6 characters")
	ErrInvalidRole         = NewValidationError("role must be admin or staff")
	ErrInvalidField        = NewValidationError("field must be status or payment_status")
)

// Not-found errors are treated as "use defaults" by most callers.
var (
	ErrNotFound         = NewDomainError(ErrCodeNotFound, "not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "order not found")
	ErrMenuItemNotFound = NewDomainError(ErrCodeNotFound, "one or more menu items not found")
	ErrSettingsNotFound = NewDomainError(ErrCodeNotFound, "settings not found")
	ErrProfileNotFound  = NewDomainError(ErrCodeNotFound, "profile not found")
	ErrUserNotFound     = NewDomainError(ErrCodeNotFound, "user not found")
)

var (
	ErrUnauthenticated       = NewDomainError(ErrCodeUnauthenticated, "no active session")
	ErrForbidden             = NewDomainError(ErrCodeForbidden, "insufficient role")
	ErrEmailTaken            = NewDomainError(ErrCodeValidation, "email already registered")
	ErrOrderDeletionDisabled = NewDomainError(ErrCodeDeletionDisabled, "order deletion is disabled")
)

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeValidation
}

// IsNotFound reports whether err is any not-found failure.
func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeNotFound
}

// StoreError wraps a failed call against the record store.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

// NewStoreError creates a store error for the given operation and table.
func NewStoreError(op, table string, err error) *StoreError {
	return &StoreError{Op: op, Table: table, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStore reports whether err came from the record store.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
