// Package apperrors holds the typed failures returned by the cart and checkout
// services. Callers match them with errors.As and decide presentation.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed input: a bad quantity, a missing variant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// EmptyCartError is returned when a checkout finds nothing to check out.
type EmptyCartError struct {
	UserID string
}

func (e *EmptyCartError) Error() string {
	return fmt.Sprintf("cart of user %s is empty", e.UserID)
}

// InsufficientStockError names the variant that could not be reserved.
// The cart is preserved so the caller may retry with a lower quantity.
type InsufficientStockError struct {
	VariantID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s (requested: %d, available: %d)", e.VariantID, e.Requested, e.Available)
}

// NotFoundError reports an unknown cart item, order, product or variant.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// StoreUnavailableError wraps a transient infrastructure failure. Retrying the
// whole operation is safe: a failed checkout leaves no partial state.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// InvariantError reports data that breaks an internal rule, such as an order
// total that disagrees with its items. It is a bug, not a retryable failure.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Reason
}

// IsTyped reports whether err already carries one of the types above.
func IsTyped(err error) bool {
	var (
		ve  *ValidationError
		ece *EmptyCartError
		ise *InsufficientStockError
		nfe *NotFoundError
		sue *StoreUnavailableError
		ie  *InvariantError
	)
	return errors.As(err, &ve) || errors.As(err, &ece) || errors.As(err, &ise) ||
		errors.As(err, &nfe) || errors.As(err, &sue) || errors.As(err, &ie)
}

// Store wraps an untyped error from the persistence layer as StoreUnavailableError.
// Typed errors and nil pass through unchanged.
func Store(op string, err error) error {
	if err == nil || IsTyped(err) {
		return err
	}
	return &StoreUnavailableError{Op: op, Err: err}
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	var (
		ve  *ValidationError
		ece *EmptyCartError
		ise *InsufficientStockError
		nfe *NotFoundError
		sue *StoreUnavailableError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ece):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ise):
		return http.StatusConflict
	case errors.As(err, &nfe):
		return http.StatusNotFound
	case errors.As(err, &sue):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
