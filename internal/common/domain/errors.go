// Package domain holds the error types and value helpers shared by every aggregate.
package domain

import (
	"fmt"
	"net/http"
)

// AppError is implemented by errors that carry an HTTP status and a stable code.
type AppError interface {
	error
	StatusCode() int
	Code() string
}

// ValidationError is returned when input fails a business rule.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return "VALIDATION_ERROR" }

// NotFoundError is returned when an entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a NotFoundError for the given entity name and identifier.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return "NOT_FOUND" }

// ForbiddenError is returned when the caller may not act on a resource.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string   { return e.Message }
func (e *ForbiddenError) StatusCode() int { return http.StatusForbidden }
func (e *ForbiddenError) Code() string    { return "FORBIDDEN" }

// UnauthorizedError is returned when credentials are missing or wrong.
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string   { return e.Message }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Code() string    { return "UNAUTHORIZED" }

// ConflictError is returned on optimistic locking failures and uniqueness violations.
type ConflictError struct {
	Message string
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }
func (e *ConflictError) Code() string    { return "CONFLICT" }

// InvalidStateError is returned when a status transition is not allowed.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates an InvalidStateError for a rejected transition.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
func (e *InvalidStateError) StatusCode() int { return http.StatusUnprocessableEntity }
func (e *InvalidStateError) Code() string    { return "INVALID_STATE" }
