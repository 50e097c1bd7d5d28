package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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

// Common domain errors
var (
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")

	// Remote dependency failures. Kept distinct so callers can tell an outage
	// from a dangling reference from an incompatible deployment.
	ErrRemoteUnavailable       = NewDomainError("REMOTE_UNAVAILABLE", "Remote service unavailable")
	ErrRemoteRecordMissing     = NewDomainError("REMOTE_RECORD_MISSING", "Referenced remote record does not exist")
	ErrRemoteContractViolation = NewDomainError("REMOTE_CONTRACT_VIOLATION", "Remote service returned an unexpected payload")
)

// EntityNotFoundError reports a local key that is absent from the store.
type EntityNotFoundError struct {
	Entity string
	Key    string
}

// NewEntityNotFoundError creates an EntityNotFoundError
func NewEntityNotFoundError(entity, key string) *EntityNotFoundError {
	return &EntityNotFoundError{Entity: entity, Key: key}
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s with key [%s] not found", e.Entity, e.Key)
}

// Unwrap lets errors.Is(err, ErrNotFound) match.
func (e *EntityNotFoundError) Unwrap() error {
	return ErrNotFound
}

// Code returns the domain error code
func (e *EntityNotFoundError) Code() string {
	return ErrNotFound.Code
}

// RemoteError is a failed lookup against another service.
// Kind is one of the ErrRemote* sentinels.
type RemoteError struct {
	Kind    *DomainError
	Service string
	ID      string
	Cause   error
}

// NewRemoteError creates a RemoteError
func NewRemoteError(kind *DomainError, service, id string, cause error) *RemoteError {
	return &RemoteError{Kind: kind, Service: service, ID: id, Cause: cause}
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s: %s/%s", e.Kind.Message, e.Service, e.ID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *RemoteError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Code returns the domain error code of the failure kind
func (e *RemoteError) Code() string {
	return e.Kind.Code
}

// ValidationError is a write rejected before any store or remote call.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Code returns the domain error code
func (e *ValidationError) Code() string {
	return ErrInvalidInput.Code
}

// ErrorCode extracts the domain error code carried by err, if any.
func ErrorCode(err error) (string, bool) {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code(), true
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	return "", false
}
