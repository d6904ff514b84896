// Package common defines shared constants and sentinel errors used across
// the ringkeeper server. Callers should use errors.Is / errors.As to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Bearer token errors.
	ErrTokenMissing = errors.New("token missing")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ReferenceError reports a write rejected because Field points at a user
// that does not exist.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return "referenced user not found: " + e.Field
}
