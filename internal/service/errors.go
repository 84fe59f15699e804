package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDealNotFound is returned when a deal is not found
	ErrDealNotFound = errors.New("deal not found")

	// ErrStageNotFound is returned when a pipeline stage is not found
	ErrStageNotFound = errors.New("pipeline stage not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)
