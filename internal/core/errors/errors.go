// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Catalog and resolution errors.
var (
	// ErrEntityNotFound indicates an entity id is not present in the catalog.
	ErrEntityNotFound = errors.New("entity not found")
)

// Run lifecycle errors.
var (
	// ErrRunNotFound indicates a run id has no persisted record.
	ErrRunNotFound = errors.New("run not found")
)

// Configuration errors.
var (
	// ErrScorerWeights indicates the disambiguation weights do not sum to 1.
	ErrScorerWeights = errors.New("scorer weights must sum to 1")

	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Provider errors.
var (
	// ErrProviderNotLoaded indicates a scoring provider was used before Load.
	ErrProviderNotLoaded = errors.New("provider not loaded")

	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")
)
