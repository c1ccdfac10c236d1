// Package common defines sentinel errors shared by the docanchor packages.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store lookups.
	ErrorNotFound = errors.New("not found")

	// A file was refused before any network or hashing work started.
	ErrorValidation = errors.New("validation error")

	// An in-flight operation was abandoned because its record was removed
	// or its context was cancelled.
	ErrorCanceled = errors.New("canceled")
)
