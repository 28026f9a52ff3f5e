package core

import "errors"

var (
	// ErrValidation marks input the user can fix by rephrasing.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks a lookup with no matching student or teacher.
	ErrNotFound = errors.New("not found")
	// ErrDataUnavailable marks an empty or unloaded dataset.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrUpstreamUnavailable marks a failed or unconfigured LLM call.
	ErrUpstreamUnavailable = errors.New("llm unavailable")
	// ErrPersistence marks a failed durable write. Never shown to users.
	ErrPersistence = errors.New("persistence failure")
)
