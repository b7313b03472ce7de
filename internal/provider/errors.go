package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies why a tier could not answer
type ErrorKind string

const (
	// ArtifactMissing means a model file or rule set could not be found
	ArtifactMissing ErrorKind = "artifact_missing"
	// ProviderUninitialized means the artifact exists but cannot serve, for
	// example it was never trained
	ProviderUninitialized ErrorKind = "provider_uninitialized"
	// InferenceFailure means the provider failed while producing an answer
	InferenceFailure ErrorKind = "inference_failure"
)

// Error is a tier-local failure tagged with its kind
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

// NewError wraps err with a kind and provider name
func NewError(kind ErrorKind, providerName string, err error) *Error {
	return &Error{Kind: kind, Provider: providerName, Err: err}
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies any error. Typed errors keep their kind, missing files
// are ArtifactMissing, timeouts and cancellations are InferenceFailure, and
// anything else gets the fallback kind.
func KindOf(err error, fallback ErrorKind) ErrorKind {
	var pe *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Kind
	case errors.Is(err, fs.ErrNotExist):
		return ArtifactMissing
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return InferenceFailure
	}
	return fallback
}
