package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrAlreadyExists           = errors.New("already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidID               = errors.New("invalid id")
	ErrNotConfigured           = errors.New("not configured")
	ErrUpstream                = errors.New("upstream error")
	ErrNotFoundAfterProcessing = errors.New("user not found after processing")
	ErrUnsupportedMediaType    = errors.New("unsupported media type")
	ErrGenerationEmpty         = errors.New("generation returned no text")
	ErrInvalidMatchScore       = errors.New("match score out of range")
	ErrValidation              = errors.New("validation failed")
)

// UpstreamError describes a failed call to an external collaborator. Body
// holds whatever the upstream returned, for diagnostics.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s timed out", e.Service)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
	default:
		return fmt.Sprintf("%s failed", e.Service)
	}
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
