package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUpstream marks a non-success response from a data source.
	ErrUpstream = errors.New("upstream request failed")

	// ErrQuotaExceeded is returned by storage media that refuse a write because they are full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrNotConfigured is returned when a required credential is missing.
	ErrNotConfigured = errors.New("not configured")
)

// UpstreamError carries the HTTP status of a failed source request.
type UpstreamError struct {
	Source     string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Source, e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
