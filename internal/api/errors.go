// Package api contains the HTTP handlers exposing the annotation engine.
package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/stocktag-api/internal/annotation"
	"github.com/phrazzld/stocktag-api/internal/service"
	"github.com/phrazzld/stocktag-api/internal/storage"
	"github.com/phrazzld/stocktag-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrJobNotFound),
		errors.Is(err, storage.ErrSessionNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrJobExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrNoImages),
		errors.Is(err, annotation.ErrInvalidConfig):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, storage.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, storage.ErrFileNotFound):
		return "File not found"

	case errors.Is(err, store.ErrJobExists):
		return "Job already exists"

	case errors.Is(err, service.ErrNoImages):
		return "Session contains no images"

	case errors.Is(err, annotation.ErrInvalidConfig):
		return "Invalid annotation configuration"

	default:
		return "An unexpected error occurred"
	}
}
