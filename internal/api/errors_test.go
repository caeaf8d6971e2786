package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/stocktag-api/internal/annotation"
	"github.com/phrazzld/stocktag-api/internal/service"
	"github.com/phrazzld/stocktag-api/internal/storage"
	"github.com/phrazzld/stocktag-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"job not found", store.ErrJobNotFound, http.StatusNotFound},
		{"session not found", storage.ErrSessionNotFound, http.StatusNotFound},
		{"file not found", storage.ErrFileNotFound, http.StatusNotFound},
		{"job exists", store.ErrJobExists, http.StatusConflict},
		{"no images", service.ErrNoImages, http.StatusBadRequest},
		{"invalid config", annotation.ErrInvalidConfig, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrJobNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Job not found", GetSafeErrorMessage(store.ErrJobNotFound))
	assert.Equal(t, "Session contains no images", GetSafeErrorMessage(service.ErrNoImages))

	// Internal details never leak through the safe message.
	leaky := errors.New("pgx: connection to 10.0.0.3 failed")
	msg := GetSafeErrorMessage(leaky)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.3")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
