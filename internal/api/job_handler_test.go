package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/stocktag-api/internal/domain"
	"github.com/phrazzld/stocktag-api/internal/service"
	"github.com/phrazzld/stocktag-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeJobService scripts the service layer for handler tests.
type fakeJobService struct {
	submitJob *domain.Job
	submitErr error
	getJob    *domain.Job
	getErr    error

	submittedSession uuid.UUID
	submittedKey     string
	submittedContext map[string]string
}

func (f *fakeJobService) SubmitJob(ctx context.Context, sessionID uuid.UUID, apiKey string, contextMap map[string]string) (*domain.Job, error) {
	f.submittedSession = sessionID
	f.submittedKey = apiKey
	f.submittedContext = contextMap
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitJob, nil
}

func (f *fakeJobService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getJob, nil
}

var _ service.JobService = (*fakeJobService)(nil)

func newJobRouter(svc service.JobService) http.Handler {
	h := NewJobHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Post("/api/jobs", h.SubmitJob)
	r.Get("/api/jobs/{id}", h.GetJob)
	return r
}

func processingJob(t *testing.T) *domain.Job {
	t.Helper()
	job, err := domain.NewJob(uuid.New(), []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)
	return job
}

func TestSubmitJobAccepted(t *testing.T) {
	t.Parallel()

	job := processingJob(t)
	svc := &fakeJobService{submitJob: job}
	router := newJobRouter(svc)

	body, err := json.Marshal(map[string]any{
		"session_id":  job.SessionID.String(),
		"api_key":     "test-key",
		"context_map": map[string]string{"a.jpg": "studio shot"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp SubmitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, job.ID.String(), resp.JobID)
	assert.Equal(t, string(domain.JobStatusProcessing), resp.Status)

	assert.Equal(t, job.SessionID, svc.submittedSession)
	assert.Equal(t, "test-key", svc.submittedKey)
	assert.Equal(t, "studio shot", svc.submittedContext["a.jpg"])
}

func TestSubmitJobInvalidBody(t *testing.T) {
	t.Parallel()

	router := newJobRouter(&fakeJobService{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJobMissingFields(t *testing.T) {
	t.Parallel()

	router := newJobRouter(&fakeJobService{})

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no api key", map[string]any{"session_id": uuid.New().String()}},
		{"no session", map[string]any{"api_key": "test-key"}},
		{"malformed session", map[string]any{"session_id": "not-a-uuid", "api_key": "test-key"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitJobEmptySession(t *testing.T) {
	t.Parallel()

	router := newJobRouter(&fakeJobService{submitErr: service.ErrNoImages})

	body, err := json.Marshal(map[string]any{
		"session_id": uuid.New().String(),
		"api_key":    "test-key",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session contains no images")
}

func TestGetJobProcessing(t *testing.T) {
	t.Parallel()

	job := processingJob(t)
	router := newJobRouter(&fakeJobService{getJob: job})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, job.ID.String(), resp.ID)
	assert.Equal(t, string(domain.JobStatusProcessing), resp.Status)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestGetJobCompletedWithResults(t *testing.T) {
	t.Parallel()

	job := processingJob(t)
	job.Status = domain.JobStatusCompleted
	job.Results = []domain.ItemResult{
		{Filename: "a.jpg", Title: "First", Keywords: "one, two"},
		domain.NewItemFailure("b.jpg", domain.FailureRateLimit, "rate limit exceeded after retries"),
	}
	router := newJobRouter(&fakeJobService{getJob: job})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.JobStatusCompleted), resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "First", resp.Results[0].Title)
	assert.Nil(t, resp.Results[0].Failure)
	require.NotNil(t, resp.Results[1].Failure)
	assert.Equal(t, domain.FailureRateLimit, resp.Results[1].Failure.Kind)
}

func TestGetJobNotFound(t *testing.T) {
	t.Parallel()

	router := newJobRouter(&fakeJobService{getErr: store.ErrJobNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job not found")
}

func TestGetJobInvalidID(t *testing.T) {
	t.Parallel()

	router := newJobRouter(&fakeJobService{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
