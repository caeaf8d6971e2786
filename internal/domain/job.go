// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of an annotation job
type JobStatus string

// Possible job status values
const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Common validation errors for Job
var (
	ErrEmptyJobID       = errors.New("job ID cannot be empty")
	ErrEmptySessionID   = errors.New("job session ID cannot be empty")
	ErrNoJobFiles       = errors.New("job must contain at least one filename")
	ErrInvalidJobStatus = errors.New("invalid job status")
)

// Job represents one batch annotation request spanning a set of images,
// tracked from submission to a terminal state. Results are populated once,
// atomically, when the job reaches a terminal state.
type Job struct {
	ID        uuid.UUID    `json:"id"`
	SessionID uuid.UUID    `json:"session_id"`
	Filenames []string     `json:"filenames"`
	Status    JobStatus    `json:"status"`
	Results   []ItemResult `json:"results"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewJob creates a new Job for the given upload session and filenames.
// It generates a new UUID for the job ID and sets the status to processing.
// Returns an error if validation fails.
func NewJob(sessionID uuid.UUID, filenames []string) (*Job, error) {
	job := &Job{
		ID:        uuid.New(),
		SessionID: sessionID,
		Filenames: filenames,
		Status:    JobStatusProcessing,
		Results:   []ItemResult{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
// Returns an error if any field fails validation.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.SessionID == uuid.Nil {
		return ErrEmptySessionID
	}

	if len(j.Filenames) == 0 {
		return ErrNoJobFiles
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// IsTerminal reports whether the job has reached a state from which no
// further transition occurs.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a deep copy of the job. Stores hand out clones so callers
// can never mutate registry state through a snapshot.
func (j *Job) Clone() *Job {
	clone := *j
	clone.Filenames = append([]string(nil), j.Filenames...)
	clone.Results = append([]ItemResult(nil), j.Results...)
	return &clone
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}
