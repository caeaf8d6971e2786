package domain

// FailureKind classifies why annotating a single image failed.
type FailureKind string

// Possible per-item failure kinds
const (
	FailureFileNotFound      FailureKind = "file_not_found"
	FailureTransport         FailureKind = "transport"
	FailureHTTP              FailureKind = "http"
	FailureRateLimit         FailureKind = "rate_limit"
	FailureMalformedResponse FailureKind = "malformed_response"
	FailureParse             FailureKind = "parse"
	FailureUnknown           FailureKind = "unknown"
)

// ItemFailure describes a contained per-item error. It is carried as data on
// the ItemResult rather than propagated as an error so that one image can
// never abort its siblings.
type ItemFailure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// ItemResult is the outcome of annotating one image within a job. Filename is
// always set; the metadata fields default to empty strings. Failure is nil on
// success, so callers detect errors with an explicit tag instead of comparing
// sentinel strings in the metadata.
type ItemResult struct {
	Filename    string       `json:"filename"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Keywords    string       `json:"keywords"`
	Category    string       `json:"category"`
	Failure     *ItemFailure `json:"failure,omitempty"`
}

// NewItemFailure creates an error result for the given filename.
func NewItemFailure(filename string, kind FailureKind, detail string) ItemResult {
	return ItemResult{
		Filename: filename,
		Failure: &ItemFailure{
			Kind:   kind,
			Detail: detail,
		},
	}
}

// Failed reports whether this result carries a per-item failure.
func (r ItemResult) Failed() bool {
	return r.Failure != nil
}
