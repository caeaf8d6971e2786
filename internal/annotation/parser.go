package annotation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata holds the four stock-photo fields extracted from a model response.
// Keywords stay a single comma-delimited string; the parser does not
// renormalize them.
type Metadata struct {
	Title       string
	Description string
	Keywords    string
	Category    string
}

// metadataSchema represents the expected JSON structure of a model response.
// Any missing key decodes to the empty string; a partially populated response
// is still useful.
type metadataSchema struct {
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Keywords    string `json:"Keywords"`
	Category    string `json:"Category"`
}

// ParseMetadata extracts structured metadata from a raw model response.
// Models frequently wrap the JSON body in markdown code fences despite being
// instructed not to, so known fence markers are stripped before decoding.
// Returns an error wrapping ErrParse if the remainder is not valid JSON.
func ParseMetadata(raw string) (Metadata, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var schema metadataSchema
	if err := json.Unmarshal([]byte(cleaned), &schema); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Metadata{
		Title:       schema.Title,
		Description: schema.Description,
		Keywords:    schema.Keywords,
		Category:    schema.Category,
	}, nil
}
