package annotation

import (
	"bytes"
	"fmt"
	"text/template"
)

// instructionTemplate is the fixed framing sent with every image. The user
// context is quoted verbatim and explicitly overrides visual inference.
const instructionTemplate = `Analyze this image for stock photography. ` +
	`Return PURE JSON (no markdown formatting) with keys: Title, Description, ` +
	`Keywords (comma separated string), Category (Choose from standard stock categories). ` +
	`Additional Context provided by user: '{{.UserContext}}'. ` +
	`Override visual inferences if this context contradicts them.`

var promptTemplate = template.Must(template.New("annotation").Parse(instructionTemplate))

// promptData represents the data passed to the prompt template
type promptData struct {
	UserContext string
}

// BuildPrompt renders the model instruction for one image. The user context
// may be empty; the framing is included either way.
func BuildPrompt(userContext string) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{UserContext: userContext}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
