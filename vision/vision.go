// Package vision reads text out of game screenshots through the Gemini
// API. It is the recognition collaborator in front of the ocr parsers:
// one screenshot in, the raw recognized text out. Failures are ordinary
// errors; nothing in the core depends on this package succeeding.
package vision

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the model used when the reader is created with an empty
// model name.
const DefaultModel = "gemini-2.5-flash"

const prompt = "Transcribe every piece of text visible in this game " +
	"screenshot, line by line, top to bottom. Output the raw text only, " +
	"no commentary."

// Reader recognizes text on screenshots.
type Reader struct {
	model string
}

// NewReader creates a screenshot reader.
func NewReader(model string) *Reader {
	if model == "" {
		model = DefaultModel
	}
	return &Reader{model: model}
}

// Recognize sends one screenshot to the model and returns the recognized
// text. mimeType is the image's type, e.g. "image/png".
func (r *Reader) Recognize(ctx context.Context, client *genai.Client, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	resp, err := client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("recognition returned no content")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
