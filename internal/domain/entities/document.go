package entities

import (
	"errors"
	"strings"
)

// ExtractedText holds the text pulled out of an uploaded PDF together with
// extraction metadata. The text is immutable once created and lives only for
// the duration of the session that produced it.
type ExtractedText struct {
	// Text is the concatenated page text with "[Page N]" markers
	Text string `json:"text"`

	// Pages is the number of pages that contributed text
	Pages int `json:"pages"`

	// Truncated indicates extraction stopped early at the chunk budget
	Truncated bool `json:"truncated"`

	// Method names the extraction strategy (or strategies) that produced
	// the text, e.g. "mupdf" or "mupdf+pdfreader"
	Method string `json:"method"`
}

// Validate ensures extraction produced usable text
func (e *ExtractedText) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return errors.New("extracted text is empty")
	}

	if e.Pages < 0 {
		return errors.New("page count must be non-negative")
	}

	return nil
}

// Len returns the extracted text length in bytes
func (e *ExtractedText) Len() int {
	return len(e.Text)
}
