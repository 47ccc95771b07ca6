package ports

import (
	"context"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// ConversionService orchestrates the PDF-to-deck pipeline. Each method maps
// to one user-visible action and runs to completion synchronously; the
// service itself is stateless and safe for use by independent sessions.
type ConversionService interface {
	// ExtractText pulls text from an uploaded PDF via the strategy chain
	ExtractText(ctx context.Context, pdfBytes []byte) (*entities.ExtractedText, error)

	// GenerateOutline asks the generation service for a slide structure
	// based on the extracted text and the presentation title
	GenerateOutline(ctx context.Context, text *entities.ExtractedText, title string) (string, error)

	// ParseOutline converts outline text into slide records; never fails
	ParseOutline(raw string) entities.Outline

	// BuildDeck parses the (possibly user-edited) outline text and renders
	// the final artifact, substituting the fallback slide when parsing
	// yields nothing
	BuildDeck(ctx context.Context, title string, rawOutline string) (*entities.Deck, error)
}
