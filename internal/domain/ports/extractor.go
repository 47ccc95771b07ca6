package ports

import (
	"context"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// TextExtractor defines the interface for pulling plain text out of a PDF
type TextExtractor interface {
	// Extract runs the extraction strategy chain over the document bytes.
	// It fails only when no strategy yields the minimum viable text.
	Extract(ctx context.Context, pdfBytes []byte) (*entities.ExtractedText, error)
}

// StrategyResult is the outcome of a single extraction strategy pass
type StrategyResult struct {
	// Text is the page text produced by this pass, with "[Page N]" markers
	Text string

	// Pages is the number of pages that contributed text
	Pages int

	// Truncated indicates the pass stopped early at the budget
	Truncated bool
}

// ExtractionStrategy is one PDF text-extraction backend. The chain runs
// strategies in order, feeding each the budget left by its predecessors.
type ExtractionStrategy interface {
	// Name identifies the backend in logs and extraction metadata
	Name() string

	// Extract reads page text in page order, appending a "[Page N]" marker
	// before each non-empty page, and stops early once the produced length
	// exceeds budget. The page that crosses the budget is kept whole.
	Extract(ctx context.Context, pdfBytes []byte, budget int) (*StrategyResult, error)
}
