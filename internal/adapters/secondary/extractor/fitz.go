package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/deckgen/deckgen/internal/domain/ports"
)

// MuPDFStrategy extracts text with the MuPDF engine. It understands page
// layout well and is the first strategy the chain tries.
type MuPDFStrategy struct{}

// NewMuPDFStrategy creates the MuPDF-backed extraction strategy
func NewMuPDFStrategy() *MuPDFStrategy {
	return &MuPDFStrategy{}
}

// Name identifies the strategy in logs and extraction metadata
func (s *MuPDFStrategy) Name() string {
	return "mupdf"
}

// Extract reads page text in order, stopping once the budget is exceeded.
// The page that crosses the budget is kept whole.
func (s *MuPDFStrategy) Extract(ctx context.Context, pdfBytes []byte, budget int) (result *ports.StrategyResult, err error) {
	// MuPDF faults on some malformed documents; treat a panic as a
	// strategy failure so the chain can fall back.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("mupdf panic: %v", r)
		}
	}()

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer func() { _ = doc.Close() }()

	var sb strings.Builder
	res := &ports.StrategyResult{}

	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageText, err := doc.Text(i)
		if err != nil || pageText == "" {
			// Unreadable or empty pages contribute nothing
			continue
		}

		fmt.Fprintf(&sb, "\n\n[Page %d]\n%s", i+1, pageText)
		res.Pages++

		if sb.Len() > budget {
			res.Truncated = true
			break
		}
	}

	res.Text = sb.String()
	return res, nil
}

// Ensure MuPDFStrategy implements ports.ExtractionStrategy
var _ ports.ExtractionStrategy = (*MuPDFStrategy)(nil)
