package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/deckgen/deckgen/internal/domain/ports"
)

// PDFReaderStrategy extracts text with a pure-Go PDF reader. It handles some
// documents MuPDF rejects, so the chain runs it when the first pass comes up
// short.
type PDFReaderStrategy struct{}

// NewPDFReaderStrategy creates the pure-Go extraction strategy
func NewPDFReaderStrategy() *PDFReaderStrategy {
	return &PDFReaderStrategy{}
}

// Name identifies the strategy in logs and extraction metadata
func (s *PDFReaderStrategy) Name() string {
	return "pdfreader"
}

// Extract reads page text in order, stopping once the budget is exceeded.
func (s *PDFReaderStrategy) Extract(ctx context.Context, pdfBytes []byte, budget int) (result *ports.StrategyResult, err error) {
	// The reader panics on certain malformed xref tables; convert that to
	// a strategy failure.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}

	var sb strings.Builder
	res := &ports.StrategyResult{}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}

		fmt.Fprintf(&sb, "\n\n[Page %d]\n%s", i, pageText)
		res.Pages++

		if sb.Len() > budget {
			res.Truncated = true
			break
		}
	}

	res.Text = sb.String()
	return res, nil
}

// Ensure PDFReaderStrategy implements ports.ExtractionStrategy
var _ ports.ExtractionStrategy = (*PDFReaderStrategy)(nil)
