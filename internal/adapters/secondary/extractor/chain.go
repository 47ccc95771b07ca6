package extractor

import (
	"context"
	"log"
	"strings"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// InsufficientTextMessage is the user-facing reason reported when no strategy
// yields enough text, typically a scanned or image-only document.
const InsufficientTextMessage = "failed to extract sufficient text (document may be scanned)"

// ChainExtractor runs extraction strategies in order until the accumulated
// text reaches the minimum viable length. Strategy failures are logged as
// warnings and never abort the chain; only a chain-wide insufficient yield is
// reported as an error.
type ChainExtractor struct {
	strategies []ports.ExtractionStrategy
	chunkSize  int
	minLength  int
}

// NewChainExtractor creates the extraction chain. When no strategies are
// given, the default MuPDF-then-pure-Go pair is used.
func NewChainExtractor(config entities.ExtractorConfig, strategies ...ports.ExtractionStrategy) *ChainExtractor {
	if len(strategies) == 0 {
		strategies = []ports.ExtractionStrategy{
			NewMuPDFStrategy(),
			NewPDFReaderStrategy(),
		}
	}

	return &ChainExtractor{
		strategies: strategies,
		chunkSize:  config.GetChunkSize(),
		minLength:  config.GetMinContentLength(),
	}
}

// Extract implements ports.TextExtractor. Later strategies run only while the
// accumulated text is below the minimum viable length, and each receives the
// budget left over by its predecessors.
func (c *ChainExtractor) Extract(ctx context.Context, pdfBytes []byte) (*entities.ExtractedText, error) {
	var (
		text      strings.Builder
		pages     int
		truncated bool
		methods   []string
	)

	for _, strategy := range c.strategies {
		if text.Len() >= c.minLength {
			break
		}

		result, err := strategy.Extract(ctx, pdfBytes, c.chunkSize-text.Len())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] [extractor] %s failed: %v", strategy.Name(), err)
			continue
		}

		if result.Text == "" {
			continue
		}

		text.WriteString(result.Text)
		pages += result.Pages
		truncated = truncated || result.Truncated
		methods = append(methods, strategy.Name())
	}

	if text.Len() < c.minLength {
		return nil, entities.NewExtractionError(InsufficientTextMessage, nil)
	}

	return &entities.ExtractedText{
		Text:      text.String(),
		Pages:     pages,
		Truncated: truncated,
		Method:    strings.Join(methods, "+"),
	}, nil
}

// Ensure ChainExtractor implements ports.TextExtractor
var _ ports.TextExtractor = (*ChainExtractor)(nil)
