package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// ConversionService implements the PDF-to-deck pipeline business logic. It is
// stateless; per-upload state lives in the session layer.
type ConversionService struct {
	extractor ports.TextExtractor
	generator ports.OutlineGenerator
	parser    ports.OutlineParser
	assembler ports.DeckAssembler
	deckCfg   entities.DeckConfig
	logger    *slog.Logger
}

// NewConversionService creates a new conversion service instance
func NewConversionService(
	extractor ports.TextExtractor,
	generator ports.OutlineGenerator,
	parser ports.OutlineParser,
	assembler ports.DeckAssembler,
	deckCfg entities.DeckConfig,
	logger *slog.Logger,
) *ConversionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ConversionService{
		extractor: extractor,
		generator: generator,
		parser:    parser,
		assembler: assembler,
		deckCfg:   deckCfg,
		logger:    logger.With("service", "conversion"),
	}
}

// ExtractText pulls text from an uploaded PDF via the strategy chain
func (s *ConversionService) ExtractText(ctx context.Context, pdfBytes []byte) (*entities.ExtractedText, error) {
	if len(pdfBytes) == 0 {
		return nil, errors.New("document content cannot be empty")
	}

	text, err := s.extractor.Extract(ctx, pdfBytes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Text extracted",
		slog.Int("pages", text.Pages),
		slog.Int("bytes", text.Len()),
		slog.String("method", text.Method),
		slog.Bool("truncated", text.Truncated),
	)

	return text, nil
}

// GenerateOutline asks the generation service for a slide structure based on
// the extracted text and the presentation title
func (s *ConversionService) GenerateOutline(ctx context.Context, text *entities.ExtractedText, title string) (string, error) {
	if text == nil {
		return "", errors.New("extracted text cannot be nil")
	}
	if err := text.Validate(); err != nil {
		return "", fmt.Errorf("invalid extracted text: %w", err)
	}

	raw, err := s.generator.GenerateOutline(ctx, ports.OutlineRequest{
		Title:        s.resolveTitle(title),
		DocumentText: text.Text,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Outline generated", slog.Int("bytes", len(raw)))

	return raw, nil
}

// ParseOutline converts outline text into slide records. Parsing never
// fails; unrecognizable input degrades to an empty outline.
func (s *ConversionService) ParseOutline(raw string) entities.Outline {
	return s.parser.Parse(raw)
}

// BuildDeck parses the (possibly user-edited) outline text and renders the
// final artifact. An unparsable outline degrades to the fallback slide
// rather than failing the operation.
func (s *ConversionService) BuildDeck(ctx context.Context, title string, rawOutline string) (*entities.Deck, error) {
	resolved := s.resolveTitle(title)

	outline := s.parser.Parse(rawOutline)
	if outline.IsEmpty() {
		s.logger.Warn("Outline text yielded no slides, substituting fallback slide",
			slog.Int("outline_bytes", len(rawOutline)),
		)
	}

	deck, err := s.assembler.Assemble(ctx, resolved, outline, ports.AssembleOptions{
		MaxSlides:  s.deckCfg.GetMaxSlides(),
		Font:       s.deckCfg.GetFont(),
		FontSizePt: s.deckCfg.GetFontSizePt(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deck assembled",
		slog.String("title", deck.Title),
		slog.Int("slides", deck.SlideCount),
		slog.Int("bytes", deck.Size()),
	)

	return deck, nil
}

// resolveTitle falls back to the configured default when the user supplied
// no usable title
func (s *ConversionService) resolveTitle(title string) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	return s.deckCfg.GetDefaultTitle()
}

// Ensure ConversionService implements ports.ConversionService
var _ ports.ConversionService = (*ConversionService)(nil)
