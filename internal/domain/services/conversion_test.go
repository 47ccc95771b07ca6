package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// Mock implementations
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, pdfBytes []byte) (*entities.ExtractedText, error) {
	args := m.Called(ctx, pdfBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ExtractedText), args.Error(1)
}

type MockOutlineGenerator struct {
	mock.Mock
}

func (m *MockOutlineGenerator) GenerateOutline(ctx context.Context, req ports.OutlineRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockOutlineParser struct {
	mock.Mock
}

func (m *MockOutlineParser) Parse(raw string) entities.Outline {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(entities.Outline)
}

func (m *MockOutlineParser) ParseDocument(content []byte) (*ports.OutlineDocument, error) {
	args := m.Called(content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.OutlineDocument), args.Error(1)
}

type MockDeckAssembler struct {
	mock.Mock
}

func (m *MockDeckAssembler) Assemble(ctx context.Context, title string, outline entities.Outline, opts ports.AssembleOptions) (*entities.Deck, error) {
	args := m.Called(ctx, title, outline, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deck), args.Error(1)
}

// defaultOptions mirrors what a zero-value deck config resolves to
func defaultOptions() ports.AssembleOptions {
	return ports.AssembleOptions{
		MaxSlides:  10,
		Font:       "Calibri",
		FontSizePt: 18,
	}
}

// Tests
func TestConversionService_ExtractText(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		extractor := new(MockTextExtractor)
		pdfBytes := []byte("%PDF-1.4 fake content")

		extracted := &entities.ExtractedText{
			Text:   "[Page 1]\nQuarterly revenue grew 12 percent.",
			Pages:  1,
			Method: "mupdf",
		}
		extractor.On("Extract", ctx, pdfBytes).Return(extracted, nil)

		service := NewConversionService(extractor, nil, nil, nil, entities.DeckConfig{}, nil)

		result, err := service.ExtractText(ctx, pdfBytes)
		require.NoError(t, err)
		assert.Equal(t, extracted, result)

		extractor.AssertExpectations(t)
	})

	t.Run("empty document", func(t *testing.T) {
		service := NewConversionService(nil, nil, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.ExtractText(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document content cannot be empty")
	})

	t.Run("extractor error passes through", func(t *testing.T) {
		extractor := new(MockTextExtractor)
		pdfBytes := []byte("%PDF-1.4 scanned")

		extractor.On("Extract", ctx, pdfBytes).
			Return(nil, entities.NewExtractionError("failed to extract sufficient text (document may be scanned)", nil))

		service := NewConversionService(extractor, nil, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.ExtractText(ctx, pdfBytes)
		require.Error(t, err)

		errType, ok := entities.ConversionTypeOf(err)
		assert.True(t, ok)
		assert.Equal(t, entities.ErrorTypeExtraction, errType)

		extractor.AssertExpectations(t)
	})
}

func TestConversionService_GenerateOutline(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		generator := new(MockOutlineGenerator)
		extracted := &entities.ExtractedText{Text: "[Page 1]\nBody text.", Pages: 1}

		generator.On("GenerateOutline", ctx, ports.OutlineRequest{
			Title:        "Quarterly Review",
			DocumentText: extracted.Text,
		}).Return("**Slide 2: [Overview]**\n* First point", nil)

		service := NewConversionService(nil, generator, nil, nil, entities.DeckConfig{}, nil)

		raw, err := service.GenerateOutline(ctx, extracted, "Quarterly Review")
		require.NoError(t, err)
		assert.Contains(t, raw, "Slide 2")

		generator.AssertExpectations(t)
	})

	t.Run("blank title falls back to default", func(t *testing.T) {
		generator := new(MockOutlineGenerator)
		extracted := &entities.ExtractedText{Text: "Body text.", Pages: 1}

		generator.On("GenerateOutline", ctx, ports.OutlineRequest{
			Title:        "Business Report",
			DocumentText: extracted.Text,
		}).Return("reply", nil)

		service := NewConversionService(nil, generator, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.GenerateOutline(ctx, extracted, "   ")
		require.NoError(t, err)

		generator.AssertExpectations(t)
	})

	t.Run("nil extracted text", func(t *testing.T) {
		service := NewConversionService(nil, nil, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.GenerateOutline(ctx, nil, "Title")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extracted text cannot be nil")
	})

	t.Run("empty extracted text", func(t *testing.T) {
		service := NewConversionService(nil, nil, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.GenerateOutline(ctx, &entities.ExtractedText{Text: "   "}, "Title")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid extracted text")
	})

	t.Run("generator error passes through", func(t *testing.T) {
		generator := new(MockOutlineGenerator)
		extracted := &entities.ExtractedText{Text: "Body text.", Pages: 1}

		genErr := entities.NewGenerationError("structure generation failed", errors.New("status 500"))
		generator.On("GenerateOutline", ctx, mock.Anything).Return("", genErr)

		service := NewConversionService(nil, generator, nil, nil, entities.DeckConfig{}, nil)

		_, err := service.GenerateOutline(ctx, extracted, "Title")
		require.Error(t, err)

		errType, ok := entities.ConversionTypeOf(err)
		assert.True(t, ok)
		assert.Equal(t, entities.ErrorTypeGeneration, errType)

		generator.AssertExpectations(t)
	})
}

func TestConversionService_ParseOutline(t *testing.T) {
	t.Run("delegates to parser", func(t *testing.T) {
		parser := new(MockOutlineParser)
		outline := entities.Outline{
			{Title: "\"Overview\"", Bullets: []string{"First point"}},
		}
		parser.On("Parse", "raw outline text").Return(outline)

		service := NewConversionService(nil, nil, parser, nil, entities.DeckConfig{}, nil)

		result := service.ParseOutline("raw outline text")
		assert.Equal(t, outline, result)

		parser.AssertExpectations(t)
	})
}

func TestConversionService_BuildDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		parser := new(MockOutlineParser)
		assembler := new(MockDeckAssembler)

		outline := entities.Outline{
			{Title: "\"Overview\"", Bullets: []string{"First point", "Second point"}},
			{Title: "\"Details\"", Bullets: []string{"Third point"}},
		}
		deck := &entities.Deck{Title: "Quarterly Review", Bytes: []byte("pptx"), SlideCount: 3}

		parser.On("Parse", "raw outline").Return(outline)
		assembler.On("Assemble", ctx, "Quarterly Review", outline, defaultOptions()).Return(deck, nil)

		service := NewConversionService(nil, nil, parser, assembler, entities.DeckConfig{}, nil)

		result, err := service.BuildDeck(ctx, "Quarterly Review", "raw outline")
		require.NoError(t, err)
		assert.Equal(t, deck, result)

		parser.AssertExpectations(t)
		assembler.AssertExpectations(t)
	})

	t.Run("blank title falls back to default", func(t *testing.T) {
		parser := new(MockOutlineParser)
		assembler := new(MockDeckAssembler)

		outline := entities.Outline{{Title: "Slide 2", Bullets: nil}}
		deck := &entities.Deck{Title: "Business Report", Bytes: []byte("pptx"), SlideCount: 2}

		parser.On("Parse", "raw outline").Return(outline)
		assembler.On("Assemble", ctx, "Business Report", outline, defaultOptions()).Return(deck, nil)

		service := NewConversionService(nil, nil, parser, assembler, entities.DeckConfig{}, nil)

		result, err := service.BuildDeck(ctx, "", "raw outline")
		require.NoError(t, err)
		assert.Equal(t, "Business Report", result.Title)

		assembler.AssertExpectations(t)
	})

	t.Run("unparsable outline logs fallback warning", func(t *testing.T) {
		parser := new(MockOutlineParser)
		assembler := new(MockDeckAssembler)

		deck := &entities.Deck{Title: "Business Report", Bytes: []byte("pptx"), SlideCount: 2}

		parser.On("Parse", "no structure here").Return(entities.Outline{})
		assembler.On("Assemble", ctx, "Business Report", entities.Outline{}, defaultOptions()).Return(deck, nil)

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		service := NewConversionService(nil, nil, parser, assembler, entities.DeckConfig{}, logger)

		_, err := service.BuildDeck(ctx, "Business Report", "no structure here")
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "substituting fallback slide")

		parser.AssertExpectations(t)
		assembler.AssertExpectations(t)
	})

	t.Run("assembler error passes through", func(t *testing.T) {
		parser := new(MockOutlineParser)
		assembler := new(MockDeckAssembler)

		parser.On("Parse", "raw outline").Return(entities.Outline{{Title: "Slide 2"}})
		assembler.On("Assemble", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, entities.NewDeckRenderError("PPT creation failed", errors.New("zip fault")))

		service := NewConversionService(nil, nil, parser, assembler, entities.DeckConfig{}, nil)

		_, err := service.BuildDeck(ctx, "Quarterly Review", "raw outline")
		require.Error(t, err)

		errType, ok := entities.ConversionTypeOf(err)
		assert.True(t, ok)
		assert.Equal(t, entities.ErrorTypeDeckRender, errType)
	})

	t.Run("deck config drives assemble options", func(t *testing.T) {
		parser := new(MockOutlineParser)
		assembler := new(MockDeckAssembler)

		outline := entities.Outline{{Title: "Slide 2"}}
		deck := &entities.Deck{Title: "Quarterly Review", Bytes: []byte("pptx"), SlideCount: 2}

		parser.On("Parse", "raw outline").Return(outline)
		assembler.On("Assemble", ctx, "Quarterly Review", outline, ports.AssembleOptions{
			MaxSlides:  5,
			Font:       "Georgia",
			FontSizePt: 20,
		}).Return(deck, nil)

		deckCfg := entities.DeckConfig{MaxSlides: 5, Font: "Georgia", FontSizePt: 20}
		service := NewConversionService(nil, nil, parser, assembler, deckCfg, nil)

		_, err := service.BuildDeck(ctx, "Quarterly Review", "raw outline")
		require.NoError(t, err)

		assembler.AssertExpectations(t)
	})
}
