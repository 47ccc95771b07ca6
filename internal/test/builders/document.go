package builders

import (
	"time"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// ExtractedTextBuilder helps build ExtractedText entities for testing
type ExtractedTextBuilder struct {
	text *entities.ExtractedText
}

// NewExtractedTextBuilder creates a new extracted text builder with sensible defaults
func NewExtractedTextBuilder() *ExtractedTextBuilder {
	return &ExtractedTextBuilder{
		text: &entities.ExtractedText{
			Text:   "[Page 1]\nTest document body.",
			Pages:  1,
			Method: "mupdf",
		},
	}
}

// WithText sets the extracted text
func (b *ExtractedTextBuilder) WithText(text string) *ExtractedTextBuilder {
	b.text.Text = text
	return b
}

// WithPages sets the contributing page count
func (b *ExtractedTextBuilder) WithPages(pages int) *ExtractedTextBuilder {
	b.text.Pages = pages
	return b
}

// WithTruncated marks the extraction as stopped at the chunk budget
func (b *ExtractedTextBuilder) WithTruncated() *ExtractedTextBuilder {
	b.text.Truncated = true
	return b
}

// WithMethod sets the extraction method label
func (b *ExtractedTextBuilder) WithMethod(method string) *ExtractedTextBuilder {
	b.text.Method = method
	return b
}

// Build creates the final ExtractedText entity
func (b *ExtractedTextBuilder) Build() *entities.ExtractedText {
	clone := *b.text
	return &clone
}

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	deck *entities.Deck
}

// NewDeckBuilder creates a new deck builder with sensible defaults
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{
		deck: &entities.Deck{
			Title:       "Test Deck",
			Bytes:       []byte("PK\x03\x04 fake pptx"),
			SlideCount:  2,
			GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

// WithTitle sets the deck title
func (b *DeckBuilder) WithTitle(title string) *DeckBuilder {
	b.deck.Title = title
	return b
}

// WithBytes sets the serialized package bytes
func (b *DeckBuilder) WithBytes(data []byte) *DeckBuilder {
	b.deck.Bytes = data
	return b
}

// WithSlideCount sets the total slide count
func (b *DeckBuilder) WithSlideCount(count int) *DeckBuilder {
	b.deck.SlideCount = count
	return b
}

// WithGeneratedAt sets the assembly timestamp
func (b *DeckBuilder) WithGeneratedAt(at time.Time) *DeckBuilder {
	b.deck.GeneratedAt = at
	return b
}

// Build creates the final Deck entity
func (b *DeckBuilder) Build() *entities.Deck {
	clone := *b.deck
	clone.Bytes = append([]byte{}, b.deck.Bytes...)
	return &clone
}
