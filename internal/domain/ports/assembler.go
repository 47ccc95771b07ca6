package ports

import (
	"context"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// AssembleOptions control deck rendering; zero values fall back to the
// configured defaults
type AssembleOptions struct {
	// MaxSlides caps the number of content slides (default 10)
	MaxSlides int

	// Font is the body typeface (default Calibri)
	Font string

	// FontSizePt is the bullet font size in points (default 18)
	FontSizePt int

	// Author is recorded in the document properties when set
	Author string
}

// DeckAssembler renders an outline into a binary presentation artifact: one
// title slide followed by one content slide per record up to the cap. It
// fails only on serialization faults, never on malformed outline content.
type DeckAssembler interface {
	Assemble(ctx context.Context, title string, outline entities.Outline, opts AssembleOptions) (*entities.Deck, error)
}
