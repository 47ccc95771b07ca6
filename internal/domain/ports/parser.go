package ports

import (
	"github.com/deckgen/deckgen/internal/domain/entities"
)

// OutlineDocument represents a parsed outline file: the outline itself plus
// any metadata carried in an optional YAML frontmatter block
type OutlineDocument struct {
	// Title overrides the presentation title when set
	Title string

	// Author is recorded in the deck's document properties when set
	Author string

	// Font overrides the configured body typeface when set
	Font string

	// MaxSlides overrides the configured slide cap when positive
	MaxSlides int

	// Outline is the parsed slide structure
	Outline entities.Outline
}

// OutlineParser turns the generation service's free-text reply into slide
// records. Parsing never fails; input with no recognizable structure degrades
// to an empty outline.
type OutlineParser interface {
	// Parse converts a raw model reply (or user-edited outline text) into
	// slide records, one per "Slide N:" header, in header order.
	Parse(raw string) entities.Outline

	// ParseDocument parses an outline file that may open with a YAML
	// frontmatter block; the remainder is parsed exactly like Parse input.
	ParseDocument(content []byte) (*OutlineDocument, error)
}
