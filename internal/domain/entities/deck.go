package entities

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeckMIMEType is the content type of a generated PowerPoint artifact
const DeckMIMEType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// DefaultDeckTitle is used when neither the user nor the uploaded filename
// yields a usable title
const DefaultDeckTitle = "Business Report"

var titleCaser = cases.Title(language.English)

// SuggestDeckTitle derives a presentation title from an uploaded filename:
// extension stripped, underscores and dashes become spaces, words title-cased.
// Filenames with no usable words fall back to the stock title.
func SuggestDeckTitle(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" || base == "." {
		return DefaultDeckTitle
	}
	return titleCaser.String(base)
}

// Deck is a generated presentation artifact. Ownership of the bytes passes to
// the caller on creation; the core keeps no copy.
type Deck struct {
	// Title is the user-supplied presentation title
	Title string `json:"title"`

	// Bytes is the serialized .pptx package
	Bytes []byte `json:"-"`

	// SlideCount is the total slide count including the title slide
	SlideCount int `json:"slide_count"`

	// GeneratedAt is when the deck was assembled
	GeneratedAt time.Time `json:"generated_at"`
}

// Validate ensures the deck has valid required fields
func (d *Deck) Validate() error {
	if d.Title == "" {
		return errors.New("deck title is required")
	}

	if len(d.Bytes) == 0 {
		return errors.New("deck has no content")
	}

	if d.SlideCount < 1 {
		return errors.New("deck must have at least one slide")
	}

	return nil
}

// Filename returns the download name: the title with spaces replaced by
// underscores plus the .pptx extension.
func (d *Deck) Filename() string {
	return strings.ReplaceAll(d.Title, " ", "_") + ".pptx"
}

// Size returns the artifact size in bytes
func (d *Deck) Size() int {
	return len(d.Bytes)
}
