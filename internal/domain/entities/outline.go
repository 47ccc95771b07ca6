package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SlideRecord represents one parsed content slide: a title plus its bullets
type SlideRecord struct {
	// Title is the slide heading; the parser synthesizes a placeholder
	// when the model reply carries none
	Title string `json:"title"`

	// Bullets are the body lines in order of appearance, kept as matched
	// (marker trimming happens at render time)
	Bullets []string `json:"bullets"`
}

// Validate ensures the slide record has valid required fields
func (r *SlideRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("slide record title is required")
	}
	return nil
}

// PlaceholderTitle returns the synthesized title for the content slide at the
// given parse index. The deck's title slide is slide 1, so content numbering
// starts at 2.
func PlaceholderTitle(index int) string {
	return "Slide " + strconv.Itoa(index+2)
}

// TrimBulletMarkers strips leading and trailing bullet glyphs, dashes,
// asterisks and whitespace from a bullet line, the way it is rendered both in
// the deck body and in the preview.
func TrimBulletMarkers(bullet string) string {
	return strings.TrimSpace(strings.Trim(bullet, "-•* "))
}

// Outline is an ordered sequence of slide records; insertion order is
// presentation order. The parser may produce any length; the assembler caps it.
type Outline []SlideRecord

// Validate ensures every record in the outline is valid
func (o Outline) Validate() error {
	for i, record := range o {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("slide record %d validation failed: %w", i+1, err)
		}
	}
	return nil
}

// IsEmpty returns true when parsing yielded no slide records
func (o Outline) IsEmpty() bool {
	return len(o) == 0
}

// Truncate returns the outline capped at max records; records beyond the cap
// are dropped silently.
func (o Outline) Truncate(max int) Outline {
	if max >= 0 && len(o) > max {
		return o[:max]
	}
	return o
}

// FallbackOutline returns the single-slide outline substituted when the model
// reply could not be parsed into any slides.
func FallbackOutline() Outline {
	return Outline{
		{Title: "Introduction", Bullets: []string{"Key points missing from AI output"}},
	}
}
