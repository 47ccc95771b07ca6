package builders

import (
	"fmt"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// OutlineBuilder helps build Outline values for testing
type OutlineBuilder struct {
	records []entities.SlideRecord
}

// NewOutlineBuilder creates a new outline builder
func NewOutlineBuilder() *OutlineBuilder {
	return &OutlineBuilder{}
}

// WithSlide appends a slide record with the given title and bullets
func (b *OutlineBuilder) WithSlide(title string, bullets ...string) *OutlineBuilder {
	b.records = append(b.records, entities.SlideRecord{
		Title:   title,
		Bullets: bullets,
	})
	return b
}

// WithRecord appends a prebuilt slide record
func (b *OutlineBuilder) WithRecord(record entities.SlideRecord) *OutlineBuilder {
	b.records = append(b.records, record)
	return b
}

// WithSlideCount appends the specified number of default slides, titled
// "Section 1" through "Section N" with one bullet each
func (b *OutlineBuilder) WithSlideCount(count int) *OutlineBuilder {
	for i := 0; i < count; i++ {
		b.records = append(b.records, entities.SlideRecord{
			Title:   fmt.Sprintf("Section %d", i+1),
			Bullets: []string{"point"},
		})
	}
	return b
}

// Build creates the final Outline
func (b *OutlineBuilder) Build() entities.Outline {
	// Deep copy to prevent mutation
	outline := make(entities.Outline, len(b.records))
	copy(outline, b.records)
	for i := range outline {
		if outline[i].Bullets != nil {
			outline[i].Bullets = append([]string{}, outline[i].Bullets...)
		}
	}
	return outline
}

// Common outlines for testing

// MinimalOutline creates a one-slide outline for basic tests
func MinimalOutline() entities.Outline {
	return NewOutlineBuilder().
		WithSlide("Overview", "One point").
		Build()
}

// LargeOutline creates an outline with many slides for slide cap tests
func LargeOutline() entities.Outline {
	return NewOutlineBuilder().
		WithSlideCount(50).
		Build()
}
