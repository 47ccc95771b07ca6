package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

const sampleOutline = `**Slide 1: [Title Slide]**
* **Title:** "Q3 Business Review"
* **Subtitle:** "Revenue and growth highlights"

**Slide 2: [Introduction]**
* **Title:** "Introduction"
* **Bullet Points:**
    * Revenue grew 12% year over year
    * Churn fell below 2%

**Slide 3: [Outlook]**
* **Title:** "Outlook"
* **Bullet Points:**
    * - Expand into two new markets
`

func TestOutlineParser_Parse(t *testing.T) {
	outline := NewOutlineParser().Parse(sampleOutline)

	require.Len(t, outline, 3)

	assert.Equal(t, `"Q3 Business Review"`, outline[0].Title)
	assert.Equal(t, []string{
		`**Title:** "Q3 Business Review"`,
		`**Subtitle:** "Revenue and growth highlights"`,
	}, outline[0].Bullets)

	assert.Equal(t, `"Introduction"`, outline[1].Title)
	assert.Equal(t, []string{
		`**Title:** "Introduction"`,
		`**Bullet Points:**`,
		"Revenue grew 12% year over year",
		"Churn fell below 2%",
	}, outline[1].Bullets)

	assert.Equal(t, `"Outlook"`, outline[2].Title)
	assert.Equal(t, []string{
		`**Title:** "Outlook"`,
		`**Bullet Points:**`,
		"- Expand into two new markets",
	}, outline[2].Bullets)
}

func TestOutlineParser_Parse_RecordPerHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"no headers", "just some prose about slides", 0},
		{"empty input", "", 0},
		{"single header no body", "**Slide 1: [Title Slide]**", 1},
		{"five headers", strings.Repeat("**Slide 1: [Section]**\ncontent\n", 5), 5},
		{"header without content keeps count", "**Slide 1: [A]****Slide 2: [B]**", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline := NewOutlineParser().Parse(tt.raw)
			assert.Len(t, outline, tt.want)
		})
	}
}

func TestOutlineParser_Parse_TitleFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "missing title lines synthesize positional titles",
			raw:  "**Slide 1: [A]**\n* point one\n**Slide 2: [B]**\n* point two",
			want: []string{"Slide 2", "Slide 3"},
		},
		{
			name: "empty title capture synthesizes placeholder",
			raw:  "**Slide 1: [A]**\n* **Title:**",
			want: []string{"Slide 2"},
		},
		{
			name: "present title wins",
			raw:  "**Slide 1: [A]**\n* **Title:** Growth\n**Slide 2: [B]**\n* point",
			want: []string{"Growth", "Slide 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline := NewOutlineParser().Parse(tt.raw)
			require.Len(t, outline, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, outline[i].Title)
			}
		})
	}
}

func TestOutlineParser_Parse_PreambleDiscarded(t *testing.T) {
	raw := "Here is the outline you asked for:\n\n**Slide 1: [Summary]**\n* **Title:** Summary\n"

	outline := NewOutlineParser().Parse(raw)

	require.Len(t, outline, 1)
	assert.Equal(t, "Summary", outline[0].Title)
}

func TestOutlineParser_Parse_BulletsKeepMarkersUntilAssembly(t *testing.T) {
	raw := "**Slide 1: [A]**\n* - Revenue grew 10%\n"

	outline := NewOutlineParser().Parse(raw)

	require.Len(t, outline, 1)
	require.Len(t, outline[0].Bullets, 1)
	assert.Equal(t, "- Revenue grew 10%", outline[0].Bullets[0])
	assert.Equal(t, "Revenue grew 10%", entities.TrimBulletMarkers(outline[0].Bullets[0]))
}

func TestOutlineParser_ParseDocument(t *testing.T) {
	content := []byte(`---
title: Quarterly Review
author: Finance Team
font: Arial
max_slides: 6
---
**Slide 1: [Summary]**
* **Title:** Summary
* first point
`)

	doc, err := NewOutlineParser().ParseDocument(content)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Review", doc.Title)
	assert.Equal(t, "Finance Team", doc.Author)
	assert.Equal(t, "Arial", doc.Font)
	assert.Equal(t, 6, doc.MaxSlides)
	require.Len(t, doc.Outline, 1)
	assert.Equal(t, "Summary", doc.Outline[0].Title)
}

func TestOutlineParser_ParseDocument_NoFrontmatter(t *testing.T) {
	content := []byte("**Slide 1: [Summary]**\n* point\n")

	doc, err := NewOutlineParser().ParseDocument(content)
	require.NoError(t, err)

	assert.Empty(t, doc.Title)
	assert.Empty(t, doc.Author)
	assert.Zero(t, doc.MaxSlides)
	assert.Len(t, doc.Outline, 1)
}

func TestOutlineParser_ParseDocument_UnclosedFrontmatter(t *testing.T) {
	content := []byte("---\ntitle: Dangling\n**Slide 1: [A]**\n* point\n")

	doc, err := NewOutlineParser().ParseDocument(content)
	require.NoError(t, err)

	assert.Empty(t, doc.Title, "unclosed block is outline body, not metadata")
	assert.Len(t, doc.Outline, 1)
}

func TestOutlineParser_ParseDocument_MalformedFrontmatter(t *testing.T) {
	content := []byte("---\ntitle: [unclosed\n---\n**Slide 1: [A]**\n")

	_, err := NewOutlineParser().ParseDocument(content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestOutlineParser_ParseDocument_CRLF(t *testing.T) {
	content := []byte("---\r\ntitle: Quarterly\r\n---\r\n**Slide 1: [A]**\r\n* point\r\n")

	doc, err := NewOutlineParser().ParseDocument(content)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly", doc.Title)
	assert.Len(t, doc.Outline, 1)
}
