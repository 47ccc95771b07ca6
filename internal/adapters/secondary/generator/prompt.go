package generator

import (
	"strings"
	"text/template"
	"unicode/utf8"
)

// outlinePrompt instructs the model to return a fixed five-slide structure
// using the bold slide markers the outline parser recognizes.
var outlinePrompt = template.Must(template.New("outline").Parse(`
You are an expert presentation designer. Based on the content below, create a PowerPoint structure for the title: "{{.Title}}".

PDF CONTENT:
{{.Content}}

Return exactly 5 slides in this format:
**Slide 1: [Title Slide]**
* **Title:** "{{.Title}}"
* **Subtitle:** "[1-line summary]"

**Slide 2: [Introduction]**
* **Title:** "Intro title"
* **Bullet Points:**
    * Bullet 1
    * Bullet 2

...repeat for 5 slides total.
`))

type promptData struct {
	Title   string
	Content string
}

// BuildPrompt renders the outline prompt for the given title and document
// text. The document text is capped at chunkSize bytes so the request payload
// stays bounded regardless of how much the extractor produced.
func BuildPrompt(title, documentText string, chunkSize int) (string, error) {
	var sb strings.Builder
	data := promptData{
		Title:   title,
		Content: truncateChunk(documentText, chunkSize),
	}
	if err := outlinePrompt.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// truncateChunk cuts text down to at most limit bytes without splitting a
// multi-byte rune.
func truncateChunk(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
