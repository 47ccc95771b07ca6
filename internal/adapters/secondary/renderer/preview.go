package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// HTMLPreviewRenderer renders a parsed outline into the slide-card fragment
// shown next to the outline editor. Bullets may carry inline markdown from
// the model; it is converted and then sanitized since model output is
// untrusted.
type HTMLPreviewRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	templates *template.Template
}

// NewHTMLPreviewRenderer creates a new outline preview renderer
func NewHTMLPreviewRenderer() (*HTMLPreviewRenderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
	)

	tmpl := template.New("preview")
	tmpl = tmpl.Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) // #nosec G203 - content is sanitized before reaching the template
		},
	})

	if _, err := tmpl.Parse(previewTemplate); err != nil {
		return nil, fmt.Errorf("parsing preview template: %w", err)
	}

	return &HTMLPreviewRenderer{
		md:        md,
		sanitizer: newPreviewSanitizer(),
		templates: tmpl,
	}, nil
}

// newPreviewSanitizer allows only the inline formatting a bullet can
// reasonably carry
func newPreviewSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("strong", "b", "em", "i", "u", "s", "mark", "code")
	p.AllowElements("a").AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")

	return p
}

type previewSlide struct {
	Number  int
	Title   string
	Bullets []string
}

// RenderPreview renders one card per slide record. Slide numbering starts at
// 2 because the deck's title slide is slide 1.
func (r *HTMLPreviewRenderer) RenderPreview(ctx context.Context, outline entities.Outline) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slides := make([]previewSlide, 0, len(outline))
	for i, record := range outline {
		bullets := make([]string, 0, len(record.Bullets))
		for _, bullet := range record.Bullets {
			rendered, err := r.renderInline(entities.TrimBulletMarkers(bullet))
			if err != nil {
				return nil, fmt.Errorf("rendering bullet markdown: %w", err)
			}
			bullets = append(bullets, rendered)
		}

		slides = append(slides, previewSlide{
			Number:  i + 2,
			Title:   record.Title,
			Bullets: bullets,
		})
	}

	data := struct {
		Slides []previewSlide
	}{
		Slides: slides,
	}

	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing preview template: %w", err)
	}

	return buf.Bytes(), nil
}

// renderInline converts one bullet's markdown to sanitized inline HTML.
// Goldmark wraps single-line input in a paragraph; the wrapper is stripped
// so bullets stay list items.
func (r *HTMLPreviewRenderer) renderInline(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}

	rendered := strings.TrimSpace(buf.String())
	rendered = strings.TrimPrefix(rendered, "<p>")
	rendered = strings.TrimSuffix(rendered, "</p>")

	return r.sanitizer.Sanitize(rendered), nil
}

const previewTemplate = `<div class="preview">
{{range .Slides}}<div class="preview-slide" data-slide="{{.Number}}">
    <div class="preview-slide-number">Slide {{.Number}}</div>
    <h3 class="preview-slide-title">{{.Title}}</h3>
    {{if .Bullets}}<ul class="preview-bullets">
        {{range .Bullets}}<li>{{. | safeHTML}}</li>
        {{end}}</ul>
    {{end}}</div>
{{end}}{{if not .Slides}}<div class="preview-empty">No slides parsed yet. Check the outline uses the **Slide N:** markup.</div>
{{end}}</div>
`

var _ ports.PreviewRenderer = (*HTMLPreviewRenderer)(nil)
