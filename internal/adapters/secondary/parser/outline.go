package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// Patterns for the slide markup the generation prompt asks for. The model is
// free to deviate, so matching stays loose: any bolded "Slide N:" header
// opens a slide, any "* text" line inside it counts as a bullet.
var (
	slideHeaderPattern = regexp.MustCompile(`\*\*Slide \d+:.*?\*\*`)
	slideTitlePattern  = regexp.MustCompile(`\*\*Title:\*\*\s*(.*)`)
	bulletPattern      = regexp.MustCompile(`\*\s+(.*)`)
)

// OutlineParser implements the OutlineParser port over the slide markup
// produced by the generation service
type OutlineParser struct{}

// NewOutlineParser creates a new outline markup parser
func NewOutlineParser() *OutlineParser {
	return &OutlineParser{}
}

// Parse converts raw outline markup into slide records, one per slide
// header, in header order. A fragment without a recognizable title gets a
// positional placeholder; bullets keep their leading glyphs until assembly.
func (p *OutlineParser) Parse(raw string) entities.Outline {
	fragments := slideHeaderPattern.Split(raw, -1)
	headers := slideHeaderPattern.FindAllString(raw, -1)

	outline := make(entities.Outline, 0, len(headers))
	for i := range headers {
		content := ""
		if i+1 < len(fragments) {
			content = fragments[i+1]
		}

		title := entities.PlaceholderTitle(i)
		if match := slideTitlePattern.FindStringSubmatch(content); match != nil {
			if t := strings.TrimSpace(match[1]); t != "" {
				title = t
			}
		}

		var bullets []string
		for _, match := range bulletPattern.FindAllStringSubmatch(content, -1) {
			bullets = append(bullets, match[1])
		}

		outline = append(outline, entities.SlideRecord{Title: title, Bullets: bullets})
	}

	return outline
}

// outlineFrontmatter carries the metadata an outline file may declare ahead
// of its slide markup.
type outlineFrontmatter struct {
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	Font      string `yaml:"font"`
	MaxSlides int    `yaml:"max_slides"`
}

// ParseDocument parses an outline file that may open with a YAML frontmatter
// block delimited by "---" lines. The remainder is parsed exactly like Parse
// input. Malformed YAML inside a properly delimited block is an error rather
// than silently becoming slide text.
func (p *OutlineParser) ParseDocument(content []byte) (*ports.OutlineDocument, error) {
	meta, body, err := extractFrontmatter(content)
	if err != nil {
		return nil, err
	}

	return &ports.OutlineDocument{
		Title:     meta.Title,
		Author:    meta.Author,
		Font:      meta.Font,
		MaxSlides: meta.MaxSlides,
		Outline:   p.Parse(string(body)),
	}, nil
}

// extractFrontmatter splits an optional leading YAML frontmatter block from
// the outline body. Content without an opening delimiter, or without a
// closing one, is returned unchanged as body.
func extractFrontmatter(content []byte) (outlineFrontmatter, []byte, error) {
	var meta outlineFrontmatter

	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return meta, content, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}
	if endIndex == -1 {
		return meta, content, nil
	}

	block := bytes.Join(lines[1:endIndex], []byte("\n"))
	if len(block) > 0 {
		if err := yaml.Unmarshal(block, &meta); err != nil {
			return outlineFrontmatter{}, nil, fmt.Errorf("parsing outline frontmatter: %w", err)
		}
	}

	remaining := bytes.Join(lines[endIndex+1:], []byte("\n"))
	return meta, remaining, nil
}

var _ ports.OutlineParser = (*OutlineParser)(nil)
