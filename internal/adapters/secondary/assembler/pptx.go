package assembler

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// Slide canvas in EMU (914400 per inch): fixed widescreen 13.333in x 7.5in.
const (
	slideWidthEMU  = 12192000
	slideHeightEMU = 6858000
)

// Rendering defaults applied when options carry zero values.
const (
	defaultMaxSlides  = 10
	defaultFont       = "Calibri"
	defaultFontSizePt = 18
	defaultAuthor     = "deckgen"
)

// PPTXAssembler renders outlines into PowerPoint archives. Every OOXML part
// is generated in memory; nothing touches the filesystem.
type PPTXAssembler struct {
	clock ports.Clock
}

// NewPPTXAssembler creates a deck assembler stamping slides with the given
// clock. A nil clock falls back to wall time.
func NewPPTXAssembler(clock ports.Clock) *PPTXAssembler {
	if clock == nil {
		clock = ports.NewRealClock()
	}
	return &PPTXAssembler{clock: clock}
}

// Assemble builds a deck with one title slide followed by one content slide
// per record, capped at the slide limit. An empty outline renders the
// single-slide fallback record instead, so every deck has at least two
// slides. Malformed outline content never fails assembly; only
// serialization faults do.
func (a *PPTXAssembler) Assemble(ctx context.Context, title string, outline entities.Outline, opts ports.AssembleOptions) (*entities.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxSlides := opts.MaxSlides
	if maxSlides <= 0 {
		maxSlides = defaultMaxSlides
	}
	font := opts.Font
	if font == "" {
		font = defaultFont
	}
	sizePt := opts.FontSizePt
	if sizePt <= 0 {
		sizePt = defaultFontSizePt
	}
	author := opts.Author
	if author == "" {
		author = defaultAuthor
	}

	content := outline
	if content.IsEmpty() {
		content = entities.FallbackOutline()
	}
	content = content.Truncate(maxSlides)

	now := a.clock.Now()
	subtitle := "Generated on " + now.Format("02 January 2006")

	slides := make([]string, 0, len(content)+1)
	slides = append(slides, titleSlideXML(title, subtitle, font))

	titles := make([]string, 0, len(content)+1)
	titles = append(titles, title)

	for _, record := range content {
		slides = append(slides, contentSlideXML(record, font, sizePt))
		titles = append(titles, record.Title)
	}

	archive, err := writeArchive(slides, titles, title, author, font, now)
	if err != nil {
		return nil, entities.NewDeckRenderError("PPT creation failed", err)
	}

	return &entities.Deck{
		Title:       title,
		Bytes:       archive,
		SlideCount:  len(slides),
		GeneratedAt: now,
	}, nil
}

type zipEntry struct {
	name    string
	content string
}

// writeArchive serializes all OOXML parts into a zip held in memory.
func writeArchive(slides, titles []string, deckTitle, author, font string, now time.Time) ([]byte, error) {
	entries := []zipEntry{
		{"[Content_Types].xml", contentTypesXML(len(slides))},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(deckTitle, author, now)},
		{"docProps/app.xml", appPropsXML(titles)},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML()},
		{"ppt/theme/theme1.xml", themeXML(font)},
	}

	for i, slide := range slides {
		number := i + 1
		entries = append(entries,
			zipEntry{fmt.Sprintf("ppt/slides/slide%d.xml", number), slide},
			zipEntry{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", number), slideRelsXML()},
		)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, entry := range entries {
		if err := writeZipTextFile(writer, entry.name, entry.content); err != nil {
			_ = writer.Close()
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ ports.DeckAssembler = (*PPTXAssembler)(nil)
