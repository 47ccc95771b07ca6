package assembler

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const slideNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// spTreeHeader is the mandatory group-shape preamble of every shape tree.
const spTreeHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`

const (
	bodyTextColor = "000000"
	subtitleColor = "595959"
)

// Shape geometry in EMU. The coordinates match the stock widescreen
// placeholder positions so decks look like ordinary PowerPoint output.
type shapeGeometry struct {
	x, y, cx, cy int
}

var (
	deckTitleBox    = shapeGeometry{1524000, 1122363, 9144000, 2387600}
	deckSubtitleBox = shapeGeometry{1524000, 3602038, 9144000, 1655762}
	slideTitleBox   = shapeGeometry{838200, 365125, 10515600, 1325563}
	slideBodyBox    = shapeGeometry{838200, 1825625, 10515600, 4351338}
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// xmlEscape escapes markup characters and drops control characters XML 1.0
// forbids; extracted PDF text regularly carries form feeds and the like.
func xmlEscape(s string) string {
	s = xmlEscaper.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' || r >= 0x20 {
			return r
		}
		return -1
	}, s)
}

func writeZipTextFile(writer *zip.Writer, name, content string) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func contentTypesXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`
}

func corePropsXML(title, author string, now time.Time) string {
	stamp := now.UTC().Format(time.RFC3339)
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + xmlEscape(title) + `</dc:title>` +
		`<dc:creator>` + xmlEscape(author) + `</dc:creator>` +
		`<cp:lastModifiedBy>` + xmlEscape(author) + `</cp:lastModifiedBy>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func appPropsXML(titles []string) string {
	var vector strings.Builder
	fmt.Fprintf(&vector, `<vt:vector size="%d" baseType="lpstr">`, len(titles))
	for _, title := range titles {
		vector.WriteString(`<vt:lpstr>` + xmlEscape(title) + `</vt:lpstr>`)
	}
	vector.WriteString(`</vt:vector>`)

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	b.WriteString(`<Application>deckgen</Application>`)
	b.WriteString(`<PresentationFormat>On-screen Show (16:9)</PresentationFormat>`)
	fmt.Fprintf(&b, `<Slides>%d</Slides>`, len(titles))
	b.WriteString(`<Notes>0</Notes><HiddenSlides>0</HiddenSlides><MMClips>0</MMClips><ScaleCrop>false</ScaleCrop>`)
	fmt.Fprintf(&b, `<HeadingPairs><vt:vector size="2" baseType="variant"><vt:variant><vt:lpstr>Slide Titles</vt:lpstr></vt:variant><vt:variant><vt:i4>%d</vt:i4></vt:variant></vt:vector></HeadingPairs>`, len(titles))
	b.WriteString(`<TitlesOfParts>` + vector.String() + `</TitlesOfParts>`)
	b.WriteString(`<AppVersion>16.0000</AppVersion>`)
	b.WriteString(`</Properties>`)
	return b.String()
}

func presentationXML(slideCount int) string {
	var slideList strings.Builder
	slideList.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&slideList, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 3+i)
	}
	slideList.WriteString(`</p:sldIdLst>`)

	return xmlHeader +
		`<p:presentation ` + slideNamespaces + ` saveSubsetFonts="1">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		slideList.String() +
		fmt.Sprintf(`<p:sldSz cx="%d" cy="%d" type="screen16x9"/>`, slideWidthEMU, slideHeightEMU) +
		`<p:notesSz cx="6858000" cy="9144000"/>` +
		`<p:defaultTextStyle/>` +
		`</p:presentation>`
}

func presentationRelsXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 3+i, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideMasterXML() string {
	return xmlHeader +
		`<p:sldMaster ` + slideNamespaces + `>` +
		`<p:cSld>` +
		`<p:bg><p:bgPr><a:solidFill><a:schemeClr val="bg1"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
		`<p:spTree>` + spTreeHeader + `</p:spTree>` +
		`</p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
		`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>` +
		`</p:sldMaster>`
}

func slideMasterRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`
}

func slideLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout ` + slideNamespaces + ` type="blank" preserve="1">` +
		`<p:cSld name="Blank">` +
		`<p:spTree>` + spTreeHeader + `</p:spTree>` +
		`</p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func slideLayoutRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
		`</Relationships>`
}

func slideRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`</Relationships>`
}

func themeXML(font string) string {
	typeface := xmlEscape(font)
	return xmlHeader +
		`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme">` +
		`<a:themeElements>` +
		`<a:clrScheme name="Office">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
		`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
		`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
		`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
		`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
		`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Office">` +
		`<a:majorFont><a:latin typeface="` + typeface + `"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="` + typeface + `"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="Office">` +
		`<a:fillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:fillStyleLst>` +
		`<a:lnStyleLst>` +
		`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`</a:lnStyleLst>` +
		`<a:effectStyleLst>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`</a:effectStyleLst>` +
		`<a:bgFillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements>` +
		`</a:theme>`
}

type runOptions struct {
	font   string
	size   int // hundredths of a point
	color  string
	align  string
	bold   bool
	bullet bool
}

// runParagraphXML renders one paragraph holding a single text run.
func runParagraphXML(text string, opts runOptions) string {
	var b strings.Builder
	b.WriteString(`<a:p><a:pPr algn="` + opts.align + `">`)
	if opts.bullet {
		b.WriteString(`<a:buFont typeface="Arial" charset="0"/><a:buChar char="&#8226;"/>`)
	} else {
		b.WriteString(`<a:buNone/>`)
	}
	b.WriteString(`</a:pPr>`)

	bold := ""
	if opts.bold {
		bold = ` b="1"`
	}
	fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d"%s dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="%s"/></a:rPr><a:t>%s</a:t></a:r></a:p>`,
		opts.size, bold, opts.color, xmlEscape(opts.font), xmlEscape(text))
	return b.String()
}

// textShapeXML renders a plain text box at a fixed position. Text boxes are
// used instead of layout placeholders so slides render the same regardless
// of the viewer's template handling.
func textShapeXML(id int, name string, geom shapeGeometry, paragraphs string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, xmlEscape(name), geom.x, geom.y, geom.cx, geom.cy, paragraphs)
}

func titleSlideXML(title, subtitle, font string) string {
	titlePara := runParagraphXML(title, runOptions{font: font, size: 4400, color: bodyTextColor, align: "ctr", bold: true})
	subtitlePara := runParagraphXML(subtitle, runOptions{font: font, size: 2000, color: subtitleColor, align: "ctr"})

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + slideNamespaces + `>`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(spTreeHeader)
	b.WriteString(textShapeXML(2, "Title 1", deckTitleBox, titlePara))
	b.WriteString(textShapeXML(3, "Subtitle 2", deckSubtitleBox, subtitlePara))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func contentSlideXML(record entities.SlideRecord, font string, sizePt int) string {
	titlePara := runParagraphXML(record.Title, runOptions{font: font, size: 3200, color: bodyTextColor, align: "l", bold: true})

	var body strings.Builder
	for _, bullet := range record.Bullets {
		body.WriteString(runParagraphXML(entities.TrimBulletMarkers(bullet), runOptions{
			font:   font,
			size:   sizePt * 100,
			color:  bodyTextColor,
			align:  "l",
			bullet: true,
		}))
	}
	if len(record.Bullets) == 0 {
		fmt.Fprintf(&body, `<a:p><a:endParaRPr lang="en-US" sz="%d"/></a:p>`, sizePt*100)
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + slideNamespaces + `>`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(spTreeHeader)
	b.WriteString(textShapeXML(2, "Title 1", slideTitleBox, titlePara))
	b.WriteString(textShapeXML(3, "Content 2", slideBodyBox, body.String()))
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}
