// Package docx assembles a minimal valid OOXML word-processing container from
// extracted page text and optional page rasters. It writes a fixed set of
// parts (content types, package relationships, document body and, only when
// images are present, document relationships) plus one media entry per
// raster. The archive layer is delegated to archive/zip; this package only
// decides part names and content.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/wudi/pdfops/render"
)

// EMUPerPixel converts pixel dimensions at 96 DPI into English Metric Units
// for drawing extents.
const EMUPerPixel = 9525

// Image relationship IDs start at this offset so they can never collide with
// the fixed package relationship rId1.
const imageRelBase = 100

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"
	documentPart     = "word/document.xml"
	documentRelsPart = "word/_rels/document.xml.rels"
)

const contentTypesNoMedia = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const contentTypesWithMedia = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeText escapes the five XML special characters.
func EscapeText(s string) string { return xmlEscaper.Replace(s) }

// Write produces the container bytes. pages holds one extracted text per
// source page; images, when non-nil at an index, is the raster snapshot of
// the same page. The write is all-or-nothing: on error no bytes are returned.
func Write(pages []string, images []*render.Raster) ([]byte, error) {
	hasImages := false
	for _, img := range images {
		if img != nil {
			hasImages = true
			break
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	contentTypes := contentTypesNoMedia
	if hasImages {
		contentTypes = contentTypesWithMedia
	}
	if err := addPart(zw, contentTypesPart, []byte(contentTypes)); err != nil {
		return nil, err
	}
	if err := addPart(zw, packageRelsPart, []byte(packageRels)); err != nil {
		return nil, err
	}
	if err := addPart(zw, documentPart, documentBody(pages, images)); err != nil {
		return nil, err
	}
	if hasImages {
		if err := addPart(zw, documentRelsPart, documentRels(images)); err != nil {
			return nil, err
		}
		for i, img := range images {
			if img == nil {
				continue
			}
			name := fmt.Sprintf("word/media/image%d.png", i+1)
			if err := addPart(zw, name, img.PNG); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func addPart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

// documentBody renders the word/document.xml part. Line breaks embedded in a
// page's text become separate paragraphs.
func documentBody(pages []string, images []*render.Raster) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"><w:body>`)
	for i, page := range pages {
		if i < len(images) && images[i] != nil {
			writeDrawing(&b, i, images[i])
		}
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSuffix(line, "\r")
			b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
			b.WriteString(EscapeText(line))
			b.WriteString(`</w:t></w:r></w:p>`)
		}
		if i < len(pages)-1 {
			// Page boundary marker keeps source pagination visible.
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		}
	}
	b.WriteString(`</w:body></w:document>`)
	return []byte(b.String())
}

func writeDrawing(b *strings.Builder, index int, img *render.Raster) {
	cx := int64(img.Width) * EMUPerPixel
	cy := int64(img.Height) * EMUPerPixel
	relID := RelationshipID(index)
	fmt.Fprintf(b, `<w:p><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Page %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="Page %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, index+1, index+1, index+1, index+1, relID, cx, cy)
}

// RelationshipID returns the stable relationship ID assigned to the image of
// the zero-based page index.
func RelationshipID(index int) string {
	return fmt.Sprintf("rId%d", imageRelBase+index)
}

func documentRels(images []*render.Raster) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, img := range images {
		if img == nil {
			continue
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.png"/>`,
			RelationshipID(i), i+1)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}
