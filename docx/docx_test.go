package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/wudi/pdfops/render"
)

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		parts[f.Name] = b
	}
	return parts
}

func testRaster(t *testing.T, w, h int) *render.Raster {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{A: 0xff})
	}
	r, err := render.EncodePNG(img)
	if err != nil {
		t.Fatalf("encode raster: %v", err)
	}
	return r
}

func TestWriteHelloWorldExample(t *testing.T) {
	out, err := Write([]string{"Hello\nWorld"}, nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parts := readArchive(t, out)
	if len(parts) != 3 {
		t.Fatalf("expected exactly 3 parts without images, got %d: %v", len(parts), names(parts))
	}
	body := string(parts["word/document.xml"])
	wantFirst := `<w:t xml:space="preserve">Hello</w:t>`
	wantSecond := `<w:t xml:space="preserve">World</w:t>`
	if !strings.Contains(body, wantFirst) || !strings.Contains(body, wantSecond) {
		t.Fatalf("body missing split paragraphs:\n%s", body)
	}
	if strings.Index(body, wantFirst) > strings.Index(body, wantSecond) {
		t.Fatal("paragraph order not preserved")
	}
	if got := strings.Count(body, "<w:p>"); got != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", got)
	}
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			t.Fatalf("unexpected media part %s", name)
		}
	}
}

func TestWritePartCensusWithImages(t *testing.T) {
	images := []*render.Raster{testRaster(t, 4, 4), nil, testRaster(t, 8, 2)}
	out, err := Write([]string{"a", "b", "c"}, images)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parts := readArchive(t, out)

	fixed := []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels"}
	for _, name := range fixed {
		if _, ok := parts[name]; !ok {
			t.Fatalf("missing fixed part %s", name)
		}
	}
	media := 0
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			media++
		}
	}
	if media != 2 {
		t.Fatalf("expected 2 media parts, got %d", media)
	}
	if len(parts) != len(fixed)+media {
		t.Fatalf("unexpected extra parts: %v", names(parts))
	}
}

func TestEveryBodyRelationshipResolves(t *testing.T) {
	images := []*render.Raster{nil, testRaster(t, 3, 3), testRaster(t, 5, 5)}
	out, err := Write([]string{"x", "y", "z"}, images)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parts := readArchive(t, out)
	body := string(parts["word/document.xml"])
	rels := string(parts["word/_rels/document.xml.rels"])

	refs := regexp.MustCompile(`r:embed="(rId\d+)"`).FindAllStringSubmatch(body, -1)
	if len(refs) != 2 {
		t.Fatalf("expected 2 embedded references, got %d", len(refs))
	}
	for _, m := range refs {
		if !strings.Contains(rels, `Id="`+m[1]+`"`) {
			t.Fatalf("reference %s not declared in relationships:\n%s", m[1], rels)
		}
	}
	// Image IDs start at the fixed offset and never collide with rId1.
	if !strings.Contains(rels, `Id="rId101"`) || !strings.Contains(rels, `Id="rId102"`) {
		t.Fatalf("relationship IDs not offset from index base:\n%s", rels)
	}
	for _, m := range regexp.MustCompile(`Id="(rId\d+)"`).FindAllStringSubmatch(rels, -1) {
		if m[1] == "rId1" {
			t.Fatal("document rels must not reuse the package relationship ID")
		}
	}
}

func TestDrawingExtentsUseEMUConversion(t *testing.T) {
	images := []*render.Raster{testRaster(t, 10, 20)}
	out, err := Write([]string{""}, images)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parts := readArchive(t, out)
	body := string(parts["word/document.xml"])
	if !strings.Contains(body, `<wp:extent cx="95250" cy="190500"/>`) {
		t.Fatalf("extents not converted at %d EMU per pixel:\n%s", EMUPerPixel, body)
	}
}

func TestEscaping(t *testing.T) {
	out, err := Write([]string{`a < b & c > "d" 'e'` + "\nnext"}, nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parts := readArchive(t, out)
	body := string(parts["word/document.xml"])

	start := strings.Index(body, "<w:body>")
	end := strings.Index(body, "</w:body>")
	content := body[start+len("<w:body>") : end]
	// Strip markup; whatever remains must contain no raw specials.
	text := regexp.MustCompile(`<[^>]+>`).ReplaceAllString(content, "")
	if strings.ContainsAny(strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "", "&quot;", "", "&apos;", "").Replace(text), "<>&\"'") {
		t.Fatalf("unescaped special characters in body text: %q", text)
	}
	if !strings.Contains(body, "a &lt; b &amp; c &gt; &quot;d&quot; &apos;e&apos;") {
		t.Fatalf("escaped run missing:\n%s", body)
	}
	if got := strings.Count(body, "<w:p>"); got != 2 {
		t.Fatalf("line break should add one paragraph boundary, got %d paragraphs", got)
	}
}

func TestEscapeText(t *testing.T) {
	if got := EscapeText(`<&>"'`); got != "&lt;&amp;&gt;&quot;&apos;" {
		t.Fatalf("EscapeText = %q", got)
	}
}

func names(parts map[string][]byte) []string {
	out := make([]string, 0, len(parts))
	for name := range parts {
		out = append(out, name)
	}
	return out
}
