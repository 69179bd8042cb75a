package ops

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/wudi/pdfops/render"
)

// fakeDocument serves canned text and rasters without a native backend.
type fakeDocument struct {
	texts    []string
	rendered []int
	closed   bool
}

func (d *fakeDocument) PageCount() int { return len(d.texts) }

func (d *fakeDocument) Text(page int) (string, error) {
	if page < 0 || page >= len(d.texts) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.texts[page], nil
}

func (d *fakeDocument) Render(page int, dpi int) (*render.Raster, error) {
	d.rendered = append(d.rendered, page)
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	return render.EncodePNG(img)
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakeRenderer struct {
	doc *fakeDocument
	err error
}

func (r *fakeRenderer) Open(_ context.Context, _ []byte) (render.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.doc, nil
}

var pdfStub = []byte("%PDF-1.7 stub")

func TestMergeRequiresTwoInputs(t *testing.T) {
	p := New()
	_, err := p.Merge(context.Background(), [][]byte{pdfStub})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMergeRejectsNonPDFWithPosition(t *testing.T) {
	p := New()
	_, err := p.Merge(context.Background(), [][]byte{pdfStub, []byte("not a pdf")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "input 2") {
		t.Fatalf("error should name the offending input: %v", err)
	}
}

func TestRotateRejectsBadAngle(t *testing.T) {
	p := New()
	for _, degrees := range []int{0, 45, 360, 91} {
		if _, err := p.Rotate(context.Background(), pdfStub, degrees, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("degrees %d: expected ErrInvalidInput, got %v", degrees, err)
		}
	}
}

func TestRotateRejectsNonPDF(t *testing.T) {
	p := New()
	if _, err := p.Rotate(context.Background(), []byte("nope"), 90, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWatermarkRequiresText(t *testing.T) {
	p := New()
	if _, err := p.Watermark(context.Background(), pdfStub, "   ", WatermarkOptions{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStampImageRejectsNonImage(t *testing.T) {
	p := New()
	if _, err := p.StampImage(context.Background(), pdfStub, []byte("text"), StampImageOptions{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReorderRequiresOrder(t *testing.T) {
	p := New()
	if _, err := p.Reorder(context.Background(), pdfStub, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEncryptRequiresPassword(t *testing.T) {
	p := New()
	if _, err := p.Encrypt(context.Background(), pdfStub, "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := p.Decrypt(context.Background(), pdfStub, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetPropertiesRequiresProperties(t *testing.T) {
	p := New()
	if _, err := p.SetProperties(context.Background(), pdfStub, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestErrorWrapsKindAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Op: "merge", Kind: ErrOperationFailure, Err: cause}
	if !errors.Is(err, ErrOperationFailure) {
		t.Fatal("kind not unwrapped")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not unwrapped")
	}
	if got := err.Error(); !strings.Contains(got, "merge") || !strings.Contains(got, "boom") {
		t.Fatalf("error text missing context: %q", got)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeComplete:    "complete",
		OutcomePartial:     "partial",
		OutcomeUnsupported: "unsupported",
		Outcome(9):         "outcome(9)",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestWatermarkOptionsDefaults(t *testing.T) {
	o := WatermarkOptions{}.withDefaults()
	if o.FontSize != 48 || o.Opacity != 0.3 || o.Color != "#808080" || o.OnTop == nil || !*o.OnTop {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	desc := o.desc()
	for _, want := range []string{"points:48", "op:0.3", "fillcolor:#808080", "pos:c"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("desc %q missing %q", desc, want)
		}
	}
}

func TestDetectBlankPagesByTextLength(t *testing.T) {
	long := strings.Repeat("content ", 20)
	doc := &fakeDocument{texts: []string{"", long, "short", long}}
	p := New(WithRenderer(&fakeRenderer{doc: doc}))

	blank, err := p.DetectBlankPages(context.Background(), pdfStub, BlankPageOptions{Variant: BlankByTextLength})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	want := []int{0, 2}
	if len(blank) != len(want) || blank[0] != want[0] || blank[1] != want[1] {
		t.Fatalf("blank = %v, want %v", blank, want)
	}
	if !doc.closed {
		t.Fatal("document not closed")
	}
}

func TestDetectBlankPagesCustomThreshold(t *testing.T) {
	doc := &fakeDocument{texts: []string{"tiny", "a slightly longer line"}}
	p := New(WithRenderer(&fakeRenderer{doc: doc}))
	blank, err := p.DetectBlankPages(context.Background(), pdfStub, BlankPageOptions{
		Variant:       BlankByTextLength,
		TextThreshold: 5,
	})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(blank) != 1 || blank[0] != 0 {
		t.Fatalf("blank = %v", blank)
	}
}

func TestRemoveBlankPagesNoBlankReturnsInput(t *testing.T) {
	long := strings.Repeat("content ", 20)
	doc := &fakeDocument{texts: []string{long, long}}
	p := New(WithRenderer(&fakeRenderer{doc: doc}))
	out, removed, err := p.RemoveBlankPages(context.Background(), pdfStub, BlankPageOptions{Variant: BlankByTextLength})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d", removed)
	}
	if &out[0] != &pdfStub[0] {
		t.Fatal("input should be returned unchanged when nothing is blank")
	}
}

func TestRemoveBlankPagesRejectsFullyBlankDocument(t *testing.T) {
	doc := &fakeDocument{texts: []string{"", " "}}
	p := New(WithRenderer(&fakeRenderer{doc: doc}))
	_, _, err := p.RemoveBlankPages(context.Background(), pdfStub, BlankPageOptions{Variant: BlankByTextLength})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDetectBlankPagesRendererUnavailable(t *testing.T) {
	p := New(WithRenderer(&fakeRenderer{err: errors.New("libmupdf missing")}))
	_, err := p.DetectBlankPages(context.Background(), pdfStub, BlankPageOptions{Variant: BlankByTextLength})
	if !errors.Is(err, ErrLibraryUnavailable) {
		t.Fatalf("expected ErrLibraryUnavailable, got %v", err)
	}
}
