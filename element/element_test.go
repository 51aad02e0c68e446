package element

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rtfgen/utils/images"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		kind    Kind
	}{
		{"chunk", &Chunk{Text: "x"}, KindChunk},
		{"paragraph", &Paragraph{}, KindParagraph},
		{"anchor", &Anchor{}, KindAnchor},
		{"table", NewTable(2), KindTable},
		{"cell", &Cell{}, KindCell},
		{"section", &Section{}, KindSection},
		{"toc", &TOC{}, KindTOC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := Of(tt.payload)
			if el.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", el.Kind, tt.kind)
			}
			if !el.Valid() {
				t.Fatalf("element %v is not valid", el.Kind)
			}
		})
	}

	if (Element{Kind: KindTable}).Valid() {
		t.Error("element without payload reported valid")
	}
	if (Element{}).Valid() {
		t.Error("zero element reported valid")
	}
}

func TestCaps(t *testing.T) {
	if !KindParagraph.Caps().Has(CapNestable | CapText) {
		t.Error("paragraph must be nestable text")
	}
	if KindTable.Caps().Has(CapNestable) {
		t.Error("table must not be nestable")
	}
	if KindSection.Caps().Has(CapNestable) {
		t.Error("section must not be nestable")
	}
	if !KindImage.Inline() || KindParagraph.Inline() {
		t.Error("unexpected inline classification")
	}
	if got := Kind(100).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}

func TestText(t *testing.T) {
	p := NewParagraph("Hello, ", Font{})
	a := &Anchor{Reference: "https://example.com"}
	a.AddText("world")
	p.Add(Of(a))
	if got := Of(p).Text(); got != "Hello, world" {
		t.Errorf("Text() = %q", got)
	}
}

func TestFontDifference(t *testing.T) {
	red := Color{R: 255}
	parent := Font{Family: "Arial", Size: 10, Style: StyleBold}
	tests := []struct {
		name  string
		child Font
		want  Font
	}{
		{"empty child inherits", Font{}, parent},
		{"family overrides", Font{Family: "Courier"}, Font{Family: "Courier", Size: 10, Style: StyleBold}},
		{"styles accumulate", Font{Style: StyleItalic}, Font{Family: "Arial", Size: 10, Style: StyleBold | StyleItalic}},
		{"color and size", Font{Size: 14, Color: &red}, Font{Family: "Arial", Size: 14, Style: StyleBold, Color: &red}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parent.Difference(tt.child)); diff != "" {
				t.Errorf("Difference() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if (Font{}).CalculatedSize() != DefaultFontSize {
		t.Error("undefined size must fall back to default")
	}
}

func TestFontFamilyName(t *testing.T) {
	if got := (Font{Family: "Helvetica"}).FamilyName(); got != "Arial" {
		t.Errorf("FamilyName() = %q", got)
	}
	if got := (Font{Family: "Georgia"}).FamilyName(); got != "Georgia" {
		t.Errorf("FamilyName() = %q", got)
	}
	if got := ParseStyle("bold, italic line-through"); got != StyleBold|StyleItalic|StyleStrikethru {
		t.Errorf("ParseStyle() = %d", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ff0000", want: Color{R: 255}},
		{in: "#0F0", want: Color{G: 255}},
		{in: "rgb(1, 2, 3)", want: Color{1, 2, 3}},
		{in: " Navy ", want: Color{B: 128}},
		{in: "#12345", wantErr: true},
		{in: "rgb(1,2)", wantErr: true},
		{in: "rgb(1,2,300)", wantErr: true},
		{in: "chartreuse-ish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColor() = %v, want %v", got, tt.want)
			}
		})
	}
	if got := (Color{R: 1, G: 0xab, B: 0xff}).String(); got != "#01abff" {
		t.Errorf("String() = %q", got)
	}
}

func TestSectionNumbering(t *testing.T) {
	ch := &Section{Title: NewParagraph("Intro", Font{}), Depth: 1, Numbers: []int{2}}
	first := ch.AddSection("First")
	ch.Add(Of(NewParagraph("text", Font{})))
	second := ch.AddSection("Second")

	if first.Depth != 2 {
		t.Errorf("Depth = %d", first.Depth)
	}
	if got := first.NumberedTitle(); got != "2.1. First" {
		t.Errorf("NumberedTitle() = %q", got)
	}
	if got := second.NumberedTitle(); got != "2.2. Second" {
		t.Errorf("NumberedTitle() = %q", got)
	}

	plain := &Section{Title: NewParagraph("Plain", Font{})}
	if got := plain.AddSection("Sub").NumberedTitle(); got != "Sub" {
		t.Errorf("NumberedTitle() = %q", got)
	}
}

func TestGeometry(t *testing.T) {
	if got := Twips(0.5); got != 10 {
		t.Errorf("Twips(0.5) = %d", got)
	}
	if got := Twips(-1.26); got != -25 {
		t.Errorf("Twips(-1.26) = %d", got)
	}
	r := PageA4.Rotate()
	if r.Width() != 842 || r.Height() != 595 {
		t.Errorf("Rotate() = %+v", r)
	}
	if !(Geometry{}).Empty() {
		t.Error("zero geometry must be empty")
	}
	if AlignUndefined.Or(AlignCenter) != AlignCenter || AlignRight.Or(AlignCenter) != AlignRight {
		t.Error("unexpected Or() result")
	}
	if ParseAlignment("justify") != AlignJustified || ParseAlignment("nonsense") != AlignUndefined {
		t.Error("unexpected ParseAlignment() result")
	}
	if BorderNone.Has(BorderTop) || !BorderBox.Has(BorderLeft) || BorderTop.Has(BorderBottom) {
		t.Error("unexpected Border.Has() result")
	}
}

func TestTableBuilders(t *testing.T) {
	tbl := NewTable(3)
	row := tbl.AddRow()
	c := row.AddCell("a").Span(2, 0)
	row.AddCell("")

	if len(tbl.Rows) != 1 || len(row.Cells) != 2 {
		t.Fatalf("unexpected shape %d rows, %d cells", len(tbl.Rows), len(row.Cells))
	}
	if c.EffectiveColSpan() != 2 || c.EffectiveRowSpan() != 1 {
		t.Errorf("spans = %d,%d", c.EffectiveColSpan(), c.EffectiveRowSpan())
	}
	if len(row.Cells[1].Content) != 0 {
		t.Error("empty text must not produce content")
	}
	if tbl.Border != BorderBox || tbl.BorderWidth != DefaultBorderWidth {
		t.Errorf("unexpected defaults %+v", tbl)
	}
}

func TestImage(t *testing.T) {
	if _, err := NewImage([]byte("definitely not an image")); err == nil {
		t.Fatal("expected error for garbage data")
	}

	img, err := NewCCITT(8, 8, true, images.CCITTG4, 0, []byte{0x01, 0x80})
	if err != nil {
		t.Fatalf("NewCCITT() error = %v", err)
	}
	if diff := cmp.Diff([]byte{0x80, 0x01}, img.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if img.Info.Format != images.FormatCcitt || img.CCITT.Group != images.CCITTG4 {
		t.Errorf("unexpected image %+v", img.Info)
	}

	if _, err := NewCCITT(8, 8, false, images.CCITTGroup(7), 0, nil); !errors.Is(err, images.ErrUnsupportedCCITT) {
		t.Errorf("expected ErrUnsupportedCCITT, got %v", err)
	}
	if _, err := NewCCITT(8, 8, false, images.CCITTG32D, 0, []byte{0xff}); !errors.Is(err, images.ErrUnsupportedCCITT) {
		t.Errorf("two dimensional G3: expected ErrUnsupportedCCITT, got %v", err)
	}
	if _, err := NewCCITT(0, 8, false, images.CCITTG4, 0, nil); !errors.Is(err, images.ErrUndecodable) {
		t.Errorf("expected ErrUndecodable, got %v", err)
	}

	img.Info.Width, img.Info.Height = 200, 100
	if img.ScaledWidth() != 200 {
		t.Errorf("natural width = %v", img.ScaledWidth())
	}
	img.ScaleToFit(100, 100)
	if img.ScaledWidth() != 100 || img.ScaledHeight() != 50 {
		t.Errorf("ScaleToFit() = %vx%v", img.ScaledWidth(), img.ScaledHeight())
	}
	img.ScalePercent(25)
	if img.ScaledWidth() != 50 || img.ScaledHeight() != 25 {
		t.Errorf("ScalePercent() = %vx%v", img.ScaledWidth(), img.ScaledHeight())
	}

	missing := &Image{}
	if _, err := missing.Bytes(); !errors.Is(err, images.ErrUndecodable) {
		t.Errorf("expected ErrUndecodable, got %v", err)
	}
}
