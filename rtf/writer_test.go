package rtf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"

	"rtfgen/element"
	"rtfgen/rtf/layout"
)

type sink struct {
	bytes.Buffer
	closed int
}

func (s *sink) Close() error {
	s.closed++
	return nil
}

var created = time.Date(2024, time.March, 5, 7, 9, 0, 0, time.UTC)

func newTestWriter(t *testing.T, opts ...Option) (*Writer, *sink) {
	t.Helper()
	s := &sink{}
	opts = append([]Option{WithInfo(Info{Title: "Test", Created: created}), WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewWriter(s, opts...), s
}

func closeWriter(t *testing.T, w *Writer, s *sink) string {
	t.Helper()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	out := s.String()
	if !balanced(out) {
		t.Fatalf("output is not balanced:\n%s", out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	w, s := newTestWriter(t)
	out := closeWriter(t, w, s)

	if !strings.HasPrefix(out, `{\rtf1\ansi\ansicpg1252\deff0\deflang1033\uc1`) {
		t.Errorf("unexpected header: %q", out[:min(len(out), 60)])
	}
	if !strings.HasSuffix(out, "}") {
		t.Errorf("document is not terminated")
	}
	assertContains(t, out,
		`{\fonttbl{\f0\froman\fcharset0 Times New Roman;}`,
		`{\colortbl;}`,
		`{\stylesheet{\s0\f0\fs24 Normal;}`,
		`{\info{\title Test}{\creatim\yr2024\mo3\dy5\hr7\min9}}`,
		`{\*\generator rtfgen `,
		`\paperw11900\paperh16840\margl1440\margr1440\margt1440\margb1440`,
	)
	if strings.Contains(out, `\pard`) {
		t.Error("empty document has body content")
	}
	order := []string{`{\fonttbl`, `{\colortbl`, `{\stylesheet`, `{\info`, `{\*\generator`, `\paperw`}
	last := -1
	for _, o := range order {
		i := strings.Index(out, o)
		if i <= last {
			t.Errorf("%q is out of order", o)
		}
		last = i
	}

	if s.closed != 1 {
		t.Errorf("sink closed %d times", s.closed)
	}
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v", err)
	}
	if s.closed != 1 {
		t.Errorf("sink closed %d times after second Close", s.closed)
	}
	if err := w.Add(element.NewChunk("late", element.Font{})); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close error = %v", err)
	}
}

type failingSink struct {
	failingWriter
	closed int
}

func (s *failingSink) Close() error {
	s.closed++
	return nil
}

func TestCloseWriteFailure(t *testing.T) {
	s := &failingSink{}
	w := NewWriter(s)
	if err := w.Add(element.Of(element.NewParagraph(strings.Repeat("text ", 2000), element.Font{}))); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); !errors.Is(err, errBoom) {
		t.Errorf("Close() error = %v", err)
	}
	if s.closed != 1 {
		t.Errorf("sink closed %d times", s.closed)
	}
}

func TestParagraphs(t *testing.T) {
	w, s := newTestWriter(t)
	if err := w.Add(element.Of(element.NewParagraph("Hello {world}", element.Font{}))); err != nil {
		t.Fatal(err)
	}
	p := element.NewParagraph("centered", element.Font{Size: 10, Style: element.StyleItalic})
	p.Alignment = element.AlignCenter
	p.IndentLeft = 18
	if err := w.Add(element.Of(p)); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(element.NewChunk("loose", element.Font{})); err != nil {
		t.Fatal(err)
	}
	if err := w.NewPage(); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	assertContains(t, out,
		`{\pard\plain{\f0\fs24 Hello \{world\}}\par}`,
		`{\pard\plain\qc\li360{\f2\fs20\i centered}\par}`,
		`{\pard\plain{\f0\fs24 loose}\par}`,
		`{\page}`,
	)
}

func TestAnchors(t *testing.T) {
	w, s := newTestWriter(t)

	link := &element.Anchor{Reference: "https://example.com"}
	link.AddText("link")
	local := &element.Anchor{Reference: "#note 1"}
	local.AddText("see")
	target := &element.Anchor{Name: "note 1"}
	target.AddText("here")

	p := element.NewParagraph("", element.Font{})
	p.Add(element.Of(link), element.Of(local), element.Of(target))
	if err := w.Add(element.Of(p)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	assertContains(t, out,
		`{\field{\*\fldinst HYPERLINK "https://example.com"}{\fldrslt{\f2\fs24\ul\cf1 link}}}`,
		`{\*\fldinst HYPERLINK \\l "note_1"}`,
		`{\*\bkmkstart note_1}{\f0\fs24 here}{\*\bkmkend note_1}`,
		`{\colortbl;\red0\green0\blue255;}`,
	)
}

func TestTableSpanningRow(t *testing.T) {
	w, s := newTestWriter(t)

	tbl := element.NewTable(2)
	r1 := tbl.AddRow()
	r1.AddCell("A")
	r1.AddCell("B")
	tbl.AddRow().AddCell("C").Span(2, 1)
	if err := w.Add(element.Of(tbl)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	border := `\brdrs\brdrw10\brdrcf2`
	def := `\clvertalc\clbrdrt` + border + `\clbrdrl` + border + `\clbrdrb` + border + `\clbrdrr` + border + `\clcbpat1\clftsWidth3`
	assertContains(t, out,
		`{\colortbl;\red255\green255\blue255;\red0\green0\blue0;}`,
		`\trowd\trgaph0\trleft0`+def+`\clwWidth3608\cellx3608`+def+`\clwWidth3608\cellx7216`,
		`\pard\plain\intbl{\f0\fs24 A}\cell\pard\plain\intbl{\f0\fs24 B}\cell\row`,
		`\trowd\trgaph0\trleft0`+def+`\clwWidth7216\cellx7216\pard\plain\intbl{\f0\fs24 C}\cell\row`,
	)
	if n := strings.Count(out, `\row`); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

func TestTableVerticalMerge(t *testing.T) {
	w, s := newTestWriter(t, WithTableOptions(100, 2))

	bg := element.Color{R: 10, G: 20, B: 30}
	tbl := element.NewTable(2)
	tbl.Alignment = element.AlignCenter
	tbl.HeaderRows = 1
	r1 := tbl.AddRow()
	c := r1.AddCell("tall").Span(1, 3)
	c.Background = &bg
	c.VAlign = element.AlignTop
	r1.AddCell("1")
	tbl.AddRow().AddCell("2")
	tbl.AddRow()
	if err := w.Add(element.Of(tbl)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	if n := strings.Count(out, `\clvmgf`); n != 1 {
		t.Errorf("merge parents = %d, want 1", n)
	}
	if n := strings.Count(out, `\clvmrg`); n != 2 {
		t.Errorf("merge children = %d, want 2", n)
	}
	if n := strings.Count(out, `\clcbpat3`); n != 3 {
		t.Errorf("cells with inherited background = %d, want 3", n)
	}
	if n := strings.Count(out, `\trhdr`); n != 1 {
		t.Errorf("header rows = %d, want 1", n)
	}
	assertContains(t, out,
		`\trowd\trgaph40\trleft0\trqc\trhdr\clvmgf\clvertalt`,
		`\clpadl40\clpadt40\clpadr40\clpadb40\clpadfl3\clpadft3\clpadfr3\clpadfb3`,
		`\cellx9020`,
	)
}

func TestTableMergeOnlyRow(t *testing.T) {
	w, s := newTestWriter(t)

	tbl := element.NewTable(2)
	r1 := tbl.AddRow()
	r1.AddCell("left").Span(1, 2)
	r1.AddCell("right").Span(1, 2)
	tbl.AddRow()
	if err := w.Add(element.Of(tbl)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	if n := strings.Count(out, `\row`); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
	last := out[strings.LastIndex(out, `\trowd`):]
	if n := strings.Count(last, `\clvmrg`); n != 2 {
		t.Errorf("merge children in last row = %d, want 2:\n%s", n, last)
	}
	if n := strings.Count(last, `\cell`); n != 4 {
		// two \cellx definitions plus two \cell terminators
		t.Errorf("cell words in last row = %d, want 4:\n%s", n, last)
	}
	if !strings.Contains(last, `\cell\row`) {
		t.Errorf("last row is not terminated:\n%s", last)
	}
}

func TestTableNilParts(t *testing.T) {
	w, s := newTestWriter(t)

	holes := element.NewTable(1)
	holes.AddRow().AddCell("x")
	holes.Rows[0].Cells = append(holes.Rows[0].Cells, nil)
	if err := w.Add(element.Of(holes)); !errors.Is(err, layout.ErrMissingCell) {
		t.Errorf("table with nil cell: error = %v", err)
	}

	gaps := element.NewTable(1)
	gaps.AddRow().AddCell("kept")
	gaps.Rows = append(gaps.Rows, nil)
	if err := w.Add(element.Of(gaps)); err != nil {
		t.Errorf("table with nil row: error = %v", err)
	}

	diags := w.Diagnostics()
	if diags == nil || !strings.Contains(diags.Error(), "table cannot be laid out") {
		t.Errorf("diagnostics = %v", diags)
	}
	out := closeWriter(t, w, s)
	assertContains(t, out, `{\f0\fs24 kept}\cell\row`)
	if n := strings.Count(out, `\row`); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

func TestContentErrors(t *testing.T) {
	w, s := newTestWriter(t)

	err := w.Add(element.Of(&element.Row{}))
	var ce *ContentError
	if !errors.As(err, &ce) || ce.Kind != element.KindRow {
		t.Fatalf("row outside table: error = %v", err)
	}

	if err := w.Add(element.Of(&element.Cell{})); err == nil {
		t.Error("cell outside row: expected error")
	}

	bad := element.NewTable(1)
	bad.AddRow().AddCell("x").Span(2, 1)
	if err := w.Add(element.Of(bad)); !errors.Is(err, layout.ErrSpanOverflow) {
		t.Errorf("overflowing table: error = %v", err)
	}

	outer := element.NewTable(1)
	cell := outer.AddRow().AddCell("kept")
	cell.Add(element.Of(element.NewTable(1)), element.Of(&element.Section{}))
	if err := w.Add(element.Of(outer)); err != nil {
		t.Errorf("table with bad cell content: error = %v", err)
	}

	diags := w.Diagnostics()
	for _, want := range []string{"row outside of table", "cell outside of table row", "tables cannot be nested", "section cannot be placed in table cell", "/table[3]/row[0]/cell[0]/table[1]"} {
		if diags == nil || !strings.Contains(diags.Error(), want) {
			t.Errorf("diagnostics %v do not mention %q", diags, want)
		}
	}

	out := closeWriter(t, w, s)
	assertContains(t, out, `{\f0\fs24 kept}\cell\row`)
}

func TestLists(t *testing.T) {
	w, s := newTestWriter(t)

	numbered := &element.List{Numbered: true}
	numbered.AddItem("one")
	numbered.AddItem("two").Sublist = &element.List{}
	numbered.Items[1].Sublist.AddItem("nested")
	if err := w.Add(element.Of(numbered)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	assertContains(t, out,
		`{\pard\plain\li360\fi-360{\pntext\f0\fs24 1.\tab}{\*\pn\pnlvlbody\pndec\pnstart1\pnindent360{\pntxta .}}{\f0\fs24 one}\par`,
		`{\pntext\f0\fs24 2.\tab}`,
		`\li720\fi-360{\pntext\f0\fs24\'95\tab}{\*\pn\pnlvlblt\pnf0\pnindent360{\pntxtb\'95}}{\f0\fs24 nested}\par`,
	)
}

func TestSectionsAndTOC(t *testing.T) {
	for _, auto := range []bool{true, false} {
		w, s := newTestWriter(t, WithAutoTOC(auto))
		if err := w.Add(element.Of(&element.TOC{Title: "Contents"})); err != nil {
			t.Fatal(err)
		}
		ch := &element.Section{Title: element.NewParagraph("Intro", element.Font{}), Depth: 1, Numbers: []int{1}, PageBreakBefore: true}
		ch.AddSection("Details").Add(element.Of(element.NewParagraph("body", element.Font{})))
		if err := w.Add(element.Of(ch)); err != nil {
			t.Fatal(err)
		}
		out := closeWriter(t, w, s)

		assertContains(t, out,
			`\pard\plain\s1\outlinelevel0\sb240\sa120\keepn\pagebb{\f1\fs36\b 1. }{\f1\fs36\b Intro}`,
			`\pard\plain\s2\outlinelevel1\sb200\sa120\keepn{\f1\fs32\b 1.1. }{\f1\fs32\b Details}`,
			`{\f0\fs24 body}\par`,
			`{\f1\fs36\b Contents}`,
		)
		if auto {
			assertContains(t, out, `{\tc\tcl1 1. Intro}`, `{\tc\tcl2 1.1. Details}`, `{\field\fldedit{\*\fldinst TOC \\f \\l "1-3" \\h \\z}`)
		} else {
			assertContains(t, out, `{\field\fldedit{\*\fldinst TOC \\o "1-3" \\h \\z \\u}`)
			if strings.Contains(out, `{\tc`) {
				t.Error("TOC entries emitted with automatic TOC disabled")
			}
		}
	}
}

func TestHeaderFooter(t *testing.T) {
	w, s := newTestWriter(t)
	before := &element.Phrase{}
	before.AddText("Page ")
	if err := w.SetFooter(&element.HeaderFooter{Before: before, PageNumbers: true, Alignment: element.AlignCenter}); err != nil {
		t.Fatal(err)
	}
	title := &element.Phrase{}
	title.AddText("Title")
	if err := w.SetHeader(&element.HeaderFooter{Before: title}); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	assertContains(t, out,
		`{\header\pard\plain{\f0\fs24 Title}\par}`,
		`{\footer\pard\plain\qc{\f0\fs24 Page }{\field{\*\fldinst PAGE}{\fldrslt{\f0\fs24 1}}}\par}`,
	)
	if strings.Index(out, `{\header`) > strings.Index(out, `{\footer`) {
		t.Error("header must precede footer")
	}
}

func TestHeaderFooterReset(t *testing.T) {
	w, s := newTestWriter(t)
	text := &element.Phrase{}
	text.AddText("gone")
	if err := w.SetHeader(&element.HeaderFooter{Before: text}); err != nil {
		t.Fatal(err)
	}
	if err := w.SetFooter(&element.HeaderFooter{PageNumbers: true}); err != nil {
		t.Fatal(err)
	}
	if err := w.SetHeader(nil); err != nil {
		t.Fatalf("SetHeader(nil) error = %v", err)
	}
	if err := w.SetFooter(nil); err != nil {
		t.Fatalf("SetFooter(nil) error = %v", err)
	}
	out := closeWriter(t, w, s)
	if strings.Contains(out, `{\header`) || strings.Contains(out, `{\footer`) || strings.Contains(out, "gone") {
		t.Errorf("header or footer left after reset:\n%s", out)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testBMP(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{A: 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImages(t *testing.T) {
	w, s := newTestWriter(t)

	small, err := element.NewImage(testPNG(t, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	small.Alignment = element.AlignRight
	wide, err := element.NewImage(testPNG(t, 1000, 10))
	if err != nil {
		t.Fatal(err)
	}
	bitmap, err := element.NewImage(testBMP(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, img := range []*element.Image{small, wide, bitmap} {
		if err := w.Add(element.Of(img)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Add(element.Of(&element.Image{Data: []byte{1, 2, 3}})); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("unknown image: error = %v", err)
	}
	out := closeWriter(t, w, s)

	assertContains(t, out,
		`{\pard\plain\qr{\pict\pngblip\picw2\pich2\picwgoal40\pichgoal40`+"\n",
		`{\pict\pngblip\picw1000\pich10\picwgoal9020\pichgoal90`,
		`{\pict\wmetafile8\picw2\pich2\picwgoal40\pichgoal40`,
	)
}

func TestImageInCell(t *testing.T) {
	w, s := newTestWriter(t)

	wide, err := element.NewImage(testPNG(t, 1000, 10))
	if err != nil {
		t.Fatal(err)
	}
	tbl := element.NewTable(2)
	r := tbl.AddRow()
	r.AddCell("").Add(element.Of(wide))
	r.AddCell("text")
	if err := w.Add(element.Of(tbl)); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)

	// 80% of 9020 twips split in two columns
	assertContains(t, out, `\cellx3608`, `{\pict\pngblip\picw1000\pich10\picwgoal3608\pichgoal36`)
}

func TestCellAlignmentInherited(t *testing.T) {
	w, s := newTestWriter(t)

	tbl := element.NewTable(2)
	r := tbl.AddRow()
	r.AddCell("own").HAlign = element.AlignCenter
	r.AddCell("inherited")

	var res Result
	w.mapper.table(tbl, scope{font: w.doc.BaseFont(), align: element.AlignRight}, "/table[0]", &res)
	if len(res.Errs) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errs)
	}
	if err := w.doc.Add(res.Nodes...); err != nil {
		t.Fatal(err)
	}
	out := closeWriter(t, w, s)
	assertContains(t, out,
		`\pard\plain\intbl\qc{\f0\fs24 own}\cell`,
		`\pard\plain\intbl\qr{\f0\fs24 inherited}\cell`,
	)
}

func TestLanguage(t *testing.T) {
	w, s := newTestWriter(t, WithLanguage("de"), WithPageSize(612, 792, true), WithDefaultFont(element.Font{Family: "Arial", Size: 11}))
	out := closeWriter(t, w, s)
	assertContains(t, out,
		`\deflang1031`,
		`\paperw15840\paperh12240`,
		`\landscape`,
		`{\f0\fswiss\fcharset0 Arial;}`,
		`{\s0\f0\fs22 Normal;}`,
	)
}

func TestDump(t *testing.T) {
	w, s := newTestWriter(t)
	tbl := element.NewTable(1)
	tbl.AddRow().AddCell("cell")
	if err := w.Add(element.Of(tbl)); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(element.Of(element.NewParagraph("text", element.Font{}))); err != nil {
		t.Fatal(err)
	}
	dump := w.Document().Dump()
	for _, want := range []string{"document", "table", "paragraph", `"text"`, `"cell"`, "fonts=2"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump does not contain %q:\n%s", want, dump)
		}
	}
	closeWriter(t, w, s)
}

func TestPageSetup(t *testing.T) {
	w, s := newTestWriter(t)
	w.SetPageSize(595, 842, true)
	w.SetMargins(Margins{Left: 36, Right: 36, Top: 18, Bottom: 18})
	out := closeWriter(t, w, s)
	assertContains(t, out,
		`\paperw16840\paperh11900\margl720\margr720\margt360\margb360\landscape`,
	)
}
