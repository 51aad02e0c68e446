package rtf

import (
	"strconv"
	"strings"

	"rtfgen/element"
	"rtfgen/utils/debug"
)

// ColorRegistry assigns color table indexes. Index 0 is reserved for the
// automatic color, interned colors start from 1.
type ColorRegistry struct {
	colors []element.Color
	index  map[element.Color]int
}

func NewColorRegistry() *ColorRegistry {
	return &ColorRegistry{index: make(map[element.Color]int)}
}

// Intern returns index of color adding it when necessary.
func (r *ColorRegistry) Intern(c element.Color) int {
	if i, ok := r.index[c]; ok {
		return i
	}
	r.colors = append(r.colors, c)
	i := len(r.colors)
	r.index[c] = i
	return i
}

// Len returns number of table entries including automatic color.
func (r *ColorRegistry) Len() int {
	return len(r.colors) + 1
}

// Entries returns interned colors in index order, starting with index 1.
func (r *ColorRegistry) Entries() []element.Color {
	return r.colors
}

func (r *ColorRegistry) WriteTable(e *Encoder) {
	e.Open()
	e.Word("colortbl")
	e.Raw(";")
	for _, c := range r.colors {
		e.WordN("red", int(c.R))
		e.WordN("green", int(c.G))
		e.WordN("blue", int(c.B))
		e.Raw(";")
	}
	e.Close()
}

func (r *ColorRegistry) dump(tw *debug.TreeWriter, depth int) {
	tw.Line(depth, "colors=%d", r.Len())
	for i, c := range r.colors {
		tw.Line(depth+1, "%d: %s", i+1, c)
	}
}

type fontKey struct {
	family string
	style  int
}

// FontEntry is a single font table record.
type FontEntry struct {
	Family string
	Style  int
}

// FontRegistry assigns font table indexes. Index 0 is the document default
// font, fonts without family resolve to it. Families are compared case
// insensitively together with style bits.
type FontRegistry struct {
	entries []FontEntry
	index   map[fontKey]int
}

func NewFontRegistry(def element.Font) *FontRegistry {
	r := &FontRegistry{index: make(map[fontKey]int)}
	family := def.FamilyName()
	if family == "" {
		family = "Times New Roman"
	}
	r.entries = append(r.entries, FontEntry{Family: family})
	r.index[fontKey{family: strings.ToLower(family)}] = 0
	return r
}

// Intern returns index of font family adding it when necessary.
func (r *FontRegistry) Intern(f element.Font) int {
	family := f.FamilyName()
	if family == "" {
		return 0
	}
	key := fontKey{family: strings.ToLower(family), style: f.Style}
	if i, ok := r.index[key]; ok {
		return i
	}
	r.entries = append(r.entries, FontEntry{Family: family, Style: f.Style})
	i := len(r.entries) - 1
	r.index[key] = i
	return i
}

func (r *FontRegistry) Len() int {
	return len(r.entries)
}

// Entries returns fonts in index order.
func (r *FontRegistry) Entries() []FontEntry {
	return r.entries
}

// Default returns family of font 0.
func (r *FontRegistry) Default() string {
	return r.entries[0].Family
}

func (r *FontRegistry) WriteTable(e *Encoder) {
	e.Open()
	e.Word("fonttbl")
	for i, f := range r.entries {
		class, charset := familyClass(f.Family)
		e.Open()
		e.WordN("f", i)
		e.Word(class)
		e.WordN("fcharset", charset)
		e.Text(f.Family)
		e.Raw(";")
		e.Close()
	}
	e.Close()
}

func (r *FontRegistry) dump(tw *debug.TreeWriter, depth int) {
	tw.Line(depth, "fonts=%d", r.Len())
	for i, f := range r.entries {
		tw.Attrs(depth+1, f.Family, "index", i, "style", f.Style)
	}
}

var familyHints = []struct {
	substr  string
	class   string
	charset int
}{
	{"symbol", "ftech", 2},
	{"wingdings", "ftech", 2},
	{"dingbat", "ftech", 2},
	{"courier", "fmodern", 0},
	{"mono", "fmodern", 0},
	{"consolas", "fmodern", 0},
	{"arial", "fswiss", 0},
	{"helvetica", "fswiss", 0},
	{"verdana", "fswiss", 0},
	{"tahoma", "fswiss", 0},
	{"calibri", "fswiss", 0},
	{"sans", "fswiss", 0},
	{"times", "froman", 0},
	{"georgia", "froman", 0},
	{"garamond", "froman", 0},
	{"cambria", "froman", 0},
	{"serif", "froman", 0},
}

// familyClass guesses RTF font family group by name.
func familyClass(family string) (string, int) {
	name := strings.ToLower(family)
	for _, h := range familyHints {
		if strings.Contains(name, h.substr) {
			return h.class, h.charset
		}
	}
	return "fnil", 0
}

// Style is a stylesheet entry. Outline is -1 for body text.
type Style struct {
	Index         int
	Name          string
	Outline       int
	Font          element.Font
	FontIndex     int
	SpacingBefore float64
	SpacingAfter  float64
}

// StyleSheet holds paragraph styles: Normal and three heading levels used
// for section titles.
type StyleSheet struct {
	styles []Style
}

// headingSteps are size increments of headings over body font.
var headingSteps = [...]float64{6, 4, 2}

func NewStyleSheet(fonts *FontRegistry, base element.Font) *StyleSheet {
	ss := &StyleSheet{}
	ss.styles = append(ss.styles, Style{Name: "Normal", Outline: -1, Font: base, FontIndex: fonts.Intern(base)})
	for i, step := range headingSteps {
		f := base
		f.Size = base.CalculatedSize() + step
		f.Style |= element.StyleBold
		ss.styles = append(ss.styles, Style{
			Index:         i + 1,
			Name:          "heading " + strconv.Itoa(i+1),
			Outline:       i,
			Font:          f,
			FontIndex:     fonts.Intern(f),
			SpacingBefore: 12 - float64(i)*2,
			SpacingAfter:  6,
		})
	}
	return ss
}

// Normal returns body text style.
func (ss *StyleSheet) Normal() Style {
	return ss.styles[0]
}

// Heading returns style for section title at depth, deeper sections share
// the last heading style.
func (ss *StyleSheet) Heading(depth int) Style {
	depth = max(1, min(depth, len(headingSteps)))
	return ss.styles[depth]
}

func (ss *StyleSheet) WriteTable(e *Encoder) {
	e.Open()
	e.Word("stylesheet")
	for _, s := range ss.styles {
		e.Open()
		e.WordN("s", s.Index)
		if s.Outline >= 0 {
			e.WordN("outlinelevel", s.Outline)
			e.WordN("sbasedon", 0)
			e.WordN("snext", 0)
			e.Word("keepn")
			e.WordN("sb", element.Twips(s.SpacingBefore))
			e.WordN("sa", element.Twips(s.SpacingAfter))
		}
		writeFont(e, s.FontIndex, s.Font, 0)
		e.Text(s.Name)
		e.Raw(";")
		e.Close()
	}
	e.Close()
}
