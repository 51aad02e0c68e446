package source

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtfgen/css"
	"rtfgen/element"
	"rtfgen/utils/images"
)

type binary struct {
	contentType string
	data        []byte
	attrs       *etree.Element
}

type builder struct {
	log      *zap.Logger
	css      *css.Parser
	sheet    *css.Stylesheet
	binaries map[string]binary
	baseDir  string
	baseSize float64
	numbered bool
}

func newBuilder(opts Options, log *zap.Logger) *builder {
	size := opts.BaseFontSize
	if size <= 0 {
		size = element.DefaultFontSize
	}
	return &builder{
		log:      log,
		css:      css.NewParser(log),
		sheet:    &css.Stylesheet{},
		binaries: make(map[string]binary),
		baseDir:  opts.BaseDir,
		baseSize: size,
	}
}

// style resolves class rules and inline style attribute of element, inline
// declarations win.
func (b *builder) style(el *etree.Element) css.Style {
	props := make(css.Properties)
	if len(b.sheet.Rules) > 0 {
		props = b.sheet.Match(el.Tag, strings.Fields(el.SelectAttrValue("class", "")))
	}
	if s := el.SelectAttrValue("style", ""); s != "" {
		maps.Copy(props, b.css.ParseInline(s))
	}
	return css.Resolve(props, b.baseSize)
}

// flow interprets mixed content of container element. Runs of inline
// content are kept as is, adapter wraps them into paragraphs.
func (b *builder) flow(parent *etree.Element, depth int, numbers []int, top bool) []Block {
	var (
		out     []Block
		pending []element.Element
		nsec    int
	)
	flush := func() {
		for _, el := range trimInline(pending) {
			out = append(out, Block{Element: el})
		}
		pending = nil
	}
	add := func(el element.Element) {
		flush()
		out = append(out, Block{Element: el})
	}

	for _, tok := range parent.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if t.IsWhitespace() {
				if len(pending) > 0 {
					pending = append(pending, element.NewChunk(" ", element.Font{}))
				}
				continue
			}
			pending = append(pending, element.NewChunk(collapse(t.Data), element.Font{}))
		case *etree.Element:
			switch t.Tag {
			case "p":
				add(element.Of(b.paragraph(t)))
			case "list":
				add(element.Of(b.list(t)))
			case "table":
				if tbl := b.table(t); tbl != nil {
					add(element.Of(tbl))
				}
			case "chapter", "section":
				nsec++
				var nums []int
				if b.numbered {
					nums = append(slices.Clone(numbers), nsec)
				}
				add(element.Of(b.section(t, depth+1, nums)))
			case "toc":
				add(element.Of(&element.TOC{
					Title:  t.SelectAttrValue("title", ""),
					Levels: b.intAttr(t, "levels", 0),
				}))
			case "pagebreak":
				if !top {
					b.log.Warn("Page break is only supported on document level, ignoring", zap.String("parent", parent.Tag))
					continue
				}
				flush()
				out = append(out, Block{PageBreak: true})
			case "title":
				// consumed by section
			case "header", "footer", "style", "binary":
				if !top {
					b.log.Warn("Unexpected tag, ignoring", zap.String("parent", parent.Tag), zap.String("tag", t.Tag))
				}
			default:
				if isInline(t.Tag) {
					pending = append(pending, b.inline(t)...)
					continue
				}
				b.log.Warn("Unexpected tag, ignoring", zap.String("parent", parent.Tag), zap.String("tag", t.Tag))
			}
		}
	}
	flush()
	return out
}

func (b *builder) elements(parent *etree.Element, depth int, numbers []int) []element.Element {
	blocks := b.flow(parent, depth, numbers, false)
	els := make([]element.Element, 0, len(blocks))
	for _, blk := range blocks {
		els = append(els, blk.Element)
	}
	return els
}

func isInline(tag string) bool {
	switch tag {
	case "b", "strong", "i", "em", "u", "s", "strike", "span", "a", "br", "img":
		return true
	}
	return false
}

// inlines interprets inline content keeping whitespace collapsed.
func (b *builder) inlines(parent *etree.Element) []element.Element {
	var out []element.Element
	for _, tok := range parent.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if s := collapse(t.Data); s != "" {
				out = append(out, element.NewChunk(s, element.Font{}))
			}
		case *etree.Element:
			if !isInline(t.Tag) {
				b.log.Warn("Unexpected tag in inline content, ignoring", zap.String("parent", parent.Tag), zap.String("tag", t.Tag))
				continue
			}
			out = append(out, b.inline(t)...)
		}
	}
	return out
}

func (b *builder) inline(el *etree.Element) []element.Element {
	switch el.Tag {
	case "br":
		return []element.Element{element.NewChunk("\n", element.Font{})}
	case "img":
		if img := b.image(el); img != nil {
			return []element.Element{element.Of(img)}
		}
		return nil
	}

	st := b.style(el)
	font := st.Font
	switch el.Tag {
	case "b", "strong":
		font.Style |= element.StyleBold
	case "i", "em":
		font.Style |= element.StyleItalic
	case "u":
		font.Style |= element.StyleUnderline
	case "s", "strike":
		font.Style |= element.StyleStrikethru
	}
	content := b.inlines(el)

	if el.Tag == "a" {
		a := &element.Anchor{
			Reference: el.SelectAttrValue("href", ""),
			Name:      el.SelectAttrValue("name", el.SelectAttrValue("id", "")),
		}
		a.Font = font
		a.Content = content
		return []element.Element{element.Of(a)}
	}
	if len(content) == 0 {
		return nil
	}
	return []element.Element{element.Of(&element.Phrase{Font: font, Content: content})}
}

func (b *builder) paragraph(el *etree.Element) *element.Paragraph {
	st := b.style(el)
	p := &element.Paragraph{
		Alignment:       element.ParseAlignment(el.SelectAttrValue("align", "")).Or(st.Align),
		IndentLeft:      b.floatAttr(el, "indent", 0),
		IndentRight:     b.floatAttr(el, "indent-right", 0),
		FirstLineIndent: b.floatAttr(el, "first-line", 0),
		SpacingBefore:   b.floatAttr(el, "space-before", 0),
		SpacingAfter:    b.floatAttr(el, "space-after", 0),
		KeepTogether:    parseBool(el.SelectAttrValue("keep", "")),
	}
	p.Font = st.Font
	p.Content = trimInline(b.inlines(el))
	return p
}

func (b *builder) list(el *etree.Element) *element.List {
	st := b.style(el)
	l := &element.List{
		Numbered: parseBool(el.SelectAttrValue("numbered", "")),
		Symbol:   el.SelectAttrValue("symbol", ""),
		Start:    b.intAttr(el, "start", 0),
		Indent:   b.floatAttr(el, "indent", 0),
		Font:     st.Font,
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "li" {
			b.log.Warn("Unexpected tag in list, ignoring", zap.String("tag", child.Tag))
			continue
		}
		it := &element.ListItem{}
		it.Font = b.style(child).Font
		for _, tok := range child.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				if s := collapse(t.Data); s != "" {
					it.Content = append(it.Content, element.NewChunk(s, element.Font{}))
				}
			case *etree.Element:
				switch {
				case t.Tag == "list":
					it.Sublist = b.list(t)
				case isInline(t.Tag):
					it.Content = append(it.Content, b.inline(t)...)
				default:
					b.log.Warn("Unexpected tag in list item, ignoring", zap.String("tag", t.Tag))
				}
			}
		}
		it.Content = trimInline(it.Content)
		l.Items = append(l.Items, it)
	}
	return l
}

func (b *builder) section(el *etree.Element, depth int, numbers []int) *element.Section {
	s := &element.Section{
		Depth:           depth,
		Numbers:         numbers,
		PageBreakBefore: parseBool(el.SelectAttrValue("pagebreak", "")),
		Bookmark:        el.SelectAttrValue("id", ""),
	}
	if t := el.SelectElement("title"); t != nil {
		s.Title = b.paragraph(t)
	} else if v := el.SelectAttrValue("title", ""); v != "" {
		s.Title = element.NewParagraph(v, element.Font{})
	}
	s.Content = b.elements(el, depth, numbers)
	return s
}

func (b *builder) headerFooter(el *etree.Element) *element.HeaderFooter {
	st := b.style(el)
	hf := &element.HeaderFooter{
		PageNumbers: parseBool(el.SelectAttrValue("page-numbers", "")),
		Alignment:   element.ParseAlignment(el.SelectAttrValue("align", "")).Or(st.Align),
	}
	var before, after []element.Element
	cur := &before
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if s := collapse(t.Data); s != "" {
				*cur = append(*cur, element.NewChunk(s, element.Font{}))
			}
		case *etree.Element:
			switch {
			case t.Tag == "page-number":
				hf.PageNumbers = true
				cur = &after
			case isInline(t.Tag):
				*cur = append(*cur, b.inline(t)...)
			default:
				b.log.Warn("Unexpected tag, ignoring", zap.String("parent", el.Tag), zap.String("tag", t.Tag))
			}
		}
	}
	// spaces around page number are kept
	if cur == &after {
		before, after = trimLeading(before), trimTrailing(after)
	} else {
		before = trimInline(before)
	}
	if len(before) > 0 {
		hf.Before = &element.Phrase{Font: st.Font, Content: before}
	}
	if len(after) > 0 {
		hf.After = &element.Phrase{Font: st.Font, Content: after}
	}
	return hf
}

func (b *builder) table(el *etree.Element) *element.Table {
	rows := el.SelectElements("tr")
	cols := b.intAttr(el, "columns", 0)
	if cols <= 0 && len(rows) > 0 {
		for _, td := range cells(rows[0]) {
			cols += max(b.intAttr(td, "colspan", 1), 1)
		}
	}
	if cols <= 0 {
		b.log.Warn("Table without columns, ignoring")
		return nil
	}

	t := element.NewTable(cols)
	t.Widths = parseList(el.SelectAttrValue("widths", ""))
	t.Width, t.WidthPercent = parseLength(el.SelectAttrValue("width", ""))
	t.Padding = b.floatAttr(el, "padding", -1)
	t.Spacing = b.floatAttr(el, "spacing", 0)
	t.Alignment = element.ParseAlignment(el.SelectAttrValue("align", ""))
	if v := el.SelectAttrValue("border", ""); v != "" {
		t.Border = parseBorder(v)
	}
	t.BorderWidth = b.floatAttr(el, "border-width", t.BorderWidth)
	t.BorderColor = b.colorAttr(el, "border-color")
	t.HeaderRows = b.intAttr(el, "header-rows", 0)
	t.KeepTogether = parseBool(el.SelectAttrValue("keep", ""))

	for _, tr := range rows {
		row := t.AddRow()
		for _, td := range cells(tr) {
			st := b.style(td)
			c := row.AddCell("")
			c.Span(b.intAttr(td, "colspan", 1), b.intAttr(td, "rowspan", 1))
			c.Width, c.WidthPercent = parseLength(td.SelectAttrValue("width", ""))
			c.HAlign = element.ParseAlignment(td.SelectAttrValue("align", "")).Or(st.Align)
			c.VAlign = element.ParseAlignment(td.SelectAttrValue("valign", "")).Or(st.VAlign)
			if v := td.SelectAttrValue("border", ""); v != "" {
				c.Border = parseBorder(v)
			}
			c.BorderWidth = b.floatAttr(td, "border-width", 0)
			c.BorderColor = b.colorAttr(td, "border-color")
			c.Background = b.colorAttr(td, "bgcolor")
			if c.Background == nil {
				c.Background = st.Background
			}
			content := b.elements(td, 0, nil)
			if td.Tag == "th" {
				c.HAlign = c.HAlign.Or(element.AlignCenter)
				if allInline(content) {
					content = []element.Element{element.Of(&element.Phrase{
						Font:    element.Font{Style: element.StyleBold},
						Content: content,
					})}
				}
			}
			c.Add(content...)
		}
	}
	return t
}

func allInline(els []element.Element) bool {
	for _, el := range els {
		if !el.Kind.Inline() {
			return false
		}
	}
	return true
}

func cells(tr *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, child := range tr.ChildElements() {
		if child.Tag == "td" || child.Tag == "th" {
			res = append(res, child)
		}
	}
	return res
}

func (b *builder) binary(el *etree.Element) error {
	id := el.SelectAttrValue("id", "")
	if id == "" {
		return errors.New("binary without id")
	}
	data, err := base64.StdEncoding.DecodeString(normalizeBase64(el.Text()))
	if err != nil {
		var corruptErr base64.CorruptInputError
		if !errors.As(err, &corruptErr) || len(data) == 0 {
			return fmt.Errorf("decode binary %q: %w", id, err)
		}
		b.log.Warn("Unable to fully decode binary", zap.String("id", id), zap.Error(err))
	}
	b.binaries[id] = binary{contentType: el.SelectAttrValue("content-type", ""), data: data, attrs: el}
	return nil
}

var ccittGroups = map[string]images.CCITTGroup{
	"g4":    images.CCITTG4,
	"g3-1d": images.CCITTG31D,
	"g3-2d": images.CCITTG32D,
}

// image resolves img either to embedded binary ("#id") or to file relative
// to base directory. Problems are logged and image is dropped.
func (b *builder) image(el *etree.Element) *element.Image {
	src := el.SelectAttrValue("src", el.SelectAttrValue("href", ""))
	var (
		img *element.Image
		err error
	)
	if id, ok := strings.CutPrefix(src, "#"); ok {
		bin, found := b.binaries[id]
		if !found {
			b.log.Warn("Image refers to missing binary, ignoring", zap.String("id", id))
			return nil
		}
		switch bin.contentType {
		case "image/x-ccitt", "image/ccitt":
			group, known := ccittGroups[strings.ToLower(bin.attrs.SelectAttrValue("group", "g4"))]
			if !known {
				group = images.CCITTGroup(-1)
			}
			var options int
			if parseBool(bin.attrs.SelectAttrValue("black-is-1", "")) {
				options |= images.CCITTBlackIs1
			}
			if parseBool(bin.attrs.SelectAttrValue("byte-align", "")) {
				options |= images.CCITTEncodedByteAlign
			}
			img, err = element.NewCCITT(
				b.intAttr(bin.attrs, "width", 0), b.intAttr(bin.attrs, "height", 0),
				parseBool(bin.attrs.SelectAttrValue("reverse-bits", "")),
				group, options, bin.data)
		default:
			img, err = element.NewImage(bin.data)
		}
	} else {
		if b.baseDir == "" || !filepath.IsLocal(src) {
			b.log.Warn("Unable to resolve image location, ignoring", zap.String("src", src))
			return nil
		}
		img, err = element.NewImageFromFile(filepath.Join(b.baseDir, src))
	}
	if err != nil {
		b.log.Warn("Unable to use image, ignoring", zap.String("src", src), zap.Error(err))
		return nil
	}

	img.Alt = el.SelectAttrValue("alt", "")
	img.Alignment = element.ParseAlignment(el.SelectAttrValue("align", ""))
	w, h := b.floatAttr(el, "width", 0), b.floatAttr(el, "height", 0)
	switch {
	case w > 0 && h > 0:
		img.ScaleAbsolute(w, h)
	case w > 0 && img.Info.Width > 0:
		img.ScalePercent(w * 100 / float64(img.Info.Width))
	case h > 0 && img.Info.Height > 0:
		img.ScalePercent(h * 100 / float64(img.Info.Height))
	case el.SelectAttr("scale") != nil:
		img.ScalePercent(b.floatAttr(el, "scale", 100))
	}
	return img
}

func (b *builder) intAttr(el *etree.Element, name string, def int) int {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		b.log.Warn("Bad numeric attribute, ignoring", zap.String("tag", el.Tag), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return n
}

func (b *builder) floatAttr(el *etree.Element, name string, def float64) float64 {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "pt"), 64)
	if err != nil {
		b.log.Warn("Bad numeric attribute, ignoring", zap.String("tag", el.Tag), zap.String("attr", name), zap.String("value", v))
		return def
	}
	return f
}

func (b *builder) colorAttr(el *etree.Element, name string) *element.Color {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return nil
	}
	c, err := element.ParseColor(v)
	if err != nil {
		b.log.Warn("Bad color attribute, ignoring", zap.String("tag", el.Tag), zap.String("attr", name), zap.Error(err))
		return nil
	}
	return &c
}

// parseLength returns absolute points or percentage.
func parseLength(s string) (points, percent float64) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		percent, _ = strconv.ParseFloat(p, 64)
		return 0, percent
	}
	points, _ = strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
	return points, 0
}

func parseList(s string) []float64 {
	var res []float64
	for f := range strings.FieldsFuncSeq(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		res = append(res, v)
	}
	return res
}

func parseBorder(s string) element.Border {
	var res element.Border
	for f := range strings.FieldsFuncSeq(strings.ToLower(s), func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		switch f {
		case "none":
			return element.BorderNone
		case "box", "all":
			res |= element.BorderBox
		case "top":
			res |= element.BorderTop
		case "bottom":
			res |= element.BorderBottom
		case "left":
			res |= element.BorderLeft
		case "right":
			res |= element.BorderRight
		}
	}
	return res
}

// collapse replaces runs of whitespace with single space.
func collapse(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

// trimInline removes leading and trailing spaces of inline run, chunks left
// empty are dropped.
func trimInline(els []element.Element) []element.Element {
	return trimTrailing(trimLeading(els))
}

func trimLeading(els []element.Element) []element.Element {
	for len(els) > 0 && els[0].Kind == element.KindChunk {
		if s := strings.TrimLeft(els[0].Chunk.Text, " "); s != "" {
			els[0] = element.NewChunk(s, els[0].Chunk.Font)
			break
		}
		els = els[1:]
	}
	return els
}

func trimTrailing(els []element.Element) []element.Element {
	for len(els) > 0 && els[len(els)-1].Kind == element.KindChunk {
		last := els[len(els)-1]
		if s := strings.TrimRight(last.Chunk.Text, " "); s != "" {
			els[len(els)-1] = element.NewChunk(s, last.Chunk.Font)
			break
		}
		els = els[:len(els)-1]
	}
	return els
}

func normalizeBase64(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if !unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
