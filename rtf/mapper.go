package rtf

import (
	"fmt"

	"go.uber.org/zap"

	"rtfgen/element"
	"rtfgen/rtf/layout"
)

const (
	// defaultListIndent in points.
	defaultListIndent = 18
	defaultBullet     = "•"
	defaultTOCLevels  = 3
	tocPlaceholder    = "Update field to build table of contents."
)

// anchorFont is applied to hyperlink text before its own font.
var anchorFont = func() element.Font {
	blue := element.Blue
	return element.Font{Style: element.StyleUnderline, Color: &blue}
}()

// Result is outcome of adapting single element: nodes that were produced
// and errors for parts which were skipped.
type Result struct {
	Nodes []Node
	Errs  []error
}

func (r *Result) fail(kind element.Kind, path, reason string, err error) {
	r.Errs = append(r.Errs, &ContentError{Kind: kind, Path: path, Reason: reason, Err: err})
}

// scope is inherited state of enclosing element.
type scope struct {
	font    element.Font
	align   element.Alignment
	inTable bool
}

// Mapper adapts element trees to nodes, interning fonts and colors into
// the document registries as it goes.
type Mapper struct {
	doc *Document
	log *zap.Logger
	seq int
	// cellWidth limits pictures in the cell being adapted, in points.
	cellWidth float64
}

func NewMapper(doc *Document, log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{doc: doc, log: log}
}

func (m *Mapper) root() scope {
	return scope{font: m.doc.BaseFont()}
}

// Map adapts top level element. Content errors are also recorded in the
// document.
func (m *Mapper) Map(el element.Element) Result {
	path := fmt.Sprintf("/%s[%d]", el.Kind, m.seq)
	m.seq++

	var (
		res      Result
		implicit *paragraphNode
	)
	m.element(el, m.root(), path, &implicit, &res)
	for _, err := range res.Errs {
		m.doc.Record(err)
	}
	return res
}

// MapHeaderFooter adapts page header (word "header") or footer ("footer").
func (m *Mapper) MapHeaderFooter(hf *element.HeaderFooter, word string) (Node, Result) {
	var res Result
	sc := m.root()
	path := "/" + word

	p := newParagraphNode(hf.Alignment, false)
	if hf.Before != nil {
		m.inline(element.Of(hf.Before), sc.font, &p.content, path+"/before", &res)
	}
	if hf.PageNumbers {
		p.content = append(p.content, pageNumberField(m.run("1", sc.font)))
	}
	if hf.After != nil {
		m.inline(element.Of(hf.After), sc.font, &p.content, path+"/after", &res)
	}
	for _, err := range res.Errs {
		m.doc.Record(err)
	}
	return &headerFooterNode{word: word, para: p}, res
}

// blocks adapts sequence of elements, consecutive inline elements are
// gathered into implicit paragraph.
func (m *Mapper) blocks(els []element.Element, sc scope, parent string, res *Result) {
	var implicit *paragraphNode
	for i, el := range els {
		m.element(el, sc, fmt.Sprintf("%s/%s[%d]", parent, el.Kind, i), &implicit, res)
	}
}

func (m *Mapper) element(el element.Element, sc scope, path string, implicit **paragraphNode, res *Result) {
	if !el.Valid() {
		res.fail(el.Kind, path, "element has no content", nil)
		return
	}
	if !el.Kind.Inline() {
		*implicit = nil
		m.block(el, sc, path, res)
		return
	}
	var content []Node
	m.inline(el, sc.font, &content, path, res)
	if len(content) == 0 {
		return
	}
	if *implicit == nil {
		*implicit = newParagraphNode(sc.align, sc.inTable)
		res.Nodes = append(res.Nodes, *implicit)
	}
	p := *implicit
	if el.Kind == element.KindImage && p.align == element.AlignUndefined {
		p.align = el.Image.Alignment
	}
	p.content = append(p.content, content...)
}

func (m *Mapper) block(el element.Element, sc scope, path string, res *Result) {
	switch el.Kind {
	case element.KindParagraph:
		res.Nodes = append(res.Nodes, m.paragraph(el.Paragraph, sc, path, res))
	case element.KindListItem:
		res.Nodes = append(res.Nodes, m.paragraph(&el.ListItem.Paragraph, sc, path, res))
		if el.ListItem.Sublist != nil {
			m.list(el.ListItem.Sublist, sc, 0, path+"/list", res)
		}
	case element.KindList:
		m.list(el.List, sc, 0, path, res)
	case element.KindTable:
		if sc.inTable {
			res.fail(el.Kind, path, "tables cannot be nested", nil)
			return
		}
		m.table(el.Table, sc, path, res)
	case element.KindSection:
		if sc.inTable {
			res.fail(el.Kind, path, "section cannot be placed in table cell", nil)
			return
		}
		m.section(el.Section, sc, path, res)
	case element.KindTOC:
		if sc.inTable {
			res.fail(el.Kind, path, "table of contents cannot be placed in table cell", nil)
			return
		}
		m.toc(el.TOC, sc, res)
	case element.KindRow:
		res.fail(el.Kind, path, "row outside of table", nil)
	case element.KindCell:
		res.fail(el.Kind, path, "cell outside of table row", nil)
	default:
		res.fail(el.Kind, path, "unsupported element", nil)
	}
}

func (m *Mapper) inline(el element.Element, font element.Font, out *[]Node, path string, res *Result) {
	if !el.Valid() {
		res.fail(el.Kind, path, "element has no content", nil)
		return
	}
	switch el.Kind {
	case element.KindChunk:
		*out = append(*out, m.run(el.Chunk.Text, font.Difference(el.Chunk.Font)))
	case element.KindPhrase:
		f := font.Difference(el.Phrase.Font)
		for i, c := range el.Phrase.Content {
			m.inline(c, f, out, fmt.Sprintf("%s/%s[%d]", path, c.Kind, i), res)
		}
	case element.KindAnchor:
		m.anchor(el.Anchor, font, out, path, res)
	case element.KindImage:
		limit := m.doc.Page.ContentWidth()
		if m.cellWidth > 0 {
			limit = min(limit, m.cellWidth)
		}
		pic, err := embedImage(el.Image, m.doc.Images, limit)
		if err != nil {
			res.fail(el.Kind, path, "image cannot be embedded", err)
			return
		}
		*out = append(*out, pic)
	default:
		res.fail(el.Kind, path, "block element inside inline content", nil)
	}
}

func (m *Mapper) run(text string, f element.Font) *runNode {
	n := &runNode{text: text, font: f, index: m.doc.Fonts.Intern(f)}
	if f.Color != nil {
		n.color = m.doc.Colors.Intern(*f.Color)
	}
	return n
}

func (m *Mapper) anchor(a *element.Anchor, font element.Font, out *[]Node, path string, res *Result) {
	f := font
	if a.Reference != "" {
		f = f.Difference(anchorFont)
	}
	f = f.Difference(a.Font)

	var content []Node
	for i, c := range a.Content {
		m.inline(c, f, &content, fmt.Sprintf("%s/%s[%d]", path, c.Kind, i), res)
	}
	if a.Reference != "" {
		content = []Node{&fieldNode{instr: hyperlinkInstr(a.Reference), result: content}}
	}
	if a.Name != "" {
		content = []Node{&bookmarkNode{name: bookmarkName(a.Name), content: content}}
	}
	*out = append(*out, content...)
}

func (m *Mapper) paragraph(p *element.Paragraph, sc scope, path string, res *Result) *paragraphNode {
	font := sc.font.Difference(p.Font)
	n := newParagraphNode(p.Alignment.Or(sc.align), sc.inTable)
	n.leftIndent = element.Twips(p.IndentLeft)
	n.rightIndent = element.Twips(p.IndentRight)
	n.firstIndent = element.Twips(p.FirstLineIndent)
	n.spaceBefore = element.Twips(p.SpacingBefore)
	n.spaceAfter = element.Twips(p.SpacingAfter)
	n.lineSpacing = element.Twips(p.Leading)
	n.keep = p.KeepTogether
	for i, c := range p.Content {
		m.inline(c, font, &n.content, fmt.Sprintf("%s/%s[%d]", path, c.Kind, i), res)
	}
	return n
}

func (m *Mapper) list(l *element.List, sc scope, level int, path string, res *Result) {
	font := sc.font.Difference(l.Font)
	indent := l.Indent
	if indent <= 0 {
		indent = defaultListIndent
	}
	symbol := l.Symbol
	if symbol == "" {
		symbol = defaultBullet
	}
	start := max(l.Start, 1)
	ind := element.Twips(indent)

	isc := sc
	isc.font = font
	for i, it := range l.Items {
		ipath := fmt.Sprintf("%s/list-item[%d]", path, i)
		if it == nil {
			res.fail(element.KindListItem, ipath, "element has no content", nil)
			continue
		}
		p := m.paragraph(&it.Paragraph, isc, ipath, res)
		p.leftIndent += ind * (level + 1)
		p.firstIndent = -ind
		p.marker = newListMarker(l.Numbered, start+i, symbol, m.doc.Fonts.Intern(font), halfPoints(font.CalculatedSize()), ind)
		res.Nodes = append(res.Nodes, p)
		if it.Sublist != nil {
			m.list(it.Sublist, isc, level+1, ipath+"/list", res)
		}
	}
}

func (m *Mapper) table(t *element.Table, sc scope, path string, res *Result) {
	grid, err := layout.Compute(t, layout.Options{
		Available:    element.Twips(m.doc.Page.ContentWidth()),
		WidthPercent: m.doc.TableWidthPercent,
	}, m.log.Named("layout"))
	if err != nil {
		res.fail(element.KindTable, path, "table cannot be laid out", err)
		return
	}

	padding := t.Padding
	if padding < 0 {
		padding = m.doc.CellPadding
	}
	border := t.Border
	if border == element.BorderInherit {
		border = element.BorderBox
	}
	bw := t.BorderWidth
	if bw <= 0 {
		bw = element.DefaultBorderWidth
	}
	bc := element.Black
	if t.BorderColor != nil {
		bc = *t.BorderColor
	}
	white := m.doc.Colors.Intern(element.White)

	n := &tableNode{
		width:   grid.Width,
		align:   t.Alignment,
		gaph:    element.Twips(padding),
		padding: element.Twips(padding),
		spacing: element.Twips(t.Spacing),
		keep:    t.KeepTogether,
	}
	for r, gr := range grid.Rows {
		row := &rowNode{header: r < t.HeaderRows}
		for _, s := range gr.Records() {
			c := &cellNode{
				kind:   s.Kind,
				merge:  s.Merge,
				valign: element.AlignMiddle,
				border: border,
				bw:     min(element.Twips(bw), maxBorderWidth),
				bc:     m.doc.Colors.Intern(bc),
				bg:     white,
				width:  s.Width,
				right:  s.Right,
			}
			if s.Cell != nil {
				m.cellStyle(c, s.Cell)
			}
			if s.Kind == layout.SlotCell {
				inner := s.Width - 2*n.padding
				if inner <= 0 {
					inner = s.Width
				}
				m.cellContent(c, s.Cell, sc, float64(inner)/element.TwipsPerPoint, fmt.Sprintf("%s/row[%d]/cell[%d]", path, r, s.Col), res)
			}
			row.cells = append(row.cells, c)
		}
		n.rows = append(n.rows, row)
	}
	m.log.Debug("Table adapted", zap.String("path", path), zap.Int("rows", len(n.rows)), zap.Int("width", n.width))
	res.Nodes = append(res.Nodes, n)
}

// cellStyle applies cell own decoration, merge children get it from
// the cell they continue.
func (m *Mapper) cellStyle(c *cellNode, cell *element.Cell) {
	if cell.Border != element.BorderInherit {
		c.border = cell.Border
	}
	if cell.BorderWidth > 0 {
		c.bw = min(element.Twips(cell.BorderWidth), maxBorderWidth)
	}
	if cell.BorderColor != nil {
		c.bc = m.doc.Colors.Intern(*cell.BorderColor)
	}
	if cell.Background != nil {
		c.bg = m.doc.Colors.Intern(*cell.Background)
	}
	c.valign = cell.VAlign.Or(element.AlignMiddle)
}

// cellContent adapts cell paragraphs, width is space inside cell in points.
func (m *Mapper) cellContent(c *cellNode, cell *element.Cell, sc scope, width float64, path string, res *Result) {
	csc := scope{font: sc.font, align: cell.HAlign.Or(sc.align), inTable: true}
	prev := m.cellWidth
	m.cellWidth = width
	defer func() { m.cellWidth = prev }()

	var cres Result
	m.blocks(cell.Content, csc, path, &cres)
	res.Errs = append(res.Errs, cres.Errs...)
	for _, n := range cres.Nodes {
		p, ok := n.(*paragraphNode)
		if !ok {
			res.fail(element.KindCell, path, fmt.Sprintf("unexpected %T in cell", n), nil)
			continue
		}
		c.content = append(c.content, p)
	}
}

func (m *Mapper) section(s *element.Section, sc scope, path string, res *Result) {
	depth := max(s.Depth, 1)
	st := m.doc.Styles.Heading(depth)

	title := element.Paragraph{}
	if s.Title != nil {
		title = *s.Title
	}
	if prefix := s.NumberPrefix(); prefix != "" {
		title.Content = append([]element.Element{element.NewChunk(prefix, element.Font{})}, title.Content...)
	}

	p := m.paragraph(&title, scope{font: st.Font, align: sc.align}, path+"/title", res)
	p.style = st.Index
	p.outline = depth - 1
	p.keepNext = true
	p.pageBreak = s.PageBreakBefore
	p.bookmark = bookmarkName(s.Bookmark)
	if p.spaceBefore == 0 {
		p.spaceBefore = element.Twips(st.SpacingBefore)
	}
	if p.spaceAfter == 0 {
		p.spaceAfter = element.Twips(st.SpacingAfter)
	}
	if m.doc.autoTOC {
		p.tc = &tocEntry{level: depth, text: s.NumberedTitle()}
	}
	res.Nodes = append(res.Nodes, p)

	m.blocks(s.Content, sc, path, res)
}

func (m *Mapper) toc(t *element.TOC, sc scope, res *Result) {
	levels := t.Levels
	if levels <= 0 {
		levels = defaultTOCLevels
	}
	var instr string
	if m.doc.autoTOC {
		instr = fmt.Sprintf(`TOC \f \l "1-%d" \h \z`, levels)
	} else {
		instr = fmt.Sprintf(`TOC \o "1-%d" \h \z \u`, levels)
	}

	if t.Title != "" {
		st := m.doc.Styles.Heading(1)
		title := newParagraphNode(element.AlignCenter, false)
		title.spaceAfter = element.Twips(st.SpacingAfter)
		title.keepNext = true
		title.content = []Node{m.run(t.Title, st.Font)}
		res.Nodes = append(res.Nodes, title)
	}
	p := newParagraphNode(sc.align, false)
	p.content = []Node{&fieldNode{instr: instr, edit: true, result: []Node{m.run(tocPlaceholder, sc.font)}}}
	res.Nodes = append(res.Nodes, p)
}
