package rtf

import (
	"strconv"

	"rtfgen/element"
	"rtfgen/utils/debug"
)

// paragraphNode is a block of runs. Lengths are in twips. Paragraphs in
// table cells are not terminated, cell separates them.
type paragraphNode struct {
	align       element.Alignment
	style       int
	outline     int
	leftIndent  int
	rightIndent int
	firstIndent int
	spaceBefore int
	spaceAfter  int
	lineSpacing int
	keep        bool
	keepNext    bool
	pageBreak   bool
	inTable     bool
	bookmark    string
	marker      *listMarker
	tc          *tocEntry
	content     []Node
}

func newParagraphNode(align element.Alignment, inTable bool) *paragraphNode {
	return &paragraphNode{align: align, style: -1, outline: -1, inTable: inTable}
}

var alignWords = map[element.Alignment]string{
	element.AlignLeft:         "ql",
	element.AlignCenter:       "qc",
	element.AlignRight:        "qr",
	element.AlignJustified:    "qj",
	element.AlignJustifiedAll: "qd",
}

func (n *paragraphNode) Write(e *Encoder) {
	e.Word("pard")
	e.Word("plain")
	if n.style >= 0 {
		e.WordN("s", n.style)
	}
	if n.outline >= 0 {
		e.WordN("outlinelevel", n.outline)
	}
	if n.inTable {
		e.Word("intbl")
	}
	if w, ok := alignWords[n.align]; ok {
		e.Word(w)
	}
	if n.leftIndent != 0 {
		e.WordN("li", n.leftIndent)
	}
	if n.rightIndent != 0 {
		e.WordN("ri", n.rightIndent)
	}
	if n.firstIndent != 0 {
		e.WordN("fi", n.firstIndent)
	}
	if n.spaceBefore != 0 {
		e.WordN("sb", n.spaceBefore)
	}
	if n.spaceAfter != 0 {
		e.WordN("sa", n.spaceAfter)
	}
	if n.lineSpacing != 0 {
		e.WordN("sl", n.lineSpacing)
		e.WordN("slmult", 0)
	}
	if n.keep {
		e.Word("keep")
	}
	if n.keepNext {
		e.Word("keepn")
	}
	if n.pageBreak {
		e.Word("pagebb")
	}
	if n.marker != nil {
		n.marker.write(e)
	}
	if n.bookmark != "" {
		(&bookmarkNode{name: n.bookmark, content: n.content}).Write(e)
	} else {
		for _, c := range n.content {
			c.Write(e)
		}
	}
	if n.tc != nil {
		n.tc.write(e)
	}
	if !n.inTable {
		e.Word("par")
	}
}

func (n *paragraphNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Attrs(depth, "paragraph",
		"align", n.align.String(),
		"style", n.style+1,
		"li", n.leftIndent,
		"fi", n.firstIndent,
		"intbl", n.inTable,
		"pagebb", n.pageBreak,
		"bookmark", n.bookmark)
	if n.marker != nil {
		tw.Attrs(depth+1, "marker", "text", n.marker.text, "numbered", n.marker.numbered)
	}
	if n.tc != nil {
		tw.Attrs(depth+1, "tc", "level", n.tc.level, "text", n.tc.text)
	}
	for _, c := range n.content {
		c.Dump(tw, depth+1)
	}
}

// listMarker is legacy paragraph numbering understood by all readers.
type listMarker struct {
	numbered bool
	number   int
	symbol   string
	font     int
	fontSize int
	indent   int
	text     string
}

func newListMarker(numbered bool, number int, symbol string, font, fontSize, indent int) *listMarker {
	m := &listMarker{numbered: numbered, number: number, symbol: symbol, font: font, fontSize: fontSize, indent: indent}
	if numbered {
		m.text = strconv.Itoa(number) + "."
	} else {
		m.text = symbol
	}
	return m
}

func (m *listMarker) write(e *Encoder) {
	e.Open()
	e.Word("pntext")
	e.WordN("f", m.font)
	e.WordN("fs", m.fontSize)
	e.Text(m.text)
	e.Word("tab")
	e.Close()

	e.Destination("pn")
	if m.numbered {
		e.Word("pnlvlbody")
		e.Word("pndec")
		e.WordN("pnstart", m.number)
	} else {
		e.Word("pnlvlblt")
		e.WordN("pnf", m.font)
	}
	e.WordN("pnindent", m.indent)
	e.Open()
	if m.numbered {
		e.Word("pntxta")
		e.Text(".")
	} else {
		e.Word("pntxtb")
		e.Text(m.symbol)
	}
	e.Close()
	e.Close()
}

// tocEntry marks paragraph for TOC built from entries.
type tocEntry struct {
	level int
	text  string
}

func (t *tocEntry) write(e *Encoder) {
	e.Open()
	e.Word("tc")
	e.WordN("tcl", t.level)
	e.Text(t.text)
	e.Close()
}
