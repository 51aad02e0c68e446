package rtf

import (
	"rtfgen/element"
	"rtfgen/rtf/layout"
	"rtfgen/utils/debug"
)

// maxBorderWidth is the largest width \brdrw accepts.
const maxBorderWidth = 255

// tableNode is laid out table, every row has cell definition for each
// emitted grid slot.
type tableNode struct {
	width   int
	align   element.Alignment
	gaph    int
	padding int
	spacing int
	keep    bool
	rows    []*rowNode
}

type rowNode struct {
	header bool
	cells  []*cellNode
}

// cellNode is a cell definition plus its content. Merge children and
// fillers have no content.
type cellNode struct {
	kind    layout.SlotKind
	merge   layout.Merge
	valign  element.Alignment
	border  element.Border
	bw      int
	bc      int
	bg      int
	width   int
	right   int
	content []*paragraphNode
}

var cellBorders = [...]struct {
	side element.Border
	word string
}{
	{element.BorderTop, "clbrdrt"},
	{element.BorderLeft, "clbrdrl"},
	{element.BorderBottom, "clbrdrb"},
	{element.BorderRight, "clbrdrr"},
}

func (n *tableNode) Write(e *Encoder) {
	e.Open()
	for _, r := range n.rows {
		n.writeRow(e, r)
	}
	e.Close()
}

func (n *tableNode) writeRow(e *Encoder, r *rowNode) {
	e.Word("trowd")
	e.WordN("trgaph", n.gaph)
	e.WordN("trleft", 0)
	switch n.align {
	case element.AlignCenter:
		e.Word("trqc")
	case element.AlignRight:
		e.Word("trqr")
	}
	if r.header {
		e.Word("trhdr")
	}
	if n.keep {
		e.Word("trkeep")
	}
	if n.spacing > 0 {
		for _, side := range [...]string{"l", "t", "r", "b"} {
			e.WordN("trspd"+side, n.spacing)
		}
		for _, side := range [...]string{"l", "t", "r", "b"} {
			e.WordN("trspdf"+side, 3)
		}
	}
	for _, c := range r.cells {
		n.writeDefinition(e, c)
	}
	for _, c := range r.cells {
		c.writeContent(e)
	}
	e.Word("row")
}

func (n *tableNode) writeDefinition(e *Encoder, c *cellNode) {
	switch c.merge {
	case layout.MergeParent:
		e.Word("clvmgf")
	case layout.MergeChild:
		e.Word("clvmrg")
	}
	switch c.valign {
	case element.AlignTop:
		e.Word("clvertalt")
	case element.AlignBottom, element.AlignBaseline:
		e.Word("clvertalb")
	default:
		e.Word("clvertalc")
	}
	for _, b := range cellBorders {
		if !c.border.Has(b.side) {
			continue
		}
		e.Word(b.word)
		e.Word("brdrs")
		e.WordN("brdrw", c.bw)
		e.WordN("brdrcf", c.bc)
	}
	e.WordN("clcbpat", c.bg)
	e.WordN("clftsWidth", 3)
	e.WordN("clwWidth", c.width)
	if n.padding > 0 {
		for _, side := range [...]string{"l", "t", "r", "b"} {
			e.WordN("clpad"+side, n.padding)
		}
		for _, side := range [...]string{"l", "t", "r", "b"} {
			e.WordN("clpadf"+side, 3)
		}
	}
	e.WordN("cellx", c.right)
}

func (c *cellNode) writeContent(e *Encoder) {
	if len(c.content) == 0 {
		e.Word("pard")
		e.Word("plain")
		e.Word("intbl")
	}
	for i, p := range c.content {
		if i > 0 {
			e.Word("par")
		}
		p.Write(e)
	}
	e.Word("cell")
}

func (n *tableNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Attrs(depth, "table", "width", n.width, "align", n.align.String(), "rows", len(n.rows), "padding", n.padding)
	for i, r := range n.rows {
		tw.Attrs(depth+1, "row", "index", i, "header", r.header)
		for _, c := range r.cells {
			tw.Attrs(depth+2, c.kind.String(), "right", c.right, "width", c.width, "merge", int(c.merge), "border", int(c.border), "bg", c.bg)
			for _, p := range c.content {
				p.Dump(tw, depth+3)
			}
		}
	}
}
