package rtf

import (
	"strings"

	"rtfgen/element"
	"rtfgen/utils/debug"
)

// Node is adapted content ready for output. All registry indexes a node
// refers to are resolved when node is created.
type Node interface {
	Write(e *Encoder)
	Dump(tw *debug.TreeWriter, depth int)
}

// writeFont emits character formatting. Zero color index means automatic
// color.
func writeFont(e *Encoder, index int, f element.Font, color int) {
	e.WordN("f", index)
	e.WordN("fs", halfPoints(f.CalculatedSize()))
	if f.IsBold() {
		e.Word("b")
	}
	if f.IsItalic() {
		e.Word("i")
	}
	if f.IsUnderline() {
		e.Word("ul")
	}
	if f.IsStrike() {
		e.Word("strike")
	}
	if color > 0 {
		e.WordN("cf", color)
	}
}

func halfPoints(size float64) int {
	return int(size*2 + 0.5)
}

// runNode is a text run with single character formatting.
type runNode struct {
	text  string
	font  element.Font
	index int
	color int
}

func (n *runNode) Write(e *Encoder) {
	e.Open()
	writeFont(e, n.index, n.font, n.color)
	e.Text(n.text)
	e.Close()
}

func (n *runNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Attrs(depth, "run", "f", n.index, "size", n.font.CalculatedSize(), "style", n.font.Style, "cf", n.color)
	tw.TextBlock(depth+1, "text", n.text)
}

// fieldNode is a field with instruction and precalculated result.
type fieldNode struct {
	instr string
	// editable fields are TOC-like, word processor keeps result formatting
	edit   bool
	result []Node
}

func (n *fieldNode) Write(e *Encoder) {
	e.Open()
	e.Word("field")
	if n.edit {
		e.Word("fldedit")
	}
	e.Destination("fldinst")
	e.Text(n.instr)
	e.Close()
	e.Open()
	e.Word("fldrslt")
	for _, c := range n.result {
		c.Write(e)
	}
	e.Close()
	e.Close()
}

func (n *fieldNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.TextBlock(depth, "field", n.instr)
	for _, c := range n.result {
		c.Dump(tw, depth+1)
	}
}

func hyperlinkInstr(ref string) string {
	if name, ok := strings.CutPrefix(ref, "#"); ok {
		return `HYPERLINK \l "` + bookmarkName(name) + `"`
	}
	return `HYPERLINK "` + strings.ReplaceAll(ref, `"`, "%22") + `"`
}

// pageNumberField produces current page number.
func pageNumberField(run *runNode) *fieldNode {
	return &fieldNode{instr: "PAGE", result: []Node{run}}
}

// bookmarkNode names its content so hyperlinks and TOC may refer to it.
type bookmarkNode struct {
	name    string
	content []Node
}

func (n *bookmarkNode) Write(e *Encoder) {
	e.Destination("bkmkstart")
	e.Text(n.name)
	e.Close()
	for _, c := range n.content {
		c.Write(e)
	}
	e.Destination("bkmkend")
	e.Text(n.name)
	e.Close()
}

func (n *bookmarkNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Attrs(depth, "bookmark", "name", n.name)
	for _, c := range n.content {
		c.Dump(tw, depth+1)
	}
}

// bookmarkName makes name acceptable for word processors.
func bookmarkName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '"', '\\', '{', '}':
			return '_'
		}
		return r
	}, name)
}

type pageBreakNode struct{}

func (pageBreakNode) Write(e *Encoder) {
	e.Word("page")
}

func (pageBreakNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Line(depth, "page-break")
}
