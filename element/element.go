// Package element describes document content independently of the output
// format. Values are built once and treated as read-only afterwards.
package element

// Kind names variant carried by Element.
type Kind int

const (
	KindNone Kind = iota
	KindChunk
	KindPhrase
	KindParagraph
	KindAnchor
	KindList
	KindListItem
	KindTable
	KindRow
	KindCell
	KindImage
	KindSection
	KindTOC
)

var kindNames = [...]string{"none", "chunk", "phrase", "paragraph", "anchor", "list", "list-item", "table", "row", "cell", "image", "section", "toc"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Caps is a capability set of element kind.
type Caps uint8

const (
	// CapContainer - element holds ordered children.
	CapContainer Caps = 1 << iota
	// CapNestable - element may be placed inside table cell.
	CapNestable
	// CapText - element carries text directly or through children.
	CapText
)

func (c Caps) Has(x Caps) bool {
	return c&x == x
}

var kindCaps = map[Kind]Caps{
	KindChunk:     CapNestable | CapText,
	KindPhrase:    CapContainer | CapNestable | CapText,
	KindParagraph: CapContainer | CapNestable | CapText,
	KindAnchor:    CapContainer | CapNestable | CapText,
	KindList:      CapContainer | CapNestable,
	KindListItem:  CapContainer | CapNestable | CapText,
	KindTable:     CapContainer,
	KindRow:       CapContainer,
	KindCell:      CapContainer,
	KindImage:     CapNestable,
	KindSection:   CapContainer | CapText,
}

// Caps returns capability set of the kind.
func (k Kind) Caps() Caps {
	return kindCaps[k]
}

// Inline reports whether element of this kind has to be wrapped into a
// paragraph when it appears on its own.
func (k Kind) Inline() bool {
	switch k {
	case KindChunk, KindPhrase, KindAnchor, KindImage:
		return true
	}
	return false
}

// Payload is implemented by every element variant.
type Payload interface {
	Kind() Kind
}

// Element is a tagged variant, exactly one payload pointer matching Kind is
// set.
type Element struct {
	Kind      Kind
	Chunk     *Chunk
	Phrase    *Phrase
	Paragraph *Paragraph
	Anchor    *Anchor
	List      *List
	ListItem  *ListItem
	Table     *Table
	Row       *Row
	Cell      *Cell
	Image     *Image
	Section   *Section
	TOC       *TOC
}

// Of wraps payload into Element.
func Of(p Payload) Element {
	el := Element{Kind: p.Kind()}
	switch x := p.(type) {
	case *Chunk:
		el.Chunk = x
	case *Phrase:
		el.Phrase = x
	case *Paragraph:
		el.Paragraph = x
	case *Anchor:
		el.Anchor = x
	case *List:
		el.List = x
	case *ListItem:
		el.ListItem = x
	case *Table:
		el.Table = x
	case *Row:
		el.Row = x
	case *Cell:
		el.Cell = x
	case *Image:
		el.Image = x
	case *Section:
		el.Section = x
	case *TOC:
		el.TOC = x
	default:
		el.Kind = KindNone
	}
	return el
}

// Valid reports whether payload matching Kind is present.
func (el Element) Valid() bool {
	switch el.Kind {
	case KindChunk:
		return el.Chunk != nil
	case KindPhrase:
		return el.Phrase != nil
	case KindParagraph:
		return el.Paragraph != nil
	case KindAnchor:
		return el.Anchor != nil
	case KindList:
		return el.List != nil
	case KindListItem:
		return el.ListItem != nil
	case KindTable:
		return el.Table != nil
	case KindRow:
		return el.Row != nil
	case KindCell:
		return el.Cell != nil
	case KindImage:
		return el.Image != nil
	case KindSection:
		return el.Section != nil
	case KindTOC:
		return el.TOC != nil
	}
	return false
}

// Text returns concatenated text of element and its children.
func (el Element) Text() string {
	switch el.Kind {
	case KindChunk:
		return el.Chunk.Text
	case KindPhrase:
		return el.Phrase.Text()
	case KindParagraph:
		return el.Paragraph.Text()
	case KindAnchor:
		return el.Anchor.Text()
	case KindListItem:
		return el.ListItem.Text()
	case KindSection:
		if el.Section.Title != nil {
			return el.Section.Title.Text()
		}
	}
	return ""
}
