package element

import (
	"strconv"
	"strings"
)

// Chunk is a run of text sharing one font.
type Chunk struct {
	Text string
	Font Font
}

func (*Chunk) Kind() Kind { return KindChunk }

// NewChunk returns element holding text run.
func NewChunk(text string, font Font) Element {
	return Of(&Chunk{Text: text, Font: font})
}

// Phrase is a sequence of inline elements with common font.
type Phrase struct {
	Font    Font
	Leading float64
	Content []Element
}

func (*Phrase) Kind() Kind { return KindPhrase }

// Add appends children, it returns phrase for chaining.
func (p *Phrase) Add(els ...Element) *Phrase {
	p.Content = append(p.Content, els...)
	return p
}

// AddText appends chunk in phrase font.
func (p *Phrase) AddText(text string) *Phrase {
	return p.Add(NewChunk(text, Font{}))
}

func (p *Phrase) Text() string {
	var b strings.Builder
	for _, el := range p.Content {
		b.WriteString(el.Text())
	}
	return b.String()
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Phrase
	Alignment       Alignment
	IndentLeft      float64
	IndentRight     float64
	FirstLineIndent float64
	SpacingBefore   float64
	SpacingAfter    float64
	KeepTogether    bool
}

func (*Paragraph) Kind() Kind { return KindParagraph }

// NewParagraph returns paragraph with single text run.
func NewParagraph(text string, font Font) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.Add(NewChunk(text, Font{}))
	}
	p.Font = font
	return p
}

// Anchor is a hyperlink and/or named target.
type Anchor struct {
	Phrase
	// Reference is external URL or "#name" of target in the same document.
	Reference string
	// Name makes anchor a bookmark.
	Name string
}

func (*Anchor) Kind() Kind { return KindAnchor }

// List is numbered or bulleted sequence of items.
type List struct {
	Numbered bool
	// Symbol used for bullets, defaults to U+2022.
	Symbol string
	// Start number for numbered list, defaults to 1.
	Start int
	// Indent of item text in points, defaults to 18.
	Indent float64
	Font   Font
	Items  []*ListItem
}

func (*List) Kind() Kind { return KindList }

// AddItem appends item with text.
func (l *List) AddItem(text string) *ListItem {
	it := &ListItem{}
	it.AddText(text)
	l.Items = append(l.Items, it)
	return it
}

// ListItem is a paragraph inside list, Sublist is optional nested list.
type ListItem struct {
	Paragraph
	Sublist *List
}

func (*ListItem) Kind() Kind { return KindListItem }

// Section is a titled container, depth 1 is a chapter.
type Section struct {
	Title *Paragraph
	Depth int
	// Numbers prefix title with "1.2. " style numbering when not empty.
	Numbers []int
	// PageBreakBefore starts section from new page.
	PageBreakBefore bool
	// Bookmark names section title so anchors may refer to it.
	Bookmark string
	Content  []Element
}

func (*Section) Kind() Kind { return KindSection }

// Add appends children, it returns section for chaining.
func (s *Section) Add(els ...Element) *Section {
	s.Content = append(s.Content, els...)
	return s
}

// AddSection appends subsection one level deeper.
func (s *Section) AddSection(title string) *Section {
	sub := &Section{Title: NewParagraph(title, Font{}), Depth: s.Depth + 1}
	if len(s.Numbers) > 0 {
		n := 1
		for _, el := range s.Content {
			if el.Kind == KindSection {
				n++
			}
		}
		sub.Numbers = append(append([]int{}, s.Numbers...), n)
	}
	s.Add(Of(sub))
	return sub
}

// NumberPrefix returns "1.2. " style prefix, empty for unnumbered section.
func (s *Section) NumberPrefix() string {
	var b strings.Builder
	for _, n := range s.Numbers {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte('.')
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	return b.String()
}

// NumberedTitle returns title text with numbering prefix.
func (s *Section) NumberedTitle() string {
	if s.Title == nil {
		return s.NumberPrefix()
	}
	return s.NumberPrefix() + s.Title.Text()
}

// TOC is a table of contents field filled by word processor.
type TOC struct {
	Title string
	// Levels of headings to include, defaults to 3.
	Levels int
}

func (*TOC) Kind() Kind { return KindTOC }

// HeaderFooter describes page header or footer, page number is placed
// between Before and After when requested.
type HeaderFooter struct {
	Before      *Phrase
	After       *Phrase
	PageNumbers bool
	Alignment   Alignment
}
