package element

// DefaultBorderWidth in points.
const DefaultBorderWidth = 0.5

// Table is a grid of cells with declared column count. Widths are relative
// column weights, Width is absolute width in points and WidthPercent is
// width relative to text area, first one set wins.
type Table struct {
	Columns      int
	Widths       []float64
	Width        float64
	WidthPercent float64
	// Padding inside cells in points, negative means default.
	Padding float64
	// Spacing between cells in points.
	Spacing     float64
	Alignment   Alignment
	Border      Border
	BorderWidth float64
	BorderColor *Color
	// HeaderRows are repeated on every page.
	HeaderRows int
	// KeepTogether asks to keep rows on one page.
	KeepTogether bool
	Rows         []*Row
}

func (*Table) Kind() Kind { return KindTable }

// NewTable returns boxed table with requested number of columns.
func NewTable(columns int) *Table {
	return &Table{Columns: columns, Border: BorderBox, BorderWidth: DefaultBorderWidth, Padding: -1}
}

// AddRow appends new empty row.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.Rows = append(t.Rows, r)
	return r
}

// Row is an ordered sequence of cells.
type Row struct {
	Cells []*Cell
}

func (*Row) Kind() Kind { return KindRow }

// AddCell appends cell with text content.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{ColSpan: 1, RowSpan: 1}
	if text != "" {
		c.Content = append(c.Content, NewChunk(text, Font{}))
	}
	r.Cells = append(r.Cells, c)
	return c
}

// Cell holds nested content. Spans below 1 are treated as 1. Zero Border
// inherits table borders, nil Background means white.
type Cell struct {
	ColSpan      int
	RowSpan      int
	Width        float64
	WidthPercent float64
	HAlign       Alignment
	VAlign       Alignment
	Border       Border
	BorderWidth  float64
	BorderColor  *Color
	Background   *Color
	Content      []Element
}

func (*Cell) Kind() Kind { return KindCell }

// Add appends content, it returns cell for chaining.
func (c *Cell) Add(els ...Element) *Cell {
	c.Content = append(c.Content, els...)
	return c
}

// Span sets column and row spans, it returns cell for chaining.
func (c *Cell) Span(cols, rows int) *Cell {
	c.ColSpan, c.RowSpan = cols, rows
	return c
}

// EffectiveColSpan returns column span clamped to at least 1.
func (c *Cell) EffectiveColSpan() int {
	return max(c.ColSpan, 1)
}

// EffectiveRowSpan returns row span clamped to at least 1.
func (c *Cell) EffectiveRowSpan() int {
	return max(c.RowSpan, 1)
}
