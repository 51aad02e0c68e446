// Package layout resolves table geometry: column edges, cell placement and
// vertical merges. All lengths are in twips.
package layout

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"rtfgen/element"
)

// DefaultWidthPercent is table width relative to text area when neither
// table nor options define it.
const DefaultWidthPercent = 80

var (
	ErrNoColumns    = errors.New("table has no columns")
	ErrSpanOverflow = errors.New("cell spans past declared columns")
	ErrMissingCell  = errors.New("row holds nil cell")
)

// SlotKind tells what occupies grid position.
type SlotKind int

const (
	// SlotCell is origin of authored cell.
	SlotCell SlotKind = iota
	// SlotMergeChild is placeholder continuing vertical merge from above.
	SlotMergeChild
	// SlotFiller is synthesized empty cell completing short row.
	SlotFiller
	// SlotCovered is position covered by column span of slot to its left,
	// it is never emitted.
	SlotCovered
)

func (k SlotKind) String() string {
	switch k {
	case SlotCell:
		return "cell"
	case SlotMergeChild:
		return "merge-child"
	case SlotFiller:
		return "filler"
	case SlotCovered:
		return "covered"
	}
	return "unknown"
}

// Merge is vertical merge role of a slot.
type Merge int

const (
	MergeNone Merge = iota
	MergeParent
	MergeChild
)

// Pos addresses grid slot.
type Pos struct {
	Row, Col int
}

// Slot is a single grid position. For merge children and covered slots
// Cell points to the originating cell, for fillers it is nil.
type Slot struct {
	Kind    SlotKind
	Col     int
	ColSpan int
	RowSpan int
	Right   int
	Width   int
	Merge   Merge
	Cell    *element.Cell
	Parent  Pos
}

// GridRow has exactly Grid.Columns slots indexed by column.
type GridRow struct {
	Source *element.Row
	Slots  []Slot
}

// Records returns slots to be emitted as cell definitions, in column order.
func (r GridRow) Records() []Slot {
	res := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Kind != SlotCovered {
			res = append(res, s)
		}
	}
	return res
}

// Grid is resolved table layout.
type Grid struct {
	Columns int
	Width   int
	// Rights are right edges of columns relative to table left edge.
	Rights []int
	Rows   []GridRow
}

// Left returns left edge of column.
func (g *Grid) Left(col int) int {
	if col <= 0 {
		return 0
	}
	return g.Rights[col-1]
}

// Options describe space table is placed into.
type Options struct {
	// Available is width of text area.
	Available int
	// WidthPercent is used for tables without explicit width, zero means
	// DefaultWidthPercent.
	WidthPercent float64
}

// Compute places table cells on a grid with t.Columns columns and resolves
// column edges.
func Compute(t *element.Table, opts Options, log *zap.Logger) (*Grid, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if t.Columns <= 0 {
		return nil, fmt.Errorf("%d columns requested: %w", t.Columns, ErrNoColumns)
	}

	g := &Grid{Columns: t.Columns, Rows: make([]GridRow, len(t.Rows))}
	if err := g.place(t, log); err != nil {
		return nil, err
	}
	g.resolveWidths(t, opts, log)
	return g, nil
}

func (g *Grid) place(t *element.Table, log *zap.Logger) error {
	n, rows := g.Columns, len(t.Rows)
	occupied := make([][]bool, rows)
	for r := range g.Rows {
		g.Rows[r] = GridRow{Source: t.Rows[r], Slots: make([]Slot, n)}
		occupied[r] = make([]bool, n)
	}

	claim := func(r, col, span int) error {
		for k := col; k < col+span; k++ {
			if occupied[r][k] {
				return fmt.Errorf("row %d column %d is already occupied: %w", r, k, ErrSpanOverflow)
			}
			occupied[r][k] = true
		}
		return nil
	}

	for r, row := range t.Rows {
		var cells []*element.Cell
		if row != nil {
			cells = row.Cells
		} else {
			log.Debug("Nil row treated as empty", zap.Int("row", r))
		}
		col := 0
		for i, cell := range cells {
			if cell == nil {
				return fmt.Errorf("row %d cell %d: %w", r, i, ErrMissingCell)
			}
			for col < n && occupied[r][col] {
				col++
			}
			cs, rs := cell.EffectiveColSpan(), cell.EffectiveRowSpan()
			if col+cs > n {
				return fmt.Errorf("row %d cell %d at column %d with span %d: %w", r, i, col, cs, ErrSpanOverflow)
			}
			if r+rs > rows {
				log.Debug("Row span clamped to table end", zap.Int("row", r), zap.Int("cell", i), zap.Int("rowspan", rs), zap.Int("clamped", rows-r))
				rs = rows - r
			}

			merge := MergeNone
			if rs > 1 {
				merge = MergeParent
			}
			origin := Pos{Row: r, Col: col}
			for rr := r; rr < r+rs; rr++ {
				if err := claim(rr, col, cs); err != nil {
					return err
				}
				s := Slot{Kind: SlotCell, Col: col, ColSpan: cs, RowSpan: rs, Merge: merge, Cell: cell, Parent: origin}
				if rr > r {
					s.Kind, s.RowSpan, s.Merge = SlotMergeChild, 1, MergeChild
				}
				slots := g.Rows[rr].Slots
				slots[col] = s
				for k := col + 1; k < col+cs; k++ {
					slots[k] = Slot{Kind: SlotCovered, Col: k, ColSpan: 1, RowSpan: 1, Cell: cell, Parent: origin}
				}
			}
			col += cs
		}
		for k := range n {
			if !occupied[r][k] {
				occupied[r][k] = true
				g.Rows[r].Slots[k] = Slot{Kind: SlotFiller, Col: k, ColSpan: 1, RowSpan: 1, Parent: Pos{Row: r, Col: k}}
			}
		}
	}
	return nil
}

func (g *Grid) resolveWidths(t *element.Table, opts Options, log *zap.Logger) {
	n := g.Columns

	var absolute, percent []float64
	for _, row := range g.Rows {
		for _, s := range row.Slots {
			if s.Kind != SlotCell || s.ColSpan != 1 {
				continue
			}
			if s.Cell.Width > 0 {
				absolute = setOnce(absolute, n, s.Col, s.Cell.Width)
			}
			if s.Cell.WidthPercent > 0 {
				percent = setOnce(percent, n, s.Col, s.Cell.WidthPercent)
			}
		}
	}

	var weights []float64
	switch {
	case len(t.Widths) == n && allPositive(t.Widths):
		weights = t.Widths
	case allPositive(absolute):
		weights = absolute
	case allPositive(percent):
		weights = percent
	default:
		log.Debug("Unable to derive column widths, using equal columns", zap.Int("columns", n))
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
	}

	switch {
	case t.Width > 0:
		g.Width = element.Twips(t.Width)
	case allPositive(absolute) && (len(t.Widths) != n || !allPositive(t.Widths)):
		var sum float64
		for _, w := range absolute {
			sum += w
		}
		g.Width = element.Twips(sum)
	default:
		pct := t.WidthPercent
		if pct <= 0 {
			pct = opts.WidthPercent
		}
		if pct <= 0 {
			pct = DefaultWidthPercent
		}
		g.Width = int(math.Round(float64(opts.Available) * pct / 100))
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	g.Rights = make([]int, n)
	var cum float64
	for c, w := range weights {
		cum += w
		g.Rights[c] = int(math.Round(float64(g.Width) * cum / sum))
	}

	for r := range g.Rows {
		for k := range g.Rows[r].Slots {
			s := &g.Rows[r].Slots[k]
			s.Right = g.Rights[s.Col+s.ColSpan-1]
			s.Width = s.Right - g.Left(s.Col)
		}
	}
}

func setOnce(vals []float64, n, col int, v float64) []float64 {
	if vals == nil {
		vals = make([]float64, n)
	}
	if vals[col] <= 0 {
		vals[col] = v
	}
	return vals
}

func allPositive(vals []float64) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if v <= 0 {
			return false
		}
	}
	return true
}
