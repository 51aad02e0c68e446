package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"rtfgen/element"
)

func kinds(row GridRow) []SlotKind {
	res := make([]SlotKind, len(row.Slots))
	for i, s := range row.Slots {
		res[i] = s.Kind
	}
	return res
}

func TestComputeSpanningRow(t *testing.T) {
	tbl := element.NewTable(2)
	r1 := tbl.AddRow()
	r1.AddCell("A")
	r1.AddCell("B")
	tbl.AddRow().AddCell("C").Span(2, 1)

	g, err := Compute(tbl, Options{Available: 10000}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	first, second := g.Rows[0].Records(), g.Rows[1].Records()
	if len(first) != 2 || len(second) != 1 {
		t.Fatalf("records per row = %d, %d", len(first), len(second))
	}
	if first[0].Width != first[1].Width {
		t.Errorf("columns are not equal: %d != %d", first[0].Width, first[1].Width)
	}
	if second[0].Width != first[0].Width+first[1].Width {
		t.Errorf("spanning width = %d, want %d", second[0].Width, first[0].Width+first[1].Width)
	}
	if second[0].Right != first[1].Right {
		t.Errorf("spanning right = %d, want %d", second[0].Right, first[1].Right)
	}
	if g.Width != 8000 {
		t.Errorf("table width = %d, want 8000", g.Width)
	}
	for i, row := range g.Rows {
		if len(row.Slots) != g.Columns {
			t.Errorf("row %d has %d slots", i, len(row.Slots))
		}
	}
	if diff := cmp.Diff([]SlotKind{SlotCell, SlotCovered}, kinds(g.Rows[1])); diff != "" {
		t.Errorf("slot kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeVerticalMerge(t *testing.T) {
	tbl := element.NewTable(3)
	bg := element.Color{R: 200}
	r0 := tbl.AddRow()
	parent := r0.AddCell("X").Span(1, 3)
	parent.Background = &bg
	r0.AddCell("Y")
	r0.AddCell("Z")
	r1 := tbl.AddRow()
	r1.AddCell("P")
	r1.AddCell("Q")
	tbl.AddRow().AddCell("R")

	g, err := Compute(tbl, Options{Available: 9000, WidthPercent: 100}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := [][]SlotKind{
		{SlotCell, SlotCell, SlotCell},
		{SlotMergeChild, SlotCell, SlotCell},
		{SlotMergeChild, SlotCell, SlotFiller},
	}
	for i, row := range g.Rows {
		if diff := cmp.Diff(want[i], kinds(row)); diff != "" {
			t.Errorf("row %d kinds mismatch (-want +got):\n%s", i, diff)
		}
	}

	origin := g.Rows[0].Slots[0]
	if origin.Merge != MergeParent || origin.RowSpan != 3 {
		t.Errorf("origin merge = %v, rowspan = %d", origin.Merge, origin.RowSpan)
	}
	for r := 1; r < 3; r++ {
		child := g.Rows[r].Slots[0]
		if child.Merge != MergeChild || child.Cell != parent {
			t.Errorf("row %d child = %+v", r, child)
		}
		if child.Right != origin.Right || child.Width != origin.Width {
			t.Errorf("row %d child geometry %d/%d, want %d/%d", r, child.Right, child.Width, origin.Right, origin.Width)
		}
		if child.Parent != (Pos{Row: 0, Col: 0}) {
			t.Errorf("row %d child parent = %+v", r, child.Parent)
		}
	}
	if diff := cmp.Diff([]int{3000, 6000, 9000}, g.Rights); diff != "" {
		t.Errorf("rights mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeMergedBlock(t *testing.T) {
	tbl := element.NewTable(3)
	r0 := tbl.AddRow()
	r0.AddCell("a").Span(2, 2)
	r0.AddCell("b")
	tbl.AddRow().AddCell("c")

	g, err := Compute(tbl, Options{Available: 3000, WidthPercent: 100}, nil)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if diff := cmp.Diff([]SlotKind{SlotMergeChild, SlotCovered, SlotCell}, kinds(g.Rows[1])); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	recs := g.Rows[1].Records()
	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0].Width != 2000 || recs[0].Right != 2000 || recs[1].Right != 3000 {
		t.Errorf("unexpected records %+v", recs)
	}
}

func TestComputeClampsRowSpan(t *testing.T) {
	tbl := element.NewTable(1)
	tbl.AddRow().AddCell("tall").Span(0, 5)
	tbl.AddRow()

	g, err := Compute(tbl, Options{Available: 1000}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := g.Rows[0].Slots[0]; got.RowSpan != 2 || got.ColSpan != 1 {
		t.Errorf("origin spans = %d/%d", got.ColSpan, got.RowSpan)
	}
	if got := g.Rows[1].Slots[0].Kind; got != SlotMergeChild {
		t.Errorf("second row kind = %v", got)
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *element.Table
		want  error
	}{
		{
			name:  "no columns",
			build: func() *element.Table { return element.NewTable(0) },
			want:  ErrNoColumns,
		},
		{
			name: "span past columns",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				tbl.AddRow().AddCell("wide").Span(3, 1)
				return tbl
			},
			want: ErrSpanOverflow,
		},
		{
			name: "too many cells",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				r := tbl.AddRow()
				r.AddCell("1")
				r.AddCell("2")
				r.AddCell("3")
				return tbl
			},
			want: ErrSpanOverflow,
		},
		{
			name: "overlaps merge from above",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				r := tbl.AddRow()
				r.AddCell("1")
				r.AddCell("2").Span(1, 2)
				tbl.AddRow().AddCell("wide").Span(2, 1)
				return tbl
			},
			want: ErrSpanOverflow,
		},
		{
			name: "nil cell",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				r := tbl.AddRow()
				r.AddCell("1")
				r.Cells = append(r.Cells, nil)
				return tbl
			},
			want: ErrMissingCell,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.build(), Options{Available: 1000}, zaptest.NewLogger(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Compute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeWidths(t *testing.T) {
	tests := []struct {
		name       string
		build      func() *element.Table
		opts       Options
		wantWidth  int
		wantRights []int
	}{
		{
			name: "absolute table width with relative columns",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				tbl.Width = 300
				tbl.Widths = []float64{1, 3}
				tbl.AddRow()
				return tbl
			},
			opts:       Options{Available: 10000},
			wantWidth:  6000,
			wantRights: []int{1500, 6000},
		},
		{
			name: "absolute cell widths define table width",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				r := tbl.AddRow()
				r.AddCell("a").Width = 100
				r.AddCell("b").Width = 50
				return tbl
			},
			opts:       Options{Available: 10000},
			wantWidth:  3000,
			wantRights: []int{2000, 3000},
		},
		{
			name: "cell percentages",
			build: func() *element.Table {
				tbl := element.NewTable(2)
				r := tbl.AddRow()
				r.AddCell("a").WidthPercent = 25
				r.AddCell("b").WidthPercent = 75
				return tbl
			},
			opts:       Options{Available: 10000, WidthPercent: 50},
			wantWidth:  5000,
			wantRights: []int{1250, 5000},
		},
		{
			name: "partial widths fall back to equal columns",
			build: func() *element.Table {
				tbl := element.NewTable(3)
				tbl.Widths = []float64{1, 0, 2}
				tbl.WidthPercent = 60
				tbl.AddRow().AddCell("a").Width = 10
				return tbl
			},
			opts:       Options{Available: 10000},
			wantWidth:  6000,
			wantRights: []int{2000, 4000, 6000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Compute(tt.build(), tt.opts, zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if g.Width != tt.wantWidth {
				t.Errorf("Width = %d, want %d", g.Width, tt.wantWidth)
			}
			if diff := cmp.Diff(tt.wantRights, g.Rights); diff != "" {
				t.Errorf("rights mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeNilRow(t *testing.T) {
	tbl := element.NewTable(2)
	r := tbl.AddRow()
	r.AddCell("1")
	r.AddCell("2")
	tbl.Rows = append(tbl.Rows, nil)

	g, err := Compute(tbl, Options{Available: 1000}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if diff := cmp.Diff([]SlotKind{SlotFiller, SlotFiller}, kinds(g.Rows[1])); diff != "" {
		t.Errorf("nil row slot kinds mismatch (-want +got):\n%s", diff)
	}
}
