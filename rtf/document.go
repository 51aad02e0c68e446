package rtf

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtfgen/element"
	"rtfgen/misc"
	"rtfgen/utils/debug"
)

// Margins in points.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// PageSetting describes paper, sizes are in points and already reflect
// orientation.
type PageSetting struct {
	Width     float64
	Height    float64
	Margins   Margins
	Landscape bool
}

// ContentWidth returns width of text area in points.
func (p PageSetting) ContentWidth() float64 {
	return max(p.Width-p.Margins.Left-p.Margins.Right, 0)
}

func (p PageSetting) write(e *Encoder) {
	e.WordN("paperw", element.Twips(p.Width))
	e.WordN("paperh", element.Twips(p.Height))
	e.WordN("margl", element.Twips(p.Margins.Left))
	e.WordN("margr", element.Twips(p.Margins.Right))
	e.WordN("margt", element.Twips(p.Margins.Top))
	e.WordN("margb", element.Twips(p.Margins.Bottom))
	if p.Landscape {
		e.Word("landscape")
	}
}

// DefaultMargins are one inch on every side.
var DefaultMargins = Margins{Left: 72, Right: 72, Top: 72, Bottom: 72}

// Info is document metadata.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	// Created is omitted from output when zero.
	Created time.Time
}

func (i Info) write(e *Encoder) {
	e.Open()
	e.Word("info")
	for _, f := range [...]struct{ word, value string }{
		{"title", i.Title},
		{"author", i.Author},
		{"subject", i.Subject},
		{"keywords", i.Keywords},
		{"doccomm", i.Creator},
	} {
		if f.value == "" {
			continue
		}
		e.Open()
		e.Word(f.word)
		e.Text(f.value)
		e.Close()
	}
	if !i.Created.IsZero() {
		e.Open()
		e.Word("creatim")
		e.WordN("yr", i.Created.Year())
		e.WordN("mo", int(i.Created.Month()))
		e.WordN("dy", i.Created.Day())
		e.WordN("hr", i.Created.Hour())
		e.WordN("min", i.Created.Minute())
		e.Close()
	}
	e.Close()
}

// headerFooterNode is page header or footer.
type headerFooterNode struct {
	word string
	para *paragraphNode
}

func (n *headerFooterNode) Write(e *Encoder) {
	e.Open()
	e.Word(n.word)
	n.para.Write(e)
	e.Close()
}

func (n *headerFooterNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Line(depth, "%s", n.word)
	n.para.Dump(tw, depth+1)
}

// Document accumulates adapted content and owns everything shared by it:
// registries, page setting and diagnostics. It is encoded once.
type Document struct {
	Colors *ColorRegistry
	Fonts  *FontRegistry
	Styles *StyleSheet

	Page   PageSetting
	Info   Info
	LCID   int
	Images ImageOptions

	// TableWidthPercent is width of tables without explicit width.
	TableWidthPercent float64
	// CellPadding in points, used when table does not define it.
	CellPadding float64

	autoTOC bool
	header  Node
	footer  Node
	nodes   []Node
	diags   []error
	closed  bool
	log     *zap.Logger
}

// NewDocument creates empty document, base font becomes font 0 and
// defines Normal style.
func NewDocument(base element.Font, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	if base.Family == "" {
		base.Family = "Times New Roman"
	}
	if base.Size <= 0 {
		base.Size = element.DefaultFontSize
	}
	fonts := NewFontRegistry(base)
	return &Document{
		Colors:  NewColorRegistry(),
		Fonts:   fonts,
		Styles:  NewStyleSheet(fonts, base),
		Page:    PageSetting{Width: element.PageA4.Width(), Height: element.PageA4.Height(), Margins: DefaultMargins},
		LCID:    defaultLCID,
		Images:  DefaultImageOptions(),
		autoTOC: true,
		log:     log,
	}
}

// BaseFont returns font all content inherits from.
func (d *Document) BaseFont() element.Font {
	return d.Styles.Normal().Font
}

func (d *Document) AutoTOC() bool {
	return d.autoTOC
}

// SetAutoTOC selects whether sections added afterwards produce TOC entries
// and how TOC fields are built.
func (d *Document) SetAutoTOC(on bool) {
	d.autoTOC = on
}

// Add appends top level nodes.
func (d *Document) Add(nodes ...Node) error {
	if d.closed {
		return ErrClosed
	}
	d.nodes = append(d.nodes, nodes...)
	return nil
}

func (d *Document) SetHeader(n Node) error {
	if d.closed {
		return ErrClosed
	}
	d.header = n
	return nil
}

func (d *Document) SetFooter(n Node) error {
	if d.closed {
		return ErrClosed
	}
	d.footer = n
	return nil
}

// Len returns number of top level nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Record keeps content error for diagnostics.
func (d *Document) Record(err error) {
	d.log.Warn("Content skipped", zap.Error(err))
	d.diags = append(d.diags, err)
}

// Diagnostics returns all recorded content errors combined, nil when
// there were none.
func (d *Document) Diagnostics() error {
	return multierr.Combine(d.diags...)
}

// Encode writes complete document. Document cannot be changed afterwards.
func (d *Document) Encode(w io.Writer) error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true

	e := NewEncoder(w)
	e.Open()
	e.WordN("rtf", 1)
	e.Word("ansi")
	e.WordN("ansicpg", 1252)
	e.WordN("deff", 0)
	e.WordN("deflang", d.LCID)
	e.WordN("uc", 1)
	e.Raw("\n")

	d.Fonts.WriteTable(e)
	e.Raw("\n")
	d.Colors.WriteTable(e)
	e.Raw("\n")
	d.Styles.WriteTable(e)
	e.Raw("\n")
	d.Info.write(e)
	e.Raw("\n")
	e.Destination("generator")
	e.Text(misc.GetGenerator())
	e.Raw(";")
	e.Close()
	e.Raw("\n")
	d.Page.write(e)
	e.Raw("\n")

	if d.header != nil {
		d.header.Write(e)
		e.Raw("\n")
	}
	if d.footer != nil {
		d.footer.Write(e)
		e.Raw("\n")
	}
	for _, n := range d.nodes {
		e.Open()
		n.Write(e)
		e.Close()
		e.Raw("\n")
	}
	e.Close()

	if err := e.Flush(); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	d.log.Debug("Document encoded", zap.Int("nodes", len(d.nodes)), zap.Int("fonts", d.Fonts.Len()), zap.Int("colors", d.Colors.Len()))
	return nil
}

// Dump returns human readable description of document content.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "document")
	tw.Attrs(1, "page", "width", element.Twips(d.Page.Width), "height", element.Twips(d.Page.Height), "landscape", d.Page.Landscape)
	tw.Attrs(1, "info", "title", d.Info.Title, "author", d.Info.Author, "lcid", d.LCID, "auto-toc", d.autoTOC)
	d.Fonts.dump(tw, 1)
	d.Colors.dump(tw, 1)
	if d.header != nil {
		d.header.Dump(tw, 1)
	}
	if d.footer != nil {
		d.footer.Dump(tw, 1)
	}
	tw.Line(1, "nodes=%d", len(d.nodes))
	for _, n := range d.nodes {
		n.Dump(tw, 2)
	}
	if len(d.diags) > 0 {
		tw.Line(1, "diagnostics=%d", len(d.diags))
		for _, err := range d.diags {
			tw.TextBlock(2, "error", err.Error())
		}
	}
	return tw.String()
}
