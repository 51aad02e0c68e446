package rtf

import (
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtfgen/element"
)

type settings struct {
	page         PageSetting
	font         element.Font
	images       ImageOptions
	tablePercent float64
	padding      float64
	lang         string
	info         Info
	autoTOC      bool
	log          *zap.Logger
}

// Option configures Writer.
type Option func(*settings)

// WithPageSize sets paper size in points, landscape swaps dimensions when
// height is larger than width.
func WithPageSize(width, height float64, landscape bool) Option {
	return func(s *settings) {
		s.page.Width, s.page.Height, s.page.Landscape = orient(width, height, landscape)
	}
}

func WithMargins(m Margins) Option {
	return func(s *settings) {
		s.page.Margins = m
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithDefaultFont sets font 0 of the document.
func WithDefaultFont(f element.Font) Option {
	return func(s *settings) {
		s.font = f
	}
}

func WithImageOptions(o ImageOptions) Option {
	return func(s *settings) {
		s.images = o
	}
}

// WithTableOptions sets default table width relative to text area and
// default cell padding in points.
func WithTableOptions(widthPercent, padding float64) Option {
	return func(s *settings) {
		s.tablePercent, s.padding = widthPercent, padding
	}
}

// WithLanguage sets document language as BCP 47 tag.
func WithLanguage(tag string) Option {
	return func(s *settings) {
		s.lang = tag
	}
}

// WithInfo sets document metadata, zero creation time is replaced with
// current time.
func WithInfo(info Info) Option {
	return func(s *settings) {
		s.info = info
	}
}

// WithAutoTOC is the same as calling SetAutoTOC before adding content.
func WithAutoTOC(on bool) Option {
	return func(s *settings) {
		s.autoTOC = on
	}
}

func orient(width, height float64, landscape bool) (float64, float64, bool) {
	if landscape != (width > height) {
		width, height = height, width
	}
	return width, height, landscape
}

// Writer builds RTF document from elements and writes it to the sink on
// Close. It is not safe for concurrent use.
type Writer struct {
	sink   io.WriteCloser
	doc    *Document
	mapper *Mapper
	log    *zap.Logger
	closed bool
}

func NewWriter(w io.WriteCloser, opts ...Option) *Writer {
	s := settings{
		page:    PageSetting{Width: element.PageA4.Width(), Height: element.PageA4.Height(), Margins: DefaultMargins},
		images:  DefaultImageOptions(),
		autoTOC: true,
	}
	for _, o := range opts {
		o(&s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.info.Created.IsZero() {
		s.info.Created = time.Now()
	}

	log := s.log.Named("rtf")
	doc := NewDocument(s.font, log)
	doc.Page = s.page
	doc.Info = s.info
	doc.LCID = LCID(s.lang)
	doc.Images = s.images
	doc.TableWidthPercent = s.tablePercent
	doc.CellPadding = s.padding
	doc.SetAutoTOC(s.autoTOC)

	return &Writer{sink: w, doc: doc, mapper: NewMapper(doc, log), log: log}
}

// Document gives access to accumulated content, mostly for debugging.
func (w *Writer) Document() *Document {
	return w.doc
}

// Add adapts element and appends it to the document. Parts of the element
// which cannot be represented are skipped and reported by Diagnostics, an
// error is returned only when nothing could be added.
func (w *Writer) Add(el element.Element) error {
	if w.closed {
		return ErrClosed
	}
	res := w.mapper.Map(el)
	if len(res.Nodes) == 0 && len(res.Errs) > 0 {
		return multierr.Combine(res.Errs...)
	}
	return w.doc.Add(res.Nodes...)
}

// NewPage starts new page.
func (w *Writer) NewPage() error {
	if w.closed {
		return ErrClosed
	}
	return w.doc.Add(pageBreakNode{})
}

// SetHeader replaces page header, nil removes it.
func (w *Writer) SetHeader(hf *element.HeaderFooter) error {
	if w.closed {
		return ErrClosed
	}
	if hf == nil {
		return w.doc.SetHeader(nil)
	}
	n, _ := w.mapper.MapHeaderFooter(hf, "header")
	return w.doc.SetHeader(n)
}

// SetFooter replaces page footer, nil removes it.
func (w *Writer) SetFooter(hf *element.HeaderFooter) error {
	if w.closed {
		return ErrClosed
	}
	if hf == nil {
		return w.doc.SetFooter(nil)
	}
	n, _ := w.mapper.MapHeaderFooter(hf, "footer")
	return w.doc.SetFooter(n)
}

// SetAutoTOC selects whether section titles added afterwards carry TOC
// entries. It also selects how TOC fields added afterwards are built.
func (w *Writer) SetAutoTOC(on bool) {
	w.doc.SetAutoTOC(on)
}

func (w *Writer) SetMargins(m Margins) {
	w.doc.Page.Margins = m
}

// SetPageSize changes paper size, see WithPageSize.
func (w *Writer) SetPageSize(width, height float64, landscape bool) {
	w.doc.Page.Width, w.doc.Page.Height, w.doc.Page.Landscape = orient(width, height, landscape)
}

// Diagnostics returns combined content errors collected so far.
func (w *Writer) Diagnostics() error {
	return w.doc.Diagnostics()
}

// Close writes document and closes the sink. The sink is closed even when
// writing fails. Second call returns ErrClosed.
func (w *Writer) Close() (err error) {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	defer func() {
		err = multierr.Append(err, w.sink.Close())
	}()
	return w.doc.Encode(w.sink)
}
