// Package source reads XML document markup and builds element trees out of
// it. Markup is intentionally small: document metadata, header and footer,
// chapters with sections, paragraphs with inline formatting, lists, tables,
// images and embedded binaries.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"rtfgen/css"
	"rtfgen/element"
	"rtfgen/rtf"
)

// Block is a top level document item, either element or page break.
type Block struct {
	Element   element.Element
	PageBreak bool
}

// Document is parsed source ready to be written.
type Document struct {
	Info     rtf.Info
	Language string
	// AutoTOC is nil when document does not say.
	AutoTOC *bool
	Header  *element.HeaderFooter
	Footer  *element.HeaderFooter
	Styles  *css.Stylesheet
	Body    []Block
}

// Options controls how markup is interpreted.
type Options struct {
	// BaseDir resolves relative image locations, external images are not
	// loaded when empty.
	BaseDir string
	// BaseFontSize is used for relative font sizes in styles.
	BaseFontSize float64
	// Numbered prefixes chapter and section titles with numbers even when
	// document does not ask for it.
	Numbered bool
	// UTF8 tells that input was already converted, encoding declared in
	// XML prolog is ignored then.
	UTF8 bool
}

// Parse reads and interprets source document.
func Parse(ctx context.Context, r io.Reader, opts Options, log *zap.Logger) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("source")

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if opts.UTF8 {
		doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "document" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	b := newBuilder(opts, log)
	res := &Document{
		Info: rtf.Info{
			Title:    root.SelectAttrValue("title", ""),
			Author:   root.SelectAttrValue("author", ""),
			Subject:  root.SelectAttrValue("subject", ""),
			Keywords: root.SelectAttrValue("keywords", ""),
			Creator:  root.SelectAttrValue("creator", ""),
		},
		Language: root.SelectAttrValue("lang", ""),
	}
	if v := root.SelectAttrValue("created", ""); v != "" {
		created, err := parseTime(v)
		if err != nil {
			log.Warn("Bad creation time, ignoring", zap.String("value", v), zap.Error(err))
		}
		res.Info.Created = created
	}
	if v := root.SelectAttr("auto-toc"); v != nil {
		on := parseBool(v.Value)
		res.AutoTOC = &on
	}
	b.numbered = opts.Numbered || parseBool(root.SelectAttrValue("numbered", ""))

	// styles and binaries may be placed anywhere on top level, they are
	// collected before content refers to them
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "style":
			b.sheet.Rules = append(b.sheet.Rules, b.css.Parse([]byte(child.Text()), "style").Rules...)
		case "binary":
			if err := b.binary(child); err != nil {
				log.Warn("Skipping binary", zap.Error(err))
			}
		}
	}
	res.Styles = b.sheet

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "header":
			res.Header = b.headerFooter(child)
		case "footer":
			res.Footer = b.headerFooter(child)
		}
	}
	res.Body = b.flow(root, 0, nil, true)
	return res, nil
}

// Write sends document content to writer. Errors for content which produced
// no output are collected, everything else is still written.
func (d *Document) Write(w *rtf.Writer) (err error) {
	if d.Header != nil {
		err = multierr.Append(err, w.SetHeader(d.Header))
	}
	if d.Footer != nil {
		err = multierr.Append(err, w.SetFooter(d.Footer))
	}
	if d.AutoTOC != nil {
		w.SetAutoTOC(*d.AutoTOC)
	}
	for _, blk := range d.Body {
		if blk.PageBreak {
			err = multierr.Append(err, w.NewPage())
			continue
		}
		err = multierr.Append(err, w.Add(blk.Element))
	}
	return err
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown time format %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
