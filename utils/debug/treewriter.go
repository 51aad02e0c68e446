// Package debug produces human readable dumps of internal structures.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// previewLen limits how many bytes of binary payload are shown.
const previewLen = 16

// TreeWriter accumulates indented lines describing a tree.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label with quoted text value.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Attrs writes label followed by key=value pairs, pairs with zero values
// are omitted.
func (tw *TreeWriter) Attrs(depth int, label string, kv ...any) {
	tw.indent(depth)
	tw.w.WriteString(label)
	for i := 0; i+1 < len(kv); i += 2 {
		v := kv[i+1]
		switch x := v.(type) {
		case int:
			if x == 0 {
				continue
			}
		case bool:
			if !x {
				continue
			}
		case string:
			if x == "" {
				continue
			}
			v = encodeText(x)
		}
		fmt.Fprintf(tw.w, " %v=%v", kv[i], v)
	}
	tw.w.WriteByte('\n')
}

// Binary writes size and short hex preview of data.
func (tw *TreeWriter) Binary(depth int, label string, data []byte) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, "%s: %d bytes", label, len(data))
	if len(data) > 0 {
		n := min(len(data), previewLen)
		fmt.Fprintf(tw.w, " [% x", data[:n])
		if n < len(data) {
			tw.w.WriteString(" ...")
		}
		tw.w.WriteByte(']')
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
