// Package rtf serializes element trees into Rich Text Format documents.
package rtf

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// hexLineBytes is number of payload bytes per line of hex output.
const hexLineBytes = 64

// Encoder writes RTF tokens. The first write error is kept and all
// subsequent calls become no-ops, it is reported by Flush and Err.
type Encoder struct {
	w     *bufio.Writer
	err   error
	depth int
	// control word was just written, text needs delimiter
	pending bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) Err() error {
	return e.err
}

// Depth returns number of currently open groups.
func (e *Encoder) Depth() int {
	return e.depth
}

func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *Encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

// Open starts group.
func (e *Encoder) Open() {
	e.writeByte('{')
	e.depth++
	e.pending = false
}

// Close ends group.
func (e *Encoder) Close() {
	if e.depth == 0 {
		if e.err == nil {
			e.err = fmt.Errorf("closing group at top level: %w", ErrUnbalanced)
		}
		return
	}
	e.writeByte('}')
	e.depth--
	e.pending = false
}

// Word writes control word without parameter.
func (e *Encoder) Word(name string) {
	e.writeByte('\\')
	e.writeString(name)
	e.pending = true
}

// WordN writes control word with numeric parameter.
func (e *Encoder) WordN(name string, n int) {
	e.writeByte('\\')
	e.writeString(name)
	e.writeString(strconv.Itoa(n))
	e.pending = true
}

// Destination opens ignorable destination group: {\*\name
func (e *Encoder) Destination(name string) {
	e.Open()
	e.writeString(`\*`)
	e.Word(name)
}

// Raw writes data as is.
func (e *Encoder) Raw(s string) {
	e.writeString(s)
	e.pending = false
}

// Delim terminates preceding control word if necessary.
func (e *Encoder) Delim() {
	if e.pending {
		e.writeByte(' ')
		e.pending = false
	}
}

// Text writes escaped text. Characters of Windows-1252 outside of ASCII are
// written as \'hh, everything else as \uN? with surrogate pairs for
// characters outside of BMP.
func (e *Encoder) Text(s string) {
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			e.writeByte('\\')
			e.writeByte(byte(r))
			e.pending = false
		case r == '\t':
			e.Word("tab")
		case r == '\n':
			e.Word("line")
		case r < 0x20 || r == 0x7f:
		case r < 0x80:
			e.Delim()
			e.writeByte(byte(r))
		default:
			if b, ok := charmap.Windows1252.EncodeRune(r); ok && b >= 0x80 {
				e.writeString(`\'`)
				e.writeString(hex.EncodeToString([]byte{b}))
				e.pending = false
				continue
			}
			if r > 0xffff {
				r1, r2 := utf16.EncodeRune(r)
				e.unicode(r1)
				e.unicode(r2)
				continue
			}
			e.unicode(r)
		}
	}
}

func (e *Encoder) unicode(r rune) {
	e.writeString(`\u`)
	e.writeString(strconv.Itoa(int(int16(uint16(r)))))
	e.writeByte('?')
	e.pending = false
}

// Hex writes binary payload as lowercase hex pairs, starting new line every
// hexLineBytes bytes.
func (e *Encoder) Hex(data []byte) {
	buf := make([]byte, hex.EncodedLen(hexLineBytes)+1)
	for len(data) > 0 {
		n := min(len(data), hexLineBytes)
		buf[0] = '\n'
		hex.Encode(buf[1:], data[:n])
		e.writeString(string(buf[:1+hex.EncodedLen(n)]))
		data = data[n:]
	}
	e.writeByte('\n')
	e.pending = false
}

// Flush writes buffered data. Unclosed groups are reported as error.
func (e *Encoder) Flush() error {
	if e.err == nil && e.depth != 0 {
		e.err = fmt.Errorf("%d groups left open: %w", e.depth, ErrUnbalanced)
	}
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}
