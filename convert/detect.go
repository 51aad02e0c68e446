package convert

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// how much of the file is looked at to decide what it is
const sniffLen = 1024

var (
	sourceExtensions = []string{".xml"}
	sourceType       = filetype.NewType("rtfgen", "application/x-rtfgen+xml")
	sourceRoot       = regexp.MustCompile(`<document[\s/>]`)
)

func init() {
	filetype.AddMatcher(sourceType, sourceMatcher)
}

// sourceMatcher checks that buffer starts XML document with "document" root,
// buffer may be in any of the unicode encodings with BOM.
func sourceMatcher(buf []byte) bool {
	if enc := detectUTF(buf); enc != encUnknown {
		decoded, err := io.ReadAll(io.LimitReader(selectReader(bytes.NewReader(buf), enc), sniffLen))
		if err != nil && len(decoded) == 0 {
			return false
		}
		buf = decoded
	}
	return sourceRoot.Match(buf)
}

func isUTF8BOM3(buf []byte) bool {
	return buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark, UTF-32 is checked first since its
// little endian mark starts with UTF-16 one.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case len(buf) >= 4 && isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case len(buf) >= 4 && isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case len(buf) >= 3 && isUTF8BOM3(buf):
		return encUTF8
	case len(buf) >= 2 && isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case len(buf) >= 2 && isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 with BOM removed.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	}
	// this should never happen
	panic(fmt.Sprintf("unsupported source encoding %d", enc))
}

func hasSourceExt(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range sourceExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func sniff(r io.Reader) ([]byte, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func classify(head []byte) (bool, srcEncoding) {
	if !filetype.IsType(head, sourceType) {
		return false, encUnknown
	}
	return true, detectUTF(head)
}

// isSourceFile checks extension and content of the file.
func isSourceFile(path string) (bool, srcEncoding, error) {
	if !hasSourceExt(path) {
		return false, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	head, err := sniff(f)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := classify(head)
	return ok, enc, nil
}

// isSourceInArchive checks extension and content of archived file.
func isSourceInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasSourceExt(f.FileHeader.Name) {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := sniff(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := classify(head)
	return ok, enc, nil
}

// isArchiveFile checks that file is zip archive.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := sniff(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}
