package images

import (
	"bytes"
	"errors"
	"fmt"
)

// Windows metafile record functions.
const (
	metaSetMapMode    = 0x0103
	metaSetWindowOrg  = 0x020B
	metaSetWindowExt  = 0x020C
	metaDIBStretchBlt = 0x0b41

	mmAnisotropic = 8
	ropSrcCopy    = 0x00cc0020
	bmpFileHeader = 14
)

// ErrNotBMP is returned when anything but BMP is asked to be wrapped.
var ErrNotBMP = errors.New("only BMP can be wrapped in WMF")

func writeWord(buf *bytes.Buffer, v int) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func writeDWord(buf *bytes.Buffer, v int) {
	writeWord(buf, v&0xffff)
	writeWord(buf, (v>>16)&0xffff)
}

// WrapBMP produces standalone Windows metafile which stretch-blits device
// independent bitmap taken from BMP file data. Window extent is set to
// image pixel size.
func WrapBMP(info Info, data []byte) ([]byte, error) {
	if info.Format != FormatBmp {
		return nil, fmt.Errorf("%s image: %w", info.Format, ErrNotBMP)
	}
	if len(data) <= bmpFileHeader {
		return nil, fmt.Errorf("bmp data too short (%d bytes): %w", len(data), ErrUndecodable)
	}

	dib := data[bmpFileHeader:]
	sizeBmpWords := (len(dib) + 1) >> 1
	w, h := info.Width, info.Height

	buf := new(bytes.Buffer)
	buf.Grow((9 + 4 + 5 + 5 + 13 + 3 + sizeBmpWords) * 2)

	// header
	writeWord(buf, 1)      // memory metafile
	writeWord(buf, 9)      // header size in words
	writeWord(buf, 0x0300) // version
	writeDWord(buf, 9+4+5+5+(13+sizeBmpWords)+3)
	writeWord(buf, 1) // number of objects
	writeDWord(buf, 14+sizeBmpWords)
	writeWord(buf, 0)

	writeDWord(buf, 4)
	writeWord(buf, metaSetMapMode)
	writeWord(buf, mmAnisotropic)

	writeDWord(buf, 5)
	writeWord(buf, metaSetWindowOrg)
	writeWord(buf, 0)
	writeWord(buf, 0)

	writeDWord(buf, 5)
	writeWord(buf, metaSetWindowExt)
	writeWord(buf, h)
	writeWord(buf, w)

	writeDWord(buf, 13+sizeBmpWords)
	writeWord(buf, metaDIBStretchBlt)
	writeDWord(buf, ropSrcCopy)
	writeWord(buf, h) // source
	writeWord(buf, w)
	writeWord(buf, 0)
	writeWord(buf, 0)
	writeWord(buf, h) // destination
	writeWord(buf, w)
	writeWord(buf, 0)
	writeWord(buf, 0)
	buf.Write(dib)
	if len(dib)&1 == 1 {
		buf.WriteByte(0)
	}

	// EOF record
	writeDWord(buf, 3)
	writeWord(buf, 0)

	return buf.Bytes(), nil
}
