package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

var (
	markerAPP0 = []byte{0xFF, 0xE0}
	jfifID     = []byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x02}
)

// EnsureJFIFAPP0 inserts JFIF APP0 segment right after SOI when it is
// missing, Go encoder never writes one and some readers need density.
func EnsureJFIFAPP0(jpegData []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}
	if bytes.Equal(jpegData[2:4], markerAPP0) {
		return jpegData, false, nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(jpegData)+18))
	buf.Write(jpegData[:2])
	buf.Write(markerAPP0)
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10))
	buf.Write(jfifID)
	buf.WriteByte(byte(dpit))
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	buf.Write([]byte{0, 0}) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}

// EncodeJPEG encodes image with requested quality and density in dots per
// inch.
func EncodeJPEG(img image.Image, quality int, dpi int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), DpiPxPerInch, dpi, dpi)
	return out, err
}
