package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/ccitt"
)

// CCITTGroup selects fax compression scheme.
type CCITTGroup int

const (
	CCITTG4   CCITTGroup = 0x100
	CCITTG31D CCITTGroup = 0x101
	CCITTG32D CCITTGroup = 0x102
)

// CCITT encoding options, may be combined.
const (
	CCITTBlackIs1         = 1
	CCITTEncodedByteAlign = 2
	CCITTEndOfLine        = 4
	CCITTEndOfBlock       = 8
)

// CCITTParams describes raw fax payload.
type CCITTParams struct {
	Group   CCITTGroup
	Options int
}

var ErrUnsupportedCCITT = errors.New("unsupported CCITT encoding")

var flipTable = func() (t [256]byte) {
	for i := range t {
		var r byte
		for b := range 8 {
			if i&(1<<b) != 0 {
				r |= 0x80 >> b
			}
		}
		t[i] = r
	}
	return
}()

// ReverseBits reverses bit order of every byte in place. Applying it twice
// restores original data.
func ReverseBits(data []byte) {
	for i, b := range data {
		data[i] = flipTable[b]
	}
}

// DecodeCCITT decodes MSB-first fax data into grayscale image.
func DecodeCCITT(data []byte, width, height int, params CCITTParams) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid fax image size %dx%d: %w", width, height, ErrUndecodable)
	}

	var sf ccitt.SubFormat
	switch params.Group {
	case CCITTG4:
		sf = ccitt.Group4
	case CCITTG31D:
		sf = ccitt.Group3
	default:
		return nil, fmt.Errorf("group 0x%x: %w", int(params.Group), ErrUnsupportedCCITT)
	}

	opts := &ccitt.Options{
		Align:  params.Options&CCITTEncodedByteAlign != 0,
		Invert: params.Options&CCITTBlackIs1 != 0,
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if err := ccitt.DecodeIntoGray(dst, bytes.NewReader(data), ccitt.MSB, sf, opts); err != nil {
		return nil, fmt.Errorf("unable to decode fax data: %w", err)
	}
	return dst, nil
}
