package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format tag of the image payload.
// ENUM(none, jpeg, png, gif, bmp, wmf, tiff, webp, svg, ccitt)
type Format int

// ErrUndecodable is returned when image format or dimensions cannot be
// determined.
var ErrUndecodable = errors.New("undecodable image")

// Info describes image payload: format tag and pixel dimensions.
type Info struct {
	Format Format
	Width  int
	Height int
}

// placeable metafile key, little endian 0x9AC6CDD7
var wmfPlaceableKey = []byte{0xd7, 0xcd, 0xc6, 0x9a}

// default logical units per inch of placeable metafile when header says 0
const wmfDefaultInch = 1440

// Detect determines format and pixel size of the image. Undecodable input
// is always an error.
func Detect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("empty data: %w", ErrUndecodable)
	}

	switch {
	case bytes.HasPrefix(data, wmfPlaceableKey):
		return detectWMF(data)
	case isSVG(data):
		return detectSVG(data)
	}

	kind, err := filetype.Image(data)
	if err != nil {
		return Info{}, fmt.Errorf("unable to match image type: %w", ErrUndecodable)
	}

	var format Format
	switch kind.Extension {
	case "jpg":
		format = FormatJpeg
	case "png":
		format = FormatPng
	case "gif":
		format = FormatGif
	case "bmp":
		format = FormatBmp
	case "tif":
		format = FormatTiff
	case "webp":
		format = FormatWebp
	default:
		return Info{}, fmt.Errorf("unsupported image type %q: %w", kind.MIME.Value, ErrUndecodable)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("unable to decode %s header: %v: %w", format, err, ErrUndecodable)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%s has no dimensions: %w", format, ErrUndecodable)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}

func detectSVG(data []byte) (Info, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("unable to parse svg: %v: %w", err, ErrUndecodable)
	}
	w, h := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		w, h = defaultSVGSize, defaultSVGSize
	}
	return Info{Format: FormatSvg, Width: w, Height: h}, nil
}

// detectWMF reads bounding box of placeable metafile and converts it to
// pixels at 96 dpi.
func detectWMF(data []byte) (Info, error) {
	if len(data) < 22 {
		return Info{}, fmt.Errorf("truncated metafile header: %w", ErrUndecodable)
	}
	left := int16(binary.LittleEndian.Uint16(data[6:]))
	top := int16(binary.LittleEndian.Uint16(data[8:]))
	right := int16(binary.LittleEndian.Uint16(data[10:]))
	bottom := int16(binary.LittleEndian.Uint16(data[12:]))
	inch := int(binary.LittleEndian.Uint16(data[14:]))
	if inch == 0 {
		inch = wmfDefaultInch
	}
	w := int(math.Round(math.Abs(float64(right-left)) * 96 / float64(inch)))
	h := int(math.Round(math.Abs(float64(bottom-top)) * 96 / float64(inch)))
	if w == 0 || h == 0 {
		return Info{}, fmt.Errorf("metafile has empty bounding box: %w", ErrUndecodable)
	}
	return Info{Format: FormatWmf, Width: w, Height: h}, nil
}
