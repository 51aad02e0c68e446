package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Decode returns pixels of any raster format registered with image package.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	return img, nil
}

// Transform describes optional modifications applied before embedding.
type Transform struct {
	Grayscale bool
	// Width in pixels, 0 keeps original size.
	Width int
}

// Apply performs requested modifications, it returns original image when
// nothing has to be done.
func (t Transform) Apply(img image.Image) image.Image {
	if t.Width > 0 && t.Width != img.Bounds().Dx() {
		img = imaging.Resize(img, t.Width, 0, imaging.Lanczos)
	}
	if t.Grayscale && !IsGrayscale(img) {
		img = imaging.Grayscale(img)
	}
	return img
}

// EncodePNG encodes image with best compression.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
