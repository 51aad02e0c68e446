package element

import (
	"bytes"
	"fmt"
	"os"

	"rtfgen/utils/images"
)

// Image is an embedded picture. Geometry holds scaled size in points, empty
// geometry means natural size (one pixel per point).
type Image struct {
	Geometry
	Info      images.Info
	Data      []byte
	URL       string
	Alignment Alignment
	Alt       string
	// CCITT is set for raw fax payloads.
	CCITT *images.CCITTParams
}

func (*Image) Kind() Kind { return KindImage }

// NewImage detects format and size of data, undecodable data is an error.
func NewImage(data []byte) (*Image, error) {
	info, err := images.Detect(data)
	if err != nil {
		return nil, err
	}
	return &Image{Info: info, Data: data}, nil
}

// NewImageFromFile detects image in file, data is loaded lazily by Bytes.
func NewImageFromFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	img, err := NewImage(data)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	img.Data, img.URL = nil, path
	return img, nil
}

// NewCCITT wraps raw fax data. When reverseBits is set data is in LSB first
// order and gets normalized (on a copy). Only groups that can be decoded
// are accepted: G4 and one dimensional G3.
func NewCCITT(width, height int, reverseBits bool, group images.CCITTGroup, options int, data []byte) (*Image, error) {
	switch group {
	case images.CCITTG4, images.CCITTG31D:
	default:
		return nil, fmt.Errorf("group 0x%x: %w", int(group), images.ErrUnsupportedCCITT)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid fax image size %dx%d: %w", width, height, images.ErrUndecodable)
	}
	if reverseBits {
		data = bytes.Clone(data)
		images.ReverseBits(data)
	}
	return &Image{
		Info:  images.Info{Format: images.FormatCcitt, Width: width, Height: height},
		Data:  data,
		CCITT: &images.CCITTParams{Group: group, Options: options},
	}, nil
}

// Bytes returns encoded image, loading it from URL when necessary.
func (img *Image) Bytes() ([]byte, error) {
	if img.Data != nil {
		return img.Data, nil
	}
	if img.URL == "" {
		return nil, fmt.Errorf("image has neither data nor location: %w", images.ErrUndecodable)
	}
	data, err := os.ReadFile(img.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	return data, nil
}

// ScaledWidth returns display width in points.
func (img *Image) ScaledWidth() float64 {
	if img.Geometry.Empty() {
		return float64(img.Info.Width)
	}
	return img.Width()
}

// ScaledHeight returns display height in points.
func (img *Image) ScaledHeight() float64 {
	if img.Geometry.Empty() {
		return float64(img.Info.Height)
	}
	return img.Height()
}

// ScaleAbsolute sets display size in points.
func (img *Image) ScaleAbsolute(width, height float64) {
	img.Geometry = Rect(width, height)
}

// ScalePercent scales natural size.
func (img *Image) ScalePercent(percent float64) {
	img.Geometry = Rect(float64(img.Info.Width)*percent/100, float64(img.Info.Height)*percent/100)
}

// ScaleToFit shrinks or enlarges image to fit box keeping aspect ratio.
func (img *Image) ScaleToFit(width, height float64) {
	w, h := float64(img.Info.Width), float64(img.Info.Height)
	if w <= 0 || h <= 0 {
		return
	}
	s := min(width/w, height/h)
	img.Geometry = Rect(w*s, h*s)
}
