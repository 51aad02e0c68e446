package images

import (
	"image"
	"image/color"
)

func isGrayColor(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == n.G && n.G == n.B
}

// IsGrayscale reports whether all pixels of img have R==G==B. Paletted images
// are judged by their palette.
func IsGrayscale(img image.Image) bool {
	switch x := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		for _, c := range x.Palette {
			if !isGrayColor(c) {
				return false
			}
		}
		return true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isGrayColor(img.At(x, y)) {
				return false
			}
		}
	}
	return true
}
