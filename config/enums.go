package config

// Paper size of the produced document.
// ENUM(a4, a5, letter, legal)
type PageSize int

// Dimensions returns portrait width and height in points.
func (p PageSize) Dimensions() (float64, float64) {
	switch p {
	case PageSizeA5:
		return 420, 595
	case PageSizeLetter:
		return 612, 792
	case PageSizeLegal:
		return 612, 1008
	default:
		return 595, 842
	}
}
