package element

// Geometry is a rectangle in points, origin at lower left corner.
type Geometry struct {
	Left, Bottom, Right, Top float64
}

// Rect returns rectangle of requested size at origin.
func Rect(width, height float64) Geometry {
	return Geometry{Right: width, Top: height}
}

func (g Geometry) Width() float64 {
	return g.Right - g.Left
}

func (g Geometry) Height() float64 {
	return g.Top - g.Bottom
}

// Rotate swaps width and height.
func (g Geometry) Rotate() Geometry {
	return Geometry{Left: g.Bottom, Bottom: g.Left, Right: g.Top, Top: g.Right}
}

// Empty reports whether rectangle has no area.
func (g Geometry) Empty() bool {
	return g.Width() <= 0 || g.Height() <= 0
}

// Paper sizes.
var (
	PageA4     = Rect(595, 842)
	PageA5     = Rect(420, 595)
	PageLetter = Rect(612, 792)
	PageLegal  = Rect(612, 1008)
)

// TwipsPerPoint is RTF length unit ratio.
const TwipsPerPoint = 20

// Twips converts points to twips rounding to nearest.
func Twips(points float64) int {
	if points < 0 {
		return -int(-points*TwipsPerPoint + 0.5)
	}
	return int(points*TwipsPerPoint + 0.5)
}

func MillimetersToPoints(mm float64) float64 {
	return mm / 25.4 * 72
}

func InchesToPoints(in float64) float64 {
	return in * 72
}

// Alignment of content, zero value means inherit from container.
type Alignment int

const (
	AlignUndefined Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
	AlignJustifiedAll
	AlignTop
	AlignMiddle
	AlignBottom
	AlignBaseline
)

var alignNames = map[string]Alignment{
	"left":          AlignLeft,
	"center":        AlignCenter,
	"centre":        AlignCenter,
	"middle":        AlignMiddle,
	"right":         AlignRight,
	"justify":       AlignJustified,
	"justified":     AlignJustified,
	"justified-all": AlignJustifiedAll,
	"top":           AlignTop,
	"bottom":        AlignBottom,
	"baseline":      AlignBaseline,
}

// ParseAlignment returns alignment by its name, unknown names are
// undefined.
func ParseAlignment(name string) Alignment {
	return alignNames[name]
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustified:
		return "justified"
	case AlignJustifiedAll:
		return "justified-all"
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	case AlignBaseline:
		return "baseline"
	}
	return "undefined"
}

// Or returns a when defined, otherwise fallback.
func (a Alignment) Or(fallback Alignment) Alignment {
	if a == AlignUndefined {
		return fallback
	}
	return a
}

// Border sides, zero value inherits from enclosing table.
type Border int

const (
	BorderInherit Border = 0
	BorderTop     Border = 1
	BorderBottom  Border = 2
	BorderLeft    Border = 4
	BorderRight   Border = 8
	BorderBox            = BorderTop | BorderBottom | BorderLeft | BorderRight
	BorderNone    Border = 16
)

// Has reports whether side is drawn.
func (b Border) Has(side Border) bool {
	return b&BorderNone == 0 && b&side == side
}
