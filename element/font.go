package element

import "strings"

// Font style bits.
const (
	StyleNormal     = 0
	StyleBold       = 1
	StyleItalic     = 2
	StyleUnderline  = 4
	StyleStrikethru = 8
)

// DefaultFontSize is used when nothing in the chain defines size.
const DefaultFontSize = 12

// Font describes character formatting. Zero fields inherit from enclosing
// element: empty Family, Size <= 0, nil Color. Style bits accumulate.
type Font struct {
	Family string
	Size   float64
	Style  int
	Color  *Color
}

// Difference returns font resulting from applying child on top of f.
func (f Font) Difference(child Font) Font {
	res := f
	if child.Family != "" {
		res.Family = child.Family
	}
	if child.Size > 0 {
		res.Size = child.Size
	}
	res.Style |= child.Style
	if child.Color != nil {
		res.Color = child.Color
	}
	return res
}

// CalculatedSize returns size, DefaultFontSize when undefined.
func (f Font) CalculatedSize() float64 {
	if f.Size <= 0 {
		return DefaultFontSize
	}
	return f.Size
}

func (f Font) IsBold() bool      { return f.Style&StyleBold != 0 }
func (f Font) IsItalic() bool    { return f.Style&StyleItalic != 0 }
func (f Font) IsUnderline() bool { return f.Style&StyleUnderline != 0 }
func (f Font) IsStrike() bool    { return f.Style&StyleStrikethru != 0 }

// standard PDF base families and names word processors know them by
var standardFamilies = map[string]string{
	"courier":      "Courier New",
	"helvetica":    "Arial",
	"times-roman":  "Times New Roman",
	"times":        "Times New Roman",
	"symbol":       "Symbol",
	"zapfdingbats": "Wingdings",
}

// IsStandard reports whether family is one of base families.
func (f Font) IsStandard() bool {
	_, ok := standardFamilies[strings.ToLower(f.Family)]
	return ok
}

// FamilyName returns name to be used in the output.
func (f Font) FamilyName() string {
	if n, ok := standardFamilies[strings.ToLower(f.Family)]; ok {
		return n
	}
	return f.Family
}

// ParseStyle converts space or comma separated style names.
func ParseStyle(s string) int {
	style := StyleNormal
	for _, name := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ' ' || r == ',' }) {
		switch name {
		case "bold":
			style |= StyleBold
		case "italic":
			style |= StyleItalic
		case "underline":
			style |= StyleUnderline
		case "strike", "strikethru", "line-through":
			style |= StyleStrikethru
		}
	}
	return style
}
