package css

import (
	"strings"

	"rtfgen/element"
)

// Style is formatting resolved from declarations.
type Style struct {
	Font       element.Font
	Align      element.Alignment
	VAlign     element.Alignment
	Background *element.Color
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    13.5,
	"x-large":  18,
	"xx-large": 24,
}

// Resolve converts properties into element formatting. Relative sizes are
// computed against baseSize points. Unknown or malformed values are ignored.
func Resolve(props Properties, baseSize float64) Style {
	var st Style
	if baseSize <= 0 {
		baseSize = element.DefaultFontSize
	}

	if v, ok := props["font-family"]; ok {
		family, _, _ := strings.Cut(v.Raw, ",")
		st.Font.Family = unquote(family)
	}
	if v, ok := props["font-size"]; ok {
		st.Font.Size = fontSize(v, baseSize)
	}
	if v, ok := props["font-weight"]; ok {
		switch {
		case v.Keyword == "bold" || v.Keyword == "bolder":
			st.Font.Style |= element.StyleBold
		case v.IsNumeric() && v.Value >= 600:
			st.Font.Style |= element.StyleBold
		}
	}
	if v, ok := props["font-style"]; ok && (v.Keyword == "italic" || v.Keyword == "oblique") {
		st.Font.Style |= element.StyleItalic
	}
	if v, ok := props["text-decoration"]; ok {
		for d := range strings.FieldsSeq(strings.ToLower(v.Raw)) {
			switch d {
			case "underline":
				st.Font.Style |= element.StyleUnderline
			case "line-through":
				st.Font.Style |= element.StyleStrikethru
			}
		}
	}
	if v, ok := props["color"]; ok {
		if c, err := element.ParseColor(v.Raw); err == nil {
			st.Font.Color = &c
		}
	}
	if v, ok := props["background-color"]; ok {
		if c, err := element.ParseColor(v.Raw); err == nil {
			st.Background = &c
		}
	}
	if v, ok := props["text-align"]; ok {
		switch a := element.ParseAlignment(v.Keyword); a {
		case element.AlignLeft, element.AlignCenter, element.AlignRight, element.AlignJustified:
			st.Align = a
		}
	}
	if v, ok := props["vertical-align"]; ok {
		switch a := element.ParseAlignment(v.Keyword); a {
		case element.AlignTop, element.AlignMiddle, element.AlignBottom, element.AlignBaseline:
			st.VAlign = a
		}
	}
	return st
}

func fontSize(v Value, base float64) float64 {
	if v.IsKeyword() {
		switch v.Keyword {
		case "smaller":
			return base / 1.2
		case "larger":
			return base * 1.2
		}
		return fontSizeKeywords[v.Keyword]
	}
	if !v.IsNumeric() || v.Value <= 0 {
		return 0
	}
	switch v.Unit {
	case "pt", "":
		return v.Value
	case "px":
		return v.Value * 0.75
	case "em", "rem":
		return v.Value * base
	case "%":
		return v.Value * base / 100
	case "mm":
		return element.MillimetersToPoints(v.Value)
	case "in":
		return element.InchesToPoints(v.Value)
	}
	return 0
}
