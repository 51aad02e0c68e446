// Package css understands the small subset of CSS used to style source
// documents: simple selectors and text formatting properties.
package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/maruel/natural"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component, explicit
// zero values like "0" or "0px" included.
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		c := rune(v.Raw[0])
		return unicode.IsDigit(c) || c == '.' || c == '-' || c == '+'
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Properties maps property name to its value.
type Properties map[string]Value

// Selector is a simple selector: element, class or element.class.
type Selector struct {
	Raw     string
	Element string
	Class   string
}

// IsSimple returns true if selector was understood.
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// Specificity orders selectors, element.class wins over class which wins
// over element.
func (s Selector) Specificity() int {
	n := 0
	if s.Element != "" {
		n++
	}
	if s.Class != "" {
		n += 10
	}
	return n
}

// Matches reports whether selector applies to element with given name and
// class list.
func (s Selector) Matches(name string, classes []string) bool {
	if !s.IsSimple() {
		return false
	}
	if s.Element != "" && s.Element != "*" && !strings.EqualFold(s.Element, name) {
		return false
	}
	return s.Class == "" || slices.Contains(classes, s.Class)
}

// Rule is a selector with its declarations.
type Rule struct {
	Selector   Selector
	Properties Properties
}

// Stylesheet is a parsed style sheet, rules keep source order.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string
}

// Match returns properties of all matching rules merged in cascade order:
// by specificity and then by source order.
func (s *Stylesheet) Match(name string, classes []string) Properties {
	if s == nil {
		return nil
	}
	var matched []Rule
	for _, r := range s.Rules {
		if r.Selector.Matches(name, classes) {
			matched = append(matched, r)
		}
	}
	slices.SortStableFunc(matched, func(a, b Rule) int {
		return a.Selector.Specificity() - b.Selector.Specificity()
	})
	res := make(Properties)
	for _, r := range matched {
		maps.Copy(res, r.Properties)
	}
	return res
}

// WriteTo writes stylesheet in normalized form, properties are sorted.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, r := range s.Rules {
		n, err := fmt.Fprintf(w, "%s {\n", r.Selector.Raw)
		total += int64(n)
		if err != nil {
			return total, err
		}
		names := make([]string, 0, len(r.Properties))
		for k := range r.Properties {
			names = append(names, k)
		}
		slices.SortFunc(names, func(a, b string) int {
			if natural.Less(a, b) {
				return -1
			}
			if natural.Less(b, a) {
				return 1
			}
			return 0
		})
		for _, k := range names {
			n, err = fmt.Fprintf(w, "  %s: %s;\n", k, r.Properties[k].Raw)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err = io.WriteString(w, "}\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Stylesheet) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}
