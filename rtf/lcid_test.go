package rtf

import "testing"

func TestLCID(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"", 1033},
		{"en", 1033},
		{"en-US", 1033},
		{"en-GB", 2057},
		{"de", 1031},
		{"fr-CA", 1036},
		{"ru", 1049},
		{"uk-UA", 1058},
		{"zh-Hans", 2052},
		{"not a tag", 1033},
		{"tlh", 1033},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := LCID(tt.tag); got != tt.want {
				t.Errorf("LCID(%q) = %d, want %d", tt.tag, got, tt.want)
			}
		})
	}
}
