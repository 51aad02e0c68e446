package misc

import (
	"strings"
	"testing"
)

func TestGetAppName(t *testing.T) {
	// under "go test" executable name ends with .test
	if got := GetAppName(); got != "rtfgen" {
		t.Fatalf("GetAppName() = %q, want rtfgen", got)
	}
}

func TestGetGenerator(t *testing.T) {
	if g := GetGenerator(); !strings.HasPrefix(g, "rtfgen ") || !strings.HasSuffix(g, GetVersion()) {
		t.Fatalf("unexpected generator %q", g)
	}
}
