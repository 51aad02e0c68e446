// Package misc keeps program identification set at build time.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by linker: -X rtfgen/misc.version=... -X rtfgen/misc.githash=...
var (
	version = "dev"
	githash = "unknown"
	appName = ""
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit the program was built from.
func GetGitHash() string {
	return githash
}

// GetAppName returns program name, derived from executable when not set.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".test.exe") {
		return "rtfgen"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) == 0 || name == "main" {
		return "rtfgen"
	}
	return name
}

// GetGenerator returns value for the RTF generator destination.
func GetGenerator() string {
	return "rtfgen " + version
}
