// Package archive walks documents stored in zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Entry is a file inside archive. Name is decoded according to Options.
type Entry struct {
	Name string
	File *zip.File
}

// WalkFunc is called for each matching file in archive, returned error stops
// the walk.
type WalkFunc func(archive string, entry Entry) error

// Options selects which entries are visited.
type Options struct {
	// Prefix of entry path, empty matches everything.
	Prefix string
	// Extensions (with leading dot, case insensitive), empty matches any.
	Extensions []string
	// CodePage decodes names of entries not flagged as UTF-8.
	CodePage encoding.Encoding
}

// Walk visits files of the archive matching options in natural order of
// their names. Entries with absolute paths or ".." components are rejected
// to prevent Zip Slip.
func Walk(archive string, opts Options, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, opts.Prefix) || !matchExt(name, opts.Extensions) {
			continue
		}
		if opts.CodePage != nil && f.FileHeader.NonUTF8 {
			if n, err := opts.CodePage.NewDecoder().String(name); err == nil {
				name = n
			}
		}
		entries = append(entries, Entry{Name: name, File: f})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})

	for _, e := range entries {
		if err := walkFn(archive, e); err != nil {
			return err
		}
	}
	return nil
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := path.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
