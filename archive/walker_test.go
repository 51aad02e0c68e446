package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/charmap"
)

type zipEntry struct {
	name    string
	content string
	nonUTF8 bool
}

func makeZip(t *testing.T, entries []zipEntry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store, NonUTF8: e.nonUTF8})
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	if err := zipFile.Close(); err != nil {
		t.Fatalf("Failed to close zip file: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath string, opts Options) []string {
	t.Helper()
	var visited []string
	err := Walk(zipPath, opts, func(archive string, e Entry) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, e.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, []zipEntry{
		{name: "docs/chapter10.xml", content: "10"},
		{name: "docs/chapter2.xml", content: "2"},
		{name: "docs/readme.txt", content: "readme"},
		{name: "docs/Cover.XML", content: "cover"},
		{name: "src/main.go", content: "main"},
		{name: "config.yml", content: "config"},
	})

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"everything", Options{}, []string{
			"config.yml", "docs/Cover.XML", "docs/chapter2.xml", "docs/chapter10.xml", "docs/readme.txt", "src/main.go",
		}},
		{"prefix", Options{Prefix: "src/"}, []string{"src/main.go"}},
		{"no match", Options{Prefix: "nonexistent/"}, nil},
		{"extensions", Options{Prefix: "docs/", Extensions: []string{".xml"}}, []string{
			"docs/Cover.XML", "docs/chapter2.xml", "docs/chapter10.xml",
		}},
		{"prefix is case sensitive", Options{Prefix: "Docs/"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, collect(t, zipPath, tt.opts)); diff != "" {
				t.Errorf("visited mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_CodePage(t *testing.T) {
	name, err := charmap.CodePage866.NewEncoder().String("книга.xml")
	if err != nil {
		t.Fatalf("encode name: %v", err)
	}
	zipPath := makeZip(t, []zipEntry{{name: name, content: "x", nonUTF8: true}})

	got := collect(t, zipPath, Options{CodePage: charmap.CodePage866})
	if diff := cmp.Diff([]string{"книга.xml"}, got); diff != "" {
		t.Errorf("decoded names mismatch (-want +got):\n%s", diff)
	}
	if got := collect(t, zipPath, Options{}); got[0] != name {
		t.Errorf("name without code page = %q, want raw %q", got[0], name)
	}
}

func TestWalk_Errors(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", Options{}, func(string, Entry) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, Options{}, func(string, Entry) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("unsafe path", func(t *testing.T) {
		zipPath := makeZip(t, []zipEntry{{name: "../evil.xml", content: "x"}})
		if err := Walk(zipPath, Options{}, func(string, Entry) error { return nil }); err == nil {
			t.Error("Expected error for path traversal entry")
		}
	})

	t.Run("early termination", func(t *testing.T) {
		zipPath := makeZip(t, []zipEntry{{name: "a.xml"}, {name: "b.xml"}, {name: "c.xml"}})
		stopErr := errors.New("stop walking")
		visited := 0
		err := Walk(zipPath, Options{}, func(string, Entry) error {
			visited++
			if visited == 2 {
				return stopErr
			}
			return nil
		})
		if !errors.Is(err, stopErr) {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 2 {
			t.Errorf("visited %d files, want 2", visited)
		}
	})
}

func TestWalk_SkipsDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	dirHeader := &zip.FileHeader{Name: "mydir/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("mydir/file.txt")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("content"))
	w.Close()
	zipFile.Close()

	if diff := cmp.Diff([]string{"mydir/file.txt"}, collect(t, zipPath, Options{Prefix: "mydir/"})); diff != "" {
		t.Errorf("visited mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := makeZip(t, []zipEntry{{name: "test.txt", content: "test content"}})

	err := Walk(zipPath, Options{}, func(_ string, e Entry) error {
		rc, err := e.File.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if buf.String() != "test content" {
			t.Errorf("content = %s, want test content", buf.Bytes())
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}
