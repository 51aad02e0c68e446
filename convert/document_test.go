package convert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputFile(t *testing.T) {
	t.Run("nothing written", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out.rtf")
		o := &outputFile{name: name}
		if err := o.discard(); err != nil {
			t.Fatalf("discard() error = %v", err)
		}
		if _, err := os.Stat(name); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("file exists after discard, stat error = %v", err)
		}
	})

	t.Run("partial output removed", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out.rtf")
		o := &outputFile{name: name}
		if _, err := o.Write([]byte(`{\rtf1`)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("file is not created on write: %v", err)
		}
		if err := o.discard(); err != nil {
			t.Fatalf("discard() error = %v", err)
		}
		if _, err := os.Stat(name); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("file exists after discard, stat error = %v", err)
		}
	})

	t.Run("completed output kept", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out.rtf")
		o := &outputFile{name: name}
		if _, err := o.Write([]byte("{}")); err != nil {
			t.Fatal(err)
		}
		if err := o.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := o.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
		data, err := os.ReadFile(name)
		if err != nil || string(data) != "{}" {
			t.Errorf("content = %q, %v", data, err)
		}
	})

	t.Run("create failure", func(t *testing.T) {
		o := &outputFile{name: filepath.Join(t.TempDir(), "missing", "out.rtf")}
		if _, err := o.Write([]byte("x")); err == nil {
			t.Error("Write() into missing directory succeeded")
		}
	})
}
