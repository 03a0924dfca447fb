package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sinfopers/internal/apperr"
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")

func newDocs(t *testing.T, max int64) (*Documents, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "docs")
	d, err := NewDocuments(dir, max)
	if err != nil {
		t.Fatalf("NewDocuments: %v", err)
	}
	return d, dir
}

func TestSave_PDF(t *testing.T) {
	d, dir := newDocs(t, 1<<10)

	ref, err := d.Save(bytes.NewReader(minimalPDF))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !reRef.MatchString(ref) {
		t.Fatalf("ref = %q", ref)
	}
	got, err := os.ReadFile(filepath.Join(dir, ref))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, minimalPDF) {
		t.Fatal("stored content differs")
	}

	if err := d.Remove(ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ref)); !os.IsNotExist(err) {
		t.Fatalf("file still there: %v", err)
	}
	// second remove is a no-op
	if err := d.Remove(ref); err != nil {
		t.Fatalf("Remove again: %v", err)
	}
}

func TestSave_Rejects(t *testing.T) {
	d, dir := newDocs(t, 64)

	tests := []struct {
		name string
		body []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("just some text that is not a document")},
		{"too large", append(append([]byte{}, minimalPDF...), bytes.Repeat([]byte(" "), 64)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Save(bytes.NewReader(tt.body))
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files", len(entries))
	}
}

func TestRemove_RejectsPaths(t *testing.T) {
	d, _ := newDocs(t, 64)
	for _, ref := range []string{"../etc/passwd", "x.pdf", strings.Repeat("a", 32) + ".exe"} {
		if err := d.Remove(ref); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("Remove(%q) err = %v", ref, err)
		}
	}
}
