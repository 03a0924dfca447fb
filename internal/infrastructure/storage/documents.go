package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"sinfopers/internal/apperr"
	"sinfopers/pkg/id"

	"github.com/gabriel-vasile/mimetype"
)

const pdfMIME = "application/pdf"

var reRef = regexp.MustCompile(`^[a-f0-9]{32}\.pdf$`)

// Documents keeps request attachments as files under one directory. Only
// PDFs up to maxBytes are accepted; the type is sniffed from content, never
// taken from the client.
type Documents struct {
	dir      string
	maxBytes int64
}

func NewDocuments(dir string, maxBytes int64) (*Documents, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("documents dir %s: %w", dir, err)
	}
	return &Documents{dir: dir, maxBytes: maxBytes}, nil
}

// Save stores r and returns the reference to keep on the request.
func (d *Documents) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return "", apperr.Validation("document exceeds %d bytes", d.maxBytes)
	}
	if len(data) == 0 {
		return "", apperr.Validation("document is empty")
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return "", apperr.Validation("document must be a PDF, got %s", mt.String())
	}

	ref := id.NewID32() + ".pdf"
	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, ref)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("store document: %w", err)
	}
	return ref, nil
}

// Remove deletes a stored document; unknown refs are ignored.
func (d *Documents) Remove(ref string) error {
	if !reRef.MatchString(ref) {
		return apperr.Validation("invalid document reference %q", ref)
	}
	err := os.Remove(filepath.Join(d.dir, ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
