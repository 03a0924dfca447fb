package http

import (
	"io"
	"net/http"
	"strings"

	"sinfopers/internal/logger"

	"github.com/labstack/echo/v4"
)

// DocumentStore keeps PDF attachments of requests and announcements.
type DocumentStore interface {
	Save(r io.Reader) (string, error)
	Remove(ref string) error
}

// attachDocument stores the optional "document" part of a multipart body and
// returns its ref, "" when there is none. Like bindAndValidate it writes the
// error response itself and reports whether to continue.
func attachDocument(c echo.Context, docs DocumentStore) (string, bool, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", true, nil
	}
	fh, err := c.FormFile("document")
	if err == http.ErrMissingFile {
		return "", true, nil
	}
	if err != nil {
		return "", false, badRequest(c, "invalid document part")
	}
	f, err := fh.Open()
	if err != nil {
		return "", false, badRequest(c, "unreadable document")
	}
	defer f.Close()
	ref, err := docs.Save(f)
	if err != nil {
		return "", false, respondError(c, err)
	}
	return ref, true, nil
}

// discardDocument drops an attachment whose owning write failed.
func discardDocument(docs DocumentStore, ref string) {
	if ref == "" {
		return
	}
	if err := docs.Remove(ref); err != nil {
		logger.WithComponent("http").Warn("orphaned document", "ref", ref, "error", err)
	}
}
