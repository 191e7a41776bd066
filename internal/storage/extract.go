package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ExtractText returns the plain text of a PDF, DOCX or text resume. A parser
// panic on a malformed upload comes back as an error.
func ExtractText(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(mimePDF):
		return guarded(func() (string, error) { return extractPDFText(data) })
	case mt.Is(mimeDOCX):
		return guarded(func() (string, error) { return extractDocxText(data) })
	case mt.Is(mimeText):
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("storage: unsupported resume type %s", mt.String())
	}
}

func guarded(extract func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("storage: parser panic: %v", r)
		}
	}()
	return extract()
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("storage: read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("storage: parse docx: %w", err)
	}
	defer doc.Close()

	return strings.TrimSpace(doc.Editable().GetContent()), nil
}
