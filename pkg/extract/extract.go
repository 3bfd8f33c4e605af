// Package extract turns uploaded files into plain text. Supported formats:
// .txt and .md (read as-is), .pdf (per-page text, page order), and .docx
// (raw text from the main document part).
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat indicates a file extension outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported file format: use .txt, .md, .pdf or .docx")

// FromFile extracts plain text from an uploaded file based on its extension.
func FromFile(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return string(data), nil
	case ".pdf":
		return fromPDF(data)
	case ".docx":
		return fromDocx(data)
	}
	return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filepath.Ext(name))
}

func fromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func fromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("read docx: %w", err)
		}
		defer rc.Close()
		return docxText(rc)
	}
	return "", errors.New("read docx: missing word/document.xml")
}

// docxText walks the document XML collecting character data; paragraph ends
// become newlines, approximating the source's visual line structure.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}
