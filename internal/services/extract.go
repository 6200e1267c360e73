package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/yungbote/omnichat-backend/internal/domain"
)

// Document is the result of a successful extraction.
type Document struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Length   int    `json:"length"`
}

// ExtractDocument sniffs the true file type from the bytes first, falling
// back to the declared mime/extension, then extracts plain text.
// Supported: PDF, DOCX, TXT.
func ExtractDocument(originalName, mimeType string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	var (
		text     string
		fileType string
		err      error
	)
	switch {
	case isPDF(data):
		fileType = "pdf"
		text, err = extractPDF(data)
	case isZip(data):
		// DOCX is the only zip container we accept; anything else in a
		// zip wrapper (pptx, xlsx, plain archives) is unsupported.
		fileType = "docx"
		text, err = extractDOCX(data)
	case isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md":
		fileType = "txt"
		text = strings.TrimSpace(string(data))
	default:
		return nil, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyDocument
	}
	return &Document{
		Text:     text,
		FileName: originalName,
		FileType: fileType,
		Length:   len(text),
	}, nil
}

func isPDF(b []byte) bool {
	// PDF starts with "%PDF-"
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	// ZIP local file header: PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func isProbablyText(b []byte) bool {
	// Most bytes printable or whitespace, and no NULs.
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

// extractDOCX pulls the text runs (<w:t>) out of word/document.xml.
func extractDOCX(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", fmt.Errorf("docx zip: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", domain.ErrUnsupportedFormat
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx open part: %w", err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("docx read part: %w", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return collapseWhitespace(out.String()), nil
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
