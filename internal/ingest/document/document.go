// Package document models the raw statement file handed to the pipeline and
// detects its media kind before any parsing work begins.
package document

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

// Kind is the sniffed media kind of an uploaded statement.
type Kind string

const (
	KindCSV         Kind = "csv"
	KindSpreadsheet Kind = "spreadsheet"
	KindPDFText     Kind = "pdf-text"
	KindUnknown     Kind = "unknown"
)

// MaxSizeBytes is the hard ceiling on accepted uploads (10 MiB). Files above
// it are rejected before any row is read.
const MaxSizeBytes = 10 << 20

// Document is the immutable raw input to the pipeline. Text holds the
// extracted text layer for pdf-text documents; Data holds the original bytes
// for everything else.
type Document struct {
	Filename    string
	ContentType string
	Kind        Kind
	Data        []byte
	Text        string
}

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
	pdfMagic = []byte("%PDF")
)

// New sniffs the media kind from the filename, declared content type, and
// the leading bytes, enforcing the size ceiling first. PDF bytes are run
// through text-layer extraction so the pipeline only ever sees pdf-text.
func New(filename, contentType string, data []byte) (*Document, error) {
	if int64(len(data)) > MaxSizeBytes {
		return nil, ingesterr.FileTooLarge(int64(len(data)), MaxSizeBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ingesterr.ErrEmptyDocument
	}

	kind := sniffKind(filename, contentType, data)
	doc := &Document{Filename: filename, ContentType: contentType, Kind: kind, Data: data}

	switch kind {
	case KindUnknown:
		return nil, ingesterr.UnsupportedFormat(filename)
	case KindPDFText:
		if bytes.HasPrefix(data, pdfMagic) {
			text, err := extractPDFText(data)
			if err != nil || strings.TrimSpace(text) == "" {
				// No readable text layer. Keep a placeholder so the
				// augmentation service still gets something to work with.
				text = "PDF statement " + filename + " (no extractable text layer)"
			}
			doc.Text = text
		} else {
			doc.Text = string(data)
		}
	}

	return doc, nil
}

func sniffKind(filename, contentType string, data []byte) Kind {
	if k := kindFromName(filename, contentType); k != KindUnknown {
		return k
	}
	return kindFromContent(data)
}

func kindFromName(filename, contentType string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return KindCSV
	case ".xlsx", ".xls", ".ods":
		return KindSpreadsheet
	case ".pdf", ".txt":
		return KindPDFText
	}

	switch {
	case strings.Contains(contentType, "text/csv"):
		return KindCSV
	case strings.Contains(contentType, "spreadsheet"),
		strings.Contains(contentType, "ms-excel"):
		return KindSpreadsheet
	case strings.Contains(contentType, "application/pdf"):
		return KindPDFText
	case strings.Contains(contentType, "text/plain"):
		return KindPDFText
	}
	return KindUnknown
}

func kindFromContent(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, oleMagic):
		return KindSpreadsheet
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDFText
	}

	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	if !utf8.Valid(sample) {
		return KindUnknown
	}
	text := string(sample)
	if strings.ContainsAny(text, ",;\t|") && strings.Contains(text, "\n") {
		return KindCSV
	}
	if strings.ContainsFunc(text, unicode.IsLetter) {
		// Free text with no tabular structure: treat as extracted statement
		// text and let the augmentation path handle it.
		return KindPDFText
	}
	return KindUnknown
}
