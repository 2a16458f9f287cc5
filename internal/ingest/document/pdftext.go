package document

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls the plain-text layer out of a digital PDF. Scanned
// image PDFs come back empty; OCR is out of scope.
func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = io.ErrUnexpectedEOF
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
