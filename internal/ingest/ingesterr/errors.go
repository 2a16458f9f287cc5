// Package ingesterr defines the failure taxonomy for statement ingestion.
// Document-level and column-level problems surface as one of these tagged
// errors; row-level problems are silently skipped by the extractor and never
// appear here.
package ingesterr

import (
	"errors"
	"fmt"
)

// Sentinel failure reasons. Callers classify with errors.Is.
var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrEmptyDocument        = errors.New("document is empty")
	ErrInsufficientData     = errors.New("not enough rows to extract transactions")
	ErrCorruptDocument      = errors.New("document could not be tabulated")
	ErrColumnsNotIdentified = errors.New("required columns could not be identified")
	ErrRemoteTimeout        = errors.New("remote classification service timed out")
	ErrRemoteService        = errors.New("remote classification service failed")
	ErrFileTooLarge         = errors.New("file exceeds size limit")
)

// UnsupportedFormat reports a file whose kind could not be recognized.
func UnsupportedFormat(filename string) error {
	return fmt.Errorf("%w: %q is not a CSV, spreadsheet, or PDF statement; upload a .csv, .xlsx, .xls, .ods, or .pdf file", ErrUnsupportedFormat, filename)
}

// FileTooLarge reports the measured size against the ceiling.
func FileTooLarge(sizeBytes, maxBytes int64) error {
	return fmt.Errorf("%w: file is %d bytes, limit is %d bytes", ErrFileTooLarge, sizeBytes, maxBytes)
}

// ColumnsNotIdentified carries actionable guidance for the uploader.
func ColumnsNotIdentified() error {
	return fmt.Errorf("%w: ensure the file has date, description, and amount (or debit/credit) columns", ErrColumnsNotIdentified)
}

// InsufficientData reports how many usable rows were found.
func InsufficientData(rows int) error {
	return fmt.Errorf("%w: found %d usable rows, need at least 2", ErrInsufficientData, rows)
}

// RemoteTimeout wraps a deadline failure from the augmentation service so it
// stays distinguishable from business-logic errors.
func RemoteTimeout(attempt int, err error) error {
	return fmt.Errorf("%w: attempt %d exceeded deadline: %v", ErrRemoteTimeout, attempt, err)
}

// RemoteFailure wraps a non-timeout failure from the augmentation service.
func RemoteFailure(attempt int, err error) error {
	return fmt.Errorf("%w: attempt %d: %v", ErrRemoteService, attempt, err)
}

// IsHardFailure reports whether err belongs to the ingestion taxonomy.
// Anything else escaping the pipeline is a programming error.
func IsHardFailure(err error) bool {
	for _, target := range []error{
		ErrUnsupportedFormat, ErrEmptyDocument, ErrInsufficientData,
		ErrCorruptDocument, ErrColumnsNotIdentified,
		ErrRemoteTimeout, ErrRemoteService, ErrFileTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
