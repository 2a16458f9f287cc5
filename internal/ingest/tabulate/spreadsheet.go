package tabulate

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FromSpreadsheet recovers a row matrix from spreadsheet bytes. Valid xlsx
// workbooks go through excelize; anything it cannot open (legacy .xls, .ods,
// damaged archives) falls back to best-effort byte scraping. The result is
// always a matrix, never empty: when fewer than 2 usable rows come back the
// caller gets an explicit diagnostic matrix instead of silence.
func FromSpreadsheet(data []byte) (RowMatrix, error) {
	if matrix, err := fromWorkbook(data); err == nil && len(matrix) >= 2 {
		return matrix.Normalize(), nil
	}

	matrix := scrapeCells(data)
	if len(matrix) < 2 {
		return diagnosticMatrix(), nil
	}
	return alignToHeader(matrix), nil
}

// sheet names preferred when a workbook has several.
var preferredSheets = []string{"transactions", "statement", "movements", "data", "sheet1"}

func fromWorkbook(data []byte) (RowMatrix, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := pickSheet(f)
	if sheet == "" {
		return nil, excelize.ErrSheetNotExist{SheetName: "any"}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	matrix := make(RowMatrix, 0, len(rows))
	for _, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	for _, preferred := range preferredSheets {
		for _, sheet := range sheets {
			if strings.EqualFold(sheet, preferred) {
				return sheet
			}
		}
	}
	return sheets[0]
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// diagnosticMatrix is returned when recovery found nothing usable. Callers
// need a signal distinct from "valid file, zero transactions".
func diagnosticMatrix() RowMatrix {
	return RowMatrix{
		{"recovery", "detail"},
		{"no data extracted", "spreadsheet cell recovery found fewer than 2 rows"},
	}
}
