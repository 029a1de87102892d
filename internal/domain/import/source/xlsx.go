package source

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readSheet streams the first worksheet of an XLSX export.
func readSheet(f File, limit int) ([]record, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(f.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to create row iterator: %w", err)
	}
	defer rows.Close()

	var recs []record
	line := 0
	for rows.Next() {
		line++
		cols, err := rows.Columns()
		if err != nil {
			recs = append(recs, record{line: line, err: err})
			continue
		}
		if blank(cols) {
			continue
		}
		recs = append(recs, record{line: line, fields: cols})
		if limit > 0 && len(recs) >= limit {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(recs) == 0 {
		return nil, ErrEmptyFile
	}
	return recs, nil
}
