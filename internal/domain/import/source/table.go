package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrNoHeader        = errors.New("could not find header row")
	ErrUnsupportedType = errors.New("file type is not tabular")
)

// Row is one tokenized data row. Err carries a row-local tokenizer problem;
// the fields read so far are still returned.
type Row struct {
	Line   int
	Fields []string
	Err    error
}

// Table is a header plus its data rows in file order.
type Table struct {
	Header []string
	Rows   []Row
}

// TableOptions controls tokenization.
type TableOptions struct {
	// SkipRows is the number of non-blank preamble records before the header.
	SkipRows int
}

// Record maps header names to the row's values. Missing trailing fields map
// to the empty string.
func (t *Table) Record(row Row) map[string]string {
	m := make(map[string]string, len(t.Header))
	for i, h := range t.Header {
		if h == "" {
			continue
		}
		if i < len(row.Fields) {
			m[h] = row.Fields[i]
		} else {
			m[h] = ""
		}
	}
	return m
}

// ReadTable tokenizes a CSV or XLSX file into header and rows. Blank records
// are skipped everywhere. A CSV row whose field count differs from the header
// keeps its fields and reports the mismatch in Row.Err.
func ReadTable(f File, opts TableOptions) (*Table, error) {
	recs, err := readRecords(f, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) <= opts.SkipRows {
		return nil, ErrNoHeader
	}

	hdr := recs[opts.SkipRows]
	if hdr.err != nil {
		return nil, fmt.Errorf("failed to read header on line %d: %w", hdr.line, hdr.err)
	}
	header := make([]string, len(hdr.fields))
	for i, h := range hdr.fields {
		header[i] = strings.TrimSpace(h)
	}

	padded := Extension(f) == "xlsx"
	t := &Table{Header: header, Rows: make([]Row, 0, len(recs)-opts.SkipRows-1)}
	for _, rec := range recs[opts.SkipRows+1:] {
		row := Row{Line: rec.line, Fields: rec.fields, Err: rec.err}
		switch {
		case padded && len(row.Fields) < len(header):
			fields := make([]string, len(header))
			copy(fields, row.Fields)
			row.Fields = fields
		case !padded && row.Err == nil && len(row.Fields) != len(header):
			row.Err = fmt.Errorf("line %d: expected %d fields, got %d", rec.line, len(header), len(row.Fields))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Head returns up to n leading non-blank records, trimmed. It is the preview
// used by format detection.
func Head(f File, n int) ([][]string, error) {
	recs, err := readRecords(f, n)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(recs))
	for _, rec := range recs {
		fields := make([]string, len(rec.fields))
		for i, v := range rec.fields {
			fields[i] = strings.TrimSpace(v)
		}
		out = append(out, fields)
	}
	return out, nil
}

// DetectDelimiter picks the candidate delimiter occurring most often on the
// first non-blank line of text.
func DetectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}
		best, bestCount := ',', 0
		for _, d := range []rune{',', ';', '\t', '|'} {
			if c := strings.Count(line, string(d)); c > bestCount {
				best, bestCount = d, c
			}
		}
		return best
	}
	return ','
}

type record struct {
	line   int
	fields []string
	err    error
}

// readRecords returns non-blank records; limit <= 0 reads everything.
func readRecords(f File, limit int) ([]record, error) {
	switch Extension(f) {
	case "xlsx":
		return readSheet(f, limit)
	case "csv", "tsv", "txt":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, f.Name())
	}

	text, err := f.Text()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFile
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = DetectDelimiter(text)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var recs []record
	for limit <= 0 || len(recs) < limit {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		rec := record{fields: fields}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("failed to tokenize %s: %w", f.Name(), err)
			}
			rec.line, rec.err = pe.StartLine, err
		} else {
			rec.line, _ = r.FieldPos(0)
		}
		if rec.err == nil && blank(fields) {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
