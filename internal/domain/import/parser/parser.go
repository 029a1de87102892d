// Package parser turns detected statement files into canonical transactions.
// There is one extractor per institution format; they share the table
// tokenizer, page text access and the date, amount and keyword primitives in
// this package. Extractors are stateless and safe for concurrent use.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
)

// Extractor parses one institution format.
type Extractor interface {
	Format() model.Format
	Extract(f source.File) (*model.Result, error)
}

// CategoryDirectory resolves a free-text category name to its id. It is read
// only from the extractors' point of view.
type CategoryDirectory interface {
	Lookup(name string) (uuid.UUID, bool)
}

// Options carries the collaborators shared by every extractor.
type Options struct {
	Categories CategoryDirectory
	// Location is used for source dates without a zone. Defaults to UTC.
	Location *time.Location
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Categories == nil {
		o.Categories = noCategories{}
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

type noCategories struct{}

func (noCategories) Lookup(string) (uuid.UUID, bool) { return uuid.Nil, false }

// All returns one extractor per supported format.
func All(opts Options) []Extractor {
	opts = opts.withDefaults()
	return []Extractor{
		NewMonzo(opts),
		NewRevolut(opts),
		NewAmex(opts),
		NewNationwide(opts),
		NewTrading212(opts),
		NewCoinbase(opts),
		NewBarclaycard(opts),
		NewChase(opts),
		NewHSBC(opts),
		NewMarcus(opts),
	}
}

// diagnostics collects row-local problems; they never abort a parse.
type diagnostics []string

func (d *diagnostics) add(format string, args ...any) {
	*d = append(*d, fmt.Sprintf(format, args...))
}

func (d diagnostics) String() string {
	return strings.Join(d, "; ")
}

// rowReader feeds a single header plus row to gocsv.
type rowReader struct {
	rows [][]string
	pos  int
}

func (r *rowReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}

// decodeRow maps one tokenized row onto an issuer struct through its csv tags.
// Fields are padded or cut to the header width first.
func decodeRow[T any](header, fields []string) (T, error) {
	var zero T
	aligned := make([]string, len(header))
	copy(aligned, fields)

	var out []T
	if err := gocsv.UnmarshalCSV(&rowReader{rows: [][]string{header, aligned}}, &out); err != nil {
		return zero, fmt.Errorf("failed to decode row: %w", err)
	}
	if len(out) != 1 {
		return zero, fmt.Errorf("failed to decode row: got %d records", len(out))
	}
	return out[0], nil
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// cleanDescription normalizes a transaction description
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanReference strips the decorative quoting some issuers wrap references in.
func cleanReference(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
}
