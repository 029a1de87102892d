// Package sniffer identifies which institution produced a statement file.
// PDFs are recognised by literal marker strings in their page text, tables by
// their header row and, for exports with a preamble, a marker cell above it.
package sniffer

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"unicode"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
)

// pdfProbe identifies a PDF issuer by a literal marker in its page text.
type pdfProbe struct {
	format model.Format
	marker string
	// anyPage searches every page instead of only the first one.
	anyPage bool
}

// pdfProbes in priority order.
var pdfProbes = []pdfProbe{
	{format: model.FormatBarclaycardPDF, marker: "Barclaycard"},
	{format: model.FormatChasePDF, marker: "JPMorgan Chase Bank, N.A."},
	{format: model.FormatHSBCPDF, marker: "HSBC UK Bank plc"},
	// Marcus statements open with a cover letter.
	{format: model.FormatMarcusPDF, marker: "Marcus by Goldman Sachs", anyPage: true},
}

// tableFingerprint identifies a CSV/XLSX issuer by its header row.
type tableFingerprint struct {
	format model.Format
	header []string
	// exact requires header-set equality instead of a superset.
	exact bool
	// marker, when set, must be the first cell of the first record.
	marker string
	// headerRow is the index of the header among non-blank records.
	headerRow int
}

// tableFingerprints in priority order. The first satisfied one wins.
var tableFingerprints = []tableFingerprint{
	{
		format: model.FormatMonzoCSV,
		exact:  true,
		header: []string{
			"Transaction ID", "Date", "Time", "Type", "Name", "Emoji", "Category", "Amount",
			"Currency", "Local amount", "Local currency", "Notes and #tags", "Address",
			"Receipt", "Description", "Category split", "Money Out", "Money In",
		},
	},
	{
		format:    model.FormatCoinbaseCSV,
		marker:    "Transactions",
		headerRow: 2,
		header:    []string{"ID", "Timestamp", "Transaction Type", "Asset", "Quantity Transacted"},
	},
	{
		format:    model.FormatNationwideCSV,
		marker:    "Account Name:",
		headerRow: 3,
		header:    []string{"Date", "Transaction type", "Description", "Paid out", "Paid in"},
	},
	{
		format: model.FormatTrading212CSV,
		header: []string{"Action", "Time", "No. of shares", "Price / share", "Total"},
	},
	{
		format: model.FormatRevolutCSV,
		header: []string{"Type", "Started Date", "Completed Date", "Description", "Amount", "Currency", "State"},
	},
	{
		format: model.FormatAmexCSV,
		header: []string{"Date", "Description", "Amount", "Reference"},
	},
}

// previewRows is how many leading records the table probes need.
const previewRows = 4

// Detector selects the format tag of a statement file. It has no side effects
// beyond logging and is safe for concurrent use.
type Detector struct {
	logger *slog.Logger
}

// New returns a detector logging unrecognized files to logger.
func New(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// Detect returns the format of f, or model.FormatUnknown.
func Detect(f source.File) model.Format {
	return New(nil).Detect(f)
}

// Detect returns the format of f, or model.FormatUnknown.
func (d *Detector) Detect(f source.File) model.Format {
	switch source.Extension(f) {
	case "pdf":
		return d.detectPDF(f)
	case "csv", "xlsx":
		return d.detectTable(f)
	default:
		d.logger.Warn("unsupported statement file type", slog.String("file", f.Name()))
		return model.FormatUnknown
	}
}

func (d *Detector) detectPDF(f source.File) model.Format {
	pages, err := f.Pages()
	if err != nil {
		d.logger.Warn("failed to read pdf text", slog.String("file", f.Name()), slog.Any("error", err))
		return model.FormatUnknown
	}
	if len(pages) == 0 {
		return model.FormatUnknown
	}

	for _, probe := range pdfProbes {
		search := pages[:1]
		if probe.anyPage {
			search = pages
		}
		for _, page := range search {
			if strings.Contains(page, probe.marker) {
				return probe.format
			}
		}
	}

	d.logger.Warn("unrecognized pdf statement", slog.String("file", f.Name()), slog.Int("pages", len(pages)))
	return model.FormatUnknown
}

func (d *Detector) detectTable(f source.File) model.Format {
	rows, err := source.Head(f, previewRows)
	if err != nil {
		d.logger.Warn("failed to read table preview", slog.String("file", f.Name()), slog.Any("error", err))
		return model.FormatUnknown
	}

	for _, fp := range tableFingerprints {
		if fp.matches(rows) {
			return fp.format
		}
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	d.logger.Warn("unrecognized table statement",
		slog.String("file", f.Name()),
		slog.Int("columns", len(header)),
		slog.String("fingerprint", generateFingerprint(header)),
	)
	return model.FormatUnknown
}

func (fp tableFingerprint) matches(rows [][]string) bool {
	if fp.headerRow >= len(rows) {
		return false
	}
	if fp.marker != "" && (len(rows[0]) == 0 || rows[0][0] != fp.marker) {
		return false
	}

	have := headerSet(rows[fp.headerRow])
	want := headerSet(fp.header)
	if fp.exact && len(have) != len(want) {
		return false
	}
	for h := range want {
		if _, ok := have[h]; !ok {
			return false
		}
	}
	return true
}

func headerSet(header []string) map[string]struct{} {
	set := make(map[string]struct{}, len(header))
	for _, h := range header {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

// generateFingerprint creates a stable hash from header names so unknown
// exports can be grouped in logs without printing their content.
func generateFingerprint(headers []string) string {
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}
