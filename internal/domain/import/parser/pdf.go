package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// pageLine is a line of extracted page text inside a transaction table.
type pageLine struct {
	Page int
	Text string
}

// tableWindow bounds the transaction table of a statement. Lines strictly
// between an anchor line and a terminator line are in scope; the state carries
// over page breaks and re-arms whenever the anchor repeats.
type tableWindow struct {
	anchor     string
	terminator string
}

func (w tableWindow) lines(pages []string) []pageLine {
	var out []pageLine
	in := false
	for i, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}
			norm := normalizeSpace(text)
			switch {
			case strings.HasPrefix(norm, w.anchor):
				in = true
			case strings.HasPrefix(norm, w.terminator):
				in = false
			case in:
				out = append(out, pageLine{Page: i + 1, Text: text})
			}
		}
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// pdfRow is a segmented table row before it becomes a record.
type pdfRow struct {
	Date   time.Time
	Name   string
	Amount decimal.Decimal
	Type   model.CashType
	Line   pageLine
}

// pdfBuilder accumulates records for one PDF parse.
type pdfBuilder struct {
	format model.Format
	logger *slog.Logger
	res    *model.Result
	ids    *model.IDAssigner
}

func newPDFBuilder(format model.Format, logger *slog.Logger) *pdfBuilder {
	return &pdfBuilder{
		format: format,
		logger: logger,
		res:    model.NewResult(format),
		ids:    model.NewIDAssigner(format),
	}
}

func (b *pdfBuilder) add(row pdfRow) {
	tx := model.CashTransaction{
		Timestamp: row.Date,
		Name:      cleanDescription(row.Name),
		Type:      row.Type,
		Currency:  money.GBP,
	}
	if tx.Type == "" {
		tx.Type = signedType(row.Amount)
	}
	setAmount(&tx, row.Amount)
	// PDFs carry no native id; the hash covers parsed fields only.
	tx.ID = b.ids.Assign(cashFields(tx))
	tx.Metadata = map[string]string{
		"page": strconv.Itoa(row.Line.Page),
		"line": row.Line.Text,
	}
	b.res.Cash = append(b.res.Cash, tx)
}

// drop records a line that could not be segmented.
func (b *pdfBuilder) drop(line pageLine, reason string) {
	b.res.Dropped++
	b.logger.Debug("dropped statement line",
		slog.String("format", string(b.format)),
		slog.Int("page", line.Page),
		slog.String("line", line.Text),
		slog.String("reason", reason),
	)
}

func (b *pdfBuilder) result() *model.Result {
	return b.res
}

func readPages(f source.File, format model.Format) ([]string, error) {
	pages, err := f.Pages()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read pages: %w", format, err)
	}
	return pages, nil
}

// creditSigned negates debits; a trailing CR marks a credit.
func creditSigned(amount decimal.Decimal, credit bool) decimal.Decimal {
	if credit {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}
