package parser

import (
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

type monzoRow struct {
	TransactionID string `csv:"Transaction ID"`
	Date          string `csv:"Date"`
	Time          string `csv:"Time"`
	Type          string `csv:"Type"`
	Name          string `csv:"Name"`
	Category      string `csv:"Category"`
	Amount        string `csv:"Amount"`
	Currency      string `csv:"Currency"`
	Notes         string `csv:"Notes and #tags"`
	Description   string `csv:"Description"`
}

// Monzo parses the Monzo current account export. Amounts are already signed
// negative for spending and pass through unchanged.
type Monzo struct {
	opts Options
}

func NewMonzo(opts Options) *Monzo {
	return &Monzo{opts: opts.withDefaults()}
}

func (p *Monzo) Format() model.Format { return model.FormatMonzoCSV }

func (p *Monzo) Extract(f source.File) (*model.Result, error) {
	return extractCashCSV(f, p.Format(), 0, func(row monzoRow, tx *model.CashTransaction, diag *diagnostics) []string {
		ts, err := parseLocal(row.Date+" "+row.Time, p.opts.Location, "02/01/2006 15:04:05", "02/01/2006 15:04")
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Name = cleanDescription(coalesce(row.Name, row.Description))
		setCurrency(tx, row.Currency, money.GBP, diag)

		amount, err := money.ParseAmount(row.Amount)
		if err != nil {
			diag.add("%v", err)
		} else {
			setAmount(tx, amount)
			tx.Type = signedType(amount)
		}
		tx.Reference = cleanReference(row.Notes)
		tx.CategoryID = resolveCategory(p.opts, p.Format(), row.Category)
		return []string{row.TransactionID}
	})
}
