package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// nationwidePreamble is the number of account summary records above the header.
const nationwidePreamble = 3

type nationwideRow struct {
	Date        string `csv:"Date"`
	Type        string `csv:"Transaction type"`
	Description string `csv:"Description"`
	PaidOut     string `csv:"Paid out"`
	PaidIn      string `csv:"Paid in"`
	Balance     string `csv:"Balance"`
}

// Nationwide parses the Nationwide current account export: a three line
// account preamble, then separate Paid out and Paid in columns carrying a
// pound glyph. Legacy exports are Windows-1252 encoded.
type Nationwide struct {
	opts Options
}

func NewNationwide(opts Options) *Nationwide {
	return &Nationwide{opts: opts.withDefaults()}
}

func (p *Nationwide) Format() model.Format { return model.FormatNationwideCSV }

func (p *Nationwide) Extract(f source.File) (*model.Result, error) {
	return extractCashCSV(f, p.Format(), nationwidePreamble, func(row nationwideRow, tx *model.CashTransaction, diag *diagnostics) []string {
		ts, err := parseCompactDate(row.Date, p.opts.Location)
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Name = cleanDescription(coalesce(row.Description, row.Type))
		tx.Currency = money.GBP

		amount, err := debitCredit(row.PaidOut, row.PaidIn)
		if err != nil {
			diag.add("%v", err)
			return nil
		}
		setAmount(tx, amount)
		tx.Type = signedType(amount)
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(row.Type)), "transfer ") {
			tx.Type = model.CashTransfer
		}
		return nil
	})
}

// debitCredit combines double-entry columns into one signed amount: money out
// is negative, money in positive.
func debitCredit(out, in string) (decimal.Decimal, error) {
	out, in = strings.TrimSpace(out), strings.TrimSpace(in)
	switch {
	case out != "" && in != "":
		return decimal.Zero, fmt.Errorf("both paid out %q and paid in %q set", out, in)
	case out != "":
		d, err := money.ParseAmount(out)
		if err != nil {
			return decimal.Zero, err
		}
		return d.Abs().Neg(), nil
	case in != "":
		d, err := money.ParseAmount(in)
		if err != nil {
			return decimal.Zero, err
		}
		return d.Abs(), nil
	}
	return decimal.Zero, fmt.Errorf("no amount")
}
