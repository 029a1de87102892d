package parser

import (
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

type amexRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Statement   string `csv:"Appears On Your Statement As"`
	Reference   string `csv:"Reference"`
	Category    string `csv:"Category"`
}

// amexCategories maps Amex composite category strings to directory names.
var amexCategories = map[string]string{
	"general purchases-groceries":           "Groceries",
	"general purchases-online purchases":    "Shopping",
	"general purchases-general retail":      "Shopping",
	"entertainment-restaurants":             "Eating Out",
	"entertainment-bars & cafés":            "Eating Out",
	"entertainment-bars & cafes":            "Eating Out",
	"travel-airline":                        "Travel",
	"travel-travel agencies":                "Travel",
	"travel-lodging":                        "Travel",
	"transportation-fuel":                   "Transport",
	"transportation-taxis & coach":          "Transport",
	"business services-mail & delivery":     "Bills",
	"communications-cable & internet comm":  "Bills",
	"fees & adjustments-fees & adjustments": "Fees",
}

// Amex parses the American Express UK activity export. The card reports
// spending as positive numbers, so amounts are negated.
type Amex struct {
	opts Options
}

func NewAmex(opts Options) *Amex {
	return &Amex{opts: opts.withDefaults()}
}

func (p *Amex) Format() model.Format { return model.FormatAmexCSV }

func (p *Amex) Extract(f source.File) (*model.Result, error) {
	return extractCashCSV(f, p.Format(), 0, func(row amexRow, tx *model.CashTransaction, diag *diagnostics) []string {
		ts, err := parseLocal(row.Date, p.opts.Location, "02/01/2006", "02/01/06")
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Name = cleanDescription(coalesce(row.Description, row.Statement))
		tx.Currency = money.GBP

		amount, err := money.ParseAmount(row.Amount)
		if err != nil {
			diag.add("%v", err)
		} else {
			amount = amount.Neg()
			setAmount(tx, amount)
			tx.Type = signedType(amount)
		}

		tx.Reference = cleanReference(row.Reference)
		tx.CategoryID = resolveCategory(p.opts, p.Format(), remapAmexCategory(row.Category))
		return []string{tx.Reference}
	})
}

func remapAmexCategory(category string) string {
	if name, ok := amexCategories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return name
	}
	return category
}
