package parser

import (
	"strings"
	"time"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// coinbasePreamble covers the "Transactions" title and the user line.
const coinbasePreamble = 2

type coinbaseRow struct {
	ID            string `csv:"ID"`
	Timestamp     string `csv:"Timestamp"`
	Type          string `csv:"Transaction Type"`
	Asset         string `csv:"Asset"`
	Quantity      string `csv:"Quantity Transacted"`
	PriceCurrency string `csv:"Price Currency"`
	Price         string `csv:"Price at Transaction"`
	Subtotal      string `csv:"Subtotal"`
	Total         string `csv:"Total (inclusive of fees and/or spread)"`
	Fees          string `csv:"Fees and/or Spread"`
	Notes         string `csv:"Notes"`
}

// Coinbase parses the Coinbase transaction history export. Money columns carry
// currency glyphs which are stripped; the type comes from Transaction Type.
type Coinbase struct {
	opts       Options
	classifier *keywordClassifier
}

func NewCoinbase(opts Options) *Coinbase {
	return &Coinbase{opts: opts.withDefaults(), classifier: newKeywordClassifier()}
}

func (p *Coinbase) Format() model.Format { return model.FormatCoinbaseCSV }

func (p *Coinbase) Extract(f source.File) (*model.Result, error) {
	return extractInvestmentCSV(f, p.Format(), coinbasePreamble, func(row coinbaseRow, tx *model.InvestmentTransaction, diag *diagnostics) []string {
		ts, err := parseLocal(strings.TrimSuffix(strings.TrimSpace(row.Timestamp), " UTC"), time.UTC,
			"2006-01-02 15:04:05", "2006-01-02T15:04:05Z")
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Type = p.classifier.classifyLogged(p.opts.Logger, p.Format(), row.Type)
		tx.Asset = strings.ToUpper(strings.TrimSpace(row.Asset))
		tx.Name = cleanDescription(coalesce(row.Notes, row.Type))

		currency := strings.TrimSpace(row.PriceCurrency)
		if code, ok := money.NormalizeCurrency(currency); ok {
			currency = code
		} else if currency != "" {
			diag.add("unknown currency %q", currency)
		}
		tx.Currency = currency

		qty := optionalAmount(strings.TrimSpace(row.Quantity), "Quantity Transacted", diag)
		tx.Quantity = money.FormatQuantity(signQuantity(tx.Type, qty))
		tx.UnitPrice = money.FormatQuantity(optionalAmount(strings.TrimSpace(row.Price), "Price at Transaction", diag))
		tx.Fees = money.Format(optionalAmount(strings.TrimSpace(row.Fees), "Fees and/or Spread", diag), currency)

		total := coalesce(row.Total, row.Subtotal)
		if total == "" {
			diag.add("missing total")
		}
		tx.Total = money.Format(optionalAmount(total, "Total", diag), currency)
		return []string{row.ID}
	})
}
