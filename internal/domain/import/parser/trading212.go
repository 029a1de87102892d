package parser

import (
	"strings"
	"time"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

type trading212Row struct {
	Action         string `csv:"Action"`
	Time           string `csv:"Time"`
	Ticker         string `csv:"Ticker"`
	Name           string `csv:"Name"`
	Shares         string `csv:"No. of shares"`
	Price          string `csv:"Price / share"`
	PriceCurrency  string `csv:"Currency (Price / share)"`
	Total          string `csv:"Total"`
	TotalCurrency  string `csv:"Currency (Total)"`
	ConversionFee  string `csv:"Currency conversion fee"`
	StampDuty      string `csv:"Stamp duty reserve tax"`
	TransactionFee string `csv:"Transaction fee"`
	FinraFee       string `csv:"Finra fee"`
	ID             string `csv:"ID"`
	Notes          string `csv:"Notes"`
}

// Trading212 parses the Trading 212 history export. Types come from the
// free-text Action column; timestamps are UTC.
type Trading212 struct {
	opts       Options
	classifier *keywordClassifier
}

func NewTrading212(opts Options) *Trading212 {
	return &Trading212{opts: opts.withDefaults(), classifier: newKeywordClassifier()}
}

func (p *Trading212) Format() model.Format { return model.FormatTrading212CSV }

func (p *Trading212) Extract(f source.File) (*model.Result, error) {
	return extractInvestmentCSV(f, p.Format(), 0, func(row trading212Row, tx *model.InvestmentTransaction, diag *diagnostics) []string {
		ts, err := parseLocal(row.Time, time.UTC, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z")
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Type = p.classifier.classifyLogged(p.opts.Logger, p.Format(), row.Action)
		tx.Name = cleanDescription(coalesce(row.Name, row.Action))
		tx.Asset = strings.TrimSpace(row.Ticker)

		currency := coalesce(row.TotalCurrency, row.PriceCurrency)
		if currency != "" {
			if code, ok := money.NormalizeCurrency(currency); ok {
				currency = code
			} else {
				diag.add("unknown currency %q", currency)
			}
		}
		tx.Currency = currency

		qty := optionalAmount(strings.TrimSpace(row.Shares), "No. of shares", diag)
		tx.Quantity = money.FormatQuantity(signQuantity(tx.Type, qty))
		tx.UnitPrice = money.FormatQuantity(optionalAmount(strings.TrimSpace(row.Price), "Price / share", diag))

		fees := optionalAmount(strings.TrimSpace(row.ConversionFee), "Currency conversion fee", diag).
			Add(optionalAmount(strings.TrimSpace(row.StampDuty), "Stamp duty reserve tax", diag)).
			Add(optionalAmount(strings.TrimSpace(row.TransactionFee), "Transaction fee", diag)).
			Add(optionalAmount(strings.TrimSpace(row.FinraFee), "Finra fee", diag))
		tx.Fees = money.Format(fees, currency)

		if strings.TrimSpace(row.Total) == "" {
			diag.add("missing total")
		}
		tx.Total = money.Format(optionalAmount(strings.TrimSpace(row.Total), "Total", diag), currency)
		return []string{row.ID}
	})
}
