package parser

import (
	"log/slog"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

type revolutRow struct {
	Type          string `csv:"Type"`
	Product       string `csv:"Product"`
	StartedDate   string `csv:"Started Date"`
	CompletedDate string `csv:"Completed Date"`
	Description   string `csv:"Description"`
	Amount        string `csv:"Amount"`
	Fee           string `csv:"Fee"`
	Currency      string `csv:"Currency"`
	State         string `csv:"State"`
}

var revolutTypes = map[string]model.CashType{
	"TOPUP":        model.CashIncome,
	"REFUND":       model.CashIncome,
	"CARD_REFUND":  model.CashIncome,
	"CASHBACK":     model.CashIncome,
	"REWARD":       model.CashIncome,
	"TRANSFER":     model.CashTransfer,
	"EXCHANGE":     model.CashTransfer,
	"CARD_PAYMENT": model.CashExpense,
	"ATM":          model.CashExpense,
	"FEE":          model.CashExpense,
}

// Revolut parses the Revolut account statement export. The type comes from
// the explicit Type column; unknown values fall back to the amount sign.
type Revolut struct {
	opts Options
}

func NewRevolut(opts Options) *Revolut {
	return &Revolut{opts: opts.withDefaults()}
}

func (p *Revolut) Format() model.Format { return model.FormatRevolutCSV }

func (p *Revolut) Extract(f source.File) (*model.Result, error) {
	return extractCashCSV(f, p.Format(), 0, func(row revolutRow, tx *model.CashTransaction, diag *diagnostics) []string {
		ts, err := parseLocal(coalesce(row.CompletedDate, row.StartedDate), p.opts.Location,
			"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02")
		if err != nil {
			diag.add("%v", err)
		}
		tx.Timestamp = ts
		tx.Name = cleanDescription(row.Description)
		setCurrency(tx, row.Currency, money.GBP, diag)

		if state := strings.TrimSpace(row.State); state != "" && !strings.EqualFold(state, "COMPLETED") {
			diag.add("transaction state %s", state)
		}

		amount, err := money.ParseAmount(row.Amount)
		if err != nil {
			diag.add("%v", err)
			return nil
		}
		setAmount(tx, amount)

		kind := strings.ToUpper(strings.TrimSpace(row.Type))
		typ, ok := revolutTypes[kind]
		if !ok {
			p.opts.Logger.Warn("unmapped transaction type",
				slog.String("format", string(p.Format())),
				slog.String("type", row.Type),
			)
			typ = signedType(amount)
		}
		tx.Type = typ
		return nil
	})
}
