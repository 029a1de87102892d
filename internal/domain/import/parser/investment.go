package parser

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

type investmentRowFunc[T any] func(row T, tx *model.InvestmentTransaction, diag *diagnostics) []string

// extractInvestmentCSV is the investment counterpart of extractCashCSV.
func extractInvestmentCSV[T any](f source.File, format model.Format, skipRows int, build investmentRowFunc[T]) (*model.Result, error) {
	table, err := source.ReadTable(f, source.TableOptions{SkipRows: skipRows})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	res := model.NewResult(format)
	ids := model.NewIDAssigner(format)
	for _, row := range table.Rows {
		var diag diagnostics
		if row.Err != nil {
			diag.add("%v", row.Err)
		}

		tx := model.InvestmentTransaction{Type: model.InvestmentOther, Metadata: table.Record(row)}
		var candidates []string
		rec, err := decodeRow[T](table.Header, row.Fields)
		if err != nil {
			diag.add("line %d: %v", row.Line, err)
		} else {
			candidates = build(rec, &tx, &diag)
		}
		tx.Diagnostic = diag.String()
		tx.ID = ids.Assign(investmentFields(tx), candidates...)
		res.Investments = append(res.Investments, tx)
	}
	return res, nil
}

func investmentFields(tx model.InvestmentTransaction) any {
	return struct {
		Timestamp time.Time            `json:"timestamp"`
		Name      string               `json:"name"`
		Type      model.InvestmentType `json:"type"`
		Asset     string               `json:"asset"`
		Quantity  string               `json:"quantity"`
		Currency  string               `json:"currency"`
		UnitPrice string               `json:"unit_price"`
		Fees      string               `json:"fees"`
		Total     string               `json:"total"`
		Metadata  map[string]string    `json:"metadata,omitempty"`
	}{tx.Timestamp, tx.Name, tx.Type, tx.Asset, tx.Quantity, tx.Currency, tx.UnitPrice, tx.Fees, tx.Total, tx.Metadata}
}

// signQuantity makes sells negative and everything else positive.
func signQuantity(typ model.InvestmentType, q decimal.Decimal) decimal.Decimal {
	if typ == model.InvestmentSell {
		return q.Abs().Neg()
	}
	return q.Abs()
}

// optionalAmount parses an amount column that may be blank. Blank is zero.
func optionalAmount(raw, column string, diag *diagnostics) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := money.ParseAmount(raw)
	if err != nil {
		diag.add("%s: %v", column, err)
		return decimal.Zero
	}
	return d
}
