package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// cashRowFunc fills tx from one decoded issuer row and returns the native id
// candidates in preference order.
type cashRowFunc[T any] func(row T, tx *model.CashTransaction, diag *diagnostics) []string

// extractCashCSV runs the shared CSV loop: tokenize, decode each row into T,
// build the record and assign its id. Every row yields exactly one record.
func extractCashCSV[T any](f source.File, format model.Format, skipRows int, build cashRowFunc[T]) (*model.Result, error) {
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

		tx := model.CashTransaction{Metadata: table.Record(row)}
		rec, err := decodeRow[T](table.Header, row.Fields)
		if err != nil {
			diag.add("line %d: %v", row.Line, err)
			tx.ID = ids.Assign(cashFields(tx))
			tx.Diagnostic = diag.String()
			res.Cash = append(res.Cash, tx)
			continue
		}

		candidates := build(rec, &tx, &diag)
		tx.Diagnostic = diag.String()
		tx.ID = ids.Assign(cashFields(tx), candidates...)
		res.Cash = append(res.Cash, tx)
	}
	return res, nil
}

// cashFields is the hashed identity of a cash record.
func cashFields(tx model.CashTransaction) any {
	return struct {
		Timestamp time.Time         `json:"timestamp"`
		Name      string            `json:"name"`
		Type      model.CashType    `json:"type"`
		Currency  string            `json:"currency"`
		Amount    string            `json:"amount"`
		Reference string            `json:"reference,omitempty"`
		Metadata  map[string]string `json:"metadata,omitempty"`
	}{tx.Timestamp, tx.Name, tx.Type, tx.Currency, tx.Amount, tx.Reference, tx.Metadata}
}

// signedType infers the cash type from the sign: negative is an expense.
func signedType(amount decimal.Decimal) model.CashType {
	if amount.IsNegative() {
		return model.CashExpense
	}
	return model.CashIncome
}

// setAmount stores the signed amount fixed to the currency's minor units.
func setAmount(tx *model.CashTransaction, amount decimal.Decimal) {
	tx.Amount = money.Format(amount, tx.Currency)
}

// setCurrency validates the source currency, falling back to def.
func setCurrency(tx *model.CashTransaction, raw, def string, diag *diagnostics) {
	if strings.TrimSpace(raw) == "" {
		tx.Currency = def
		return
	}
	code, ok := money.NormalizeCurrency(raw)
	if !ok {
		diag.add("unknown currency %q", raw)
	}
	tx.Currency = code
}

// resolveCategory looks the name up in the directory. A miss leaves the
// category unset and is logged, never reported as a row problem.
func resolveCategory(opts Options, format model.Format, name string) *uuid.UUID {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	id, ok := opts.Categories.Lookup(name)
	if !ok {
		opts.Logger.Info("category not mapped",
			slog.String("format", string(format)),
			slog.String("category", name),
		)
		return nil
	}
	return &id
}
