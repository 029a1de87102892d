package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CashType classifies a cash movement.
type CashType string

const (
	CashExpense  CashType = "expense"
	CashIncome   CashType = "income"
	CashTransfer CashType = "transfer"
)

// InvestmentType classifies a brokerage movement. InvestmentOther is the explicit
// "unclassified" outcome.
type InvestmentType string

const (
	InvestmentBuy      InvestmentType = "buy"
	InvestmentSell     InvestmentType = "sell"
	InvestmentDeposit  InvestmentType = "deposit"
	InvestmentReward   InvestmentType = "reward"
	InvestmentDividend InvestmentType = "dividend"
	InvestmentInterest InvestmentType = "interest"
	InvestmentFee      InvestmentType = "fee"
	InvestmentOther    InvestmentType = "other"
)

// CashTransaction is the canonical bank/card record.
type CashTransaction struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Name       string            `json:"name"`
	Type       CashType          `json:"type"`
	Currency   string            `json:"currency"`
	Amount     string            `json:"amount"` // signed, negative = outgoing
	CategoryID *uuid.UUID        `json:"category_id,omitempty"`
	Reference  string            `json:"reference,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Diagnostic string            `json:"diagnostic,omitempty"`
}

// Magnitude returns the amount without its sign.
func (t CashTransaction) Magnitude() string {
	return strings.TrimPrefix(t.Amount, "-")
}

// InvestmentTransaction is the canonical brokerage record.
type InvestmentTransaction struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Name       string            `json:"name"`
	Type       InvestmentType    `json:"type"`
	Asset      string            `json:"asset"`
	Quantity   string            `json:"quantity"` // signed, sells are negative
	Currency   string            `json:"currency"`
	UnitPrice  string            `json:"unit_price"`
	Fees       string            `json:"fees"`
	Total      string            `json:"total"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Diagnostic string            `json:"diagnostic,omitempty"`
}

// Result is the homogeneous output of one extraction: Cash is used for cash
// formats, Investments for investment formats, never both.
type Result struct {
	Format      Format
	Kind        Kind
	Cash        []CashTransaction
	Investments []InvestmentTransaction
	// Dropped counts lines inside a PDF transaction window that could not be
	// segmented into a row.
	Dropped int
}

// NewResult returns an empty result for the format.
func NewResult(format Format) *Result {
	kind, _ := format.Kind()
	r := &Result{Format: format, Kind: kind}
	if kind == KindInvestment {
		r.Investments = make([]InvestmentTransaction, 0)
	} else {
		r.Cash = make([]CashTransaction, 0)
	}
	return r
}

// Len returns the number of records regardless of kind.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	if r.Kind == KindInvestment {
		return len(r.Investments)
	}
	return len(r.Cash)
}

// IDs returns the record ids in output order.
func (r *Result) IDs() []string {
	ids := make([]string, 0, r.Len())
	for _, tx := range r.Cash {
		ids = append(ids, tx.ID)
	}
	for _, tx := range r.Investments {
		ids = append(ids, tx.ID)
	}
	return ids
}

// Diagnostics counts records carrying a row diagnostic.
func (r *Result) Diagnostics() int {
	n := 0
	for _, tx := range r.Cash {
		if tx.Diagnostic != "" {
			n++
		}
	}
	for _, tx := range r.Investments {
		if tx.Diagnostic != "" {
			n++
		}
	}
	return n
}

// UpsertStats reports how a sink absorbed a batch. Re-importing a file moves
// its records from Inserted to Updated.
type UpsertStats struct {
	Inserted int
	Updated  int
}

// Add accumulates other into s.
func (s *UpsertStats) Add(other UpsertStats) {
	s.Inserted += other.Inserted
	s.Updated += other.Updated
}
