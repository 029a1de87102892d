package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashID(t *testing.T) {
	fields := map[string]string{"date": "2024-01-02", "amount": "-3.50"}

	first := HashID(FormatHSBCPDF, fields)
	second := HashID(FormatHSBCPDF, map[string]string{"amount": "-3.50", "date": "2024-01-02"})

	assert.Equal(t, first, second)
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	assert.NotEqual(t, first, HashID(FormatChasePDF, fields), "format is part of the identity")
	assert.NotEqual(t, first, HashID(FormatHSBCPDF, map[string]string{"date": "2024-01-02", "amount": "-3.51"}))
}

func TestIDAssigner_Assign(t *testing.T) {
	a := NewIDAssigner(FormatMonzoCSV)

	assert.Equal(t, "tx_1", a.Assign("row1", "tx_1"))
	assert.Equal(t, "ref", a.Assign("row2", " ", "ref"))

	dup := a.Assign("row3", "tx_1")
	assert.NotEqual(t, "tx_1", dup)
	assert.Equal(t, HashID(FormatMonzoCSV, "row3"), dup)

	assert.Equal(t, HashID(FormatMonzoCSV, "row4"), a.Assign("row4"))
}

func TestFormat_Kind(t *testing.T) {
	for _, f := range Formats() {
		kind, ok := f.Kind()
		assert.True(t, ok, f)
		assert.True(t, f.Known())
		assert.Contains(t, []Kind{KindCash, KindInvestment}, kind)
	}

	_, ok := FormatUnknown.Kind()
	assert.False(t, ok)
	assert.False(t, Format("bogus").Known())

	kind, _ := FormatCoinbaseCSV.Kind()
	assert.Equal(t, KindInvestment, kind)
}

func TestResult(t *testing.T) {
	cash := NewResult(FormatMonzoCSV)
	assert.NotNil(t, cash.Cash)
	assert.Nil(t, cash.Investments)

	cash.Cash = append(cash.Cash,
		CashTransaction{ID: "a"},
		CashTransaction{ID: "b", Diagnostic: "invalid date"},
	)
	assert.Equal(t, 2, cash.Len())
	assert.Equal(t, []string{"a", "b"}, cash.IDs())
	assert.Equal(t, 1, cash.Diagnostics())

	inv := NewResult(FormatTrading212CSV)
	assert.Equal(t, KindInvestment, inv.Kind)
	assert.NotNil(t, inv.Investments)
	assert.Nil(t, inv.Cash)

	var nilResult *Result
	assert.Zero(t, nilResult.Len())
}

func TestCashTransaction_Magnitude(t *testing.T) {
	assert.Equal(t, "3.50", CashTransaction{Amount: "-3.50"}.Magnitude())
	assert.Equal(t, "10.00", CashTransaction{Amount: "10.00"}.Magnitude())
}

func TestSemanticError(t *testing.T) {
	err := fmt.Errorf("parse: %w", &SemanticError{
		Format: FormatMarcusPDF,
		Page:   2,
		Line:   "10 Feb 2024  Bonus  £5.00  £1,005.00",
		Value:  "Bonus",
	})

	assert.True(t, errors.Is(err, ErrUnrecognizedValue))
	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Contains(t, err.Error(), `marcus-pdf: page 2: unrecognized value "Bonus"`)
}
