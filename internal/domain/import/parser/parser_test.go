package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

func TestAll(t *testing.T) {
	extractors := All(Options{})

	seen := make(map[model.Format]bool)
	for _, e := range extractors {
		assert.False(t, seen[e.Format()], "duplicate extractor for %s", e.Format())
		seen[e.Format()] = true
	}
	for _, f := range model.Formats() {
		assert.True(t, seen[f], "no extractor for %s", f)
	}
}

func TestDecodeRow(t *testing.T) {
	header := []string{"Transaction ID", "Date", "Amount"}

	t.Run("maps tagged columns", func(t *testing.T) {
		row, err := decodeRow[monzoRow](header, []string{"tx_1", "01/02/2024", "-3.50"})
		require.NoError(t, err)
		assert.Equal(t, "tx_1", row.TransactionID)
		assert.Equal(t, "-3.50", row.Amount)
		assert.Empty(t, row.Category)
	})

	t.Run("pads short rows", func(t *testing.T) {
		row, err := decodeRow[monzoRow](header, []string{"tx_1"})
		require.NoError(t, err)
		assert.Equal(t, "tx_1", row.TransactionID)
		assert.Empty(t, row.Amount)
	})

	t.Run("cuts long rows", func(t *testing.T) {
		row, err := decodeRow[monzoRow](header, []string{"tx_1", "01/02/2024", "-3.50", "extra"})
		require.NoError(t, err)
		assert.Equal(t, "-3.50", row.Amount)
	})
}

func TestCleanReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`'AT240010012000101234567'`, "AT240010012000101234567"},
		{`"REF 42"`, "REF 42"},
		{`  ref  `, "ref"},
		{`''`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanReference(tt.in))
		})
	}
}
