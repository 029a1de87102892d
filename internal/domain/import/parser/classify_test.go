package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	c := newKeywordClassifier()

	tests := []struct {
		text    string
		want    model.InvestmentType
		matched bool
	}{
		{"Market buy", model.InvestmentBuy, true},
		{"Limit sell", model.InvestmentSell, true},
		{"Advanced Trade Buy", model.InvestmentBuy, true},
		{"Deposit", model.InvestmentDeposit, true},
		{"Staking Income", model.InvestmentReward, true},
		{"Learning Reward", model.InvestmentReward, true},
		{"Dividend (Ordinary)", model.InvestmentDividend, true},
		{"Interest on cash", model.InvestmentInterest, true},
		{"Custody fee", model.InvestmentFee, true},
		{"Withdrawal", model.InvestmentOther, false},
		{"Convert", model.InvestmentOther, false},
		{"", model.InvestmentOther, false},
		// Precedence: buy beats sell, sell beats fee, dividend beats interest.
		{"Buy back after sell", model.InvestmentBuy, true},
		{"Sell incl. fee", model.InvestmentSell, true},
		{"Dividend interest", model.InvestmentDividend, true},
		{"Deposit bonus reward", model.InvestmentDeposit, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := c.Classify(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, ok)
		})
	}
}
