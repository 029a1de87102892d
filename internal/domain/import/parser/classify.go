package parser

import (
	"log/slog"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

// investmentKeywords lists the classifier vocabulary in precedence order.
var investmentKeywords = []struct {
	typ   model.InvestmentType
	words []string
}{
	{model.InvestmentBuy, []string{"buy", "purchase"}},
	{model.InvestmentSell, []string{"sell", "sale"}},
	{model.InvestmentDeposit, []string{"deposit", "top up", "top-up"}},
	{model.InvestmentReward, []string{"reward", "staking", "earn", "cashback", "bonus"}},
	{model.InvestmentDividend, []string{"dividend"}},
	{model.InvestmentInterest, []string{"interest"}},
	{model.InvestmentFee, []string{"fee", "commission"}},
}

// keywordClassifier maps free text to an investment type. All keywords are
// matched in one pass; the highest-precedence type among the hits wins.
type keywordClassifier struct {
	matcher *ahocorasick.Matcher
	rank    []int
}

func newKeywordClassifier() *keywordClassifier {
	var patterns [][]byte
	var rank []int
	for i, group := range investmentKeywords {
		for _, w := range group.words {
			patterns = append(patterns, []byte(w))
			rank = append(rank, i)
		}
	}
	return &keywordClassifier{matcher: ahocorasick.NewMatcher(patterns), rank: rank}
}

// Classify returns the type for text and whether any keyword matched.
// Unmatched text is InvestmentOther.
func (c *keywordClassifier) Classify(text string) (model.InvestmentType, bool) {
	hits := c.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return model.InvestmentOther, false
	}
	best := len(investmentKeywords)
	for _, h := range hits {
		if c.rank[h] < best {
			best = c.rank[h]
		}
	}
	return investmentKeywords[best].typ, true
}

// classifyLogged classifies and logs unclassified text.
func (c *keywordClassifier) classifyLogged(logger *slog.Logger, format model.Format, text string) model.InvestmentType {
	typ, ok := c.Classify(text)
	if !ok {
		logger.Warn("unclassified transaction type",
			slog.String("format", string(format)),
			slog.String("text", text),
		)
	}
	return typ
}
