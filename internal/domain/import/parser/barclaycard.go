package parser

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

var barclaycardWindow = tableWindow{
	anchor:     "Transaction date Posting date Description Amount",
	terminator: "Total new spend",
}

// barclaycardLine: transaction date, posting date, description, amount, CR.
var barclaycardLine = regexp.MustCompile(
	`(?i)^(` + compactDate + `)\s+(` + compactDate + `)\s+(.+?)\s+£?([\d,]+\.\d{2})(\s*CR)?$`,
)

// Barclaycard parses credit card statements. Every row has two dates; the
// posting date is authoritative. Amounts are debits unless marked CR.
type Barclaycard struct {
	opts Options
}

func NewBarclaycard(opts Options) *Barclaycard {
	return &Barclaycard{opts: opts.withDefaults()}
}

func (p *Barclaycard) Format() model.Format { return model.FormatBarclaycardPDF }

func (p *Barclaycard) Extract(f source.File) (*model.Result, error) {
	pages, err := readPages(f, p.Format())
	if err != nil {
		return nil, err
	}

	b := newPDFBuilder(p.Format(), p.opts.Logger)
	for _, line := range barclaycardWindow.lines(pages) {
		m := barclaycardLine.FindStringSubmatch(normalizeSpace(line.Text))
		if m == nil {
			b.drop(line, "no match")
			continue
		}
		posted, err := parseCompactDate(m[2], p.opts.Location)
		if err != nil {
			b.drop(line, err.Error())
			continue
		}
		amount, err := money.ParseAmount(m[4])
		if err != nil {
			b.drop(line, err.Error())
			continue
		}
		b.add(pdfRow{
			Date:   posted,
			Name:   m[3],
			Amount: creditSigned(amount, strings.TrimSpace(m[5]) != ""),
			Line:   line,
		})
	}
	return b.result(), nil
}
