package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

var hsbcWindow = tableWindow{
	anchor:     "Date Payment type and details Paid out Paid in Balance",
	terminator: "BALANCE CARRIED FORWARD",
}

// hsbcLine: optional date, details, amount, optional CR, optional balance.
// HSBC prints the date only on the first transaction of each day.
var hsbcLine = regexp.MustCompile(
	`(?i)^(?:(` + compactDate + `)\s+)?(.+?)\s+£?([\d,]+\.\d{2})(\s*CR)?(?:\s+£?[\d,]+\.\d{2}(?:\s*(?:CR|D))?)?$`,
)

// HSBC parses HSBC UK current account statements. Amounts are debits unless
// followed by CR.
type HSBC struct {
	opts Options
}

func NewHSBC(opts Options) *HSBC {
	return &HSBC{opts: opts.withDefaults()}
}

func (p *HSBC) Format() model.Format { return model.FormatHSBCPDF }

func (p *HSBC) Extract(f source.File) (*model.Result, error) {
	pages, err := readPages(f, p.Format())
	if err != nil {
		return nil, err
	}

	b := newPDFBuilder(p.Format(), p.opts.Logger)
	var current time.Time
	for _, line := range hsbcWindow.lines(pages) {
		text := normalizeSpace(line.Text)
		if strings.Contains(strings.ToUpper(text), "BALANCE BROUGHT FORWARD") {
			if d, err := parseCompactDate(leadingDate(text), p.opts.Location); err == nil {
				current = d
			}
			continue
		}

		m := hsbcLine.FindStringSubmatch(text)
		if m == nil {
			b.drop(line, "no match")
			continue
		}
		if m[1] != "" {
			d, err := parseCompactDate(m[1], p.opts.Location)
			if err != nil {
				b.drop(line, err.Error())
				continue
			}
			current = d
		}
		if current.IsZero() {
			b.drop(line, "no date")
			continue
		}
		amount, err := money.ParseAmount(m[3])
		if err != nil {
			b.drop(line, err.Error())
			continue
		}
		b.add(pdfRow{
			Date:   current,
			Name:   m[2],
			Amount: creditSigned(amount, strings.TrimSpace(m[4]) != ""),
			Line:   line,
		})
	}
	return b.result(), nil
}

var leadingDatePattern = regexp.MustCompile(`(?i)^` + compactDate)

func leadingDate(text string) string {
	return leadingDatePattern.FindString(text)
}
