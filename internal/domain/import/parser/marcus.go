package parser

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

var marcusWindow = tableWindow{
	anchor:     "Date Description Amount Balance",
	terminator: "Closing balance",
}

// marcusFields is the exact column count of a Marcus table row.
const marcusFields = 4

var columnSplit = regexp.MustCompile(`\s{2,}`)

// marcusDescriptions is the closed vocabulary of savings account movements.
var marcusDescriptions = map[string]model.CashType{
	"interest":     model.CashIncome,
	"deposit":      model.CashIncome,
	"transfer in":  model.CashIncome,
	"withdrawal":   model.CashExpense,
	"transfer out": model.CashExpense,
}

// Marcus parses Marcus savings statements. The sign and type come from the
// description, which must be one of a few known values; anything else fails
// the whole file with a *model.SemanticError.
type Marcus struct {
	opts Options
}

func NewMarcus(opts Options) *Marcus {
	return &Marcus{opts: opts.withDefaults()}
}

func (p *Marcus) Format() model.Format { return model.FormatMarcusPDF }

func (p *Marcus) Extract(f source.File) (*model.Result, error) {
	pages, err := readPages(f, p.Format())
	if err != nil {
		return nil, err
	}

	b := newPDFBuilder(p.Format(), p.opts.Logger)
	for _, line := range marcusWindow.lines(pages) {
		fields := columnSplit.Split(strings.TrimSpace(line.Text), -1)
		if len(fields) != marcusFields {
			b.drop(line, "unexpected field count")
			continue
		}

		date, err := parseCompactDate(fields[0], p.opts.Location)
		if err != nil {
			b.drop(line, err.Error())
			continue
		}
		amount, err := money.ParseAmount(fields[2])
		if err != nil {
			b.drop(line, err.Error())
			continue
		}

		desc := cleanDescription(fields[1])
		typ, ok := marcusDescriptions[strings.ToLower(desc)]
		if !ok {
			return nil, &model.SemanticError{
				Format: p.Format(),
				Page:   line.Page,
				Line:   line.Text,
				Value:  desc,
			}
		}
		if typ == model.CashExpense {
			amount = amount.Abs().Neg()
		} else {
			amount = amount.Abs()
		}
		b.add(pdfRow{Date: date, Name: desc, Amount: amount, Type: typ, Line: line})
	}
	return b.result(), nil
}
