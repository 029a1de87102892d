package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

var chaseWindow = tableWindow{
	anchor:     "Date Transaction details Amount Balance",
	terminator: "Closing balance",
}

// chaseRowLines is the number of consecutive lines printed per transaction:
// date, details, then amount with the running balance.
const chaseRowLines = 3

var (
	chaseDateLine   = regexp.MustCompile(`(?i)^` + compactDate + `$`)
	chaseAmountLine = regexp.MustCompile(`^([+-])\s*£?([\d,]+\.\d{2})(?:\s+-?£?[\d,]+\.\d{2})?$`)
	chasePageMarker = regexp.MustCompile(`(?i)^page \d+ of \d+$`)
	// "Continued on next page", "(continued)" or a heading ending in "(continued)".
	chaseContinued = regexp.MustCompile(`(?i)^\(?continued\b|\(continued\)$`)
)

// Chase parses Chase UK current account statements, where each transaction
// spans three lines and amounts carry an explicit sign.
type Chase struct {
	opts Options
}

func NewChase(opts Options) *Chase {
	return &Chase{opts: opts.withDefaults()}
}

func (p *Chase) Format() model.Format { return model.FormatChasePDF }

func (p *Chase) Extract(f source.File) (*model.Result, error) {
	pages, err := readPages(f, p.Format())
	if err != nil {
		return nil, err
	}

	b := newPDFBuilder(p.Format(), p.opts.Logger)
	var window []pageLine
	discard := func(reason string) {
		for _, l := range window {
			b.drop(l, reason)
		}
		window = window[:0]
	}

	for _, line := range chaseWindow.lines(pages) {
		text := normalizeSpace(line.Text)
		if isChaseBoundary(text) {
			discard("window crosses " + text)
			continue
		}
		// A window always starts on a date line.
		if len(window) == 0 && !chaseDateLine.MatchString(text) {
			b.drop(line, "expected date line")
			continue
		}
		window = append(window, pageLine{Page: line.Page, Text: text})
		if len(window) < chaseRowLines {
			continue
		}

		row, err := p.parseWindow(window)
		if err != nil {
			discard(err.Error())
			continue
		}
		b.add(row)
		window = window[:0]
	}
	discard("incomplete window")
	return b.result(), nil
}

func (p *Chase) parseWindow(window []pageLine) (pdfRow, error) {
	date, err := parseCompactDate(window[0].Text, p.opts.Location)
	if err != nil {
		return pdfRow{}, err
	}
	m := chaseAmountLine.FindStringSubmatch(window[2].Text)
	if m == nil {
		return pdfRow{}, fmt.Errorf("no signed amount in %q", window[2].Text)
	}
	amount, err := money.ParseAmount(m[2])
	if err != nil {
		return pdfRow{}, err
	}
	if m[1] == "-" {
		amount = amount.Neg()
	}
	return pdfRow{
		Date:   date,
		Name:   window[1].Text,
		Amount: amount,
		Line: pageLine{
			Page: window[0].Page,
			Text: strings.Join([]string{window[0].Text, window[1].Text, window[2].Text}, " | "),
		},
	}, nil
}

func isChaseBoundary(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "opening balance") ||
		chaseContinued.MatchString(text) ||
		chasePageMarker.MatchString(text)
}
