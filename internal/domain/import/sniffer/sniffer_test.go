package sniffer

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
)

func newTestDetector() *Detector {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func csvFile(name string, lines ...string) source.File {
	return source.NewFile(name, []byte(strings.Join(lines, "\n")+"\n"))
}

func TestDetector_Tables(t *testing.T) {
	tests := []struct {
		name string
		file source.File
		want model.Format
	}{
		{
			name: "monzo",
			file: csvFile("a.csv",
				"Transaction ID,Date,Time,Type,Name,Emoji,Category,Amount,Currency,Local amount,Local currency,Notes and #tags,Address,Receipt,Description,Category split,Money Out,Money In",
				"abc123,01/02/2024,14:30:00,Payment,Coffee Shop,☕,Eating Out,-3.50,GBP,-3.50,GBP,,,,,,-3.50,",
			),
			want: model.FormatMonzoCSV,
		},
		{
			name: "monzo header with an extra column is not exact",
			file: csvFile("a.csv",
				"Transaction ID,Date,Time,Type,Name,Emoji,Category,Amount,Currency,Local amount,Local currency,Notes and #tags,Address,Receipt,Description,Category split,Money Out,Money In,Extra",
			),
			want: model.FormatUnknown,
		},
		{
			name: "revolut",
			file: csvFile("a.csv",
				"Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance",
			),
			want: model.FormatRevolutCSV,
		},
		{
			name: "amex",
			file: csvFile("a.csv",
				"Date,Description,Amount,Extended Details,Appears On Your Statement As,Address,Town/City,Postcode,Country,Reference,Category",
			),
			want: model.FormatAmexCSV,
		},
		{
			name: "trading212",
			file: csvFile("a.csv",
				"Action,Time,ISIN,Ticker,Name,No. of shares,Price / share,Currency (Price / share),Exchange rate,Total,Currency (Total),ID",
			),
			want: model.FormatTrading212CSV,
		},
		{
			name: "coinbase preamble",
			file: csvFile("a.csv",
				"Transactions",
				"User,Jane Doe,2f1b9c3e",
				"",
				"ID,Timestamp,Transaction Type,Asset,Quantity Transacted,Price Currency,Price at Transaction,Subtotal,Total (inclusive of fees and/or spread),Fees and/or Spread,Notes",
			),
			want: model.FormatCoinbaseCSV,
		},
		{
			name: "coinbase header without marker",
			file: csvFile("a.csv",
				"ID,Timestamp,Transaction Type,Asset,Quantity Transacted,Price Currency",
			),
			want: model.FormatUnknown,
		},
		{
			name: "nationwide preamble",
			file: csvFile("a.csv",
				`"Account Name:","FlexAccount ****01234"`,
				`"Account Balance:","£1,000.00"`,
				`"Available Balance: ","£1,000.00"`,
				"",
				`"Date","Transaction type","Description","Paid out","Paid in","Balance"`,
			),
			want: model.FormatNationwideCSV,
		},
		{
			name: "semicolon delimited",
			file: csvFile("a.csv",
				"Type;Product;Started Date;Completed Date;Description;Amount;Fee;Currency;State;Balance",
			),
			want: model.FormatRevolutCSV,
		},
		{
			name: "case and padding are ignored",
			file: csvFile("a.csv",
				" date , DESCRIPTION ,amount,Reference",
			),
			want: model.FormatAmexCSV,
		},
		{
			name: "no recognizable header",
			file: csvFile("a.csv",
				"foo,bar,baz",
				"1,2,3",
			),
			want: model.FormatUnknown,
		},
		{
			name: "empty file",
			file: csvFile("a.csv"),
			want: model.FormatUnknown,
		},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.file))
		})
	}
}

func TestDetector_Precedence(t *testing.T) {
	// Satisfies both the Revolut and the Amex fingerprints; Revolut is
	// checked first.
	f := csvFile("a.csv",
		"Type,Started Date,Completed Date,Date,Description,Amount,Currency,State,Reference",
	)

	assert.Equal(t, model.FormatRevolutCSV, newTestDetector().Detect(f))

	for i, fp := range tableFingerprints {
		if fp.format == model.FormatRevolutCSV {
			assert.Equal(t, model.FormatAmexCSV, tableFingerprints[i+1].format)
		}
	}
}

func TestDetector_PDF(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  model.Format
	}{
		{"barclaycard", []string{"Barclaycard\nTransaction date Posting date"}, model.FormatBarclaycardPDF},
		{"chase", []string{"Statement\nJPMorgan Chase Bank, N.A. is authorised"}, model.FormatChasePDF},
		{"hsbc", []string{"HSBC UK Bank plc\nYour Statement"}, model.FormatHSBCPDF},
		{"marcus on a later page", []string{"Dear customer", "Marcus by Goldman Sachs\nDate Description"}, model.FormatMarcusPDF},
		{"first page markers only", []string{"Dear customer", "HSBC UK Bank plc"}, model.FormatUnknown},
		{"priority order", []string{"HSBC UK Bank plc\nPaid with Barclaycard"}, model.FormatBarclaycardPDF},
		{"no marker", []string{"Some other bank"}, model.FormatUnknown},
		{"no pages", nil, model.FormatUnknown},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(source.NewPagesFile("statement.pdf", tt.pages)))
		})
	}
}

func TestDetector_UnreadablePDF(t *testing.T) {
	f := source.NewFile("statement.pdf", []byte("not a pdf"))
	assert.Equal(t, model.FormatUnknown, newTestDetector().Detect(f))
}

func TestDetector_UnsupportedExtension(t *testing.T) {
	f := source.NewFile("statement.ofx", []byte("<OFX>"))
	assert.Equal(t, model.FormatUnknown, newTestDetector().Detect(f))
}

func TestDetector_XLSX(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	header := []any{"Type", "Product", "Started Date", "Completed Date", "Description", "Amount", "Fee", "Currency", "State", "Balance"}
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &header))
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	f := source.NewFile("export.xlsx", buf.Bytes())
	assert.Equal(t, model.FormatRevolutCSV, newTestDetector().Detect(f))
}

func TestDetector_LogsUnknownFingerprint(t *testing.T) {
	var logs bytes.Buffer
	d := New(slog.New(slog.NewJSONHandler(&logs, nil)))

	got := d.Detect(csvFile("mystery.csv", "foo,bar,baz"))

	assert.Equal(t, model.FormatUnknown, got)
	assert.Contains(t, logs.String(), "unrecognized table statement")
	assert.Contains(t, logs.String(), generateFingerprint([]string{"foo", "bar", "baz"}))
}

func TestGenerateFingerprint(t *testing.T) {
	a := generateFingerprint([]string{"Date", "Amount"})
	b := generateFingerprint([]string{" date ", "AMOUNT!"})
	c := generateFingerprint([]string{"Amount", "Date"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
