// Package model holds the canonical transaction shapes produced by the statement
// import engine, the closed set of institution format tags and the error taxonomy
// shared by the detector, the extractors and the dispatcher.
package model

// Format identifies which institution-specific extractor applies to a file.
type Format string

// Kind is the canonical record shape a format produces.
type Kind string

const (
	KindCash       Kind = "cash"
	KindInvestment Kind = "investment"
)

// Tabular formats also accept XLSX exports of the same table.
const (
	FormatUnknown        Format = "unknown"
	FormatMonzoCSV       Format = "monzo-csv"
	FormatRevolutCSV     Format = "revolut-csv"
	FormatAmexCSV        Format = "amex-csv"
	FormatNationwideCSV  Format = "nationwide-csv"
	FormatTrading212CSV  Format = "trading212-csv"
	FormatCoinbaseCSV    Format = "coinbase-csv"
	FormatBarclaycardPDF Format = "barclaycard-pdf"
	FormatChasePDF       Format = "chase-pdf"
	FormatHSBCPDF        Format = "hsbc-pdf"
	FormatMarcusPDF      Format = "marcus-pdf"
)

var formatKinds = map[Format]Kind{
	FormatMonzoCSV:       KindCash,
	FormatRevolutCSV:     KindCash,
	FormatAmexCSV:        KindCash,
	FormatNationwideCSV:  KindCash,
	FormatTrading212CSV:  KindInvestment,
	FormatCoinbaseCSV:    KindInvestment,
	FormatBarclaycardPDF: KindCash,
	FormatChasePDF:       KindCash,
	FormatHSBCPDF:        KindCash,
	FormatMarcusPDF:      KindCash,
}

// Formats returns every known format tag except FormatUnknown.
func Formats() []Format {
	return []Format{
		FormatMonzoCSV,
		FormatRevolutCSV,
		FormatAmexCSV,
		FormatNationwideCSV,
		FormatTrading212CSV,
		FormatCoinbaseCSV,
		FormatBarclaycardPDF,
		FormatChasePDF,
		FormatHSBCPDF,
		FormatMarcusPDF,
	}
}

// Kind returns the record shape for the format. The second value is false for
// FormatUnknown and any tag outside the closed set.
func (f Format) Kind() (Kind, bool) {
	k, ok := formatKinds[f]
	return k, ok
}

// Known reports whether f is a member of the closed set.
func (f Format) Known() bool {
	_, ok := formatKinds[f]
	return ok
}

func (f Format) String() string {
	return string(f)
}
