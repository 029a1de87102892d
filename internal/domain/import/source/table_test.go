package source

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTable(t *testing.T) {
	t.Run("tokenizes quoted fields and skips blank lines", func(t *testing.T) {
		csv := "Date,Description,Amount\n" +
			"01/02/2024,\"Coffee, large\",-3.50\n" +
			"\n" +
			",,\n" +
			"02/02/2024,Salary,2000.00\n"

		table, err := ReadTable(NewFile("statement.csv", []byte(csv)), TableOptions{})
		require.NoError(t, err)

		assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Header)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Coffee, large", table.Rows[0].Fields[1])
		assert.Equal(t, 2, table.Rows[0].Line)
		assert.Equal(t, 5, table.Rows[1].Line)
		assert.NoError(t, table.Rows[1].Err)
	})

	t.Run("sniffs semicolon delimiter", func(t *testing.T) {
		csv := "Date;Description;Amount\n01/02/2024;Coffee;-3,50\n"

		table, err := ReadTable(NewFile("statement.csv", []byte(csv)), TableOptions{})
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "-3,50", table.Rows[0].Fields[2])
	})

	t.Run("field count mismatch is attached to the row", func(t *testing.T) {
		csv := "Date,Description,Amount\n01/02/2024,Coffee\n02/02/2024,Tea,-2.00\n"

		table, err := ReadTable(NewFile("statement.csv", []byte(csv)), TableOptions{})
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		require.Error(t, table.Rows[0].Err)
		assert.Contains(t, table.Rows[0].Err.Error(), "expected 3 fields, got 2")
		assert.Equal(t, []string{"01/02/2024", "Coffee"}, table.Rows[0].Fields)
		assert.NoError(t, table.Rows[1].Err)
	})

	t.Run("skips preamble records", func(t *testing.T) {
		csv := "Account Name:,Current ****1234\n" +
			"Account Balance:,£100.00\n" +
			"\n" +
			"Available Balance:,£100.00\n" +
			"Date,Transaction type,Description,Paid out,Paid in,Balance\n" +
			"02 Jan 2024,Payment,Shop,£3.50,,£96.50\n"

		table, err := ReadTable(NewFile("statement.csv", []byte(csv)), TableOptions{SkipRows: 3})
		require.NoError(t, err)
		assert.Equal(t, "Date", table.Header[0])
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "£3.50", table.Rows[0].Fields[3])
	})

	t.Run("header only yields no rows", func(t *testing.T) {
		table, err := ReadTable(NewFile("statement.csv", []byte("Date,Description,Amount\n")), TableOptions{})
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadTable(NewFile("statement.csv", []byte("  \n")), TableOptions{})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("preamble longer than file", func(t *testing.T) {
		_, err := ReadTable(NewFile("statement.csv", []byte("a,b\n")), TableOptions{SkipRows: 2})
		assert.ErrorIs(t, err, ErrNoHeader)
	})

	t.Run("pdf is not tabular", func(t *testing.T) {
		_, err := ReadTable(NewFile("statement.pdf", []byte("%PDF-1.4")), TableOptions{})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestReadTable_XLSX(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Date", "Description", "Amount"},
		{"01/02/2024", "Coffee", "-3.50"},
		{},
		{"02/02/2024", "Refund"},
	})

	table, err := ReadTable(NewFile("statement.xlsx", data), TableOptions{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"01/02/2024", "Coffee", "-3.50"}, table.Rows[0].Fields)
	assert.Equal(t, []string{"02/02/2024", "Refund", ""}, table.Rows[1].Fields)
	assert.NoError(t, table.Rows[1].Err)
	assert.Equal(t, 4, table.Rows[1].Line)
}

func TestTable_Record(t *testing.T) {
	table := &Table{Header: []string{"Date", "Amount", "Notes"}}
	rec := table.Record(Row{Fields: []string{"01/02/2024", "-3.50"}})

	assert.Equal(t, map[string]string{"Date": "01/02/2024", "Amount": "-3.50", "Notes": ""}, rec)
}

func TestHead(t *testing.T) {
	csv := "Transactions\nUser,alice@example.com\n\nID, Timestamp ,Transaction Type\n1,2,3\n"

	rows, err := Head(NewFile("history.csv", []byte(csv)), 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Transactions"}, rows[0])
	assert.Equal(t, []string{"ID", "Timestamp", "Transaction Type"}, rows[2])
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3", ','},
		{"semicolon", "a;b;c", ';'},
		{"tab", "a\tb\tc", '\t'},
		{"pipe", "a|b|c", '|'},
		{"leading blank lines", "\n\r\na;b", ';'},
		{"single column", "Transactions", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.text))
		})
	}
}

func TestFile_Text(t *testing.T) {
	t.Run("strips BOM", func(t *testing.T) {
		text, err := NewFile("a.csv", []byte("\xef\xbb\xbfDate,Amount")).Text()
		require.NoError(t, err)
		assert.Equal(t, "Date,Amount", text)
	})

	t.Run("decodes Windows-1252", func(t *testing.T) {
		text, err := NewFile("a.csv", []byte("Paid out\n\xa33.50")).Text()
		require.NoError(t, err)
		assert.Equal(t, "Paid out\n£3.50", text)
	})
}

func TestNewPagesFile(t *testing.T) {
	f := NewPagesFile("statement.pdf", []string{"page one", "page two"})

	pages, err := f.Pages()
	require.NoError(t, err)
	assert.Equal(t, []string{"page one", "page two"}, pages)
	assert.Equal(t, "pdf", Extension(f))
}

func TestExtractPages_Invalid(t *testing.T) {
	_, err := NewFile("broken.pdf", []byte("not a pdf")).Pages()
	assert.Error(t, err)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
