package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
)

// fixedCategories is a name→id fixture, matched case-insensitively.
type fixedCategories map[string]uuid.UUID

func (c fixedCategories) Lookup(name string) (uuid.UUID, bool) {
	id, ok := c[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

var (
	eatingOutID = uuid.MustParse("0b6f2f7e-3f0e-4a39-9d3c-1f6a5b0f7a11")
	groceriesID = uuid.MustParse("5c1e6a0d-8a44-4d7b-a2a4-7b7f8c7f2b22")
)

func testOptions() Options {
	return Options{
		Categories: fixedCategories{
			"eating out": eatingOutID,
			"groceries":  groceriesID,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func csvFile(name string, lines ...string) source.File {
	return source.NewFile(name, []byte(strings.Join(lines, "\n")+"\n"))
}

func pdfFile(pages ...string) source.File {
	return source.NewPagesFile("statement.pdf", pages)
}

func extract(t *testing.T, e Extractor, f source.File) *model.Result {
	t.Helper()
	res, err := e.Extract(f)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		require.NoError(t, wb.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
