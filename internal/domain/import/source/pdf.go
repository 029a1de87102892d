package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages is returned for PDFs without any extractable page.
var ErrNoPages = errors.New("pdf has no pages")

// columnGap is the horizontal distance (in points) between two words above which
// they are treated as separate table columns and joined with two spaces.
const columnGap = 6.0

// extractPages returns the plain text of every page, one line per text row.
// Empty pages are kept so page numbers stay aligned with the document.
func extractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			if line := joinRow(row.Content); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages, nil
}

func joinRow(words pdf.TextHorizontal) string {
	var b strings.Builder
	var prevEnd float64
	for i, w := range words {
		s := strings.TrimSpace(w.S)
		if s == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			if w.X-prevEnd > columnGap {
				b.WriteString("  ")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(s)
		prevEnd = w.X + w.W
	}
	return strings.TrimSpace(b.String())
}
