package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// compactDate is the pattern fragment for day + month name + year as printed in
// statement PDFs: "02 Jan 24", "02Jan2024", "2-Jan-2024". It is embedded in
// the line patterns of the PDF extractors.
const compactDate = `\d{1,2}[ \-/]?(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[ \-/]?(?:\d{4}|\d{2})`

var compactDatePattern = regexp.MustCompile(`(?i)^(\d{1,2})[ \-/]?([a-z]{3})[a-z]*[ \-/]?(\d{4}|\d{2})$`)

// parseCompactDate parses a compact date at local midnight. Two digit years
// are taken as 20xx.
func parseCompactDate(s string, loc *time.Location) (time.Time, error) {
	m := compactDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid month in date %q", s)
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// parseLocal parses value with the first matching layout in loc.
func parseLocal(value string, loc *time.Location, layouts ...string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
