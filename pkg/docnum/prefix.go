// Package docnum handles document numbering prefixes for quotes.
// A quote prefix has the fixed form "D-MMYYYY", e.g. "D-032026".
package docnum

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuotePrefix is the parsed form of a "D-MMYYYY" prefix.
type QuotePrefix struct {
	Month time.Month
	Year  int
}

// FormatQuotePrefix renders a month and year as "D-MMYYYY".
func FormatQuotePrefix(month time.Month, year int) string {
	return fmt.Sprintf("D-%02d%04d", int(month), year)
}

// ParseQuotePrefix parses a "D-MMYYYY" prefix. For any valid prefix p,
// FormatQuotePrefix(ParseQuotePrefix(p)) == p.
func ParseQuotePrefix(prefix string) (QuotePrefix, error) {
	rest, ok := strings.CutPrefix(prefix, "D-")
	if !ok {
		return QuotePrefix{}, fmt.Errorf("quote prefix %q must start with D-", prefix)
	}
	if len(rest) != 6 {
		return QuotePrefix{}, fmt.Errorf("quote prefix %q must be D-MMYYYY", prefix)
	}

	month, err := strconv.Atoi(rest[:2])
	if err != nil || month < 1 || month > 12 {
		return QuotePrefix{}, fmt.Errorf("quote prefix %q has invalid month", prefix)
	}
	year, err := strconv.Atoi(rest[2:])
	if err != nil || year < 1000 {
		return QuotePrefix{}, fmt.Errorf("quote prefix %q has invalid year", prefix)
	}

	return QuotePrefix{Month: time.Month(month), Year: year}, nil
}
