package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var clockLayouts12h = []string{"3:04 PM", "03:04 PM", "3:04:05 PM", "03:04:05 PM"}
var clockLayouts24h = []string{"15:04:05", "15:04"}

// ParseDatePair combines separate date and clock-time fields into one
// instant in the given timezone. The clock field may be 12-hour
// ("2:30 PM") or 24-hour ("14:30:00"); the matching pattern is picked by
// the value's shape. Errors quote both raw fields.
func ParseDatePair(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		d, err = time.ParseInLocation("01/02/2006", date, loc)
	}
	if err != nil {
		return time.Time{}, ParseErrorf("could not parse date and time: %q %q", date, clock)
	}

	layouts := clockLayouts24h
	if up := strings.ToUpper(clock); strings.HasSuffix(up, "AM") || strings.HasSuffix(up, "PM") {
		layouts = clockLayouts12h
		clock = up
	}
	for _, layout := range layouts {
		t, perr := time.Parse(layout, clock)
		if perr != nil {
			continue
		}
		return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc).UTC(), nil
	}
	return time.Time{}, ParseErrorf("could not parse date and time: %q %q", date, clock)
}

// ParseISO parses an ISO-8601 timestamp (`2006-01-02T15:04:05Z`).
func ParseISO(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ParseErrorf("could not parse timestamp: %q", raw)
}

// ParseDecimalHours converts an hours value to whole seconds, accepting
// either `.` or `,` as the decimal separator.
func ParseDecimalHours(raw string) (int64, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(3600)).Round(0).IntPart(), nil
}

// ParseMoney converts a major-unit money value ("12.50" or "12,50") to
// integer minor currency units.
func ParseMoney(raw string) (int64, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ParseErrorf("could not parse number: %q", raw)
	}
	return d, nil
}
