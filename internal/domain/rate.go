package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format shared by cache keys and upstream URLs.
const DateLayout = "2006-01-02"

// DailyRate is the rate of one currency pair on one UTC calendar day.
type DailyRate struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// RatePair identifies a conversion direction between two normalized currency codes.
type RatePair struct {
	Base  string
	Quote string
}

func (p RatePair) String() string { return p.Base + "/" + p.Quote }

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Day truncates t to midnight of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders the UTC calendar day of t as yyyy-MM-dd.
func FormatDay(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// ParseDay parses a yyyy-MM-dd string into a UTC day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Days returns every UTC day in [start, end], inclusive. It is empty when end precedes start.
func Days(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SortRates orders rates by date ascending in place and returns the slice.
func SortRates(rates []DailyRate) []DailyRate {
	slices.SortFunc(rates, func(a, b DailyRate) int { return a.Date.Compare(b.Date) })
	return rates
}
