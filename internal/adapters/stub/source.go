package stub

import (
	"context"
	"time"

	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/shopspring/decimal"
)

const Name = "Stub"

// Rate is returned for every pair and day.
var Rate = decimal.RequireFromString("1.5")

// Source is an offline rate source used for smoke testing.
type Source struct{}

func NewSource() *Source { return &Source{} }

func (s *Source) Name() string { return Name }

func (s *Source) GetRate(_ context.Context, _, _ string, _ time.Time) (decimal.Decimal, error) {
	return Rate, nil
}

func (s *Source) GetRatesForPeriod(_ context.Context, _, _ string, start, end time.Time) ([]domain.DailyRate, error) {
	days := domain.Days(start, end)
	rates := make([]domain.DailyRate, 0, len(days))
	for _, day := range days {
		rates = append(rates, domain.DailyRate{Date: day, Rate: Rate})
	}
	return rates, nil
}
