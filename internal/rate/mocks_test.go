package rate

import (
	"context"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockRateSource struct {
	mock.Mock
	name string
}

func newMockSource(name string) *MockRateSource { return &MockRateSource{name: name} }

func (m *MockRateSource) Name() string { return m.name }

func (m *MockRateSource) GetRate(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to, date)
	r, _ := args.Get(0).(decimal.Decimal)
	return r, args.Error(1)
}

func (m *MockRateSource) GetRatesForPeriod(ctx context.Context, from, to string, start, end time.Time) ([]domain.DailyRate, error) {
	args := m.Called(ctx, from, to, start, end)
	rates, _ := args.Get(0).([]domain.DailyRate)
	return rates, args.Error(1)
}

type MockRateCache struct{ mock.Mock }

func (m *MockRateCache) Get(ctx context.Context, key string) (decimal.Decimal, bool) {
	args := m.Called(ctx, key)
	r, _ := args.Get(0).(decimal.Decimal)
	return r, args.Bool(1)
}

func (m *MockRateCache) Set(ctx context.Context, key string, value decimal.Decimal, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

type MockProviderRegistry struct{ mock.Mock }

func (m *MockProviderRegistry) GetProvider(name string) (adapters.RateSource, error) {
	args := m.Called(name)
	p, _ := args.Get(0).(adapters.RateSource)
	return p, args.Error(1)
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dailyRates(rate string, days ...time.Time) []domain.DailyRate {
	out := make([]domain.DailyRate, 0, len(days))
	for _, d := range days {
		out = append(out, domain.DailyRate{Date: d, Rate: dec(rate)})
	}
	return out
}
