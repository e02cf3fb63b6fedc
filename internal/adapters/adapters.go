package adapters

import (
	"context"
	"net/http"
	"time"

	"github.com/artemshadrunov/currency-api/internal/domain"

	"github.com/shopspring/decimal"
)

// RateSource answers rate questions for one provider. Codes are normalized by the caller.
type RateSource interface {
	Name() string
	GetRate(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error)
	GetRatesForPeriod(ctx context.Context, from, to string, start, end time.Time) ([]domain.DailyRate, error)
}

// Sender executes an outbound HTTP request, possibly more than once.
type Sender interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RateCache is the typed view of the key-value cache used for daily rates.
type RateCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, bool)
	Set(ctx context.Context, key string, value decimal.Decimal, ttl time.Duration)
}
