package rate

import (
	"time"

	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/shopspring/decimal"
)

type ConversionRequest struct {
	Provider  string `validate:"required,notblank"`
	From      string `validate:"required,notblank"`
	To        string `validate:"required,notblank"`
	Amount    decimal.Decimal
	Timestamp time.Time
}

type ConversionResult struct {
	From            string          `json:"fromCurrency"`
	To              string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
	Timestamp       time.Time       `json:"conversionTimestamp"`
	Provider        string          `json:"providerName"`
}

type LatestRatesRequest struct {
	Provider  string   `validate:"required,notblank"`
	Base      string   `validate:"required,notblank"`
	Targets   []string `validate:"required,min=1"`
	Timestamp time.Time
}

type QuoteRate struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// LatestRatesResult lists rates in the order targets were requested.
type LatestRatesResult struct {
	Base      string      `json:"baseCurrency"`
	Provider  string      `json:"providerName"`
	Timestamp time.Time   `json:"timestamp"`
	Rates     []QuoteRate `json:"rates"`
}

type HistoricalRatesRequest struct {
	Provider string `validate:"required,notblank"`
	Base     string `validate:"required,notblank"`
	Target   string `validate:"required,notblank"`
	Start    time.Time
	End      time.Time
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1"`
}

type PagedRatesResult struct {
	Base        string             `json:"baseCurrency"`
	Target      string             `json:"targetCurrency"`
	Provider    string             `json:"providerName"`
	Page        int                `json:"page"`
	PageSize    int                `json:"pageSize"`
	TotalCount  int                `json:"totalCount"`
	TotalPages  int                `json:"totalPages"`
	HasNext     bool               `json:"hasNextPage"`
	HasPrevious bool               `json:"hasPreviousPage"`
	Rates       []domain.DailyRate `json:"rates"`
}
