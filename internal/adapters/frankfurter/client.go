package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	Name           = "Frankfurter"
	DefaultBaseURL = "https://api.frankfurter.app"
)

// Client is a rate source backed by the Frankfurter API. Requests for the current UTC day use
// the latest endpoint.
type Client struct {
	sender  adapters.Sender
	baseURL string
	now     func() time.Time
}

type dayResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

type rangeResponse struct {
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

func NewClient(sender adapters.Sender, baseURL string) *Client {
	return &Client{sender: sender, baseURL: baseURL, now: time.Now}
}

func (c *Client) Name() string { return Name }

func (c *Client) GetRate(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)

	segment := domain.FormatDay(date)
	if domain.Day(date).Equal(domain.Day(c.now())) {
		segment = "latest"
	}

	var body dayResponse
	if err := c.get(ctx, segment, from, to, &body); err != nil {
		return decimal.Zero, err
	}
	if body.Rates == nil {
		return decimal.Zero, c.upstreamError(fmt.Sprintf("response for %s/%s has no rates", from, to), nil)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, c.upstreamError(fmt.Sprintf("failed to get exchange rate for %s/%s", from, to), nil)
	}
	return rate, nil
}

// GetRatesForPeriod returns one rate per day in [start, end] that upstream covers. Days without
// a published rate take the most recent earlier observation; days before the first observation
// are omitted.
func (c *Client) GetRatesForPeriod(ctx context.Context, from, to string, start, end time.Time) ([]domain.DailyRate, error) {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)
	start, end = domain.Day(start), domain.Day(end)

	var body rangeResponse
	segment := domain.FormatDay(start) + ".." + domain.FormatDay(end)
	if err := c.get(ctx, segment, from, to, &body); err != nil {
		return nil, err
	}
	if body.Rates == nil {
		return nil, c.upstreamError(fmt.Sprintf("failed to get exchange rates for %s/%s", from, to), nil)
	}

	observed := make([]domain.DailyRate, 0, len(body.Rates))
	for raw, rates := range body.Rates {
		day, err := domain.ParseDay(raw)
		if err != nil {
			return nil, c.upstreamError(fmt.Sprintf("invalid date %q in response", raw), err)
		}
		rate, ok := rates[to]
		if !ok {
			return nil, c.upstreamError(fmt.Sprintf("missing %s rate on %s", to, raw), nil)
		}
		observed = append(observed, domain.DailyRate{Date: day, Rate: rate})
	}
	domain.SortRates(observed)

	return carryForward(observed, start, end), nil
}

// carryForward expects observed sorted by date.
func carryForward(observed []domain.DailyRate, start, end time.Time) []domain.DailyRate {
	result := make([]domain.DailyRate, 0, len(observed))
	next := 0
	var last *domain.DailyRate
	for _, day := range domain.Days(start, end) {
		for next < len(observed) && !observed[next].Date.After(day) {
			last = &observed[next]
			next++
		}
		if last == nil {
			continue
		}
		result = append(result, domain.DailyRate{Date: day, Rate: last.Rate})
	}
	return slices.Clip(result)
}

func (c *Client) get(ctx context.Context, segment, from, to string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + segment
	u.RawQuery = url.Values{"from": {from}, "to": {to}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s/%s: %w", from, to, err)
	}

	resp, err := c.sender.Send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.TransportError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.upstreamError(fmt.Sprintf("failed to decode response for %s/%s", from, to), err)
	}
	return nil
}

func (c *Client) upstreamError(reason string, err error) error {
	return &domain.UpstreamError{Provider: Name, Reason: reason, Err: err}
}
