package frankfurter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters/transport"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type plainSender struct{ http *http.Client }

func (s plainSender) Send(_ context.Context, req *http.Request) (*http.Response, error) {
	return s.http.Do(req)
}

var fixedNow = time.Date(2025, 5, 20, 15, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]string) {
	t.Helper()
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.RequestURI())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(plainSender{http: srv.Client()}, srv.URL)
	c.now = func() time.Time { return fixedNow }
	return c, &requested
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_GetRate_TodayUsesLatest(t *testing.T) {
	c, requested := newTestClient(t, respond(`{"amount":1.0,"base":"USD","date":"2025-05-20","rates":{"EUR":0.8912}}`))

	rate, err := c.GetRate(context.Background(), "usd", "eur", fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.8912").Equal(rate))
	require.Equal(t, []string{"/latest?from=USD&to=EUR"}, *requested)
}

func TestClient_GetRate_PastDayUsesDatedEndpoint(t *testing.T) {
	c, requested := newTestClient(t, respond(`{"rates":{"EUR":1.2}}`))

	rate, err := c.GetRate(context.Background(), "USD", "EUR", fixedNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("1.2").Equal(rate))
	require.Equal(t, []string{"/2025-05-19?from=USD&to=EUR"}, *requested)
}

func TestClient_GetRate_MissingTargetIsUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"rates":{"GBP":0.75}}`))

	_, err := c.GetRate(context.Background(), "USD", "EUR", fixedNow)
	require.ErrorIs(t, err, domain.ErrUpstream)
	require.Contains(t, err.Error(), "USD/EUR")
}

func TestClient_GetRate_MissingRatesIsUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"message":"not found"}`))

	_, err := c.GetRate(context.Background(), "USD", "EUR", fixedNow)
	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, Name, ue.Provider)
}

func TestClient_GetRate_UndecodableBody(t *testing.T) {
	c, _ := newTestClient(t, respond(`{`))

	_, err := c.GetRate(context.Background(), "USD", "EUR", fixedNow)
	require.ErrorIs(t, err, domain.ErrUpstream)
	require.Contains(t, err.Error(), "failed to decode response for USD/EUR")
}

func TestClient_GetRate_NonSuccessStatusIsTransportError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := c.GetRate(context.Background(), "USD", "EUR", fixedNow)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusNotFound, te.StatusCode)
	require.Contains(t, err.Error(), "unexpected status code 404")
}

func TestClient_GetRatesForPeriod_FullRange(t *testing.T) {
	c, requested := newTestClient(t, respond(`{"rates":{
		"2025-05-13":{"EUR":1.1},
		"2025-05-14":{"EUR":1.15},
		"2025-05-15":{"EUR":1.2}}}`))

	start := time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	rates, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR", start, end)
	require.NoError(t, err)
	require.Equal(t, []string{"/2025-05-13..2025-05-15?from=USD&to=EUR"}, *requested)
	require.Len(t, rates, 3)
	require.Equal(t, start, rates[0].Date)
	require.Equal(t, "1.1", rates[0].Rate.String())
	require.Equal(t, "1.15", rates[1].Rate.String())
	require.Equal(t, end, rates[2].Date)
	require.Equal(t, "1.2", rates[2].Rate.String())
}

func TestClient_GetRatesForPeriod_CarriesForwardOverWeekend(t *testing.T) {
	// 2025-05-16 is a Friday; upstream publishes nothing for the weekend.
	c, _ := newTestClient(t, respond(`{"rates":{
		"2025-05-16":{"EUR":1.1},
		"2025-05-19":{"EUR":1.3}}}`))

	start := time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC)

	rates, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR", start, end)
	require.NoError(t, err)
	require.Len(t, rates, 4)

	got := make(map[string]string, len(rates))
	for _, r := range rates {
		got[domain.FormatDay(r.Date)] = r.Rate.String()
	}
	require.Equal(t, map[string]string{
		"2025-05-16": "1.1",
		"2025-05-17": "1.1",
		"2025-05-18": "1.1",
		"2025-05-19": "1.3",
	}, got)
}

func TestClient_GetRatesForPeriod_NeverLooksForward(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"rates":{"2025-05-19":{"EUR":1.3}}}`))

	start := time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC)

	rates, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR", start, end)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	require.Equal(t, end, rates[0].Date)
}

func TestClient_GetRatesForPeriod_UsesObservationBeforeStart(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"start_date":"2025-05-16","rates":{"2025-05-16":{"EUR":1.1}}}`))

	start := time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC)

	rates, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR", start, end)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	require.Equal(t, start, rates[0].Date)
	require.Equal(t, "1.1", rates[1].Rate.String())
}

func TestClient_GetRatesForPeriod_MissingRates(t *testing.T) {
	c, _ := newTestClient(t, respond(`{}`))

	_, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR", fixedNow.AddDate(0, 0, -3), fixedNow)
	require.ErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_GetRatesForPeriod_MissingTargetOnDate(t *testing.T) {
	c, _ := newTestClient(t, respond(`{"rates":{"2025-05-16":{"GBP":0.8}}}`))

	_, err := c.GetRatesForPeriod(context.Background(), "USD", "EUR",
		time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, domain.ErrUpstream)
	require.Contains(t, err.Error(), "missing EUR rate on 2025-05-16")
}

func TestClient_ThroughResilientTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	policy := transport.Policy{MaxRetries: 1, BaseDelay: time.Millisecond, FailureThreshold: 5, BreakDuration: time.Second}
	c := NewClient(transport.NewResilientClient(Name, srv.Client(), policy, nil), srv.URL)

	_, err := c.GetRate(context.Background(), "USD", "EUR", time.Now())
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
}
