package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/artemshadrunov/currency-api/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned, wrapped in a domain.TransportError, while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Policy configures retries and the circuit breaker. Retry waits are BaseDelay·2^(n-1).
type Policy struct {
	MaxRetries       uint64        `mapstructure:"max_retries"`
	BaseDelay        time.Duration `mapstructure:"base_delay"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakDuration    time.Duration `mapstructure:"break_duration"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:       3,
		BaseDelay:        2 * time.Second,
		FailureThreshold: 3,
		BreakDuration:    30 * time.Second,
	}
}

// ResilientClient sends requests through a retry policy wrapping a circuit breaker.
// The breaker is shared by every call made through the same client.
type ResilientClient struct {
	name    string
	http    *http.Client
	policy  Policy
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *logrus.Entry
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("transient status code %d", e.code)
}

// canceledError marks an attempt interrupted by the caller's context.
type canceledError struct {
	err error
}

func (e *canceledError) Error() string { return e.err.Error() }

func (e *canceledError) Unwrap() error { return e.err }

func NewResilientClient(name string, httpClient *http.Client, policy Policy, m *metrics.Metrics) *ResilientClient {
	c := &ResilientClient{
		name:    name,
		http:    httpClient,
		policy:  policy,
		metrics: m,
		log:     logrus.WithField("client", name),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     policy.BreakDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= policy.FailureThreshold
		},
		OnStateChange: c.onStateChange,
		IsSuccessful: func(err error) bool {
			var ce *canceledError
			return err == nil || errors.As(err, &ce)
		},
	})
	m.SetCircuitState(name, stateValue(gobreaker.StateClosed))
	return c
}

func (c *ResilientClient) State() State {
	switch c.breaker.State() {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Send executes req and returns the first non-transient response. Every failure is a
// *domain.TransportError.
func (c *ResilientClient) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	body, err := bufferBody(req)
	if err != nil {
		return nil, &domain.TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	start := time.Now()
	var resp *http.Response
	op := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(&canceledError{err: ctx.Err()})
		}
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.attempt(ctx, req, body)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			var ce *canceledError
			if errors.As(err, &ce) {
				return backoff.Permanent(err)
			}
			if c.breaker.State() == gobreaker.StateOpen {
				// the breaker tripped on this attempt
				return backoff.Permanent(fmt.Errorf("%w: %w", ErrCircuitOpen, err))
			}
			return err
		}
		resp = out.(*http.Response)
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.RecordRetry(c.name)
		c.log.WithError(err).WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.String(),
			"wait":   wait,
		}).Warn("retrying upstream request")
	}

	if err = backoff.RetryNotify(op, c.newBackOff(ctx), notify); err != nil {
		c.metrics.RecordUpstreamRequest(c.name, "failure", time.Since(start).Seconds())
		return nil, c.transportError(req, err)
	}
	c.metrics.RecordUpstreamRequest(c.name, "success", time.Since(start).Seconds())
	return resp, nil
}

func (c *ResilientClient) attempt(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	out := req.Clone(ctx)
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		out.ContentLength = int64(len(body))
	}

	resp, err := c.http.Do(out)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &canceledError{err: ctx.Err()}
		}
		return nil, err
	}
	if isTransientStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode}
	}
	return resp, nil
}

func (c *ResilientClient) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.policy.BaseDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(c.policy.BaseDelay<<c.policy.MaxRetries),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, c.policy.MaxRetries), ctx)
}

func (c *ResilientClient) transportError(req *http.Request, err error) error {
	te := &domain.TransportError{Method: req.Method, URL: req.URL.String(), Err: err}

	var se *statusError
	var ce *canceledError
	switch {
	case errors.As(err, &se):
		te.StatusCode = se.code
	case errors.As(err, &ce):
		te.Err = ce.err
	}
	return te
}

func (c *ResilientClient) onStateChange(name string, from, to gobreaker.State) {
	c.metrics.SetCircuitState(name, stateValue(to))
	entry := c.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()})
	if to == gobreaker.StateOpen {
		entry.WithField("break_duration", c.policy.BreakDuration).Warn("circuit breaker opened")
		return
	}
	entry.Info("circuit breaker state changed")
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func isTransientStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusRequestTimeout
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	return body, nil
}
