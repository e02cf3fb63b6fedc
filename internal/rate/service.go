package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxHistoricalYears bounds how far back any request may reach.
const MaxHistoricalYears = 1

type ProviderRegistry interface {
	GetProvider(name string) (adapters.RateSource, error)
}

type ExclusionRules interface {
	IsExcluded(code string) bool
}

// Service converts amounts and lists rates. It holds no per-request state.
type Service struct {
	registry ProviderRegistry
	rules    ExclusionRules
	validate *validator.Validate
	now      func() time.Time
}

func NewService(registry ProviderRegistry, rules ExclusionRules) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// codes are trimmed before use, blank ones count as missing
	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	return &Service{
		registry: registry,
		rules:    rules,
		validate: validate,
		now:      time.Now,
	}
}

func (s *Service) Convert(ctx context.Context, req ConversionRequest) (*ConversionResult, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "amount must be greater than zero")
	}
	if err := s.validateTimestamp("timestamp", req.Timestamp); err != nil {
		return nil, err
	}
	from, to := domain.NormalizeCode(req.From), domain.NormalizeCode(req.To)
	if err := s.checkExcluded(from, to); err != nil {
		return nil, err
	}

	provider, err := s.registry.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}
	rate, err := provider.GetRate(ctx, from, to, req.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s rate: %w", from, to, err)
	}

	return &ConversionResult{
		From:            from,
		To:              to,
		Amount:          req.Amount,
		ConvertedAmount: req.Amount.Mul(rate),
		Rate:            rate,
		Timestamp:       req.Timestamp,
		Provider:        req.Provider,
	}, nil
}

// GetLatestRates skips targets that are excluded, equal to the base or repeated.
func (s *Service) GetLatestRates(ctx context.Context, req LatestRatesRequest) (*LatestRatesResult, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.validateTimestamp("timestamp", req.Timestamp); err != nil {
		return nil, err
	}

	provider, err := s.registry.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	base := domain.NormalizeCode(req.Base)
	result := &LatestRatesResult{
		Base:      base,
		Provider:  req.Provider,
		Timestamp: req.Timestamp,
		Rates:     make([]QuoteRate, 0, len(req.Targets)),
	}
	seen := make(map[string]struct{}, len(req.Targets))
	for _, target := range req.Targets {
		target = domain.NormalizeCode(target)
		if target == "" || s.rules.IsExcluded(target) || strings.EqualFold(target, base) {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}

		rate, err := provider.GetRate(ctx, base, target, req.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s/%s rate: %w", base, target, err)
		}
		result.Rates = append(result.Rates, QuoteRate{Currency: target, Rate: rate})
	}
	return result, nil
}

// GetHistoricalRates returns one page of the daily rates in [Start, End]. Pages past the end are
// empty but still report the totals.
func (s *Service) GetHistoricalRates(ctx context.Context, req HistoricalRatesRequest) (*PagedRatesResult, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	base, target := domain.NormalizeCode(req.Base), domain.NormalizeCode(req.Target)
	if err := s.checkExcluded(base, target); err != nil {
		return nil, err
	}
	if err := s.validateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	provider, err := s.registry.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}
	rates, err := provider.GetRatesForPeriod(ctx, base, target, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s rates: %w", base, target, err)
	}
	domain.SortRates(rates)

	total := len(rates)
	totalPages := total / req.PageSize
	if total%req.PageSize != 0 {
		totalPages++
	}
	page := []domain.DailyRate{}
	if req.Page <= totalPages {
		// skip < total here, so the product cannot overflow
		skip := (req.Page - 1) * req.PageSize
		page = rates[skip : skip+min(req.PageSize, total-skip)]
	}

	return &PagedRatesResult{
		Base:        base,
		Target:      target,
		Provider:    req.Provider,
		Page:        req.Page,
		PageSize:    req.PageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     req.Page < totalPages,
		HasPrevious: req.Page > 1,
		Rates:       page,
	}, nil
}

// checkExcluded reports the first excluded code in argument order.
func (s *Service) checkExcluded(codes ...string) error {
	for _, code := range codes {
		if s.rules.IsExcluded(code) {
			return &domain.ExclusionError{Currency: code}
		}
	}
	return nil
}

func (s *Service) validateTimestamp(field string, ts time.Time) error {
	now := s.now()
	if ts.After(now) {
		return domain.NewValidationError(field, "%s cannot be in the future", field)
	}
	if ts.Before(now.AddDate(-MaxHistoricalYears, 0, 0)) {
		return domain.NewValidationError(field, "%s cannot be older than %d year", field, MaxHistoricalYears)
	}
	return nil
}

// validateRange works at day granularity so a range may start exactly one year ago.
func (s *Service) validateRange(start, end time.Time) error {
	today := domain.Day(s.now())
	minDay := today.AddDate(-MaxHistoricalYears, 0, 0)
	bounds := []struct {
		field string
		day   time.Time
	}{
		{"start", domain.Day(start)},
		{"end", domain.Day(end)},
	}
	for _, b := range bounds {
		if b.day.Before(minDay) || b.day.After(today) {
			return domain.NewValidationError(b.field, "%s date must be between %s and %s",
				b.field, domain.FormatDay(minDay), domain.FormatDay(today))
		}
	}
	if start.After(end) {
		return domain.NewValidationError("start", "start date cannot be later than end date")
	}
	return nil
}

func (s *Service) validateStruct(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch {
	case fe.Field() == "Targets":
		return domain.NewValidationError("targets", "at least one target currency is required")
	case fe.Tag() == "required", fe.Tag() == "notblank":
		return domain.NewValidationError(field, "%s is required", field)
	case fe.Tag() == "min":
		return domain.NewValidationError(field, "%s must be at least %s", field, fe.Param())
	default:
		return domain.NewValidationError(field, "%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
