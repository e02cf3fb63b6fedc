package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/artemshadrunov/currency-api/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "exchange_rate_"

// CacheTTL holds the lifetimes of single-day lookups and of entries written by range fetches.
type CacheTTL struct {
	Default   time.Duration
	Retention time.Duration
}

// CachedProvider decorates a rate source with a day-granular cache. Range requests only fetch
// the maximal runs of consecutive days that are missing from the cache.
type CachedProvider struct {
	source  adapters.RateSource
	cache   adapters.RateCache
	ttl     CacheTTL
	group   singleflight.Group
	metrics *metrics.Metrics
	log     *logrus.Entry
}

// segment is an inclusive run of consecutive days.
type segment struct {
	Start time.Time
	End   time.Time
}

func NewCachedProvider(source adapters.RateSource, cache adapters.RateCache, ttl CacheTTL, m *metrics.Metrics) *CachedProvider {
	return &CachedProvider{
		source:  source,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		log:     logrus.WithField("provider", source.Name()),
	}
}

func (p *CachedProvider) Name() string { return p.source.Name() }

func (p *CachedProvider) GetRate(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)
	key := cacheKey(from, to, date)

	if rate, ok := p.cache.Get(ctx, key); ok {
		p.metrics.RecordCacheHit(p.Name())
		return rate, nil
	}
	p.metrics.RecordCacheMiss(p.Name())

	v, err, _ := p.group.Do(key, func() (any, error) {
		rate, err := p.source.GetRate(ctx, from, to, date)
		if err != nil {
			return nil, err
		}
		p.cache.Set(ctx, key, rate, p.ttl.Default)
		return rate, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// GetRatesForPeriod returns the rates of [start, end] sorted by date. Days neither the cache
// nor the source can supply are absent. A failing segment fails the whole call.
func (p *CachedProvider) GetRatesForPeriod(ctx context.Context, from, to string, start, end time.Time) ([]domain.DailyRate, error) {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)

	days := domain.Days(start, end)
	result := make([]domain.DailyRate, 0, len(days))
	var missing []time.Time
	for _, day := range days {
		if rate, ok := p.cache.Get(ctx, cacheKey(from, to, day)); ok {
			p.metrics.RecordCacheHit(p.Name())
			result = append(result, domain.DailyRate{Date: day, Rate: rate})
			continue
		}
		p.metrics.RecordCacheMiss(p.Name())
		missing = append(missing, day)
	}

	segments := splitSegments(missing)
	if len(segments) > 0 {
		p.log.WithFields(logrus.Fields{
			"pair":     domain.RatePair{Base: from, Quote: to}.String(),
			"hits":     len(result),
			"missing":  len(missing),
			"segments": len(segments),
		}).Debug("fetching missing segments")
	}

	for _, seg := range segments {
		rates, err := p.fetchSegment(ctx, from, to, seg)
		if err != nil {
			return nil, err
		}
		result = append(result, rates...)
	}

	return domain.SortRates(result), nil
}

func (p *CachedProvider) fetchSegment(ctx context.Context, from, to string, seg segment) ([]domain.DailyRate, error) {
	key := fmt.Sprintf("%s%s_%s_%s..%s", cacheKeyPrefix, from, to, domain.FormatDay(seg.Start), domain.FormatDay(seg.End))

	v, err, _ := p.group.Do(key, func() (any, error) {
		p.metrics.RecordSegmentFetch(p.Name())
		fetched, err := p.source.GetRatesForPeriod(ctx, from, to, seg.Start, seg.End)
		if err != nil {
			return nil, err
		}

		rates := make([]domain.DailyRate, 0, len(fetched))
		for _, r := range fetched {
			day := domain.Day(r.Date)
			if day.Before(seg.Start) || day.After(seg.End) {
				continue
			}
			p.cache.Set(ctx, cacheKey(from, to, day), r.Rate, p.ttl.Retention)
			rates = append(rates, domain.DailyRate{Date: day, Rate: r.Rate})
		}
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.DailyRate), nil
}

// splitSegments groups ascending days into maximal runs of consecutive days.
func splitSegments(days []time.Time) []segment {
	var segments []segment
	for _, day := range days {
		n := len(segments)
		if n > 0 && segments[n-1].End.AddDate(0, 0, 1).Equal(day) {
			segments[n-1].End = day
			continue
		}
		segments = append(segments, segment{Start: day, End: day})
	}
	return segments
}

func cacheKey(from, to string, date time.Time) string {
	return cacheKeyPrefix + from + "_" + to + "_" + domain.FormatDay(date)
}
