package rate

import (
	"slices"
	"strings"
	"sync"

	"github.com/artemshadrunov/currency-api/internal/adapters"
	"github.com/artemshadrunov/currency-api/internal/domain"
	"github.com/artemshadrunov/currency-api/internal/metrics"
)

// Registry resolves provider names to their cached variants. Names are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	raw     map[string]adapters.RateSource
	cached  map[string]*CachedProvider
	cache   adapters.RateCache
	ttl     CacheTTL
	metrics *metrics.Metrics
}

func NewRegistry(cache adapters.RateCache, ttl CacheTTL, m *metrics.Metrics) *Registry {
	return &Registry{
		raw:     make(map[string]adapters.RateSource),
		cached:  make(map[string]*CachedProvider),
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

// Register adds source and its cached wrapper, replacing any provider with the same name.
func (r *Registry) Register(source adapters.RateSource) *CachedProvider {
	cached := r.CreateCachedProvider(source)
	key := registryKey(source.Name())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw[key] = source
	r.cached[key] = cached
	return cached
}

// GetProvider returns the cached variant registered under name.
func (r *Registry) GetProvider(name string) (adapters.RateSource, error) {
	key, err := lookupKey(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.cached[key]
	if !ok {
		return nil, &domain.NotFoundError{Name: name}
	}
	return p, nil
}

// RawProvider returns the undecorated source registered under name.
func (r *Registry) RawProvider(name string) (adapters.RateSource, error) {
	key, err := lookupKey(name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.raw[key]
	if !ok {
		return nil, &domain.NotFoundError{Name: name}
	}
	return p, nil
}

func (r *Registry) CreateCachedProvider(source adapters.RateSource) *CachedProvider {
	return NewCachedProvider(source, r.cache, r.ttl, r.metrics)
}

// Names lists the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.raw))
	for _, src := range r.raw {
		names = append(names, src.Name())
	}
	slices.Sort(names)
	return names
}

func lookupKey(name string) (string, error) {
	key := registryKey(name)
	if key == "" {
		return "", domain.NewValidationError("provider", "provider name is required")
	}
	return key, nil
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
