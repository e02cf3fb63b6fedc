package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

var errSetRejected = errors.New("ristretto rejected the entry")

// RistrettoStore keeps entries in process memory. Cost is one per entry, so MaxCost is the
// item capacity.
type RistrettoStore struct {
	cache *ristretto.Cache
}

func NewRistrettoStore(maxItems int64) (*RistrettoStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * maxItems,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto store: %w", err)
	}
	return &RistrettoStore{cache: c}, nil
}

func (s *RistrettoStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("unexpected value type %T for key %q", v, key)
	}
	return b, true, nil
}

func (s *RistrettoStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.cache.SetWithTTL(key, value, 1, ttl) {
		return fmt.Errorf("failed to set %q: %w", key, errSetRejected)
	}
	// make the write visible to the next Get
	s.cache.Wait()
	return nil
}

func (s *RistrettoStore) Delete(_ context.Context, key string) error {
	s.cache.Del(key)
	return nil
}

func (s *RistrettoStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.cache.Get(key)
	return ok, nil
}

func (s *RistrettoStore) Clear(_ context.Context) error {
	s.cache.Clear()
	return nil
}

func (s *RistrettoStore) Close() { s.cache.Close() }
