package redis

import (
	"context"
	"fmt"

	"github.com/artemshadrunov/currency-api/internal/config"

	goredis "github.com/redis/go-redis/v9"
)

// CreateClientAndPing returns a client only once the server answers PING.
func CreateClientAndPing(ctx context.Context, cfg config.Redis) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
