package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/artemshadrunov/currency-api/internal/adapters/cache"
	"github.com/artemshadrunov/currency-api/internal/adapters/frankfurter"
	"github.com/artemshadrunov/currency-api/internal/adapters/stub"
	"github.com/artemshadrunov/currency-api/internal/adapters/transport"
	"github.com/artemshadrunov/currency-api/internal/api"
	"github.com/artemshadrunov/currency-api/internal/config"
	"github.com/artemshadrunov/currency-api/internal/metrics"
	httpserver "github.com/artemshadrunov/currency-api/internal/platform/http"
	"github.com/artemshadrunov/currency-api/internal/platform/redis"
	"github.com/artemshadrunov/currency-api/internal/rate"
	"github.com/artemshadrunov/currency-api/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Run wires the application components and serves HTTP until SIGINT or SIGTERM.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Cache store
	store, closeStore, err := newStore(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Error("Error creating cache store")
		return err
	}
	defer closeStore()
	logrus.WithField("backend", appCfg.Cache.Backend).Info("✅ Cache store ready")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// Rate sources
	providers := rate.NewRegistry(
		cache.New[decimal.Decimal](store),
		rate.CacheTTL{Default: appCfg.Cache.DefaultTTL(), Retention: appCfg.Cache.RetentionTTL()},
		appMetrics,
	)
	sender := transport.NewResilientClient(frankfurter.Name, baseHTTPClient, appCfg.Resilience, appMetrics)
	providers.Register(frankfurter.NewClient(sender, strings.TrimSuffix(appCfg.Frankfurter.BaseURL, "/")))
	if appCfg.Providers.StubEnabled {
		providers.Register(stub.NewSource())
	}
	logrus.WithField("providers", providers.Names()).Info("✅ Rate providers registered")

	// Services
	rules := rate.NewCurrencyRules(appCfg.CurrencyRules.Excluded)
	rateService := rate.NewService(providers, rules)

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateService, providers, rules)
	router := api.NewRouter(rateHandler, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// newStore builds the configured cache backend and a func releasing it.
func newStore(ctx context.Context, cfg *config.AppConfig) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		s, err := cache.NewRistrettoStore(cfg.Cache.MaxItems)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.CacheBackendRedis:
		client, err := redis.CreateClientAndPing(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if closeErr := client.Close(); closeErr != nil {
				logrus.WithError(closeErr).Error("Redis client close error")
			}
		}
		return cache.NewRedisStore(client, cfg.Redis.InstanceName), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
