package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"kalshi-hedge-fund/internal/cache"
	"kalshi-hedge-fund/internal/collector/collectorcache"
	"kalshi-hedge-fund/internal/collector/collectorobs"
	"kalshi-hedge-fund/internal/collector/kalshi"
	"kalshi-hedge-fund/internal/collector/mock"
	"kalshi-hedge-fund/internal/engine"
	"kalshi-hedge-fund/internal/engine/engineobs"
	"kalshi-hedge-fund/internal/fund"
	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/llm/claude"
	"kalshi-hedge-fund/internal/llm/llmobs"
	"kalshi-hedge-fund/internal/llm/noop"
	"kalshi-hedge-fund/internal/llm/openai"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/mq"
	"kalshi-hedge-fund/internal/news"
	"kalshi-hedge-fund/internal/repo"
	"kalshi-hedge-fund/internal/risk"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/tradelog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// initializeSystem initializes env, logger, tracer and metric registration
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	metrics.Register()

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "Config file not found - using defaults", "path", path)
			return store.Default(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("FUND_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeCollector initializes the market data collector with the cache
// and observability layers
func initializeCollector(ctx context.Context, cfg *store.Config) interfaces.Collector {
	var col interfaces.Collector

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
		col = mock.New()
	} else {
		col = kalshi.NewClient(kalshi.Params{
			BaseURL:           cfg.Kalshi.BaseURL,
			APIKey:            os.Getenv("KALSHI_API_KEY"),
			APISecret:         os.Getenv("KALSHI_API_SECRET"),
			RequestsPerSecond: cfg.Kalshi.RequestsPerSecond,
			Timeout:           time.Duration(cfg.Kalshi.TimeoutSeconds) * time.Second,
		})
		logger.Info(ctx, "Using LIVE Kalshi market data", "base_url", cfg.Kalshi.BaseURL)
	}

	// Wrap with observability middleware
	col = collectorobs.Wrap(col)

	// Read-through cache: Redis when configured, in-process otherwise
	var c cache.Cache
	if url := os.Getenv("REDIS_URL"); url != "" {
		rc, err := cache.NewRedis(url, "fund")
		if err != nil {
			logger.Warn(ctx, "Redis unavailable - falling back to in-memory cache", "error", err)
			c = cache.NewMemory("fund")
		} else {
			logger.Info(ctx, "Using Redis contract cache")
			c = rc
		}
	} else {
		c = cache.NewMemory("fund")
	}

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return collectorcache.Wrap(col, c, ttl)
}

// initializeReasoner initializes and returns the LLM reasoner with observability
func initializeReasoner(ctx context.Context, cfg *store.Config) interfaces.Reasoner {
	var reasoner interfaces.Reasoner

	switch cfg.LLM.Provider {
	case "OPENAI":
		reasoner = openai.NewOpenAIReasoner(cfg)
	case "CLAUDE":
		reasoner = claude.NewClaudeReasoner(cfg)
	default:
		reasoner = noop.NewNoopReasoner()
		logger.Warn(ctx, "No LLM provider configured - using Noop reasoner (neutral analyses)")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(reasoner)
}

// initializeTrader initializes the trade executor with observability
func initializeTrader(cfg *store.Config, col interfaces.Collector) interfaces.Trader {
	return engineobs.Wrap(engine.NewTrader(cfg, col))
}

// initializeOptions wires the optional side channels. Each one is
// env-gated and its absence is not an error.
func initializeOptions(ctx context.Context, cfg *store.Config) fund.Options {
	var opts fund.Options

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := repo.NewPool(ctx, dsn)
		if err != nil {
			logger.Warn(ctx, "Database unavailable - persistence disabled", "error", err)
		} else if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Warn(ctx, "Schema setup failed - persistence disabled", "error", err)
			pool.Close()
		} else {
			logger.Info(ctx, "Persisting analyses, signals and executions to Postgres")
			opts.Repo = repo.NewFundRepo(pool)
		}
	}

	if url := os.Getenv("AMQP_URL"); url != "" {
		pub, err := mq.NewPublisher(url)
		if err != nil {
			logger.Warn(ctx, "Message broker unavailable - event publishing disabled", "error", err)
		} else {
			logger.Info(ctx, "Publishing signal and trade events to RabbitMQ")
			opts.Publisher = pub
		}
	}

	if cfg.News.Enabled {
		opts.News = news.NewService(cfg.News.MaxArticles, 10*time.Second)
	}

	return opts
}

// buildFund assembles the full pipeline for a CLI invocation.
func buildFund(ctx context.Context, configPath string) (*fund.Fund, *store.Config, error) {
	if err := initializeSystem(); err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return nil, nil, err
	}

	compressOldLogs(ctx)

	col := initializeCollector(ctx, cfg)
	reasoner := initializeReasoner(ctx, cfg)
	trader := initializeTrader(cfg, col)
	monitor := risk.NewMonitor(cfg.Risk)

	f := fund.New(cfg, col, reasoner, trader, monitor, initializeOptions(ctx, cfg))
	return f, cfg, nil
}

// withFund runs fn against a fully wired fund and shuts it down after.
func withFund(cmd *cobra.Command, configPath string, fn func(ctx context.Context, f *fund.Fund) error) error {
	ctx := cmd.Context()

	f, _, err := buildFund(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "Shutdown incomplete", "error", err)
		}
	}()

	return fn(ctx, f)
}
