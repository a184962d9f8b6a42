package di

import (
	"context"
	"fmt"
	"time"

	"FameFeed/internal/domain/repository"
	"FameFeed/internal/handler/api"
	"FameFeed/internal/handler/ws"
	internalrepo "FameFeed/internal/repository"
	"FameFeed/internal/service/audit"
	"FameFeed/internal/service/ratelimit"
	"FameFeed/internal/usecase"
	pkgcache "FameFeed/pkg/cache"
	pkgch "FameFeed/pkg/clickhouse"
	"FameFeed/pkg/config"
	xhttp "FameFeed/pkg/http"
	pkgkafka "FameFeed/pkg/kafka"
	applogger "FameFeed/pkg/logger"
	"FameFeed/pkg/metrics"
	"FameFeed/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level, format, output := cfg.Log.Level, cfg.Log.Format, cfg.Log.Output
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "console"
	}
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when any configured
// database uses the clickhouse backend; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.NeedsClickHouse() {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Ensure mirror tables exist
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".series_catalog (db String, name String, frequency String, first_idx Int32, last_idx Int32) ENGINE=ReplacingMergeTree ORDER BY (db, name)",
		"CREATE TABLE IF NOT EXISTS " + db + ".observations (db String, series String, idx Int32, value Float64) ENGINE=ReplacingMergeTree ORDER BY (db, series, idx)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideStoreRegistry opens every configured database.
func ProvideStoreRegistry(cfg *config.Config, chClient *pkgch.Client, l *applogger.Logger) (*usecase.StoreRegistry, error) {
	reg := usecase.NewStoreRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, db := range cfg.Databases {
		switch db.Backend {
		case "sqlite":
			store, err := internalrepo.OpenSQLiteSeriesStore(ctx, db.Path)
			if err != nil {
				_ = reg.Close()
				return nil, fmt.Errorf("open %s: %w", db.Name, err)
			}
			reg.Add(db.Name, db.Backend, store)
		case "clickhouse":
			if chClient == nil {
				_ = reg.Close()
				return nil, fmt.Errorf("open %s: clickhouse client not configured", db.Name)
			}
			store := internalrepo.NewCHSeriesStore(chClient, cfg.ClickHouse.Database, db.Path)
			store.SetLogger(l)
			reg.Add(db.Name, db.Backend, store)
		default:
			_ = reg.Close()
			return nil, fmt.Errorf("open %s: unknown backend %q", db.Name, db.Backend)
		}
		l.Info("database opened",
			applogger.String("name", db.Name),
			applogger.String("backend", db.Backend),
		)
	}

	return reg, nil
}

// ProvideCache creates the result cache from configuration.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideAuditBus creates the audit bus, attaching the Kafka sink when
// auditing is enabled and brokers are configured.
func ProvideAuditBus(cfg *config.Config, l *applogger.Logger) (*audit.Bus, error) {
	bus := audit.NewBus(l)
	if !cfg.Audit.Enabled || len(cfg.Audit.Kafka.Brokers) == 0 {
		return bus, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Audit.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Audit.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Audit.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Audit.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Audit.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Audit.Kafka.Producer.WriteTimeout, cfg.Audit.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Audit.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Audit.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	bus.AddSink(internalrepo.NewKafkaAuditSink(producer, cfg.Audit.Kafka.Topic))
	return bus, nil
}

// ProvideSeriesReader creates the read usecase with cache, metrics, and
// audit attached.
func ProvideSeriesReader(
	cfg *config.Config,
	reg *usecase.StoreRegistry,
	cacheSvc pkgcache.Service,
	m repository.Metrics,
	bus *audit.Bus,
	l *applogger.Logger,
) *usecase.SeriesReader {
	reader := usecase.NewSeriesReader(reg)
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	reader.SetCache(cacheSvc, ttl)
	reader.SetMetrics(m)
	reader.SetAudit(bus)
	reader.SetLogger(l)
	return reader
}

// ProvideComparator creates the cross-database compare usecase.
func ProvideComparator(reg *usecase.StoreRegistry, m repository.Metrics) *usecase.Comparator {
	comp := usecase.NewComparator(reg)
	comp.SetMetrics(m)
	return comp
}

// ProvideHTTPHandler composes the API and WebSocket handlers.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	reader *usecase.SeriesReader,
	comp *usecase.Comparator,
	bus *audit.Bus,
) xhttp.Handler {
	seriesHandler := api.NewSeriesEchoHandler(l, reader, comp)
	if cfg.Server.RateLimit.Enabled {
		burst := cfg.Server.RateLimit.Burst
		if burst <= 0 {
			burst = 20
		}
		perSecond := cfg.Server.RateLimit.PerSecond
		if perSecond <= 0 {
			perSecond = 10
		}
		seriesHandler.SetRateLimit(ratelimit.New(), burst, perSecond)
	}
	return xhttp.Handlers{
		seriesHandler,
		ws.NewAuditWSHandler(l, bus),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	reader *usecase.SeriesReader,
	bus *audit.Bus,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	cacheSvc pkgcache.Service,
) *server.App {
	return server.New(cfg, l, reader, bus, handler, chClient, cacheSvc)
}
