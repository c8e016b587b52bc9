// @title         Datalens API
// @version       0.1.0
// @description   Chart builder, SQL Lab and dashboards over the analytics gateway
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"datalens/internal/adapters/analytics"
	"datalens/internal/adapters/exportstore"
	"datalens/internal/modkit/httpkit"
	"datalens/internal/modkit/swaggerkit"
	"datalens/internal/platform/config"
	"datalens/internal/platform/logger"
	phttp "datalens/internal/platform/net/http"
	"datalens/internal/platform/store"

	"datalens/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	anCfg := root.Prefix("ANALYTICS_")          // druid gateway or clickhouse executor
	s3Cfg := root.Prefix("EXPORT_S3_")          // optional export bucket
	// bring up logging early
	l := logger.Get()

	backend := anCfg.MayEnum("BACKEND", "druid", "druid", "clickhouse")
	chEnabled := backend == "clickhouse" || chCfg.MayBool("ENABLED", false)

	// open the platform store (postgres for charts and dashboards, CH when it executes queries)
	cfg := store.Config{
		AppName: "datalens-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			Migrate:     pgCfg.MayBool("MIGRATE", true),
		},
	}
	if chEnabled {
		cfg.CH = store.CHConfig{
			Enabled:     true,
			URL:         chCfg.MustString("DBURL"),
			Tag:         "api",
			SlowQueryMs: chCfg.MayInt("SLOW_MS", 500),
		}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st, err := store.Open(context.Background(), cfg, store.WithLogger(*l), store.WithMetrics(reg))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	// clickhouse dials lazily, probe it before serving
	guardCtx, cancelGuard := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Guard(guardCtx); err != nil {
		l.Panic().Err(err).Msg("store not ready")
	}
	cancelGuard()
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// analytics executor: backend, then result cache, then metrics
	var exec analytics.Executor
	if backend == "clickhouse" {
		exec = analytics.NewClickhouse(st.CH)
	} else {
		exec = analytics.NewClient(analytics.Options{
			Services: map[analytics.Service]string{
				analytics.ServiceIoTAnalytics: anCfg.MayString("IOT_URL", ""),
				analytics.ServiceOnboarding:   anCfg.MayString("ONBOARDING_URL", ""),
				analytics.ServiceAuth:         anCfg.MayString("AUTH_URL", ""),
			},
			Token:      anCfg.MayString("TOKEN", ""),
			UserAgent:  "datalens-api",
			Timeout:    anCfg.MayDuration("TIMEOUT", 30*time.Second),
			MaxRetries: anCfg.MayInt("MAX_RETRIES", 3),
			RetryBase:  anCfg.MayDuration("RETRY_BASE", 250*time.Millisecond),
		})
	}
	exec = analytics.NewCached(exec, analytics.CacheOptions{
		Size: anCfg.MayInt("CACHE_SIZE", 256),
		TTL:  anCfg.MayDuration("CACHE_TTL", time.Minute),
	})

	exec = analytics.NewInstrumented(exec, reg)

	// exports stay nil unless a bucket is configured
	var exports exportstore.Uploader
	if s3 := exportConfig(s3Cfg); s3.Enabled() {
		es, err := exportstore.New(context.Background(), s3)
		if err != nil {
			l.Panic().Err(err).Msg("export store init failed")
		}
		exports = es
	}

	// http server (reads CORE_API_ADDR or CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Analytics:      exec,
			Exports:        exports,
			Metrics:        reg,
			Stack: httpkit.StackOptions{
				CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
				SlowRequest: apiCfg.MayDuration("SLOW_REQUEST", time.Second),
				Timeout:     apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
				MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
			},
			Docs: swaggerkit.Options{
				Enabled:     apiCfg.MayBool("SWAGGER", true),
				TitleSuffix: apiCfg.MayString("DOCS_TITLE_SUFFIX", ""),
			},
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	l.Info().Str("backend", backend).Bool("exports", exports != nil).Msg("datalens api starting")

	// run until SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

func exportConfig(c config.Conf) exportstore.Config {
	return exportstore.Config{
		Bucket:          c.MayString("BUCKET", ""),
		Region:          c.MayString("REGION", ""),
		Endpoint:        c.MayString("ENDPOINT", ""),
		Prefix:          c.MayString("PREFIX", ""),
		AccessKeyID:     c.MayString("ACCESS_KEY_ID", ""),
		SecretAccessKey: c.MayString("SECRET_ACCESS_KEY", ""),
		UsePathStyle:    c.MayBool("PATH_STYLE", false),
	}
}
