package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/staffsearch/staffsearch/internal/appid"
	"github.com/staffsearch/staffsearch/internal/config"
	errwrap "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/metrics"
	"github.com/staffsearch/staffsearch/internal/observability"
	"github.com/staffsearch/staffsearch/internal/ratelimit"
	"github.com/staffsearch/staffsearch/internal/server"
	"github.com/staffsearch/staffsearch/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// limiterHealthChecker reports the number of tracked clients. It never fails.
type limiterHealthChecker struct {
	limiter *ratelimit.Limiter
}

func (c limiterHealthChecker) CheckHealth(ctx context.Context) error {
	metrics.SetTrackedClients(c.limiter.Len())
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the employee search API with graceful shutdown support.

Every route except the root, health, docs, version and metrics endpoints is
rate limited per client (default 100 requests per 60 seconds).

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config file reload (limiter settings apply on restart)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "invalid configuration")
		}

		identity := appid.Get()
		logLevel := cfg.Logging.Level
		if cfg.Debug.Enabled || verbose {
			logLevel = "debug"
		}
		observability.InitServerLogger(logLevel, cfg.Logging.Profile, "")
		logger := observability.ServerLogger

		if cfg.Metrics.Enabled {
			if err := observability.InitMetrics(cfg.Metrics.Port); err != nil {
				logger.Error("Failed to initialize metrics", zap.Error(err))
				return errwrap.WrapInternal(ctx, err, "metrics initialization failed")
			}
		}

		logger.Info("Initializing server",
			zap.String("service", identity.BinaryName),
			zap.String("namespace", identity.TelemetryNamespace()),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Int("metrics_port", observability.GetMetricsPort()))

		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			logger.Error("Failed to open store", zap.Error(err))
			return errwrap.WrapDatabaseError(ctx, err, "store initialization failed")
		}
		defer st.Close() // nolint:errcheck // closed on exit

		if count, err := st.CountEmployees(ctx); err == nil {
			logger.Info("Employee store ready",
				zap.String("driver", st.Driver()),
				zap.Int("employees", count))
			if count == 0 {
				logger.Warn("Employee store is empty; run the seed command to load sample data")
			}
		}

		// With health checks disabled the probes still answer, without dependency checks.
		health := handlers.NewHealthManager(versionInfo.Version)
		if cfg.Health.Enabled {
			health.RegisterChecker("store", handlers.CheckerFunc(st.Ping))
			if cfg.Metrics.Enabled {
				health.RegisterChecker("telemetry", telemetryHealthChecker{})
			}
		}

		var limiter *ratelimit.Limiter
		if cfg.RateLimit.Enabled {
			limiter = newLimiter(cfg.RateLimit)
			go limiter.Run(ctx)
			if cfg.Health.Enabled {
				health.RegisterChecker("rate_limiter", limiterHealthChecker{limiter: limiter})
			}

			logger.Info("Rate limiting enabled",
				zap.Int("max_requests", limiter.MaxRequests()),
				zap.Duration("window", limiter.Window()),
				zap.Duration("cleanup_interval", limiter.CleanupInterval()))
		} else {
			logger.Warn("Rate limiting disabled by configuration")
		}

		srv := server.New(cfg.Server, server.Deps{
			Employees: st,
			Limiter:   limiter,
			Health:    health,
		})
		if err := srv.Listen(); err != nil {
			return errwrap.WrapInternal(ctx, err, "bind failed")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Flushing logger...")
			if err := logger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
			}
			return nil
		})

		// Handler 2: Shutdown HTTP server and stop the sweeper (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			defer cancel()
			shutdownCtx, stop := context.WithTimeout(ctx, shutdownTimeout)
			defer stop()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			logger.Info("HTTP server stopped gracefully")
			return nil
		})

		signals.OnReload(func(ctx context.Context) error {
			logger.Info("Received SIGHUP: attempting config reload")

			if err := viper.ReadInConfig(); err != nil {
				if isConfigNotFound(err) {
					logger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				logger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			reloaded, err := config.Load(viper.GetViper())
			if err != nil {
				logger.Error("Reloaded config is invalid", zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			logger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()),
				zap.String("log_level", reloaded.Logging.Level))
			return nil
		})

		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
		}

		metrics.SetServerStartTime(time.Now().Unix())
		health.MarkStarted()

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Start()
		}()

		go func() {
			if err := signals.Listen(ctx); err != nil {
				logger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(ctx, err, "server error")
		}
		return nil
	},
}

// newLimiter builds the process-wide limiter. Limited requests are already counted
// by the middleware, so the hooks only log and record sweep results.
func newLimiter(cfg config.RateLimitConfig) *ratelimit.Limiter {
	return ratelimit.New(
		ratelimit.WithMaxRequests(cfg.MaxRequests),
		ratelimit.WithWindow(cfg.Window),
		ratelimit.WithCleanupInterval(cfg.CleanupInterval),
		ratelimit.WithOnFirstLimited(func(identity string) {
			observability.Logger().Warn("Client rate limited",
				zap.String("client", identity),
				zap.String("limit", fmt.Sprintf("%d/%s", cfg.MaxRequests, cfg.Window)))
		}),
		ratelimit.WithOnSweep(func(evicted, remaining int) {
			metrics.RecordSweep(evicted, remaining)
			observability.Logger().Debug("Rate limiter sweep",
				zap.Int("evicted", evicted),
				zap.Int("tracked", remaining))
		}),
	)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8000, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
