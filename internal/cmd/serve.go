package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/engine"
	errwrap "github.com/harulabs/mintgate/internal/errors"
	"github.com/harulabs/mintgate/internal/metrics"
	"github.com/harulabs/mintgate/internal/mintconfig"
	"github.com/harulabs/mintgate/internal/observability"
	"github.com/harulabs/mintgate/internal/server"
	"github.com/harulabs/mintgate/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the eligibility and admin HTTP API with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2 seconds: Force quit (exit 130)

In-flight requests are given server.shutdown_timeout to complete.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	identity := GetAppIdentity()
	namespace := identity.TelemetryNamespace()
	observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, namespace)
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(identity.BinaryName, namespace); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close() // nolint:errcheck // best-effort cleanup

	mintCfg, err := mintconfig.Load(cfg.Mint.ConfigFile)
	if err != nil {
		return &configError{err: err}
	}

	authSvc, err := newAuthService(cfg.Auth, backend, logger.Named("auth"))
	if err != nil {
		return &configError{err: err}
	}
	if authSvc == nil {
		logger.Warn("auth.jwt_secret is not set; admin API is disabled")
	}

	recorder := audit.NewRecorder(backend, logger.Named("audit"))
	limiter := engine.NewFixedWindowLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	go limiter.Run(ctx, cfg.RateLimit.SweepInterval, func(removed int) {
		remaining := limiter.Len()
		metrics.RecordRateLimitSweep(removed, remaining)
		logger.Debug("Rate limit sweep", zap.Int("removed", removed), zap.Int("remaining", remaining))
	})

	api := &handlers.API{
		Eligibility: &engine.EligibilityChecker{Wallets: backend, Limiter: limiter, Logger: logger.Named("eligibility")},
		Limiter:     limiter,
		Allowlist:   allowlist.NewService(backend, recorder, logger.Named("allowlist")),
		Auth:        authSvc,
		Audit:       recorder,
		Mint:        mintCfg,
		Logger:      logger,
	}

	health := handlers.NewHealthManager(versionInfo.Version)
	health.RegisterChecker("store", handlers.CheckerFunc(backend.Ping))
	handlers.SetAppIdentity(identity)

	srv := server.New(server.Options{
		Config:  cfg.Server,
		API:     api,
		Health:  health,
		Metrics: cfg.Metrics.Enabled,
		Pprof:   cfg.Debug.PprofEnabled,
	})

	logger.Info("Initializing server",
		zap.String("service", identity.BinaryName),
		zap.String("version", versionInfo.Version),
		zap.String("store", backend.Driver()),
		zap.String("addr", srv.Addr()),
		zap.Int("rate_limit_max", cfg.RateLimit.MaxRequests),
		zap.Duration("rate_limit_window", cfg.RateLimit.Window))

	shutdown := newGracefulShutdown(srv, cfg.Server.ShutdownTimeout, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	return shutdown.Wait(ctx, errCh)
}

// newAuthService builds the sign-in service. It returns nil without error
// when no JWT secret is configured.
func newAuthService(cfg config.AuthConfig, users auth.UserStore, logger *zap.Logger) (*auth.Service, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return auth.NewService(users, issuer,
		auth.WithSignInLimit(rate.Limit(cfg.SignInRate/60), cfg.SignInBurst),
		auth.WithLogger(logger),
	), nil
}
