package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/mintconfig"
	"github.com/harulabs/mintgate/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Verify configuration, mint config and store connectivity without starting the server.",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	logger := observability.CLILogger
	out := cmd.OutOrStdout()

	if versionInfo.Version == "" {
		return &configError{err: fmt.Errorf("version information missing")}
	}
	fmt.Fprintf(out, "ok   version %s\n", versionInfo.Version)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "FAIL configuration: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "ok   configuration")

	if _, err := mintconfig.Load(cfg.Mint.ConfigFile); err != nil {
		fmt.Fprintf(out, "FAIL mint config: %v\n", err)
		return &configError{err: err}
	}
	fmt.Fprintln(out, "ok   mint config")

	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(out, "warn auth.jwt_secret not set; admin API disabled")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	started := time.Now()
	err = withStore(ctx, cfg, func(backend store.Backend) error {
		return backend.Ping(ctx)
	})
	if err != nil {
		fmt.Fprintf(out, "FAIL store (%s): %v\n", cfg.Store.Driver, err)
		return err
	}
	logger.Debug("Store ping succeeded", zap.Duration("latency", time.Since(started)))
	fmt.Fprintf(out, "ok   store (%s)\n", cfg.Store.Driver)

	fmt.Fprintln(out, "All health checks passed")
	return nil
}

func withStore(ctx context.Context, cfg *config.Config, fn func(store.Backend) error) error {
	backend, err := store.OpenBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close() // nolint:errcheck
	return fn(backend)
}
