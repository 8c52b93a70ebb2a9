package cmd

import (
	"context"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Run a self-health check: version info, configuration and store connectivity.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		logger.Info("Running health check...")

		if versionInfo.Version == "" {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		logger.Debug("Version check passed", zap.String("version", versionInfo.Version))
		logger.Info("✅ Version information available")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		st, err := openConfiguredStore(ctx)
		if err != nil {
			ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "Store unavailable", errwrap.WrapDatabaseError(ctx, err, "store unavailable"))
			return
		}
		defer st.Close() // nolint:errcheck // closed on exit
		logger.Info("✅ Configuration loaded")

		count, err := st.CountEmployees(ctx)
		if err != nil {
			ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "Store query failed", errwrap.WrapDatabaseError(ctx, err, "store query failed"))
			return
		}
		logger.Info("✅ Store reachable", zap.String("driver", st.Driver()), zap.Int("employees", count))

		logger.Info("")
		logger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
