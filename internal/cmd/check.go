package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/engine"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Check allowlist eligibility for a wallet",
	Long:  "Look up a wallet on the OG and WL allowlists. The HTTP rate limit does not apply.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addOutputFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter, err := resolveFormatter(cmd)
	if err != nil {
		return err
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		checker := &engine.EligibilityChecker{Wallets: backend, Logger: observability.CLILogger}
		status, err := checker.Check(cmd.Context(), "cli", strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}

		rendered, err := formatter.FormatEligibility(status)
		if err != nil {
			return err
		}
		return emit(cmd, rendered)
	})
}
