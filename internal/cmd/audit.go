package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/observability"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the administrative audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit events, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAuditList,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)

	addOutputFlags(auditListCmd)
	auditListCmd.Flags().Int("limit", audit.DefaultListLimit, "Maximum number of events")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	formatter, err := resolveFormatter(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		events, err := audit.NewRecorder(backend, observability.CLILogger).List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		rendered, err := formatter.FormatAuditEvents(events)
		if err != nil {
			return err
		}
		return emit(cmd, rendered)
	})
}
