package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Create the allowlist, admin user and audit tables if they do not exist. Safe to run repeatedly.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd.Context(), func(cfg *config.Config, backend store.Backend) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", backend.Driver())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
