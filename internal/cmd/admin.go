package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/observability"
)

// passwordEnvSuffix is appended to the identity env prefix, e.g.
// MINTGATE_ADMIN_PASSWORD.
const passwordEnvSuffix = "ADMIN_PASSWORD"

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

var adminCreateUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Provision an administrator account",
	Long: `Provision an administrator account that can sign in to the admin API.

The password is taken from --password, then the <PREFIX>ADMIN_PASSWORD
environment variable, then the first line of stdin when --password-stdin is set.`,
	Args: cobra.NoArgs,
	RunE: runAdminCreateUser,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateUserCmd)

	adminCreateUserCmd.Flags().String("email", "", "Administrator email (required)")
	adminCreateUserCmd.Flags().String("password", "", "Administrator password (prefer the environment variable or --password-stdin)")
	adminCreateUserCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	_ = adminCreateUserCmd.MarkFlagRequired("email")
}

func runAdminCreateUser(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, err := resolvePassword(cmd)
	if err != nil {
		return err
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		svc := auth.NewService(backend, nil, auth.WithLogger(observability.CLILogger))
		user, err := svc.CreateUser(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		audit.NewRecorder(backend, observability.CLILogger).Record(cmd.Context(), audit.Event{
			Action:  audit.ActionUserCreate,
			Subject: user.Email,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Created administrator %s (%s)\n", user.Email, user.ID)
		return nil
	})
}

func resolvePassword(cmd *cobra.Command) (string, error) {
	if value, _ := cmd.Flags().GetString("password"); value != "" {
		return value, nil
	}

	envName := "MINTGATE_" + passwordEnvSuffix
	if identity := GetAppIdentity(); identity != nil && identity.EnvPrefix != "" {
		envName = identity.EnvVar(passwordEnvSuffix)
	}
	if value := os.Getenv(envName); value != "" {
		return value, nil
	}

	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		return readPasswordLine(cmd.InOrStdin())
	}
	return "", fmt.Errorf("%w: password required (--password, %s or --password-stdin)", auth.ErrInvalidInput, envName)
}

func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
