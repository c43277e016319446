package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/store"
	"github.com/harulabs/mintgate/internal/observability"
)

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "Manage the OG and WL allowlists",
}

var walletsListCmd = &cobra.Command{
	Use:   "list <tier>",
	Short: "List wallets on a tier, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletsList,
}

var walletsAddCmd = &cobra.Command{
	Use:   "add <tier> [address...]",
	Short: "Add wallets to a tier",
	Long: `Add wallets to a tier with the tier's default allowance (OG 1, WL 3).

Addresses come from the arguments and/or --file (one per line, "-" for stdin).
If any address is invalid or already listed, nothing is added.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWalletsAdd,
}

var walletsRemoveCmd = &cobra.Command{
	Use:   "remove <tier> <address>",
	Short: "Remove a wallet from a tier",
	Args:  cobra.ExactArgs(2),
	RunE:  runWalletsRemove,
}

var walletsSetAllowanceCmd = &cobra.Command{
	Use:   "set-allowance <tier> <address> <mints>",
	Short: "Set mints_allowed for a wallet (1-100)",
	Args:  cobra.ExactArgs(3),
	RunE:  runWalletsSetAllowance,
}

var walletsExportCmd = &cobra.Command{
	Use:   "export <tier>",
	Short: "Export a tier as CSV",
	Long:  "Export a tier as CSV. Without --out the file is written to og-wallets.csv or wl-wallets.csv; use --out - for stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletsExport,
}

func init() {
	rootCmd.AddCommand(walletsCmd)
	walletsCmd.AddCommand(walletsListCmd, walletsAddCmd, walletsRemoveCmd, walletsSetAllowanceCmd, walletsExportCmd)

	addOutputFlags(walletsListCmd)
	walletsListCmd.Flags().String("search", "", "Case-insensitive address substring filter")

	walletsAddCmd.Flags().String("file", "", "Read newline-separated addresses from file (- for stdin)")

	walletsExportCmd.Flags().String("out", "", "Output path (default <tier>-wallets.csv, - for stdout)")
}

func parseTierArg(value string) (core.Tier, error) {
	tier, err := core.ParseTier(value)
	if err != nil {
		return "", fmt.Errorf("%w (expected og or wl)", err)
	}
	return tier, nil
}

func newAllowlistService(backend store.Backend) *allowlist.Service {
	logger := observability.CLILogger
	return allowlist.NewService(backend, audit.NewRecorder(backend, logger.Named("audit")), logger)
}

func runWalletsList(cmd *cobra.Command, args []string) error {
	tier, err := parseTierArg(args[0])
	if err != nil {
		return err
	}
	formatter, err := resolveFormatter(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		wallets, err := newAllowlistService(backend).ListWallets(cmd.Context(), tier, search)
		if err != nil {
			return err
		}
		rendered, err := formatter.FormatWallets(tier, wallets)
		if err != nil {
			return err
		}
		return emit(cmd, rendered)
	})
}

func runWalletsAdd(cmd *cobra.Command, args []string) error {
	tier, err := parseTierArg(args[0])
	if err != nil {
		return err
	}
	file, _ := cmd.Flags().GetString("file")
	lines, err := resolveAddresses(args[1:], file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		result, err := newAllowlistService(backend).AddWallets(cmd.Context(), tier, lines)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d wallet(s) to %s with %d mint(s) allowed\n",
			len(result.Added), tier.Label(), result.Allowed)
		return nil
	})
}

func runWalletsRemove(cmd *cobra.Command, args []string) error {
	tier, err := parseTierArg(args[0])
	if err != nil {
		return err
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		if err := newAllowlistService(backend).RemoveWallet(cmd.Context(), tier, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], tier.Label())
		return nil
	})
}

func runWalletsSetAllowance(cmd *cobra.Command, args []string) error {
	tier, err := parseTierArg(args[0])
	if err != nil {
		return err
	}
	allowed, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", core.ErrAllowanceOutOfRange, args[2])
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		if err := newAllowlistService(backend).UpdateAllowance(cmd.Context(), tier, args[1], allowed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s mints_allowed to %d on %s\n", args[1], allowed, tier.Label())
		return nil
	})
}

func runWalletsExport(cmd *cobra.Command, args []string) error {
	tier, err := parseTierArg(args[0])
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("out")
	if !cmd.Flags().Changed("out") {
		path = allowlist.ExportFilename(tier)
	}

	return withBackend(cmd.Context(), func(_ *config.Config, backend store.Backend) error {
		data, err := newAllowlistService(backend).ExportCSV(cmd.Context(), tier)
		if err != nil {
			return err
		}
		return emitTo(cmd, path, string(data))
	})
}
