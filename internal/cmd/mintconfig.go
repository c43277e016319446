package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/mintconfig"
)

var mintConfigCmd = &cobra.Command{
	Use:   "mint-config",
	Short: "Show the mint configuration",
	Long:  "Show the mint configuration: embedded defaults overlaid with mint.config_file when set.",
	Args:  cobra.NoArgs,
	RunE:  runMintConfig,
}

func init() {
	rootCmd.AddCommand(mintConfigCmd)
	addOutputFlags(mintConfigCmd)
}

func runMintConfig(cmd *cobra.Command, args []string) error {
	formatter, err := resolveFormatter(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mintCfg, err := mintconfig.Load(cfg.Mint.ConfigFile)
	if err != nil {
		return &configError{err: err}
	}

	rendered, err := formatter.FormatMintConfig(mintCfg)
	if err != nil {
		return err
	}
	return emit(cmd, rendered)
}
