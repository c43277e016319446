package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/harulabs/mintgate/internal/appid"
	"github.com/harulabs/mintgate/internal/config"
	"github.com/harulabs/mintgate/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// App identity resolved by gofulmen, falling back to the embedded app.yaml
	appIdentity *appidentity.Identity

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appidentity.Identity {
	return appIdentity
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	// NOTE: init() and initConfig() overwrite these from app identity.
	Use:           filepath.Base(os.Args[0]),
	Short:         "NFT mint allowlist eligibility service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. main maps the returned error onto an exit
// code with ExitCodeFor.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Load app identity early for help text (before cobra processes --help)
	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults to the app identity config path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func applyIdentity(identity *appidentity.Identity) {
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
		rootCmd.Long = fmt.Sprintf("%s - %s\n\nUse the subcommands to perform specific operations.", identity.BinaryName, identity.Description)
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil && identity.ConfigName != "" {
		f.Usage = fmt.Sprintf("config file (default is $XDG_CONFIG_HOME/%s/config.yaml)", identity.ConfigName)
	}
}

// initConfig wires the config file search path, environment and defaults on
// the global viper instance.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(ExitConfig, "Failed to load app identity", err)
	}
	appIdentity = identity
	applyIdentity(identity)

	observability.InitCLILogger(identity.BinaryName, verbose)

	v := viper.GetViper()
	config.SetDefaults(v)
	config.ConfigureEnv(v, identity.EnvPrefix)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir := config.DefaultConfigDir(identity.ConfigName); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		case cfgFile != "":
			ExitWithCode(observability.CLILogger, ExitConfig, "Failed to read config file", err)
		default:
			observability.CLILogger.Warn("Error reading config file", zap.Error(err))
		}
		return
	}
	observability.CLILogger.Debug("Using config file", zap.String("path", v.ConfigFileUsed()))
}

// loadConfig decodes and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}
