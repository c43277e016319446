package observability

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// CLILogger is used for CLI commands (console encoder, human oriented)
	CLILogger = zap.NewNop()

	// ServerLogger is used for the HTTP server (JSON encoder on stderr)
	ServerLogger = zap.NewNop()
)

// InitCLILogger initializes the CLI logger. Verbose lowers the level to debug.
func InitCLILogger(serviceName string, verbose bool) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !verbose
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		exitWithCodeStderr(78, "Failed to initialize CLI logger", err)
	}

	CLILogger = logger.Named(serviceName)
}

// InitServerLogger initializes the structured server logger.
// Optional namespace parameter is attached as a static field.
func InitServerLogger(serviceName string, logLevel string, namespace ...string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLogLevel(logLevel))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fields := []zap.Field{zap.String("service", serviceName)}
	if len(namespace) > 0 && namespace[0] != "" {
		fields = append(fields, zap.String("namespace", namespace[0]))
	}

	logger, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		exitWithCodeStderr(78, "Failed to initialize server logger", err)
	}

	ServerLogger = logger
}

// ParseLogLevel converts a config level string to a zap level. "trace" maps
// to debug; unknown values fall back to info.
func ParseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// exitWithCodeStderr is used for logger initialization failures, before any
// logger is available.
func exitWithCodeStderr(exitCode int, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	os.Exit(exitCode)
}
