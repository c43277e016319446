package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harulabs/mintgate/internal/output"
)

type outputSink struct {
	writer io.Writer
	close  func() error
	path   string
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-format", string(output.FormatTable), "Output format: table, json, markdown")
	cmd.Flags().String("out", "", "Write output to a file instead of stdout")
}

func resolveOutputFormat(cmd *cobra.Command) (output.Format, error) {
	value, err := cmd.Flags().GetString("output-format")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}

func resolveFormatter(cmd *cobra.Command) (output.Formatter, error) {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return nil, &configError{err: err}
	}
	return output.NewFormatter(format), nil
}

// openSink opens path for writing. An empty path or "-" selects fallback.
func openSink(path string, fallback io.Writer) (*outputSink, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return &outputSink{writer: fallback, close: func() error { return nil }, path: "-"}, nil
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(trimmed) // #nosec G304 -- operator-supplied output path
	if err != nil {
		return nil, err
	}
	return &outputSink{writer: file, close: file.Close, path: trimmed}, nil
}

// emit writes content to --out or the command's stdout. A trailing newline is
// added for terminals only; files receive content unchanged.
func emit(cmd *cobra.Command, content string) error {
	path, err := cmd.Flags().GetString("out")
	if err != nil {
		path = ""
	}
	return emitTo(cmd, path, content)
}

func emitTo(cmd *cobra.Command, path, content string) error {
	sink, err := openSink(path, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if sink.path == "-" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if _, err := io.WriteString(sink.writer, content); err != nil {
		_ = sink.close()
		return err
	}
	if err := sink.close(); err != nil {
		return err
	}
	if sink.path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", sink.path)
	}
	return nil
}
