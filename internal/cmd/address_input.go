package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// resolveAddresses merges positional addresses with the lines of file. No
// validation happens here; the allowlist service rejects the whole batch
// when any address is malformed.
func resolveAddresses(positional []string, file string, stdin io.Reader) ([]string, error) {
	lines := append([]string{}, positional...)

	if trimmed := strings.TrimSpace(file); trimmed != "" {
		fromFile, err := readAddressFile(trimmed, stdin)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fromFile...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("at least one address is required (positional or --file)")
	}
	return lines, nil
}

// readAddressFile reads one address per line. Blank lines and lines starting
// with # are skipped. "-" reads from stdin.
func readAddressFile(path string, stdin io.Reader) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = stdin
	} else {
		file, err := os.Open(path) // #nosec G304 -- operator-supplied input file
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		lines = append(lines, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
