package output

import (
	"fmt"
	"strings"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/mintconfig"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders CLI results.
type Formatter interface {
	FormatWallets(tier core.Tier, wallets []core.WalletEntry) (string, error)
	FormatEligibility(status *core.EligibilityStatus) (string, error)
	FormatAuditEvents(events []audit.Event) (string, error)
	FormatMintConfig(cfg *mintconfig.Config) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &TableFormatter{Markdown: true}
	default:
		return &TableFormatter{}
	}
}
