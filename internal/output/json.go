package output

import (
	"encoding/json"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/mintconfig"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatWallets renders wallets as a JSON array.
func (f *JSONFormatter) FormatWallets(_ core.Tier, wallets []core.WalletEntry) (string, error) {
	if wallets == nil {
		wallets = []core.WalletEntry{}
	}
	return f.encode(wallets)
}

// FormatEligibility renders the status object.
func (f *JSONFormatter) FormatEligibility(status *core.EligibilityStatus) (string, error) {
	if status == nil {
		return "", nil
	}
	return f.encode(status)
}

// FormatAuditEvents renders events as a JSON array.
func (f *JSONFormatter) FormatAuditEvents(events []audit.Event) (string, error) {
	if events == nil {
		events = []audit.Event{}
	}
	return f.encode(events)
}

// FormatMintConfig renders the mint configuration.
func (f *JSONFormatter) FormatMintConfig(cfg *mintconfig.Config) (string, error) {
	if cfg == nil {
		return "", nil
	}
	return f.encode(cfg)
}

func (f *JSONFormatter) encode(v any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
