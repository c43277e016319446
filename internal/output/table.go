package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/mintconfig"
)

// TableFormatter renders results as an ASCII table, or as a Markdown table
// when Markdown is set.
type TableFormatter struct {
	Markdown bool
}

// FormatWallets renders one row per wallet with a count footer.
func (f *TableFormatter) FormatWallets(tier core.Tier, wallets []core.WalletEntry) (string, error) {
	t := f.newWriter()
	t.SetTitle(fmt.Sprintf("%s wallets", tier.Label()))
	t.AppendHeader(table.Row{"Wallet Address", "Mints Allowed", "Mints Used", "Added"})

	for _, w := range wallets {
		t.AppendRow(table.Row{w.Address, w.MintsAllowed, w.MintsUsed, formatTime(w.CreatedAt)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d wallets", len(wallets)), "", "", ""})

	return f.render(t), nil
}

// FormatEligibility renders the verdict per tier.
func (f *TableFormatter) FormatEligibility(status *core.EligibilityStatus) (string, error) {
	if status == nil {
		return "", nil
	}

	t := f.newWriter()
	t.SetTitle(status.Address)
	t.AppendHeader(table.Row{"Tier", "Eligible", "Mints Allowed", "Mints Used"})
	t.AppendRow(table.Row{core.TierOG.Label(), yesNo(status.IsOG), optionalInt(status.OGMintsAllowed), optionalInt(status.OGMintsUsed)})
	t.AppendRow(table.Row{core.TierWL.Label(), yesNo(status.IsWL), optionalInt(status.WLMintsAllowed), optionalInt(status.WLMintsUsed)})

	verdict := "Not eligible"
	if status.Eligible() {
		verdict = "Eligible"
	}
	t.AppendFooter(table.Row{"", verdict, "", ""})

	return f.render(t), nil
}

// FormatAuditEvents renders the audit trail newest first.
func (f *TableFormatter) FormatAuditEvents(events []audit.Event) (string, error) {
	t := f.newWriter()
	t.AppendHeader(table.Row{"Time", "Action", "Actor", "Tier", "Subject"})
	for _, ev := range events {
		t.AppendRow(table.Row{formatTime(ev.CreatedAt), ev.Action, ev.Actor, ev.Tier, ev.Subject})
	}
	return f.render(t), nil
}

// FormatMintConfig renders the phases side by side.
func (f *TableFormatter) FormatMintConfig(cfg *mintconfig.Config) (string, error) {
	if cfg == nil {
		return "", nil
	}

	t := f.newWriter()
	t.SetTitle(fmt.Sprintf("Supply %d / %d minted", cfg.MaxSupply, cfg.Minted))
	t.AppendHeader(table.Row{"Phase", "Duration", "Max Per Wallet", "Price"})
	t.AppendRow(table.Row{"OG", hours(cfg.OG.DurationHours), cfg.OG.MaxPerWallet, formatPrice(cfg.OG.Price)})
	t.AppendRow(table.Row{"WL", hours(cfg.WL.DurationHours), cfg.WL.MaxPerWallet, formatPrice(cfg.WL.Price)})
	t.AppendRow(table.Row{"Public", "-", cfg.Public.MaxPerWallet, formatPrice(cfg.Public.Price)})
	return f.render(t), nil
}

func (f *TableFormatter) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) render(t table.Writer) string {
	if f.Markdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func hours(h int) string {
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}

func formatPrice(p float64) string {
	if p == 0 {
		return "free"
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
