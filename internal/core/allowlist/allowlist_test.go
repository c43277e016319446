package allowlist_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harulabs/mintgate/internal/audit"
	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
	"github.com/harulabs/mintgate/internal/core/allowlist"
	"github.com/harulabs/mintgate/internal/core/store"
)

func addr(c byte) string {
	return "0x" + strings.Repeat(string(c), 64)
}

type recordingAuditor struct {
	events []audit.Event
}

func (r *recordingAuditor) Record(ctx context.Context, event audit.Event) {
	event.Actor = auth.Actor(ctx)
	r.events = append(r.events, event)
}

func newService(t *testing.T) (*allowlist.Service, *store.Memory, *recordingAuditor) {
	t.Helper()
	mem := store.NewMemory()
	auditor := &recordingAuditor{}
	svc := allowlist.NewService(mem, auditor, nil)
	return svc, mem, auditor
}

func TestAddWalletsAppliesTierDefaults(t *testing.T) {
	svc, mem, auditor := newService(t)
	ctx := auth.ContextWithPrincipal(context.Background(), auth.Principal{Email: "ops@example.com"})

	res, err := svc.AddWallets(ctx, core.TierOG, []string{"  " + addr('a') + "  ", "", addr('b')})
	require.NoError(t, err)
	assert.Equal(t, []string{addr('a'), addr('b')}, res.Added)
	assert.Equal(t, 1, res.Allowed)

	og, err := mem.GetWallet(ctx, core.TierOG, addr('a'))
	require.NoError(t, err)
	assert.Equal(t, 1, og.MintsAllowed)
	assert.Equal(t, 0, og.MintsUsed)

	_, err = svc.AddWallets(ctx, core.TierWL, []string{addr('c')})
	require.NoError(t, err)
	wl, err := mem.GetWallet(ctx, core.TierWL, addr('c'))
	require.NoError(t, err)
	assert.Equal(t, 3, wl.MintsAllowed)

	require.Len(t, auditor.events, 2)
	assert.Equal(t, audit.ActionWalletsAdd, auditor.events[0].Action)
	assert.Equal(t, "ops@example.com", auditor.events[0].Actor)
}

func TestAddWalletsRejectsWholeBatchOnInvalid(t *testing.T) {
	svc, mem, auditor := newService(t)
	ctx := context.Background()

	lines := make([]string, 0, 10)
	for i := 0; i < 9; i++ {
		lines = append(lines, fmt.Sprintf("0x%064x", i+1))
	}
	lines = append(lines, "0x123")

	_, err := svc.AddWallets(ctx, core.TierOG, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidationFailed)

	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"0x123"}, verr.Invalid)

	wallets, err := mem.ListWallets(ctx, core.TierOG)
	require.NoError(t, err)
	assert.Empty(t, wallets)
	assert.Empty(t, auditor.events)
}

func TestAddWalletsEmptyInput(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.AddWallets(context.Background(), core.TierOG, []string{"", "   "})
	assert.ErrorIs(t, err, core.ErrNoAddresses)
}

func TestAddWalletsDuplicateRejectsBatch(t *testing.T) {
	svc, mem, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddWallets(ctx, core.TierWL, []string{addr('a')})
	require.NoError(t, err)

	_, err = svc.AddWallets(ctx, core.TierWL, []string{addr('b'), addr('a')})
	assert.ErrorIs(t, err, core.ErrDuplicateWallet)

	wallets, err := mem.ListWallets(ctx, core.TierWL)
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}

func TestRemoveWallet(t *testing.T) {
	svc, _, auditor := newService(t)
	ctx := context.Background()
	_, err := svc.AddWallets(ctx, core.TierOG, []string{addr('a')})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveWallet(ctx, core.TierOG, addr('a')))
	assert.ErrorIs(t, svc.RemoveWallet(ctx, core.TierOG, addr('a')), core.ErrNotFound)
	assert.Equal(t, audit.ActionWalletsRemove, auditor.events[len(auditor.events)-1].Action)
}

func TestUpdateAllowance(t *testing.T) {
	svc, mem, _ := newService(t)
	ctx := context.Background()
	_, err := svc.AddWallets(ctx, core.TierWL, []string{addr('a')})
	require.NoError(t, err)
	require.NoError(t, mem.SetMintsUsed(core.TierWL, addr('a'), 2))

	for _, bad := range []int{0, -1, 101} {
		assert.ErrorIs(t, svc.UpdateAllowance(ctx, core.TierWL, addr('a'), bad), core.ErrAllowanceOutOfRange, "allowed=%d", bad)
	}

	require.NoError(t, svc.UpdateAllowance(ctx, core.TierWL, addr('a'), 100))
	got, err := mem.GetWallet(ctx, core.TierWL, addr('a'))
	require.NoError(t, err)
	assert.Equal(t, 100, got.MintsAllowed)
	assert.Equal(t, 2, got.MintsUsed)

	assert.ErrorIs(t, svc.UpdateAllowance(ctx, core.TierWL, addr('z'), 5), core.ErrNotFound)
}

func TestListWalletsOrderingAndFilter(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.Clock = func() time.Time { return clock }

	upper := "0x" + strings.Repeat("AB", 32)
	_, err := svc.AddWallets(ctx, core.TierOG, []string{upper})
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, err = svc.AddWallets(ctx, core.TierOG, []string{addr('c')})
	require.NoError(t, err)

	all, err := svc.ListWallets(ctx, core.TierOG, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, addr('c'), all[0].Address)

	filtered, err := svc.ListWallets(ctx, core.TierOG, "abab")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, upper, filtered[0].Address)

	none, err := svc.ListWallets(ctx, core.TierOG, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestExportCSV(t *testing.T) {
	svc, mem, _ := newService(t)
	ctx := context.Background()

	empty, err := svc.ExportCSV(ctx, core.TierOG)
	require.NoError(t, err)
	assert.Equal(t, "Wallet Address,Mints Allowed,Mints Used", string(empty))

	_, err = svc.AddWallets(ctx, core.TierWL, []string{addr('a')})
	require.NoError(t, err)
	require.NoError(t, mem.SetMintsUsed(core.TierWL, addr('a'), 1))

	out, err := svc.ExportCSV(ctx, core.TierWL)
	require.NoError(t, err)
	assert.Equal(t, "Wallet Address,Mints Allowed,Mints Used\n"+addr('a')+",3,1", string(out))
	assert.False(t, strings.HasSuffix(string(out), "\n"))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "og-wallets.csv", allowlist.ExportFilename(core.TierOG))
	assert.Equal(t, "wl-wallets.csv", allowlist.ExportFilename(core.TierWL))
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	svc, mem, _ := newService(t)
	mem.SetFailure(errors.New("connection refused"))

	_, err := svc.ListWallets(context.Background(), core.TierOG, "")
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)

	_, err = svc.AddWallets(context.Background(), core.TierOG, []string{addr('a')})
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestNilRepository(t *testing.T) {
	svc := &allowlist.Service{}
	_, err := svc.ListWallets(context.Background(), core.TierOG, "")
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}
