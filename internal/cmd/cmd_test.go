package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harulabs/mintgate/internal/auth"
	"github.com/harulabs/mintgate/internal/core"
	apperrors "github.com/harulabs/mintgate/internal/errors"
)

func addr(c byte) string {
	return "0x" + strings.Repeat(string(c), 64)
}

// execute runs the root command with an isolated config directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MINTGATE_STORE_DRIVER", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"config", &configError{err: errors.New("bad")}, ExitConfig},
		{"invalid address", core.ErrInvalidAddress, ExitDataErr},
		{"batch", &core.ValidationError{Invalid: []string{"x"}}, ExitDataErr},
		{"duplicate", fmt.Errorf("insert: %w", core.ErrDuplicateWallet), ExitDataErr},
		{"not found", core.ErrNotFound, ExitDataErr},
		{"user exists", auth.ErrUserExists, ExitDataErr},
		{"tier", core.ErrUnknownTier, ExitUsage},
		{"store", core.StoreError("ping", errors.New("refused")), ExitUnavailable},
		{"internal envelope", apperrors.WrapInternal(context.Background(), errors.New("bind"), "server error"), ExitSoftware},
		{"config envelope", apperrors.NewConfigInvalidError("bad mint config"), ExitConfig},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeFor(tc.err))
		})
	}
	assert.Equal(t, "EX_DATAERR", ExitDataErr.String())
}

func TestResolveAddressesMergesFileAndArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.txt")
	content := "# OG batch\n" + addr('b') + "\n\n  " + addr('c') + "  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lines, err := resolveAddresses([]string{addr('a')}, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{addr('a'), addr('b'), addr('c')}, lines)

	lines, err = resolveAddresses(nil, "-", strings.NewReader(addr('d')+"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{addr('d')}, lines)

	_, err = resolveAddresses(nil, "", nil)
	assert.Error(t, err)

	_, err = resolveAddresses(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestReadPasswordLine(t *testing.T) {
	pw, err := readPasswordLine(strings.NewReader("s3cret-value\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret-value", pw)

	pw, err = readPasswordLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pw)
}

func TestMintConfigCommandJSON(t *testing.T) {
	out, err := execute(t, "mint-config", "--output-format", "json", "--out", "-")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 1000, decoded["max_supply"])
}

func TestCheckCommandRejectsInvalidAddress(t *testing.T) {
	_, err := execute(t, "check", "0x1234", "--output-format", "table", "--out", "-")
	require.Error(t, err)
	assert.Equal(t, ExitDataErr, ExitCodeFor(err))
}

func TestWalletsAddRejectsWholeBatch(t *testing.T) {
	_, err := execute(t, "wallets", "add", "og", addr('a'), "not-an-address")
	require.Error(t, err)

	var validation *core.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"not-an-address"}, validation.Invalid)
}

func TestWalletsAddReportsDefaults(t *testing.T) {
	out, err := execute(t, "wallets", "add", "wl", addr('a'), addr('b'))
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 wallet(s) to WL with 3 mint(s) allowed")
}

func TestWalletsExportWritesHeaderOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "og.csv")
	_, err := execute(t, "wallets", "export", "og", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Wallet Address,Mints Allowed,Mints Used", string(data))
}

func TestUnknownTierIsUsageError(t *testing.T) {
	_, err := execute(t, "wallets", "remove", "gold", addr('a'))
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCodeFor(err))
}
