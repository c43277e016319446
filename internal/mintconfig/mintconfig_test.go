package mintconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1000, cfg.MaxSupply)
	assert.Equal(t, 0, cfg.Minted)
	assert.Equal(t, Phase{DurationHours: 1, MaxPerWallet: 1, Price: 0}, cfg.OG)
	assert.Equal(t, Phase{DurationHours: 2, MaxPerWallet: 3, Price: 5}, cfg.WL)
	assert.Equal(t, PublicPhase{MaxPerWallet: 3, Price: 10}, cfg.Public)
	assert.Equal(t, 2*time.Hour, cfg.WL.Duration())
	assert.Equal(t, 1000, cfg.Remaining())
}

func TestDefaultReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Minted = 500
	assert.Equal(t, 0, Default().Minted)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minted: 250\nwl:\n  price: 7.5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Minted)
	assert.Equal(t, 7.5, cfg.WL.Price)
	assert.Equal(t, 3, cfg.WL.MaxPerWallet)
	assert.Equal(t, 1000, cfg.MaxSupply)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("og:\n  price: -1\nminted: 2000\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "og.price must not be negative")
	assert.Contains(t, err.Error(), "exceeds max_supply")
}
