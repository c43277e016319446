package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidAddress(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase hex", "0x" + strings.Repeat("a", 64), true},
		{"uppercase hex", "0x" + strings.Repeat("F", 64), true},
		{"mixed case digits", "0x" + strings.Repeat("0aB9", 16), true},
		{"too short", "0x" + strings.Repeat("a", 63), false},
		{"too long", "0x" + strings.Repeat("a", 65), false},
		{"uppercase prefix", "0X" + strings.Repeat("a", 64), false},
		{"missing prefix", strings.Repeat("a", 66), false},
		{"non hex", "0x" + strings.Repeat("g", 64), false},
		{"leading space", " 0x" + strings.Repeat("a", 64), false},
		{"trailing newline", "0x" + strings.Repeat("a", 64) + "\n", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidAddress(tc.input))
		})
	}
}

func TestPartitionAddressesIsStable(t *testing.T) {
	a := "0x" + strings.Repeat("a", 64)
	b := "0x" + strings.Repeat("b", 64)
	input := []string{"bad-1", a, "bad-2", b, a}

	p := PartitionAddresses(input)

	require.Len(t, p.Valid, 3)
	require.Len(t, p.Invalid, 2)
	assert.Equal(t, []string{a, b, a}, p.Valid)
	assert.Equal(t, []string{"bad-1", "bad-2"}, p.Invalid)
	assert.Equal(t, len(input), len(p.Valid)+len(p.Invalid))
}

func TestPartitionAddressesEmpty(t *testing.T) {
	p := PartitionAddresses(nil)
	assert.Empty(t, p.Valid)
	assert.Empty(t, p.Invalid)
}

func TestSplitAddressLines(t *testing.T) {
	text := "  0xabc \r\n\n\t\n0xdef\n   "
	assert.Equal(t, []string{"0xabc", "0xdef"}, SplitAddressLines(text))
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" OG ")
	require.NoError(t, err)
	assert.Equal(t, TierOG, tier)
	assert.Equal(t, 1, tier.DefaultAllowance())

	tier, err = ParseTier("wl")
	require.NoError(t, err)
	assert.Equal(t, 3, tier.DefaultAllowance())
	assert.Equal(t, "WL", tier.Label())

	_, err = ParseTier("public")
	require.ErrorIs(t, err, ErrUnknownTier)
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := error(&ValidationError{Invalid: []string{"nope"}})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "nope")
}
