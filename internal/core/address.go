package core

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// AddressLength is the length of a well-formed address including the 0x prefix.
const AddressLength = 66

// IsValidAddress reports whether s is "0x" followed by exactly 64 hex digits.
// Surrounding whitespace is not tolerated; callers trim first.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// AddressPartition splits input addresses by validity, preserving input order.
type AddressPartition struct {
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
}

// PartitionAddresses returns a stable partition of list. Duplicates are kept.
func PartitionAddresses(list []string) AddressPartition {
	p := AddressPartition{
		Valid:   make([]string, 0, len(list)),
		Invalid: make([]string, 0),
	}
	for _, addr := range list {
		if IsValidAddress(addr) {
			p.Valid = append(p.Valid, addr)
		} else {
			p.Invalid = append(p.Invalid, addr)
		}
	}
	return p
}

// NormalizeAddressLines trims every entry and drops the empty ones.
func NormalizeAddressLines(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitAddressLines splits newline separated text (as pasted into the admin
// form) into trimmed, non-empty lines.
func SplitAddressLines(text string) []string {
	return NormalizeAddressLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}
