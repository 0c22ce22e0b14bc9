package id

import (
	"fmt"
	"strconv"
	"strings"
)

const entryPrefix = "JV-"

// FormatEntryID returns an entry ID like "JV-000001".
func FormatEntryID(seq int) string {
	return fmt.Sprintf("%s%06d", entryPrefix, seq)
}

// FormatLegID returns a leg ID like "JV-000001a" (leg 0='a', 1='b', etc.).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParseEntryID parses "JV-000001" or a leg ID "JV-000001a" into its sequence.
func ParseEntryID(id string) (int, error) {
	base := EntryGroup(id)

	digits, ok := strings.CutPrefix(base, entryPrefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	seq, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}
	if seq <= 0 {
		return 0, fmt.Errorf("invalid sequence in entry ID %q: must be positive", id)
	}
	return seq, nil
}

// EntryGroup strips the leg suffix from a leg ID.
// "JV-000001a" -> "JV-000001"
func EntryGroup(legID string) string {
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
