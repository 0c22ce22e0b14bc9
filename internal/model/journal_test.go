package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegEntryGroup(t *testing.T) {
	tests := []struct {
		entryID string
		want    string
	}{
		{"JV-000001a", "JV-000001"},
		{"JV-000001b", "JV-000001"},
		{"JV-000001", "JV-000001"},
		{"JV-000042abc", "JV-000042"},
		{"", ""},
	}
	for _, tt := range tests {
		leg := Leg{EntryID: tt.entryID}
		assert.Equal(t, tt.want, leg.EntryGroup(), "EntryGroup(%q)", tt.entryID)
	}
}
