package core

import (
	"strings"
	"testing"
)

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name     string
		itemCode string
		location string
		want     string
	}{
		{
			name:     "simple code and location",
			itemCode: "X1",
			location: "Central",
			want:     "x1_central",
		},
		{
			name:     "location with spaces",
			itemCode: "ABC-123",
			location: "Main Warehouse",
			want:     "abc_123_main_warehouse",
		},
		{
			name:     "punctuation runs collapse to one underscore",
			itemCode: "A//B",
			location: "North -- East",
			want:     "a_b_north_east",
		},
		{
			name:     "leading and trailing separators dropped",
			itemCode: " X1 ",
			location: "(Central)",
			want:     "x1_central",
		},
		{
			name:     "non-ascii letters are separators",
			itemCode: "X1",
			location: "Almacén Central",
			want:     "x1_almac_n_central",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIdentity(tt.itemCode, tt.location)
			if got != tt.want {
				t.Errorf("ResolveIdentity() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Location spellings that sanitize identically resolve to the same key.
// This alias collapse is intended behavior, not a collision bug.
func TestResolveIdentityCollapsesLocationAliases(t *testing.T) {
	variants := []string{
		"Central",
		"central",
		"CENTRAL",
		" Central ",
		"(Central)",
	}

	want := ResolveIdentity("x1", variants[0])
	for _, v := range variants {
		if got := ResolveIdentity("x1", v); got != want {
			t.Errorf("ResolveIdentity(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestResolveIdentityTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxIdentityLength*2)
	got := ResolveIdentity(long, "central")
	if len(got) != MaxIdentityLength {
		t.Errorf("len = %d, want %d", len(got), MaxIdentityLength)
	}
}

func TestResolveIdentityDeterministic(t *testing.T) {
	a := ResolveIdentity("SKU-42", "Branch #7")
	b := ResolveIdentity("SKU-42", "Branch #7")
	if a != b {
		t.Errorf("ResolveIdentity() not deterministic: %q vs %q", a, b)
	}
}
