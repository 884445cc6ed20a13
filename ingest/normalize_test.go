package ingest

import (
	"testing"

	"github.com/Zharaskq/pitwall/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pérez", "perez"},
		{"Perez", "perez"},
		{"Nico Hülkenberg", "nico hulkenberg"},
		{"  Max   Verstappen ", "max verstappen"},
		{"CHARLES LECLERC", "charles leclerc"},
		{"", ""},
		{"Kimi Räikkönen", "kimi raikkonen"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolverAccentInsensitive(t *testing.T) {
	resolver, err := NewDriverResolver([]models.Driver{
		{ID: 11, Name: "Sergio Perez"},
		{ID: 1, Name: "Max Verstappen"},
	})
	if err != nil {
		t.Fatalf("NewDriverResolver: %v", err)
	}

	tests := []struct {
		name   string
		wantID int
		wantOK bool
	}{
		{"Sergio Pérez", 11, true},
		{"sergio perez", 11, true},
		{"MAX  VERSTAPPEN", 1, true},
		{"Lewis Hamilton", 0, false},
	}
	for _, tt := range tests {
		id, ok := resolver.Resolve(tt.name)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = (%d, %v), want (%d, %v)", tt.name, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestResolverRejectsAmbiguousNames(t *testing.T) {
	_, err := NewDriverResolver([]models.Driver{
		{ID: 1, Name: "Sergio Pérez"},
		{ID: 2, Name: "Sergio Perez"},
	})
	if err == nil {
		t.Fatal("expected error for two drivers normalizing to the same name")
	}
}
