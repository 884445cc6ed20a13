package ingest

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Zharaskq/pitwall/models"
)

func testAdapter(t *testing.T) *Adapter {
	t.Helper()
	resolver, err := NewDriverResolver([]models.Driver{
		{ID: 1, Name: "Max Verstappen"},
		{ID: 4, Name: "Lando Norris"},
		{ID: 11, Name: "Sergio Pérez"},
		{ID: 27, Name: "Nico Hülkenberg"},
	})
	if err != nil {
		t.Fatalf("NewDriverResolver: %v", err)
	}
	return NewAdapter(resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAdapterNormalize(t *testing.T) {
	a := testAdapter(t)

	raw := RawResult{
		Finishers:  []string{"Max Verstappen", "Sergio Perez", "Nico Hulkenberg"},
		FastestLap: "Lando Norris",
		DNFs:       []string{"Sergio Perez", "Sergio Pérez"}, // feed duplicates collapse
	}
	result, err := a.Normalize(7, raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	wantPositions := []int{1, 11, 27}
	if len(result.Positions) != len(wantPositions) {
		t.Fatalf("positions = %v, want %v", result.Positions, wantPositions)
	}
	for i, want := range wantPositions {
		if result.Positions[i] != want {
			t.Errorf("P%d = %d, want %d", i+1, result.Positions[i], want)
		}
	}
	if result.FastestLapDriver == nil || *result.FastestLapDriver != 4 {
		t.Errorf("fastest lap = %v, want 4", result.FastestLapDriver)
	}
	if len(result.DNFDrivers) != 1 || result.DNFDrivers[0] != 11 {
		t.Errorf("dnf drivers = %v, want [11]", result.DNFDrivers)
	}
	if !result.Completed {
		t.Error("normalized result should be completed")
	}
}

func TestAdapterUnknownDriverKeepsContiguity(t *testing.T) {
	a := testAdapter(t)

	raw := RawResult{
		Finishers: []string{"Max Verstappen", "Somebody Unknown", "Lando Norris"},
	}
	result, err := a.Normalize(3, raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []int{1, 0, 4}
	for i, id := range want {
		if result.Positions[i] != id {
			t.Errorf("P%d = %d, want %d", i+1, result.Positions[i], id)
		}
	}
}

func TestAdapterRejectsDuplicateFinisher(t *testing.T) {
	a := testAdapter(t)

	raw := RawResult{
		Finishers: []string{"Max Verstappen", "MAX VERSTAPPEN"},
	}
	if _, err := a.Normalize(3, raw); !errors.Is(err, ErrDuplicateFinisher) {
		t.Errorf("Normalize error = %v, want ErrDuplicateFinisher", err)
	}
}

func TestAdapterRejectsTooManyFinishers(t *testing.T) {
	a := testAdapter(t)

	raw := RawResult{Finishers: make([]string, 11)}
	if _, err := a.Normalize(3, raw); !errors.Is(err, ErrTooManyFinishers) {
		t.Errorf("Normalize error = %v, want ErrTooManyFinishers", err)
	}
}
