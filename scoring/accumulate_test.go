package scoring

import (
	"testing"

	"github.com/Zharaskq/pitwall/models"
)

func TestAccumulateDriverPoints(t *testing.T) {
	results := []models.RaceResult{
		{
			RaceID:           1,
			Positions:        []int{1, 2, 3},
			FastestLapDriver: intp(1),
			Completed:        true,
		},
		{
			RaceID:           2,
			Positions:        []int{2, 1, 3},
			FastestLapDriver: intp(3),
			Completed:        true,
		},
	}

	totals := AccumulateDriverPoints(results)

	tests := []struct {
		driver int
		want   int
	}{
		{1, 25 + 1 + 18}, // win + fastest lap, then P2
		{2, 18 + 25},
		{3, 15 + 15 + 1}, // two P3s + fastest lap in race 2
	}
	for _, tt := range tests {
		if got := totals[tt.driver]; got != tt.want {
			t.Errorf("driver %d = %d points, want %d", tt.driver, got, tt.want)
		}
	}
}

func TestAccumulateSkipsIncompleteRaces(t *testing.T) {
	results := []models.RaceResult{
		{RaceID: 1, Positions: []int{1}, Completed: false},
	}
	if totals := AccumulateDriverPoints(results); len(totals) != 0 {
		t.Errorf("incomplete race contributed points: %v", totals)
	}
}

func TestAccumulateFastestLapOutsideTop10(t *testing.T) {
	// Driver 12 sets the fastest lap but is not classified in the top 10:
	// no extra championship point.
	results := []models.RaceResult{
		{
			RaceID:           1,
			Positions:        []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			FastestLapDriver: intp(12),
			Completed:        true,
		},
	}
	totals := AccumulateDriverPoints(results)
	if got := totals[12]; got != 0 {
		t.Errorf("driver 12 = %d points, want 0 (fastest lap outside top 10)", got)
	}
	if got := totals[1]; got != 25 {
		t.Errorf("driver 1 = %d points, want 25", got)
	}
}

func TestAccumulateSkipsUnresolvedSlots(t *testing.T) {
	// Slot P2 holds driver 0: the resolver failed to match the feed name.
	// The slot is skipped, the rest of the race still counts.
	results := []models.RaceResult{
		{RaceID: 1, Positions: []int{1, 0, 3}, Completed: true},
	}
	totals := AccumulateDriverPoints(results)
	if got := totals[0]; got != 0 {
		t.Errorf("unresolved slot earned %d points", got)
	}
	if got := totals[3]; got != 15 {
		t.Errorf("driver 3 = %d points, want 15", got)
	}
}

func TestAccumulateIsIdempotent(t *testing.T) {
	results := []models.RaceResult{
		{RaceID: 1, Positions: []int{1, 2, 3}, FastestLapDriver: intp(2), Completed: true},
	}
	first := AccumulateDriverPoints(results)
	second := AccumulateDriverPoints(results)
	if len(first) != len(second) {
		t.Fatalf("totals differ in size: %d vs %d", len(first), len(second))
	}
	for id, pts := range first {
		if second[id] != pts {
			t.Errorf("driver %d: %d vs %d on re-run", id, pts, second[id])
		}
	}
}
