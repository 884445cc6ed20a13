package scoring

import (
	"errors"
	"testing"

	"github.com/Zharaskq/pitwall/models"
)

func intp(v int) *int { return &v }

func completedResult() models.RaceResult {
	return models.RaceResult{
		RaceID:           1,
		Positions:        []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		FastestLapDriver: intp(1),
		DNFDrivers:       []int{14, 15},
		Completed:        true,
	}
}

func TestScoreRaceNotCompleted(t *testing.T) {
	pred := &models.Prediction{Podium: []int{1, 2, 3}}

	tests := []struct {
		name   string
		result models.RaceResult
	}{
		{"not completed", models.RaceResult{Positions: []int{1, 2, 3}, Completed: false}},
		{"completed without winner", models.RaceResult{Completed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Score(pred, tt.result); !errors.Is(err, ErrRaceNotCompleted) {
				t.Errorf("Score() error = %v, want ErrRaceNotCompleted", err)
			}
		})
	}
}

func TestScorePositions(t *testing.T) {
	tests := []struct {
		name   string
		podium []int
		want   int
	}{
		{"perfect top 10", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 121},
		{"winner only", []int{1}, 25},
		{"correct driver wrong slot scores nothing", []int{2, 1}, 0},
		{"partial match", []int{1, 3, 2, 4}, 25 + 12},
		{"empty podium", nil, 0},
		{"unknown driver reference is a non-match", []int{99, 2}, 18},
		{"prediction longer than table is truncated", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 121},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := &models.Prediction{Podium: tt.podium}
			bd, err := Score(pred, completedResult())
			if err != nil {
				t.Fatalf("Score() unexpected error: %v", err)
			}
			if bd.Total != tt.want {
				t.Errorf("Score() total = %d, want %d", bd.Total, tt.want)
			}
		})
	}
}

func TestScoreBonuses(t *testing.T) {
	tests := []struct {
		name    string
		flPick  *int
		dnfPick *int
		wantFL  int
		wantDNF int
	}{
		{"fastest lap match", intp(1), nil, 10, 0},
		{"fastest lap miss", intp(2), nil, 0, 0},
		{"fastest lap unset", nil, nil, 0, 0},
		{"dnf in set", nil, intp(14), 0, 10},
		{"dnf not in set", nil, intp(3), 0, 0},
		{"both bonuses", intp(1), intp(15), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := &models.Prediction{FastestLapPick: tt.flPick, DNFPick: tt.dnfPick}
			bd, err := Score(pred, completedResult())
			if err != nil {
				t.Fatalf("Score() unexpected error: %v", err)
			}
			if bd.FastestLap != tt.wantFL {
				t.Errorf("fastest lap bonus = %d, want %d", bd.FastestLap, tt.wantFL)
			}
			if bd.DNF != tt.wantDNF {
				t.Errorf("dnf bonus = %d, want %d", bd.DNF, tt.wantDNF)
			}
			if bd.Total != tt.wantFL+tt.wantDNF {
				t.Errorf("total = %d, want %d", bd.Total, tt.wantFL+tt.wantDNF)
			}
		})
	}
}

// The DNF bonus is pure set membership: a driver can appear both in the
// top 10 and in the DNF set (classified despite retiring) and both rules
// still apply independently.
func TestScoreDNFIndependentOfPosition(t *testing.T) {
	result := completedResult()
	result.DNFDrivers = []int{10}

	pred := &models.Prediction{
		Podium:  []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 10},
		DNFPick: intp(10),
	}
	bd, err := Score(pred, result)
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if want := 1 + 10; bd.Total != want {
		t.Errorf("total = %d, want %d (P10 point + DNF bonus)", bd.Total, want)
	}
}

func TestScoreWinnerWithFastestLap(t *testing.T) {
	pred := &models.Prediction{
		Podium:         []int{1},
		FastestLapPick: intp(1),
	}
	bd, err := Score(pred, completedResult())
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if bd.Total != 35 {
		t.Errorf("total = %d, want 35", bd.Total)
	}

	// Same slots predicted for someone else score nothing.
	miss := &models.Prediction{Podium: []int{2}, FastestLapPick: intp(2)}
	bd, err = Score(miss, completedResult())
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if bd.PositionPoints[0] != 0 {
		t.Errorf("P1 points = %d, want 0", bd.PositionPoints[0])
	}
}

func TestScoreIsPure(t *testing.T) {
	pred := &models.Prediction{Podium: []int{1, 2, 3}, FastestLapPick: intp(1)}
	first, err := Score(pred, completedResult())
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	second, err := Score(pred, completedResult())
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if first.Total != second.Total || first.FastestLap != second.FastestLap || first.DNF != second.DNF {
		t.Errorf("Score() not idempotent: %+v vs %+v", first, second)
	}
}

func TestScoreShortResult(t *testing.T) {
	// Fewer than ten classified finishers: predictions past the end of the
	// result list score zero.
	result := models.RaceResult{
		RaceID:    2,
		Positions: []int{5, 6},
		Completed: true,
	}
	pred := &models.Prediction{Podium: []int{5, 6, 7, 8}}
	bd, err := Score(pred, result)
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if want := 25 + 18; bd.Total != want {
		t.Errorf("total = %d, want %d", bd.Total, want)
	}
}
