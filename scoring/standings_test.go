package scoring

import (
	"testing"
	"time"

	"github.com/Zharaskq/pitwall/models"
)

func TestComputeStandingsOrderAndRanks(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	totals := []UserTotal{
		{UserID: 1, TotalPoints: 40, CreatedAt: base},
		{UserID: 2, TotalPoints: 120, CreatedAt: base},
		{UserID: 3, TotalPoints: 75, CreatedAt: base},
	}

	standings := ComputeStandings(totals, nil)

	wantOrder := []int{2, 3, 1}
	for i, want := range wantOrder {
		if standings[i].UserID != want {
			t.Errorf("position %d: user %d, want %d", i, standings[i].UserID, want)
		}
		if standings[i].Rank != i+1 {
			t.Errorf("position %d: rank %d, want %d", i, standings[i].Rank, i+1)
		}
	}

	// Ranks must be a gapless permutation of 1..N.
	seen := make(map[int]bool)
	for _, s := range standings {
		if s.Rank < 1 || s.Rank > len(standings) || seen[s.Rank] {
			t.Errorf("rank %d out of range or duplicated", s.Rank)
		}
		seen[s.Rank] = true
	}
}

func TestComputeStandingsTieBreak(t *testing.T) {
	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	totals := []UserTotal{
		{UserID: 5, TotalPoints: 50, CreatedAt: late},
		{UserID: 9, TotalPoints: 50, CreatedAt: early},
		{UserID: 7, TotalPoints: 50, CreatedAt: early},
	}

	standings := ComputeStandings(totals, nil)

	// Earlier account wins the tie; equal timestamps fall back to user ID.
	wantOrder := []int{7, 9, 5}
	for i, want := range wantOrder {
		if standings[i].UserID != want {
			t.Errorf("position %d: user %d, want %d", i, standings[i].UserID, want)
		}
	}
}

func TestComputeStandingsPreviousRank(t *testing.T) {
	base := time.Now()
	totals := []UserTotal{
		{UserID: 1, TotalPoints: 10, CreatedAt: base},
		{UserID: 2, TotalPoints: 30, CreatedAt: base},
	}
	prev := map[int]int{1: 1} // user 1 led last time; user 2 is new

	standings := ComputeStandings(totals, prev)

	if standings[0].UserID != 2 || standings[0].PreviousRank != nil {
		t.Errorf("user 2 should lead with no previous rank, got %+v", standings[0])
	}
	if standings[1].UserID != 1 || standings[1].PreviousRank == nil || *standings[1].PreviousRank != 1 {
		t.Errorf("user 1 should carry previous rank 1, got %+v", standings[1])
	}
}

func TestComputeStandingsDeterministic(t *testing.T) {
	base := time.Now()
	totals := []UserTotal{
		{UserID: 3, TotalPoints: 20, CreatedAt: base},
		{UserID: 1, TotalPoints: 20, CreatedAt: base},
		{UserID: 2, TotalPoints: 20, CreatedAt: base},
	}
	first := ComputeStandings(totals, nil)
	second := ComputeStandings(totals, nil)
	for i := range first {
		if first[i].UserID != second[i].UserID {
			t.Fatalf("ordering unstable at position %d: %d vs %d", i, first[i].UserID, second[i].UserID)
		}
	}
}

func TestFilterStandings(t *testing.T) {
	all := []models.Standing{
		{UserID: 1, TotalPoints: 100, Rank: 1},
		{UserID: 2, TotalPoints: 80, Rank: 2},
		{UserID: 3, TotalPoints: 60, Rank: 3},
		{UserID: 4, TotalPoints: 40, Rank: 4},
	}
	members := map[int]bool{2: true, 4: true}

	league := FilterStandings(all, members)

	if len(league) != 2 {
		t.Fatalf("filtered size = %d, want 2", len(league))
	}
	if league[0].UserID != 2 || league[0].Rank != 1 {
		t.Errorf("league leader = %+v, want user 2 at rank 1", league[0])
	}
	if league[1].UserID != 4 || league[1].Rank != 2 {
		t.Errorf("league second = %+v, want user 4 at rank 2", league[1])
	}

	if total := LeagueTotal(league); total != 120 {
		t.Errorf("league total = %d, want 120", total)
	}
}

func TestSumPredictionPoints(t *testing.T) {
	preds := []models.Prediction{
		{PointsEarned: 25},
		{PointsEarned: 0},
		{PointsEarned: 35},
	}
	if got := SumPredictionPoints(preds); got != 60 {
		t.Errorf("sum = %d, want 60", got)
	}
}
