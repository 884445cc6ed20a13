package scoring

import (
	"sort"
	"time"

	"github.com/Zharaskq/pitwall/models"
)

// UserTotal is one user's summed prediction points, plus the account creation
// time used as the deterministic tie-break.
type UserTotal struct {
	UserID      int
	TotalPoints int
	CreatedAt   time.Time
}

// ComputeStandings turns per-user totals into a ranked leaderboard.
//
// Sort order: total points descending; ties broken by earliest account
// creation, then by user ID, so two runs over the same data always produce
// the same ordering. Ranks are assigned 1..N by sort position with no gaps.
// previousRanks carries each user's rank from the prior snapshot forward for
// trend display; users with no prior rank get nil.
func ComputeStandings(totals []UserTotal, previousRanks map[int]int) []models.Standing {
	sorted := make([]UserTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	standings := make([]models.Standing, len(sorted))
	for i, t := range sorted {
		s := models.Standing{
			UserID:      t.UserID,
			TotalPoints: t.TotalPoints,
			Rank:        i + 1,
		}
		if prev, ok := previousRanks[t.UserID]; ok {
			prevCopy := prev
			s.PreviousRank = &prevCopy
		}
		standings[i] = s
	}
	return standings
}

// SumPredictionPoints reduces a user's scored predictions to a single total.
func SumPredictionPoints(preds []models.Prediction) int {
	total := 0
	for _, p := range preds {
		total += p.PointsEarned
	}
	return total
}

// FilterStandings keeps only the standings whose user belongs to the given
// member set and re-ranks the remainder 1..N. Used for league leaderboards;
// the relative order from the global table is preserved.
func FilterStandings(all []models.Standing, memberIDs map[int]bool) []models.Standing {
	filtered := make([]models.Standing, 0, len(memberIDs))
	for _, s := range all {
		if memberIDs[s.UserID] {
			filtered = append(filtered, s)
		}
	}
	for i := range filtered {
		filtered[i].Rank = i + 1
	}
	return filtered
}

// LeagueTotal sums member totals for the league-versus-league leaderboard.
func LeagueTotal(standings []models.Standing) int {
	total := 0
	for _, s := range standings {
		total += s.TotalPoints
	}
	return total
}
