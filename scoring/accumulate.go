package scoring

import "github.com/Zharaskq/pitwall/models"

// AccumulateDriverPoints folds completed race results into real championship
// points per driver. Callers reset every driver to zero and replay all
// completed results on each invocation instead of applying deltas, so a
// corrected result can never double-count.
//
// Each top-10 finisher earns PointsTable points for their position. The
// fastest-lap driver earns one extra point, but only if they also finished
// in the top 10; a fastest lap set from P12 or by a retired driver is worth
// nothing. This is independent of the prediction-side fastest-lap bonus.
//
// A result slot holding driver ID 0 (a feed name the resolver could not
// match) is skipped; it does not abort the batch.
func AccumulateDriverPoints(results []models.RaceResult) map[int]int {
	totals := make(map[int]int)

	for _, res := range results {
		if !res.Completed {
			continue
		}
		inTop10 := make(map[int]bool, len(res.Positions))
		for pos, driverID := range res.Positions {
			if driverID == 0 || pos >= len(PointsTable) {
				continue
			}
			inTop10[driverID] = true
			totals[driverID] += PointsTable[pos]
		}
		if res.FastestLapDriver != nil && inTop10[*res.FastestLapDriver] {
			totals[*res.FastestLapDriver]++
		}
	}

	return totals
}
