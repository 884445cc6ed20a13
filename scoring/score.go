package scoring

import (
	"errors"

	"github.com/Zharaskq/pitwall/models"
)

// PointsTable maps finishing position (index 0 = P1) to championship points.
// The same table scores both real drivers and user predictions.
var PointsTable = [models.MaxClassifiedFinishers]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// Bonus awarded for a correct fastest-lap or DNF pick.
const PickBonus = 10

var ErrRaceNotCompleted = errors.New("race is not completed")

// Breakdown itemizes the points a single prediction earned against a result.
type Breakdown struct {
	PositionPoints []int `json:"position_points"` // one entry per podium slot
	FastestLap     int   `json:"fastest_lap"`
	DNF            int   `json:"dnf"`
	Total          int   `json:"total"`
}

// Score compares a prediction against the canonical result of the same race
// and returns the points breakdown.
//
// Position points are exact-slot only: the predicted driver must occupy the
// same position in the result. There is no partial credit for a correct
// driver in the wrong position. Unset picks score zero, never negative.
// A driver ID that appears in no result slot is simply a non-match.
//
// Score is pure: identical inputs always yield an identical breakdown.
func Score(pred *models.Prediction, result models.RaceResult) (Breakdown, error) {
	if !result.Completed || result.Winner() == 0 {
		return Breakdown{}, ErrRaceNotCompleted
	}

	bd := Breakdown{PositionPoints: make([]int, len(pred.Podium))}
	for i, driverID := range pred.Podium {
		if i >= len(PointsTable) {
			break
		}
		if driverID == 0 {
			continue
		}
		if i < len(result.Positions) && result.Positions[i] == driverID {
			bd.PositionPoints[i] = PointsTable[i]
			bd.Total += PointsTable[i]
		}
	}

	if pred.FastestLapPick != nil && result.FastestLapDriver != nil &&
		*pred.FastestLapPick == *result.FastestLapDriver {
		bd.FastestLap = PickBonus
		bd.Total += PickBonus
	}

	if pred.DNFPick != nil && result.IsDNF(*pred.DNFPick) {
		bd.DNF = PickBonus
		bd.Total += PickBonus
	}

	return bd, nil
}
