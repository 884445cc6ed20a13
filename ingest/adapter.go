package ingest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Zharaskq/pitwall/models"
)

var (
	ErrDuplicateFinisher = errors.New("result lists the same driver twice")
	ErrTooManyFinishers  = errors.New("result lists more than ten classified finishers")
)

// Adapter turns raw feed results into the canonical RaceResult the scoring
// engine consumes. All name resolution happens here; downstream code only
// sees driver IDs.
type Adapter struct {
	resolver *DriverResolver
	logger   *slog.Logger
}

func NewAdapter(resolver *DriverResolver, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{resolver: resolver, logger: logger}
}

// Normalize validates and resolves one raw result.
//
// A finisher name the resolver cannot match is logged and kept as driver ID 0
// so positions stay contiguous; the accumulator and scorer treat the zero ID
// as a non-match. Duplicate drivers in the finishing order violate the
// canonical-result invariant and fail the whole result.
func (a *Adapter) Normalize(raceID int, raw RawResult) (models.RaceResult, error) {
	if len(raw.Finishers) > models.MaxClassifiedFinishers {
		return models.RaceResult{}, fmt.Errorf("%w: got %d", ErrTooManyFinishers, len(raw.Finishers))
	}

	result := models.RaceResult{
		RaceID:    raceID,
		Positions: make([]int, 0, len(raw.Finishers)),
		Completed: true,
	}

	seen := make(map[int]bool, len(raw.Finishers))
	for pos, name := range raw.Finishers {
		id, ok := a.resolver.Resolve(name)
		if !ok {
			a.logger.Warn("unknown driver in result feed",
				slog.Int("race_id", raceID),
				slog.Int("position", pos+1),
				slog.String("name", name))
			result.Positions = append(result.Positions, 0)
			continue
		}
		if seen[id] {
			return models.RaceResult{}, fmt.Errorf("%w: %q at P%d", ErrDuplicateFinisher, name, pos+1)
		}
		seen[id] = true
		result.Positions = append(result.Positions, id)
	}

	if raw.FastestLap != "" {
		if id, ok := a.resolver.Resolve(raw.FastestLap); ok {
			result.FastestLapDriver = &id
		} else {
			a.logger.Warn("unknown fastest-lap driver in result feed",
				slog.Int("race_id", raceID),
				slog.String("name", raw.FastestLap))
		}
	}

	for _, name := range raw.DNFs {
		id, ok := a.resolver.Resolve(name)
		if !ok {
			a.logger.Warn("unknown DNF driver in result feed",
				slog.Int("race_id", raceID),
				slog.String("name", name))
			continue
		}
		if !result.IsDNF(id) {
			result.DNFDrivers = append(result.DNFDrivers, id)
		}
	}

	return result, nil
}
