package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zharaskq/pitwall/repositories"
	"github.com/Zharaskq/pitwall/scoring"
	"golang.org/x/sync/singleflight"
)

// Recomputer rebuilds every piece of derived state from stored race results.
type Recomputer interface {
	Recompute(ctx context.Context) error
}

// recomputeService replays all completed results inside a single transaction:
// driver championship points, per-prediction points, then the standings table.
// Nothing is written if any step fails, so derived state is either fully
// consistent or untouched. Replaying the same results twice is a no-op.
type recomputeService struct {
	db             *sql.DB
	raceRepo       repositories.RaceRepository
	driverRepo     repositories.DriverRepository
	predictionRepo repositories.PredictionRepository
	standingRepo   repositories.StandingRepository
	logger         *slog.Logger

	// Concurrent callers piggyback on the in-flight run instead of queuing
	// a second full replay.
	group singleflight.Group
}

func NewRecomputeService(
	db *sql.DB,
	raceRepo repositories.RaceRepository,
	driverRepo repositories.DriverRepository,
	predictionRepo repositories.PredictionRepository,
	standingRepo repositories.StandingRepository,
	logger *slog.Logger,
) Recomputer {
	return &recomputeService{
		db:             db,
		raceRepo:       raceRepo,
		driverRepo:     driverRepo,
		predictionRepo: predictionRepo,
		standingRepo:   standingRepo,
		logger:         logger,
	}
}

func (s *recomputeService) Recompute(ctx context.Context) error {
	_, err, _ := s.group.Do("recompute", func() (interface{}, error) {
		return nil, s.recompute(ctx)
	})
	return err
}

func (s *recomputeService) recompute(ctx context.Context) error {
	started := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin recompute transaction: %w", err)
	}
	defer tx.Rollback()

	results, err := s.raceRepo.ListResults(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to load race results: %w", err)
	}

	// Driver championship: reset, then replay every completed result.
	driverPoints := scoring.AccumulateDriverPoints(results)
	if err := s.driverRepo.ResetChampionshipPoints(ctx, tx); err != nil {
		return fmt.Errorf("failed to reset driver points: %w", err)
	}
	if err := s.driverRepo.BatchUpdateChampionshipPoints(ctx, tx, driverPoints); err != nil {
		return fmt.Errorf("failed to update driver points: %w", err)
	}

	// Prediction points: reset, then rescore against each result.
	if err := s.predictionRepo.ResetPoints(ctx, tx); err != nil {
		return fmt.Errorf("failed to reset prediction points: %w", err)
	}
	scored := 0
	for _, result := range results {
		predictions, err := s.predictionRepo.ListByRace(ctx, tx, result.RaceID)
		if err != nil {
			return fmt.Errorf("failed to load predictions for race %d: %w", result.RaceID, err)
		}
		points := make(map[int]int, len(predictions))
		for i := range predictions {
			breakdown, err := scoring.Score(&predictions[i], result)
			if err != nil {
				if errors.Is(err, scoring.ErrRaceNotCompleted) {
					continue
				}
				return fmt.Errorf("failed to score prediction %d: %w", predictions[i].ID, err)
			}
			points[predictions[i].ID] = breakdown.Total
		}
		if err := s.predictionRepo.BatchUpdatePoints(ctx, tx, points); err != nil {
			return fmt.Errorf("failed to store prediction points for race %d: %w", result.RaceID, err)
		}
		scored += len(points)
	}

	// Standings: snapshot current ranks, then rebuild the whole table.
	previousRanks, err := s.standingRepo.ListRanks(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to read current ranks: %w", err)
	}
	totals, err := s.standingRepo.ListUserTotals(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to sum user totals: %w", err)
	}
	standings := scoring.ComputeStandings(totals, previousRanks)
	if err := s.standingRepo.ReplaceAll(ctx, tx, standings); err != nil {
		return fmt.Errorf("failed to rebuild standings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recompute: %w", err)
	}

	s.logger.Info("recompute finished",
		slog.Int("races", len(results)),
		slog.Int("predictions_scored", scored),
		slog.Int("drivers", len(driverPoints)),
		slog.Int("standings", len(standings)),
		slog.Duration("took", time.Since(started)))
	return nil
}
