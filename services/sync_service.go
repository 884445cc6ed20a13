package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Zharaskq/pitwall/ingest"
	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

// ResultSource delivers raw session results for a season.
type ResultSource interface {
	FetchSeason(ctx context.Context, year int) ([]ingest.RawResult, error)
}

// SyncReport summarizes one ingestion pass.
type SyncReport struct {
	Fetched  int `json:"fetched"`
	Ingested int `json:"ingested"`
	Skipped  int `json:"skipped"`
}

type SyncService interface {
	// SyncResults pulls finished sessions from the external feed, normalizes
	// them into canonical results and recomputes all derived state. Safe to
	// run repeatedly: upstream feeds republish corrected results, so already
	// completed races are re-normalized too and only unchanged results are
	// skipped.
	SyncResults(ctx context.Context) (*SyncReport, error)
}

type syncService struct {
	source     ResultSource
	raceRepo   repositories.RaceRepository
	driverRepo repositories.DriverRepository
	recomputer Recomputer
	seasonYear int
	logger     *slog.Logger
}

func NewSyncService(
	source ResultSource,
	raceRepo repositories.RaceRepository,
	driverRepo repositories.DriverRepository,
	recomputer Recomputer,
	seasonYear int,
	logger *slog.Logger,
) SyncService {
	return &syncService{
		source:     source,
		raceRepo:   raceRepo,
		driverRepo: driverRepo,
		recomputer: recomputer,
		seasonYear: seasonYear,
		logger:     logger,
	}
}

func (s *syncService) SyncResults(ctx context.Context) (*SyncReport, error) {
	raws, err := s.source.FetchSeason(ctx, s.seasonYear)
	if err != nil {
		// Existing data stays untouched when the feed is down.
		return nil, fmt.Errorf("result feed unavailable: %w", err)
	}

	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	resolver, err := ingest.NewDriverResolver(drivers)
	if err != nil {
		return nil, fmt.Errorf("failed to build driver resolver: %w", err)
	}
	adapter := ingest.NewAdapter(resolver, s.logger)

	report := &SyncReport{Fetched: len(raws)}
	pending := make([]models.RaceResult, 0, len(raws))
	for _, raw := range raws {
		race, err := s.raceRepo.GetByLocation(ctx, raw.Location)
		if err != nil {
			if errors.Is(err, repositories.ErrRaceNotFound) {
				s.logger.Warn("no scheduled race for session",
					slog.String("location", raw.Location))
				report.Skipped++
				continue
			}
			return nil, err
		}

		result, err := adapter.Normalize(race.ID, raw)
		if err != nil {
			s.logger.Error("failed to normalize session result",
				slog.String("location", raw.Location),
				slog.Int("race_id", race.ID),
				slog.Any("error", err))
			report.Skipped++
			continue
		}

		// Completed races are re-normalized every pass so a corrected feed
		// result replaces the stored one. Only an unchanged result is skipped.
		if race.Result != nil && race.Result.Equal(result) {
			report.Skipped++
			continue
		}
		pending = append(pending, result)
	}

	if len(pending) > 0 {
		if err := s.raceRepo.StoreResults(ctx, pending); err != nil {
			return nil, fmt.Errorf("failed to store result batch: %w", err)
		}
		report.Ingested = len(pending)
		if err := s.recomputer.Recompute(ctx); err != nil {
			return nil, fmt.Errorf("results stored but recompute failed: %w", err)
		}
	}

	s.logger.Info("result sync finished",
		slog.Int("fetched", report.Fetched),
		slog.Int("ingested", report.Ingested),
		slog.Int("skipped", report.Skipped))
	return report, nil
}
