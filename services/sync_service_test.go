package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Zharaskq/pitwall/ingest"
	"github.com/Zharaskq/pitwall/models"
)

type fakeResultSource struct {
	raws []ingest.RawResult
	err  error
}

func (f *fakeResultSource) FetchSeason(ctx context.Context, year int) ([]ingest.RawResult, error) {
	return f.raws, f.err
}

type fakeRecomputer struct {
	runs int
}

func (f *fakeRecomputer) Recompute(ctx context.Context) error {
	f.runs++
	return nil
}

func syncFixtureDrivers() []models.Driver {
	return []models.Driver{
		{ID: 1, Name: "Max Verstappen"},
		{ID: 4, Name: "Lando Norris"},
		{ID: 16, Name: "Charles Leclerc"},
		{ID: 44, Name: "Lewis Hamilton"},
	}
}

func newSyncFixture(raceRepo *fakeRaceRepo, raws []ingest.RawResult) (SyncService, *fakeRecomputer) {
	recomputer := &fakeRecomputer{}
	svc := NewSyncService(
		&fakeResultSource{raws: raws},
		raceRepo,
		&fakeDriverRepo{drivers: syncFixtureDrivers()},
		recomputer,
		2026,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, recomputer
}

func TestSyncReingestsCorrectedResult(t *testing.T) {
	// A post-race penalty swapped P1 and P2 upstream. The race is already
	// completed locally with the old order stored.
	raceRepo := &fakeRaceRepo{byLocation: map[string]*models.Race{
		"Monza": {
			ID:     3,
			Name:   "Italian Grand Prix",
			Status: models.RaceStatusCompleted,
			Result: &models.RaceResult{
				RaceID:    3,
				Positions: []int{4, 1, 16},
				Completed: true,
			},
		},
	}}
	svc, recomputer := newSyncFixture(raceRepo, []ingest.RawResult{{
		Location:  "Monza",
		Finishers: []string{"Max Verstappen", "Lando Norris", "Charles Leclerc"},
	}})

	report, err := svc.SyncResults(context.Background())
	if err != nil {
		t.Fatalf("SyncResults: %v", err)
	}
	if report.Ingested != 1 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 1 ingested, 0 skipped", report)
	}
	if len(raceRepo.storedBatches) != 1 {
		t.Fatalf("stored batches = %d, want 1", len(raceRepo.storedBatches))
	}
	stored := raceRepo.storedBatches[0][0]
	if len(stored.Positions) != 3 || stored.Positions[0] != 1 || stored.Positions[1] != 4 {
		t.Errorf("stored positions = %v, want corrected order [1 4 16]", stored.Positions)
	}
	if recomputer.runs != 1 {
		t.Errorf("recompute runs = %d, want 1", recomputer.runs)
	}
}

func TestSyncSkipsUnchangedResult(t *testing.T) {
	raceRepo := &fakeRaceRepo{byLocation: map[string]*models.Race{
		"Monza": {
			ID:     3,
			Name:   "Italian Grand Prix",
			Status: models.RaceStatusCompleted,
			Result: &models.RaceResult{
				RaceID:           3,
				Positions:        []int{1, 4, 16},
				FastestLapDriver: intp(44),
				DNFDrivers:       []int{44},
				Completed:        true,
			},
		},
	}}
	svc, recomputer := newSyncFixture(raceRepo, []ingest.RawResult{{
		Location:   "Monza",
		Finishers:  []string{"Max Verstappen", "Lando Norris", "Charles Leclerc"},
		FastestLap: "Lewis Hamilton",
		DNFs:       []string{"Lewis Hamilton"},
	}})

	report, err := svc.SyncResults(context.Background())
	if err != nil {
		t.Fatalf("SyncResults: %v", err)
	}
	if report.Ingested != 0 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 0 ingested, 1 skipped", report)
	}
	if len(raceRepo.storedBatches) != 0 {
		t.Errorf("stored batches = %d, want none for an unchanged result", len(raceRepo.storedBatches))
	}
	if recomputer.runs != 0 {
		t.Errorf("recompute runs = %d, want 0", recomputer.runs)
	}
}

func TestSyncStoresRunAsOneBatch(t *testing.T) {
	raceRepo := &fakeRaceRepo{byLocation: map[string]*models.Race{
		"Monza":       {ID: 3, Name: "Italian Grand Prix", Status: models.RaceStatusLive},
		"Silverstone": {ID: 4, Name: "British Grand Prix", Status: models.RaceStatusLive},
	}}
	svc, recomputer := newSyncFixture(raceRepo, []ingest.RawResult{
		{Location: "Monza", Finishers: []string{"Max Verstappen", "Lando Norris"}},
		{Location: "Silverstone", Finishers: []string{"Charles Leclerc", "Lewis Hamilton"}},
	})

	report, err := svc.SyncResults(context.Background())
	if err != nil {
		t.Fatalf("SyncResults: %v", err)
	}
	if report.Ingested != 2 {
		t.Errorf("ingested = %d, want 2", report.Ingested)
	}
	if len(raceRepo.storedBatches) != 1 {
		t.Fatalf("stored batches = %d, want a single batch per run", len(raceRepo.storedBatches))
	}
	if len(raceRepo.storedBatches[0]) != 2 {
		t.Errorf("batch size = %d, want 2", len(raceRepo.storedBatches[0]))
	}
	if recomputer.runs != 1 {
		t.Errorf("recompute runs = %d, want 1", recomputer.runs)
	}
}

func TestSyncFeedUnavailable(t *testing.T) {
	raceRepo := &fakeRaceRepo{}
	recomputer := &fakeRecomputer{}
	svc := NewSyncService(
		&fakeResultSource{err: ingest.ErrSourceUnavailable},
		raceRepo,
		&fakeDriverRepo{drivers: syncFixtureDrivers()},
		recomputer,
		2026,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	if _, err := svc.SyncResults(context.Background()); !errors.Is(err, ingest.ErrSourceUnavailable) {
		t.Fatalf("error = %v, want ErrSourceUnavailable", err)
	}
	if len(raceRepo.storedBatches) != 0 || recomputer.runs != 0 {
		t.Error("nothing should be stored or recomputed when the feed is down")
	}
}
