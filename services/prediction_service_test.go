package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

type fakeRaceRepo struct {
	races      map[int]*models.Race
	byLocation map[string]*models.Race

	storedBatches [][]models.RaceResult
}

func (f *fakeRaceRepo) Create(ctx context.Context, race *models.Race) error { return nil }
func (f *fakeRaceRepo) GetByID(ctx context.Context, id int) (*models.Race, error) {
	race, ok := f.races[id]
	if !ok {
		return nil, repositories.ErrRaceNotFound
	}
	copy := *race
	return &copy, nil
}
func (f *fakeRaceRepo) GetByLocation(ctx context.Context, location string) (*models.Race, error) {
	race, ok := f.byLocation[location]
	if !ok {
		return nil, repositories.ErrRaceNotFound
	}
	copy := *race
	return &copy, nil
}
func (f *fakeRaceRepo) List(ctx context.Context) ([]models.Race, error) { return nil, nil }
func (f *fakeRaceRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.RaceStatus) error {
	return nil
}
func (f *fakeRaceRepo) UpsertResult(ctx context.Context, exec repositories.SQLExecutor, result models.RaceResult) error {
	return nil
}
func (f *fakeRaceRepo) StoreResults(ctx context.Context, results []models.RaceResult) error {
	batch := make([]models.RaceResult, len(results))
	copy(batch, results)
	f.storedBatches = append(f.storedBatches, batch)
	return nil
}
func (f *fakeRaceRepo) ListResults(ctx context.Context, exec repositories.SQLExecutor) ([]models.RaceResult, error) {
	return nil, nil
}

type fakePredictionRepo struct {
	nextID int
	byID   map[int]*models.Prediction
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{nextID: 1, byID: make(map[int]*models.Prediction)}
}

func (f *fakePredictionRepo) Create(ctx context.Context, p *models.Prediction) error {
	for _, existing := range f.byID {
		if existing.UserID == p.UserID && existing.RaceID == p.RaceID {
			return repositories.ErrPredictionConflict
		}
	}
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.nextID++
	copy := *p
	f.byID[p.ID] = &copy
	return nil
}
func (f *fakePredictionRepo) GetByID(ctx context.Context, id int) (*models.Prediction, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrPredictionNotFound
	}
	copy := *p
	return &copy, nil
}
func (f *fakePredictionRepo) GetByUserAndRace(ctx context.Context, userID, raceID int) (*models.Prediction, error) {
	for _, p := range f.byID {
		if p.UserID == userID && p.RaceID == raceID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}
func (f *fakePredictionRepo) Update(ctx context.Context, p *models.Prediction) error {
	if _, ok := f.byID[p.ID]; !ok {
		return repositories.ErrPredictionNotFound
	}
	copy := *p
	f.byID[p.ID] = &copy
	return nil
}
func (f *fakePredictionRepo) ListByUser(ctx context.Context, userID int) ([]models.Prediction, error) {
	return nil, nil
}
func (f *fakePredictionRepo) ListByRace(ctx context.Context, exec repositories.SQLExecutor, raceID int) ([]models.Prediction, error) {
	return nil, nil
}
func (f *fakePredictionRepo) ListAll(ctx context.Context, exec repositories.SQLExecutor) ([]models.Prediction, error) {
	return nil, nil
}
func (f *fakePredictionRepo) ResetPoints(ctx context.Context, exec repositories.SQLExecutor) error {
	return nil
}
func (f *fakePredictionRepo) BatchUpdatePoints(ctx context.Context, exec repositories.SQLExecutor, points map[int]int) error {
	return nil
}

type fakeDriverRepo struct {
	valid   map[int]bool
	drivers []models.Driver
}

func (f *fakeDriverRepo) Create(ctx context.Context, d *models.Driver) error { return nil }
func (f *fakeDriverRepo) GetByID(ctx context.Context, id int) (*models.Driver, error) {
	if !f.valid[id] {
		return nil, repositories.ErrDriverNotFound
	}
	return &models.Driver{ID: id}, nil
}
func (f *fakeDriverRepo) List(ctx context.Context) ([]models.Driver, error) {
	return f.drivers, nil
}
func (f *fakeDriverRepo) CountByIDs(ctx context.Context, ids []int) (int, error) {
	count := 0
	for _, id := range ids {
		if f.valid[id] {
			count++
		}
	}
	return count, nil
}
func (f *fakeDriverRepo) ResetChampionshipPoints(ctx context.Context, exec repositories.SQLExecutor) error {
	return nil
}
func (f *fakeDriverRepo) BatchUpdateChampionshipPoints(ctx context.Context, exec repositories.SQLExecutor, points map[int]int) error {
	return nil
}

func newPredictionFixture(status models.RaceStatus) (PredictionService, *fakePredictionRepo) {
	raceRepo := &fakeRaceRepo{races: map[int]*models.Race{
		1: {ID: 1, Name: "Monaco Grand Prix", Status: status},
	}}
	predRepo := newFakePredictionRepo()
	driverRepo := &fakeDriverRepo{valid: map[int]bool{
		1: true, 4: true, 11: true, 16: true, 44: true,
	}}
	return NewPredictionService(predRepo, raceRepo, driverRepo), predRepo
}

func TestSubmitCreatesPrediction(t *testing.T) {
	svc, _ := newPredictionFixture(models.RaceStatusUpcoming)

	pred, err := svc.Submit(context.Background(), 7, 1, PredictionInput{
		Podium:         []int{1, 4, 16},
		FastestLapPick: intp(44),
		DNFPick:        intp(11),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if pred.ID == 0 {
		t.Error("expected prediction to get an ID")
	}
	if pred.PointsEarned != 0 {
		t.Errorf("new prediction points = %d, want 0", pred.PointsEarned)
	}
}

func TestSubmitReplacesExistingPrediction(t *testing.T) {
	svc, repo := newPredictionFixture(models.RaceStatusUpcoming)

	first, err := svc.Submit(context.Background(), 7, 1, PredictionInput{Podium: []int{1, 4}})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := svc.Submit(context.Background(), 7, 1, PredictionInput{Podium: []int{16, 44}})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second submit created a new row: id %d != %d", second.ID, first.ID)
	}
	stored, err := repo.GetByID(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Podium) != 2 || stored.Podium[0] != 16 {
		t.Errorf("stored podium = %v, want [16 44]", stored.Podium)
	}
}

func TestSubmitLockedAfterRaceStart(t *testing.T) {
	for _, status := range []models.RaceStatus{models.RaceStatusLive, models.RaceStatusCompleted} {
		svc, _ := newPredictionFixture(status)
		_, err := svc.Submit(context.Background(), 7, 1, PredictionInput{Podium: []int{1}})
		if !errors.Is(err, ErrPredictionLocked) {
			t.Errorf("status %s: error = %v, want ErrPredictionLocked", status, err)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   PredictionInput
		wantErr error
	}{
		{"empty podium", PredictionInput{}, ErrPodiumRequired},
		{"too many picks", PredictionInput{Podium: []int{1, 4, 11, 16, 44, 2, 3, 5, 6, 7, 8}}, ErrPodiumTooLong},
		{"duplicate driver", PredictionInput{Podium: []int{1, 4, 1}}, ErrPodiumDuplicateDriver},
		{"unknown driver", PredictionInput{Podium: []int{1, 999}}, ErrUnknownDriver},
		{"zero driver id", PredictionInput{Podium: []int{0, 1}}, ErrUnknownDriver},
		{"unknown fastest lap pick", PredictionInput{Podium: []int{1}, FastestLapPick: intp(999)}, ErrUnknownDriver},
		{"unknown dnf pick", PredictionInput{Podium: []int{1}, DNFPick: intp(999)}, ErrUnknownDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newPredictionFixture(models.RaceStatusUpcoming)
			_, err := svc.Submit(context.Background(), 7, 1, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitUnknownRace(t *testing.T) {
	svc, _ := newPredictionFixture(models.RaceStatusUpcoming)
	_, err := svc.Submit(context.Background(), 7, 42, PredictionInput{Podium: []int{1}})
	if !errors.Is(err, ErrRaceNotFound) {
		t.Errorf("error = %v, want ErrRaceNotFound", err)
	}
}

func intp(v int) *int { return &v }
