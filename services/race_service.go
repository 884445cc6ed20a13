package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

type RaceService interface {
	List(ctx context.Context) ([]models.Race, error)
	GetByID(ctx context.Context, id int) (*models.Race, error)
	Create(ctx context.Context, input CreateRaceInput) (*models.Race, error)
	UpdateStatus(ctx context.Context, raceID int, status models.RaceStatus) error
	// SubmitResult stores a manually entered result, marks the race completed
	// and triggers a full recompute.
	SubmitResult(ctx context.Context, raceID int, input ResultInput) (*models.Race, error)
}

type CreateRaceInput struct {
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	CountryFlag string    `json:"country_flag"`
	RaceDate    time.Time `json:"race_date"`
	TotalLaps   *int      `json:"total_laps"`
}

type ResultInput struct {
	Positions        []int `json:"positions"`
	FastestLapDriver *int  `json:"fastest_lap_driver"`
	DNFDrivers       []int `json:"dnf_drivers"`
}

type raceService struct {
	raceRepo   repositories.RaceRepository
	driverRepo repositories.DriverRepository
	recomputer Recomputer
}

func NewRaceService(raceRepo repositories.RaceRepository, driverRepo repositories.DriverRepository, recomputer Recomputer) RaceService {
	return &raceService{
		raceRepo:   raceRepo,
		driverRepo: driverRepo,
		recomputer: recomputer,
	}
}

func (s *raceService) List(ctx context.Context) ([]models.Race, error) {
	return s.raceRepo.List(ctx)
}

func (s *raceService) GetByID(ctx context.Context, id int) (*models.Race, error) {
	race, err := s.raceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRaceNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}
	return race, nil
}

func (s *raceService) Create(ctx context.Context, input CreateRaceInput) (*models.Race, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Location) == "" || input.RaceDate.IsZero() {
		return nil, ErrValidationFailed
	}

	race := &models.Race{
		Name:        strings.TrimSpace(input.Name),
		Location:    strings.TrimSpace(input.Location),
		CountryFlag: strings.TrimSpace(input.CountryFlag),
		RaceDate:    input.RaceDate,
		Status:      models.RaceStatusUpcoming,
		TotalLaps:   input.TotalLaps,
	}
	if err := s.raceRepo.Create(ctx, race); err != nil {
		if errors.Is(err, repositories.ErrRaceNameConflict) {
			return nil, ErrRaceNameConflict
		}
		return nil, err
	}
	return race, nil
}

// validTransitions encodes the race lifecycle: upcoming -> live -> completed.
// Completed is terminal.
var validTransitions = map[models.RaceStatus][]models.RaceStatus{
	models.RaceStatusUpcoming: {models.RaceStatusLive, models.RaceStatusCompleted},
	models.RaceStatusLive:     {models.RaceStatusCompleted},
}

func (s *raceService) UpdateStatus(ctx context.Context, raceID int, status models.RaceStatus) error {
	switch status {
	case models.RaceStatusUpcoming, models.RaceStatusLive, models.RaceStatusCompleted:
	default:
		return ErrRaceInvalidStatus
	}

	race, err := s.GetByID(ctx, raceID)
	if err != nil {
		return err
	}
	if race.Status == status {
		return nil
	}

	allowed := false
	for _, next := range validTransitions[race.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrRaceStatusTransition
	}

	if err := s.raceRepo.UpdateStatus(ctx, nil, raceID, status); err != nil {
		if errors.Is(err, repositories.ErrRaceNotFound) {
			return ErrRaceNotFound
		}
		return err
	}
	return nil
}

func (s *raceService) SubmitResult(ctx context.Context, raceID int, input ResultInput) (*models.Race, error) {
	if _, err := s.GetByID(ctx, raceID); err != nil {
		return nil, err
	}

	if err := s.validateResult(ctx, input); err != nil {
		return nil, err
	}

	result := models.RaceResult{
		RaceID:           raceID,
		Positions:        input.Positions,
		FastestLapDriver: input.FastestLapDriver,
		DNFDrivers:       input.DNFDrivers,
		Completed:        true,
	}
	if err := s.raceRepo.UpsertResult(ctx, nil, result); err != nil {
		if errors.Is(err, repositories.ErrRaceNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}

	if err := s.recomputer.Recompute(ctx); err != nil {
		return nil, fmt.Errorf("result stored but recompute failed: %w", err)
	}

	return s.GetByID(ctx, raceID)
}

func (s *raceService) validateResult(ctx context.Context, input ResultInput) error {
	if len(input.Positions) == 0 {
		return ErrResultIncomplete
	}
	if len(input.Positions) > models.MaxClassifiedFinishers {
		return ErrPodiumTooLong
	}

	seen := make(map[int]bool, len(input.Positions))
	ids := make([]int, 0, len(input.Positions)+1+len(input.DNFDrivers))
	for _, id := range input.Positions {
		if id <= 0 {
			return ErrUnknownDriver
		}
		if seen[id] {
			return ErrPodiumDuplicateDriver
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if input.FastestLapDriver != nil {
		if *input.FastestLapDriver <= 0 {
			return ErrUnknownDriver
		}
		if !seen[*input.FastestLapDriver] {
			ids = append(ids, *input.FastestLapDriver)
			seen[*input.FastestLapDriver] = true
		}
	}
	for _, id := range input.DNFDrivers {
		if id <= 0 {
			return ErrUnknownDriver
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}

	count, err := s.driverRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify result drivers: %w", err)
	}
	if count != len(ids) {
		return ErrUnknownDriver
	}
	return nil
}
