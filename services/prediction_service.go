package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

type PredictionService interface {
	// Submit creates the caller's prediction for a race, or replaces it if one
	// already exists. Rejected once the race has left the upcoming state.
	Submit(ctx context.Context, userID, raceID int, input PredictionInput) (*models.Prediction, error)
	GetForRace(ctx context.Context, userID, raceID int) (*models.Prediction, error)
	ListMine(ctx context.Context, userID int) ([]models.Prediction, error)
}

type PredictionInput struct {
	Podium         []int `json:"podium"`
	FastestLapPick *int  `json:"fastest_lap_pick"`
	DNFPick        *int  `json:"dnf_pick"`
}

type predictionService struct {
	predictionRepo repositories.PredictionRepository
	raceRepo       repositories.RaceRepository
	driverRepo     repositories.DriverRepository
}

func NewPredictionService(
	predictionRepo repositories.PredictionRepository,
	raceRepo repositories.RaceRepository,
	driverRepo repositories.DriverRepository,
) PredictionService {
	return &predictionService{
		predictionRepo: predictionRepo,
		raceRepo:       raceRepo,
		driverRepo:     driverRepo,
	}
}

func (s *predictionService) Submit(ctx context.Context, userID, raceID int, input PredictionInput) (*models.Prediction, error) {
	race, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		if errors.Is(err, repositories.ErrRaceNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}
	if race.Status != models.RaceStatusUpcoming {
		return nil, ErrPredictionLocked
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	existing, err := s.predictionRepo.GetByUserAndRace(ctx, userID, raceID)
	switch {
	case err == nil:
		existing.Podium = input.Podium
		existing.FastestLapPick = input.FastestLapPick
		existing.DNFPick = input.DNFPick
		if err := s.predictionRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update prediction: %w", err)
		}
		return s.predictionRepo.GetByID(ctx, existing.ID)
	case errors.Is(err, repositories.ErrPredictionNotFound):
		prediction := &models.Prediction{
			UserID:         userID,
			RaceID:         raceID,
			Podium:         input.Podium,
			FastestLapPick: input.FastestLapPick,
			DNFPick:        input.DNFPick,
		}
		if err := s.predictionRepo.Create(ctx, prediction); err != nil {
			switch {
			case errors.Is(err, repositories.ErrPredictionRaceInvalid):
				return nil, ErrRaceNotFound
			case errors.Is(err, repositories.ErrPredictionUserInvalid):
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to create prediction: %w", err)
		}
		prediction.Race = race
		return prediction, nil
	default:
		return nil, err
	}
}

func (s *predictionService) GetForRace(ctx context.Context, userID, raceID int) (*models.Prediction, error) {
	prediction, err := s.predictionRepo.GetByUserAndRace(ctx, userID, raceID)
	if err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (s *predictionService) ListMine(ctx context.Context, userID int) ([]models.Prediction, error) {
	return s.predictionRepo.ListByUser(ctx, userID)
}

func (s *predictionService) validate(ctx context.Context, input PredictionInput) error {
	if len(input.Podium) == 0 {
		return ErrPodiumRequired
	}
	if len(input.Podium) > models.MaxClassifiedFinishers {
		return ErrPodiumTooLong
	}

	seen := make(map[int]bool, len(input.Podium))
	ids := make([]int, 0, len(input.Podium)+2)
	for _, id := range input.Podium {
		if id <= 0 {
			return ErrUnknownDriver
		}
		if seen[id] {
			return ErrPodiumDuplicateDriver
		}
		seen[id] = true
		ids = append(ids, id)
	}

	// Bonus picks may repeat a podium driver, they only have to exist.
	for _, pick := range []*int{input.FastestLapPick, input.DNFPick} {
		if pick == nil {
			continue
		}
		if *pick <= 0 {
			return ErrUnknownDriver
		}
		if !seen[*pick] {
			seen[*pick] = true
			ids = append(ids, *pick)
		}
	}

	count, err := s.driverRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify prediction drivers: %w", err)
	}
	if count != len(ids) {
		return ErrUnknownDriver
	}
	return nil
}
