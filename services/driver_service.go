package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

type DriverService interface {
	List(ctx context.Context) ([]models.Driver, error)
	GetByID(ctx context.Context, id int) (*models.Driver, error)
	Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
}

type CreateDriverInput struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Number  int    `json:"number"`
	TeamID  *int   `json:"team_id"`
}

type CreateTeamInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type driverService struct {
	driverRepo repositories.DriverRepository
	teamRepo   repositories.TeamRepository
}

func NewDriverService(driverRepo repositories.DriverRepository, teamRepo repositories.TeamRepository) DriverService {
	return &driverService{
		driverRepo: driverRepo,
		teamRepo:   teamRepo,
	}
}

func (s *driverService) List(ctx context.Context) ([]models.Driver, error) {
	return s.driverRepo.List(ctx)
}

func (s *driverService) GetByID(ctx context.Context, id int) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDriverNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (s *driverService) Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error) {
	if strings.TrimSpace(input.Name) == "" || input.Number <= 0 {
		return nil, ErrValidationFailed
	}

	driver := &models.Driver{
		Name:    strings.TrimSpace(input.Name),
		Country: strings.TrimSpace(input.Country),
		Number:  input.Number,
		TeamID:  input.TeamID,
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDriverNumberConflict):
			return nil, ErrDriverNumberConflict
		case errors.Is(err, repositories.ErrDriverTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (s *driverService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *driverService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrValidationFailed
	}

	team := &models.Team{
		Name:  strings.TrimSpace(input.Name),
		Color: strings.TrimSpace(input.Color),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}
