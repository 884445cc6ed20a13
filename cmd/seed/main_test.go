package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
)

type fakeTeamRepo struct {
	nextID  int
	teams   []models.Team
	created []string
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	for _, t := range f.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	f.nextID++
	team.ID = f.nextID
	f.teams = append(f.teams, *team)
	f.created = append(f.created, team.Name)
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			team := t
			return &team, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	out := make([]models.Team, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

func TestSeedTeamsMapsExistingTeams(t *testing.T) {
	repo := &fakeTeamRepo{
		nextID: 7,
		teams:  []models.Team{{ID: 7, Name: "Ferrari", Color: "#E8002D"}},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	teamIDs, err := seedTeams(context.Background(), repo, []seedTeam{
		{Name: "Ferrari", Color: "#E8002D"},
		{Name: "McLaren", Color: "#FF8000"},
	}, logger)
	if err != nil {
		t.Fatalf("seedTeams: %v", err)
	}

	if id, ok := teamIDs["Ferrari"]; !ok || id != 7 {
		t.Errorf("existing team id = %d (present %v), want 7", id, ok)
	}
	if id, ok := teamIDs["McLaren"]; !ok || id == 0 {
		t.Errorf("new team id = %d (present %v), want a fresh id", id, ok)
	}
	if len(repo.created) != 1 || repo.created[0] != "McLaren" {
		t.Errorf("created teams = %v, want only McLaren", repo.created)
	}
}

func TestSeedTeamsRerunCreatesNothing(t *testing.T) {
	repo := &fakeTeamRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	file := []seedTeam{{Name: "Red Bull Racing"}, {Name: "Mercedes"}}

	first, err := seedTeams(context.Background(), repo, file, logger)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := seedTeams(context.Background(), repo, file, logger)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(repo.created) != 2 {
		t.Errorf("created teams = %v, want exactly one row per team", repo.created)
	}
	for name, id := range first {
		if second[name] != id {
			t.Errorf("team %q id changed across runs: %d then %d", name, id, second[name])
		}
	}
}
