package services

import (
	"context"
	"errors"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
	"github.com/Zharaskq/pitwall/scoring"
	"github.com/Zharaskq/pitwall/storage"
)

// LeagueStandings is a league leaderboard plus the league-wide point total.
type LeagueStandings struct {
	League      *models.League    `json:"league"`
	Standings   []models.Standing `json:"standings"`
	TotalPoints int               `json:"total_points"`
}

type StandingsService interface {
	// Global returns the full leaderboard. An empty season yields an empty
	// slice, never an error.
	Global(ctx context.Context) ([]models.Standing, error)
	// League filters the global leaderboard down to league members and
	// re-ranks them. Private league standings are visible to members only.
	League(ctx context.Context, requesterID, leagueID int) (*LeagueStandings, error)
}

type standingsService struct {
	standingRepo repositories.StandingRepository
	leagueRepo   repositories.LeagueRepository
	uploader     storage.FileUploader
}

func NewStandingsService(
	standingRepo repositories.StandingRepository,
	leagueRepo repositories.LeagueRepository,
	uploader storage.FileUploader,
) StandingsService {
	return &standingsService{
		standingRepo: standingRepo,
		leagueRepo:   leagueRepo,
		uploader:     uploader,
	}
}

func (s *standingsService) Global(ctx context.Context) ([]models.Standing, error) {
	standings, err := s.standingRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.fillAvatarURLs(standings)
	return standings, nil
}

func (s *standingsService) League(ctx context.Context, requesterID, leagueID int) (*LeagueStandings, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	if league.Visibility == models.LeaguePrivate {
		if _, err := s.leagueRepo.GetMember(ctx, leagueID, requesterID); err != nil {
			if errors.Is(err, repositories.ErrLeagueMemberNotFound) {
				return nil, ErrForbiddenOperation
			}
			return nil, err
		}
	}

	memberIDs, err := s.leagueRepo.ListMemberIDs(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	memberSet := make(map[int]bool, len(memberIDs))
	for _, id := range memberIDs {
		memberSet[id] = true
	}

	all, err := s.standingRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	filtered := scoring.FilterStandings(all, memberSet)
	s.fillAvatarURLs(filtered)
	return &LeagueStandings{
		League:      league,
		Standings:   filtered,
		TotalPoints: scoring.LeagueTotal(filtered),
	}, nil
}

func (s *standingsService) fillAvatarURLs(standings []models.Standing) {
	if s.uploader == nil {
		return
	}
	for i := range standings {
		user := standings[i].User
		if user == nil || user.AvatarKey == nil {
			continue
		}
		if url := s.uploader.GetPublicURL(*user.AvatarKey); url != "" {
			user.AvatarURL = &url
		}
	}
}
