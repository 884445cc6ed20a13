package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
	"github.com/Zharaskq/pitwall/storage"
	"github.com/golang-jwt/jwt/v4"
)

const inviteTokenTTL = 7 * 24 * time.Hour

type LeagueService interface {
	Create(ctx context.Context, ownerID int, input LeagueInput) (*models.League, error)
	GetByID(ctx context.Context, id int) (*models.League, error)
	Update(ctx context.Context, userID, leagueID int, input LeagueInput) (*models.League, error)
	Delete(ctx context.Context, userID, leagueID int) error
	// Join adds the caller to a league. Private leagues require a valid
	// invite token, public ones do not.
	Join(ctx context.Context, userID, leagueID int, inviteToken string) error
	Leave(ctx context.Context, userID, leagueID int) error
	SearchPublic(ctx context.Context, query string) ([]models.League, error)
	ListMine(ctx context.Context, userID int) ([]models.League, error)
	// Invite emails a join link for the league. Owner only.
	Invite(ctx context.Context, ownerID, leagueID int, email string) error
	UploadLogo(ctx context.Context, userID, leagueID int, contentType string, file io.Reader) (*models.League, error)
}

type LeagueInput struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Visibility  models.LeagueVisibility `json:"visibility"`
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	email      *EmailService
	uploader   storage.FileUploader
	jwtSecret  []byte
	publicURL  string
	logger     *slog.Logger
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	email *EmailService,
	uploader storage.FileUploader,
	jwtSecret string,
	publicURL string,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		email:      email,
		uploader:   uploader,
		jwtSecret:  []byte(jwtSecret),
		publicURL:  publicURL,
		logger:     logger,
	}
}

func (s *leagueService) Create(ctx context.Context, ownerID int, input LeagueInput) (*models.League, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrLeagueNameRequired
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = models.LeaguePublic
	}
	if visibility != models.LeaguePublic && visibility != models.LeaguePrivate {
		return nil, ErrValidationFailed
	}

	league := &models.League{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerID:     ownerID,
		Visibility:  visibility,
	}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueNameConflict):
			return nil, ErrLeagueNameConflict
		case errors.Is(err, repositories.ErrLeagueOwnerInvalid):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	owner := &models.LeagueMember{
		LeagueID: league.ID,
		UserID:   ownerID,
		Role:     models.LeagueRoleOwner,
	}
	if err := s.leagueRepo.AddMember(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to add league owner as member: %w", err)
	}
	league.MemberCount = 1
	return league, nil
}

func (s *leagueService) GetByID(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}

	members, err := s.leagueRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list league members: %w", err)
	}
	league.Members = members
	s.fillLogoURL(league)
	return league, nil
}

func (s *leagueService) Update(ctx context.Context, userID, leagueID int, input LeagueInput) (*models.League, error) {
	league, err := s.requireOwner(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		league.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != nil {
		league.Description = input.Description
	}
	if input.Visibility != "" {
		if input.Visibility != models.LeaguePublic && input.Visibility != models.LeaguePrivate {
			return nil, ErrValidationFailed
		}
		league.Visibility = input.Visibility
	}

	if err := s.leagueRepo.Update(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueNameConflict) {
			return nil, ErrLeagueNameConflict
		}
		return nil, err
	}
	s.fillLogoURL(league)
	return league, nil
}

func (s *leagueService) Delete(ctx context.Context, userID, leagueID int) error {
	if _, err := s.requireOwner(ctx, userID, leagueID); err != nil {
		return err
	}
	if err := s.leagueRepo.Delete(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return ErrLeagueNotFound
		}
		return err
	}
	return nil
}

func (s *leagueService) Join(ctx context.Context, userID, leagueID int, inviteToken string) error {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return ErrLeagueNotFound
		}
		return err
	}

	if league.Visibility == models.LeaguePrivate {
		if inviteToken == "" {
			return ErrLeaguePrivate
		}
		if err := s.verifyInviteToken(inviteToken, leagueID); err != nil {
			return err
		}
	}

	member := &models.LeagueMember{
		LeagueID: leagueID,
		UserID:   userID,
		Role:     models.LeagueRoleMember,
	}
	if err := s.leagueRepo.AddMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueMemberConflict):
			return ErrAlreadyLeagueMember
		case errors.Is(err, repositories.ErrUserNotFound):
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *leagueService) Leave(ctx context.Context, userID, leagueID int) error {
	member, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueMemberNotFound) {
			return ErrLeagueMemberNotFound
		}
		return err
	}
	if member.Role == models.LeagueRoleOwner {
		return ErrOwnerCannotLeave
	}
	return s.leagueRepo.RemoveMember(ctx, leagueID, userID)
}

func (s *leagueService) SearchPublic(ctx context.Context, query string) ([]models.League, error) {
	leagues, err := s.leagueRepo.SearchPublic(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		s.fillLogoURL(&leagues[i])
	}
	return leagues, nil
}

func (s *leagueService) ListMine(ctx context.Context, userID int) ([]models.League, error) {
	leagues, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		s.fillLogoURL(&leagues[i])
	}
	return leagues, nil
}

func (s *leagueService) Invite(ctx context.Context, ownerID, leagueID int, email string) error {
	league, err := s.requireOwner(ctx, ownerID, leagueID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		return ErrValidationFailed
	}

	token, err := s.newInviteToken(leagueID)
	if err != nil {
		return fmt.Errorf("failed to sign invite token: %w", err)
	}

	inviteLink := fmt.Sprintf("%s/leagues/%d/join?invite=%s", s.publicURL, leagueID, token)
	if err := s.email.SendLeagueInviteEmail(email, league.Name, inviteLink); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	s.logger.Info("league invite sent",
		slog.Int("league_id", leagueID),
		slog.Int("owner_id", ownerID))
	return nil
}

func (s *leagueService) UploadLogo(ctx context.Context, userID, leagueID int, contentType string, file io.Reader) (*models.League, error) {
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}
	league, err := s.requireOwner(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	ext := extensionForContentType(contentType)
	if ext == "" {
		return nil, fmt.Errorf("%w: unsupported logo content type %q", ErrValidationFailed, contentType)
	}

	key := fmt.Sprintf("logos/leagues/%d/%d%s", leagueID, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload league logo: %w", err)
	}

	oldKey := league.LogoKey
	league.LogoKey = &key
	if err := s.leagueRepo.Update(ctx, league); err != nil {
		return nil, fmt.Errorf("failed to store logo key: %w", err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	s.fillLogoURL(league)
	return league, nil
}

func (s *leagueService) requireOwner(ctx context.Context, userID, leagueID int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	if league.OwnerID != userID {
		return nil, ErrNotLeagueOwner
	}
	return league, nil
}

func (s *leagueService) newInviteToken(leagueID int) (string, error) {
	claims := jwt.MapClaims{
		"league_id": leagueID,
		"purpose":   "league_invite",
		"exp":       time.Now().Add(inviteTokenTTL).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *leagueService) verifyInviteToken(tokenString string, leagueID int) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInviteInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInviteInvalid
	}
	if purpose, _ := claims["purpose"].(string); purpose != "league_invite" {
		return ErrInviteInvalid
	}
	claimedID, ok := claims["league_id"].(float64)
	if !ok || int(claimedID) != leagueID {
		return ErrInviteInvalid
	}
	return nil
}

func (s *leagueService) fillLogoURL(league *models.League) {
	if s.uploader == nil || league.LogoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*league.LogoKey)
	if url != "" {
		league.LogoURL = &url
	}
}
