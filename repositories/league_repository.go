package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Zharaskq/pitwall/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound       = errors.New("league not found")
	ErrLeagueNameConflict   = errors.New("league name conflict")
	ErrLeagueOwnerInvalid   = errors.New("league owner conflict or invalid")
	ErrLeagueMemberConflict = errors.New("user is already a league member")
	ErrLeagueMemberNotFound = errors.New("league member not found")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	Update(ctx context.Context, league *models.League) error
	Delete(ctx context.Context, id int) error
	SearchPublic(ctx context.Context, query string) ([]models.League, error)
	ListByUser(ctx context.Context, userID int) ([]models.League, error)

	AddMember(ctx context.Context, member *models.LeagueMember) error
	RemoveMember(ctx context.Context, leagueID, userID int) error
	GetMember(ctx context.Context, leagueID, userID int) (*models.LeagueMember, error)
	ListMembers(ctx context.Context, leagueID int) ([]models.LeagueMember, error)
	ListMemberIDs(ctx context.Context, leagueID int) ([]int, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, description, owner_id, visibility, logo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		league.Name,
		league.Description,
		league.OwnerID,
		league.Visibility,
		league.LogoKey,
	).Scan(&league.ID, &league.CreatedAt, &league.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "leagues_name_key" {
					return ErrLeagueNameConflict
				}
			case "23503":
				if pqErr.Constraint == "leagues_owner_id_fkey" {
					return ErrLeagueOwnerInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := leagueSelect + ` WHERE l.id = $1 GROUP BY l.id`
	league, err := scanLeague(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return league, nil
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	query := `
		UPDATE leagues SET
			name = $1,
			description = $2,
			visibility = $3,
			logo_key = $4,
			updated_at = NOW()
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		league.Name,
		league.Description,
		league.Visibility,
		league.LogoKey,
		league.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "leagues_name_key" {
				return ErrLeagueNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	// league_members rows go with the league via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) SearchPublic(ctx context.Context, search string) ([]models.League, error) {
	query := leagueSelect + `
		WHERE l.visibility = 'public' AND ($1 = '' OR l.name ILIKE '%' || $1 || '%')
		GROUP BY l.id
		ORDER BY COUNT(lm.id) DESC, l.created_at ASC`
	return r.list(ctx, query, search)
}

func (r *postgresLeagueRepository) ListByUser(ctx context.Context, userID int) ([]models.League, error) {
	query := leagueSelect + `
		WHERE l.id IN (SELECT league_id FROM league_members WHERE user_id = $1)
		GROUP BY l.id
		ORDER BY l.created_at ASC`
	return r.list(ctx, query, userID)
}

func (r *postgresLeagueRepository) AddMember(ctx context.Context, member *models.LeagueMember) error {
	query := `
		INSERT INTO league_members (league_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(ctx, query,
		member.LeagueID,
		member.UserID,
		member.Role,
	).Scan(&member.ID, &member.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "league_members_league_id_user_id_key" {
					return ErrLeagueMemberConflict
				}
			case "23503":
				if pqErr.Constraint == "league_members_league_id_fkey" {
					return ErrLeagueNotFound
				}
				if pqErr.Constraint == "league_members_user_id_fkey" {
					return ErrUserNotFound
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) RemoveMember(ctx context.Context, leagueID, userID int) error {
	query := `DELETE FROM league_members WHERE league_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, leagueID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueMemberNotFound)
}

func (r *postgresLeagueRepository) GetMember(ctx context.Context, leagueID, userID int) (*models.LeagueMember, error) {
	member := &models.LeagueMember{}
	query := `
		SELECT id, league_id, user_id, role, joined_at
		FROM league_members
		WHERE league_id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, leagueID, userID).Scan(
		&member.ID,
		&member.LeagueID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *postgresLeagueRepository) ListMembers(ctx context.Context, leagueID int) ([]models.LeagueMember, error) {
	query := `
		SELECT
			lm.id, lm.league_id, lm.user_id, lm.role, lm.joined_at,
			u.display_name, u.team_name, u.avatar_key
		FROM league_members lm
		JOIN users u ON lm.user_id = u.id
		WHERE lm.league_id = $1
		ORDER BY lm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.LeagueMember, 0)
	for rows.Next() {
		var member models.LeagueMember
		var user models.User
		err := rows.Scan(
			&member.ID,
			&member.LeagueID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&user.DisplayName,
			&user.TeamName,
			&user.AvatarKey,
		)
		if err != nil {
			return nil, err
		}
		user.ID = member.UserID
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *postgresLeagueRepository) ListMemberIDs(ctx context.Context, leagueID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM league_members WHERE league_id = $1`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresLeagueRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.League, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := make([]models.League, 0)
	for rows.Next() {
		league, scanErr := scanLeague(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leagues = append(leagues, *league)
	}
	return leagues, rows.Err()
}

const leagueSelect = `
	SELECT
		l.id, l.name, l.description, l.owner_id, l.visibility, l.logo_key,
		l.created_at, l.updated_at, COUNT(lm.id)
	FROM leagues l
	LEFT JOIN league_members lm ON lm.league_id = l.id`

func scanLeague(rowScanner interface{ Scan(...interface{}) error }) (*models.League, error) {
	var league models.League
	err := rowScanner.Scan(
		&league.ID,
		&league.Name,
		&league.Description,
		&league.OwnerID,
		&league.Visibility,
		&league.LogoKey,
		&league.CreatedAt,
		&league.UpdatedAt,
		&league.MemberCount,
	)
	if err != nil {
		return nil, err
	}
	return &league, nil
}
