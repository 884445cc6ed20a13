package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/scoring"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	ListAll(ctx context.Context, exec SQLExecutor) ([]models.Standing, error)
	// ListRanks returns the current rank per user, read before a rebuild so
	// the new table can carry previous_rank.
	ListRanks(ctx context.Context, exec SQLExecutor) (map[int]int, error)
	// ReplaceAll drops every standing row and inserts the given set.
	ReplaceAll(ctx context.Context, exec SQLExecutor, standings []models.Standing) error
	// ListUserTotals sums earned prediction points per user. Users without
	// predictions appear with a zero total.
	ListUserTotals(ctx context.Context, exec SQLExecutor) ([]scoring.UserTotal, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]models.Standing, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT
			s.id, s.user_id, s.total_points, s.rank, s.previous_rank, s.updated_at,
			u.display_name, u.team_name, u.avatar_key
		FROM standings s
		JOIN users u ON s.user_id = u.id
		ORDER BY s.rank ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		var user models.User
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.TotalPoints,
			&s.Rank,
			&s.PreviousRank,
			&s.UpdatedAt,
			&user.DisplayName,
			&user.TeamName,
			&user.AvatarKey,
		)
		if err != nil {
			return nil, err
		}
		user.ID = s.UserID
		s.User = &user
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) ListRanks(ctx context.Context, exec SQLExecutor) (map[int]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT user_id, rank FROM standings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make(map[int]int)
	for rows.Next() {
		var userID, rank int
		if err := rows.Scan(&userID, &rank); err != nil {
			return nil, err
		}
		ranks[userID] = rank
	}
	return ranks, rows.Err()
}

func (r *postgresStandingRepository) ReplaceAll(ctx context.Context, exec SQLExecutor, standings []models.Standing) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM standings`); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}

	query := `
		INSERT INTO standings (user_id, total_points, rank, previous_rank, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	now := time.Now()
	for _, s := range standings {
		if _, err := executor.ExecContext(ctx, query, s.UserID, s.TotalPoints, s.Rank, s.PreviousRank, now); err != nil {
			return fmt.Errorf("failed to insert standing for user %d: %w", s.UserID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) ListUserTotals(ctx context.Context, exec SQLExecutor) ([]scoring.UserTotal, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT u.id, COALESCE(SUM(p.points_earned), 0), u.created_at
		FROM users u
		LEFT JOIN predictions p ON p.user_id = u.id
		GROUP BY u.id, u.created_at`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]scoring.UserTotal, 0)
	for rows.Next() {
		var t scoring.UserTotal
		if err := rows.Scan(&t.UserID, &t.TotalPoints, &t.CreatedAt); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
