package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zharaskq/pitwall/models"
	"github.com/lib/pq"
)

var (
	ErrRaceNotFound     = errors.New("race not found")
	ErrRaceNameConflict = errors.New("race name conflict")
)

type RaceRepository interface {
	Create(ctx context.Context, race *models.Race) error
	GetByID(ctx context.Context, id int) (*models.Race, error)
	GetByLocation(ctx context.Context, location string) (*models.Race, error)
	List(ctx context.Context) ([]models.Race, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RaceStatus) error
	// UpsertResult stores the canonical result for a race and marks it completed.
	UpsertResult(ctx context.Context, exec SQLExecutor, result models.RaceResult) error
	// StoreResults upserts a batch of results in a single transaction, so one
	// ingestion pass either lands completely or not at all.
	StoreResults(ctx context.Context, results []models.RaceResult) error
	// ListResults returns the results of all completed races, oldest race first.
	ListResults(ctx context.Context, exec SQLExecutor) ([]models.RaceResult, error)
}

type postgresRaceRepository struct {
	db *sql.DB
}

func NewPostgresRaceRepository(db *sql.DB) RaceRepository {
	return &postgresRaceRepository{db: db}
}

func (r *postgresRaceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRaceRepository) Create(ctx context.Context, race *models.Race) error {
	query := `
		INSERT INTO races (name, location, country_flag, race_date, status, total_laps)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		race.Name,
		race.Location,
		race.CountryFlag,
		race.RaceDate,
		race.Status,
		race.TotalLaps,
	).Scan(&race.ID, &race.CreatedAt, &race.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "races_name_key" {
				return ErrRaceNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresRaceRepository) GetByID(ctx context.Context, id int) (*models.Race, error) {
	query := raceSelect + ` WHERE r.id = $1`
	race, err := scanRace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}
	return race, nil
}

// GetByLocation matches a race by its circuit location. Result ingestion uses
// it to tie an external session back to a scheduled race.
func (r *postgresRaceRepository) GetByLocation(ctx context.Context, location string) (*models.Race, error) {
	query := raceSelect + ` WHERE LOWER(r.location) = LOWER($1)`
	race, err := scanRace(r.db.QueryRowContext(ctx, query, location))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRaceNotFound
		}
		return nil, err
	}
	return race, nil
}

func (r *postgresRaceRepository) List(ctx context.Context) ([]models.Race, error) {
	query := raceSelect + ` ORDER BY r.race_date ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	races := make([]models.Race, 0)
	for rows.Next() {
		race, scanErr := scanRace(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		races = append(races, *race)
	}
	return races, rows.Err()
}

func (r *postgresRaceRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RaceStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE races SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRaceNotFound)
}

func (r *postgresRaceRepository) UpsertResult(ctx context.Context, exec SQLExecutor, result models.RaceResult) error {
	executor := r.getExecutor(exec)

	query := `
		INSERT INTO race_results (race_id, positions, fastest_lap_driver, dnf_drivers)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (race_id) DO UPDATE SET
			positions = EXCLUDED.positions,
			fastest_lap_driver = EXCLUDED.fastest_lap_driver,
			dnf_drivers = EXCLUDED.dnf_drivers`

	_, err := executor.ExecContext(ctx, query,
		result.RaceID,
		int64Array(result.Positions),
		result.FastestLapDriver,
		int64Array(result.DNFDrivers),
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "race_results_race_id_fkey" {
				return ErrRaceNotFound
			}
		}
		return fmt.Errorf("failed to upsert result for race %d: %w", result.RaceID, err)
	}

	return r.UpdateStatus(ctx, executor, result.RaceID, models.RaceStatusCompleted)
}

func (r *postgresRaceRepository) StoreResults(ctx context.Context, results []models.RaceResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin result batch transaction: %w", err)
	}
	defer tx.Rollback()

	for _, result := range results {
		if err := r.UpsertResult(ctx, tx, result); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result batch: %w", err)
	}
	return nil
}

func (r *postgresRaceRepository) ListResults(ctx context.Context, exec SQLExecutor) ([]models.RaceResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT rr.race_id, rr.positions, rr.fastest_lap_driver, rr.dnf_drivers
		FROM race_results rr
		JOIN races r ON rr.race_id = r.id
		WHERE r.status = 'completed'
		ORDER BY r.race_date ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.RaceResult, 0)
	for rows.Next() {
		var result models.RaceResult
		var positions, dnfs pq.Int64Array
		if err := rows.Scan(&result.RaceID, &positions, &result.FastestLapDriver, &dnfs); err != nil {
			return nil, err
		}
		result.Positions = intSlice(positions)
		result.DNFDrivers = intSlice(dnfs)
		result.Completed = true
		results = append(results, result)
	}
	return results, rows.Err()
}

const raceSelect = `
	SELECT
		r.id, r.name, r.location, r.country_flag, r.race_date, r.status, r.total_laps,
		r.created_at, r.updated_at,
		rr.positions, rr.fastest_lap_driver, rr.dnf_drivers
	FROM races r
	LEFT JOIN race_results rr ON rr.race_id = r.id`

func scanRace(rowScanner interface{ Scan(...interface{}) error }) (*models.Race, error) {
	var race models.Race
	var positions, dnfs pq.Int64Array
	var fastestLap sql.NullInt64

	err := rowScanner.Scan(
		&race.ID,
		&race.Name,
		&race.Location,
		&race.CountryFlag,
		&race.RaceDate,
		&race.Status,
		&race.TotalLaps,
		&race.CreatedAt,
		&race.UpdatedAt,
		&positions,
		&fastestLap,
		&dnfs,
	)
	if err != nil {
		return nil, err
	}

	if len(positions) > 0 {
		result := &models.RaceResult{
			RaceID:     race.ID,
			Positions:  intSlice(positions),
			DNFDrivers: intSlice(dnfs),
			Completed:  race.Status == models.RaceStatusCompleted,
		}
		if fastestLap.Valid {
			fl := int(fastestLap.Int64)
			result.FastestLapDriver = &fl
		}
		race.Result = result
	}
	return &race, nil
}
