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
	ErrDriverNotFound       = errors.New("driver not found")
	ErrDriverNumberConflict = errors.New("driver number conflict")
	ErrDriverTeamInvalid    = errors.New("driver team conflict or invalid")
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id int) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	// CountByIDs reports how many of the given driver IDs exist.
	CountByIDs(ctx context.Context, ids []int) (int, error)
	ResetChampionshipPoints(ctx context.Context, exec SQLExecutor) error
	BatchUpdateChampionshipPoints(ctx context.Context, exec SQLExecutor, points map[int]int) error
}

type postgresDriverRepository struct {
	db *sql.DB
}

func NewPostgresDriverRepository(db *sql.DB) DriverRepository {
	return &postgresDriverRepository{db: db}
}

func (r *postgresDriverRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	query := `
		INSERT INTO drivers (name, country, number, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		driver.Name,
		driver.Country,
		driver.Number,
		driver.TeamID,
	).Scan(&driver.ID, &driver.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "drivers_number_key" {
					return ErrDriverNumberConflict
				}
			case "23503":
				if pqErr.Constraint == "drivers_team_id_fkey" {
					return ErrDriverTeamInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresDriverRepository) GetByID(ctx context.Context, id int) (*models.Driver, error) {
	query := `
		SELECT
			d.id, d.name, d.country, d.number, d.team_id, d.championship_points, d.created_at,
			t.id, t.name, t.color, t.created_at
		FROM drivers d
		LEFT JOIN teams t ON d.team_id = t.id
		WHERE d.id = $1`

	driver, err := scanDriver(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

func (r *postgresDriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	query := `
		SELECT
			d.id, d.name, d.country, d.number, d.team_id, d.championship_points, d.created_at,
			t.id, t.name, t.color, t.created_at
		FROM drivers d
		LEFT JOIN teams t ON d.team_id = t.id
		ORDER BY d.championship_points DESC, d.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]models.Driver, 0)
	for rows.Next() {
		driver, scanErr := scanDriver(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		drivers = append(drivers, *driver)
	}
	return drivers, rows.Err()
}

func (r *postgresDriverRepository) CountByIDs(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	query := `SELECT COUNT(*) FROM drivers WHERE id = ANY($1)`
	if err := r.db.QueryRowContext(ctx, query, int64Array(ids)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresDriverRepository) ResetChampionshipPoints(ctx context.Context, exec SQLExecutor) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE drivers SET championship_points = 0`)
	return err
}

func (r *postgresDriverRepository) BatchUpdateChampionshipPoints(ctx context.Context, exec SQLExecutor, points map[int]int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE drivers SET championship_points = $1 WHERE id = $2`
	for driverID, total := range points {
		if _, err := executor.ExecContext(ctx, query, total, driverID); err != nil {
			return fmt.Errorf("failed to update points for driver %d: %w", driverID, err)
		}
	}
	return nil
}

func scanDriver(rowScanner interface{ Scan(...interface{}) error }) (*models.Driver, error) {
	var driver models.Driver
	var teamID sql.NullInt64
	var teamName, teamColor sql.NullString
	var teamCreatedAt sql.NullTime

	err := rowScanner.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Country,
		&driver.Number,
		&driver.TeamID,
		&driver.ChampionshipPoints,
		&driver.CreatedAt,
		&teamID,
		&teamName,
		&teamColor,
		&teamCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if teamID.Valid {
		driver.Team = &models.Team{
			ID:        int(teamID.Int64),
			Name:      teamName.String,
			Color:     teamColor.String,
			CreatedAt: teamCreatedAt.Time,
		}
	}
	return &driver, nil
}
