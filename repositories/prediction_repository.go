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
	ErrPredictionNotFound    = errors.New("prediction not found")
	ErrPredictionConflict    = errors.New("prediction already exists for this race")
	ErrPredictionRaceInvalid = errors.New("prediction race conflict or invalid")
	ErrPredictionUserInvalid = errors.New("prediction user conflict or invalid")
)

type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id int) (*models.Prediction, error)
	GetByUserAndRace(ctx context.Context, userID, raceID int) (*models.Prediction, error)
	Update(ctx context.Context, prediction *models.Prediction) error
	ListByUser(ctx context.Context, userID int) ([]models.Prediction, error)
	ListByRace(ctx context.Context, exec SQLExecutor, raceID int) ([]models.Prediction, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]models.Prediction, error)
	ResetPoints(ctx context.Context, exec SQLExecutor) error
	BatchUpdatePoints(ctx context.Context, exec SQLExecutor, points map[int]int) error
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (user_id, race_id, podium, fastest_lap_pick, dnf_pick)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, points_earned, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		prediction.UserID,
		prediction.RaceID,
		int64Array(prediction.Podium),
		prediction.FastestLapPick,
		prediction.DNFPick,
	).Scan(&prediction.ID, &prediction.PointsEarned, &prediction.CreatedAt, &prediction.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "predictions_user_id_race_id_key" {
					return ErrPredictionConflict
				}
			case "23503":
				if pqErr.Constraint == "predictions_race_id_fkey" {
					return ErrPredictionRaceInvalid
				}
				if pqErr.Constraint == "predictions_user_id_fkey" {
					return ErrPredictionUserInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresPredictionRepository) GetByID(ctx context.Context, id int) (*models.Prediction, error) {
	query := predictionSelect + ` WHERE p.id = $1`
	prediction, err := scanPrediction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (r *postgresPredictionRepository) GetByUserAndRace(ctx context.Context, userID, raceID int) (*models.Prediction, error) {
	query := predictionSelect + ` WHERE p.user_id = $1 AND p.race_id = $2`
	prediction, err := scanPrediction(r.db.QueryRowContext(ctx, query, userID, raceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (r *postgresPredictionRepository) Update(ctx context.Context, prediction *models.Prediction) error {
	query := `
		UPDATE predictions SET
			podium = $1,
			fastest_lap_pick = $2,
			dnf_pick = $3,
			updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		int64Array(prediction.Podium),
		prediction.FastestLapPick,
		prediction.DNFPick,
		prediction.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPredictionNotFound)
}

func (r *postgresPredictionRepository) ListByUser(ctx context.Context, userID int) ([]models.Prediction, error) {
	query := predictionSelect + ` WHERE p.user_id = $1 ORDER BY r.race_date ASC`
	return r.list(ctx, r.db, query, userID)
}

func (r *postgresPredictionRepository) ListByRace(ctx context.Context, exec SQLExecutor, raceID int) ([]models.Prediction, error) {
	query := predictionSelect + ` WHERE p.race_id = $1 ORDER BY p.created_at ASC`
	return r.list(ctx, r.getExecutor(exec), query, raceID)
}

func (r *postgresPredictionRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]models.Prediction, error) {
	query := predictionSelect + ` ORDER BY p.race_id ASC, p.created_at ASC`
	return r.list(ctx, r.getExecutor(exec), query)
}

func (r *postgresPredictionRepository) ResetPoints(ctx context.Context, exec SQLExecutor) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE predictions SET points_earned = 0`)
	return err
}

func (r *postgresPredictionRepository) BatchUpdatePoints(ctx context.Context, exec SQLExecutor, points map[int]int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE predictions SET points_earned = $1 WHERE id = $2`
	for predictionID, earned := range points {
		if _, err := executor.ExecContext(ctx, query, earned, predictionID); err != nil {
			return fmt.Errorf("failed to update points for prediction %d: %w", predictionID, err)
		}
	}
	return nil
}

func (r *postgresPredictionRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Prediction, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]models.Prediction, 0)
	for rows.Next() {
		prediction, scanErr := scanPrediction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		predictions = append(predictions, *prediction)
	}
	return predictions, rows.Err()
}

const predictionSelect = `
	SELECT
		p.id, p.user_id, p.race_id, p.podium, p.fastest_lap_pick, p.dnf_pick,
		p.points_earned, p.created_at, p.updated_at,
		r.id, r.name, r.location, r.country_flag, r.race_date, r.status
	FROM predictions p
	JOIN races r ON p.race_id = r.id`

func scanPrediction(rowScanner interface{ Scan(...interface{}) error }) (*models.Prediction, error) {
	var prediction models.Prediction
	var podium pq.Int64Array
	var race models.Race

	err := rowScanner.Scan(
		&prediction.ID,
		&prediction.UserID,
		&prediction.RaceID,
		&podium,
		&prediction.FastestLapPick,
		&prediction.DNFPick,
		&prediction.PointsEarned,
		&prediction.CreatedAt,
		&prediction.UpdatedAt,
		&race.ID,
		&race.Name,
		&race.Location,
		&race.CountryFlag,
		&race.RaceDate,
		&race.Status,
	)
	if err != nil {
		return nil, err
	}

	prediction.Podium = intSlice(podium)
	prediction.Race = &race
	return &prediction, nil
}
