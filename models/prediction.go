package models

import "time"

// Prediction is a user's ranked guess for one race. At most one exists per
// (user, race) pair. It is editable by its owner while the race is upcoming
// and locked afterwards; the lock is a business rule enforced by the
// prediction service, not by the data layer.
type Prediction struct {
	ID     int `json:"id" db:"id"`
	UserID int `json:"user_id" db:"user_id"`
	RaceID int `json:"race_id" db:"race_id"`

	// Podium is the ordered top-10 pick, index 0 = predicted winner.
	Podium         []int `json:"podium" db:"podium"`
	FastestLapPick *int  `json:"fastest_lap_pick,omitempty" db:"fastest_lap_pick"`
	DNFPick        *int  `json:"dnf_pick,omitempty" db:"dnf_pick"`

	// PointsEarned is derived: overwritten on every recompute, never
	// accumulated. Zero until the race result is in.
	PointsEarned int `json:"points_earned" db:"points_earned"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Race *Race `json:"race,omitempty" db:"-"`
}
