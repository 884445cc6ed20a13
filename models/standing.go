package models

import "time"

// Standing is one row of the leaderboard. It owns no independent truth: the
// whole table is discarded and rebuilt from predictions on every recompute.
type Standing struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"user_id" db:"user_id"`
	TotalPoints  int       `json:"total_points" db:"total_points"`
	Rank         int       `json:"rank" db:"rank"`
	PreviousRank *int      `json:"previous_rank,omitempty" db:"previous_rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	User *User `json:"user,omitempty" db:"-"`
}
