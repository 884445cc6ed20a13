package models

import "time"

type Driver struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Country string `json:"country" db:"country"`
	Number  int    `json:"number" db:"number"`
	TeamID  *int   `json:"team_id,omitempty" db:"team_id"`

	// ChampionshipPoints is derived state. It is reset and replayed from
	// completed race results by the recompute pipeline and must never be
	// edited by hand once ingestion has run.
	ChampionshipPoints int `json:"championship_points" db:"championship_points"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
