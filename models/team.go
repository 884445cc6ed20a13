package models

import "time"

// Team is a constructor (Red Bull, Ferrari, ...), not a fantasy team.
// A user's fantasy team is just the team_name on their profile.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
