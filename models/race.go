package models

import "time"

// RaceStatus matches the race_status ENUM in the database.
type RaceStatus string

const (
	RaceStatusUpcoming  RaceStatus = "upcoming"
	RaceStatusLive      RaceStatus = "live"
	RaceStatusCompleted RaceStatus = "completed"
)

// MaxClassifiedFinishers is how many finishing positions score points.
const MaxClassifiedFinishers = 10

type Race struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Location    string     `json:"location" db:"location"`
	CountryFlag string     `json:"country_flag" db:"country_flag"`
	RaceDate    time.Time  `json:"race_date" db:"race_date"`
	Status      RaceStatus `json:"status" db:"status"`
	TotalLaps   *int       `json:"total_laps,omitempty" db:"total_laps"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	Result *RaceResult `json:"result,omitempty" db:"-"`
}

// RaceResult is the canonical, post-normalization result shape the scoring
// engine consumes. Positions hold stable driver IDs resolved at the ingestion
// boundary; raw feed names are never compared downstream.
//
// Invariants (enforced by ingest.Adapter): no duplicate drivers in Positions,
// positions contiguous from P1 unless fewer than ten classified finishers.
type RaceResult struct {
	RaceID           int   `json:"race_id"`
	Positions        []int `json:"positions"` // index 0 = P1
	FastestLapDriver *int  `json:"fastest_lap_driver,omitempty"`
	DNFDrivers       []int `json:"dnf_drivers,omitempty"`
	Completed        bool  `json:"completed"`
}

// Winner returns the P1 driver, or 0 if the result holds no finishers.
func (r RaceResult) Winner() int {
	if len(r.Positions) == 0 {
		return 0
	}
	return r.Positions[0]
}

// IsDNF reports whether the driver appears in the DNF set.
func (r RaceResult) IsDNF(driverID int) bool {
	for _, id := range r.DNFDrivers {
		if id == driverID {
			return true
		}
	}
	return false
}

// Equal reports whether two results describe the same outcome. Finishing
// order is positional, the DNF field is compared as a set. Result ingestion
// uses it to tell a republished correction apart from an unchanged feed row.
func (r RaceResult) Equal(other RaceResult) bool {
	if r.RaceID != other.RaceID || r.Completed != other.Completed {
		return false
	}
	if len(r.Positions) != len(other.Positions) {
		return false
	}
	for i, id := range r.Positions {
		if other.Positions[i] != id {
			return false
		}
	}
	if (r.FastestLapDriver == nil) != (other.FastestLapDriver == nil) {
		return false
	}
	if r.FastestLapDriver != nil && *r.FastestLapDriver != *other.FastestLapDriver {
		return false
	}
	if len(r.DNFDrivers) != len(other.DNFDrivers) {
		return false
	}
	for _, id := range r.DNFDrivers {
		if !other.IsDNF(id) {
			return false
		}
	}
	return true
}
