package models

import "time"

type LeagueVisibility string

const (
	LeaguePublic  LeagueVisibility = "public"
	LeaguePrivate LeagueVisibility = "private"
)

type LeagueRole string

const (
	LeagueRoleOwner  LeagueRole = "owner"
	LeagueRoleMember LeagueRole = "member"
)

type League struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	OwnerID     int              `json:"owner_id" db:"owner_id"`
	Visibility  LeagueVisibility `json:"visibility" db:"visibility"`
	LogoKey     *string          `json:"-" db:"logo_key"`
	LogoURL     *string          `json:"logo_url,omitempty" db:"-"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`

	MemberCount int            `json:"member_count,omitempty" db:"-"`
	Members     []LeagueMember `json:"members,omitempty" db:"-"`
}

type LeagueMember struct {
	ID       int        `json:"id" db:"id"`
	LeagueID int        `json:"league_id" db:"league_id"`
	UserID   int        `json:"user_id" db:"user_id"`
	Role     LeagueRole `json:"role" db:"role"`
	JoinedAt time.Time  `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}
