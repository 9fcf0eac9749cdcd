package models

import "time"

type Player struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Country *string `json:"country,omitempty"`

	AvatarKey *string `json:"-"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PlayerStats accumulates per-player counters for one match. Counters only
// ever grow and are mutated exclusively by the point processor.
type PlayerStats struct {
	ID       int `json:"id"`
	MatchID  int `json:"match_id"`
	PlayerID int `json:"player_id"`

	PointsWon         int `json:"points_won"`
	Winners           int `json:"winners"`
	SmashWinners      int `json:"smash_winners"`
	UnforcedErrors    int `json:"unforced_errors"`
	DoubleFaults      int `json:"double_faults"`
	TotalPointsPlayed int `json:"total_points_played"`

	UpdatedAt time.Time `json:"updated_at"`
}
