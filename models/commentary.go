package models

import "time"

// Commentary is one free-text live-feed entry attached to a match.
type Commentary struct {
	ID      int `json:"id"`
	MatchID int `json:"match_id"`

	SetNumber  int `json:"set_number"`
	GameNumber int `json:"game_number"`

	Message string   `json:"message"`
	Tags    []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
