package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusWarmup    MatchStatus = "warmup"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Terminal reports whether the match can no longer accept point events.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusFinished || s == MatchStatusCanceled
}

type Side string

const (
	SideA Side = "side_a"
	SideB Side = "side_b"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Match is one padel doubles fixture: two named pairs of two players each.
// Players 1 and 2 form side A, players 3 and 4 form side B.
type Match struct {
	ID           int    `json:"id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`

	Player1ID int `json:"player1_id"`
	Player2ID int `json:"player2_id"`
	Player3ID int `json:"player3_id"`
	Player4ID int `json:"player4_id"`

	Status MatchStatus `json:"status"`

	Snapshot MatchSnapshot `json:"snapshot"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SideOf resolves which side a player belongs to. ok is false when the
// player is not one of the four participants.
func (m *Match) SideOf(playerID int) (Side, bool) {
	switch playerID {
	case m.Player1ID, m.Player2ID:
		return SideA, true
	case m.Player3ID, m.Player4ID:
		return SideB, true
	}
	return "", false
}

// PlayerIDs returns the four participant ids, side A first.
func (m *Match) PlayerIDs() []int {
	return []int{m.Player1ID, m.Player2ID, m.Player3ID, m.Player4ID}
}

// MatchSnapshot is the authoritative scoring state of one match at an
// instant. Scores hold the padel ladder values "0", "15", "30", "40", "AD",
// or a non-negative integer rendered as a string while a tie-break runs.
type MatchSnapshot struct {
	MatchID int `json:"match_id"`

	SideAScore string `json:"side_a_score"`
	SideBScore string `json:"side_b_score"`
	SideAGames int    `json:"side_a_games"`
	SideBGames int    `json:"side_b_games"`
	SideASets  int    `json:"side_a_sets"`
	SideBSets  int    `json:"side_b_sets"`

	CurrentSetIdx int  `json:"current_set_idx"` // starts at 1
	IsTieBreak    bool `json:"is_tie_break"`
	HasGoldPoint  bool `json:"has_gold_point"` // 40-40 decided by the next point

	Status     MatchStatus `json:"status"`
	WinnerSide *Side       `json:"winner_side,omitempty"` // nil while live

	ServingPlayerID *int `json:"serving_player_id,omitempty"`
}

// NewMatchSnapshot returns the state a match is created with.
func NewMatchSnapshot(matchID int, goldPoint bool) MatchSnapshot {
	return MatchSnapshot{
		MatchID:       matchID,
		SideAScore:    "0",
		SideBScore:    "0",
		CurrentSetIdx: 1,
		HasGoldPoint:  goldPoint,
		Status:        MatchStatusScheduled,
	}
}

// Score returns the current-game score of the given side.
func (s *MatchSnapshot) Score(side Side) string {
	if side == SideA {
		return s.SideAScore
	}
	return s.SideBScore
}

// Games returns the games won by the given side in the current set.
func (s *MatchSnapshot) Games(side Side) int {
	if side == SideA {
		return s.SideAGames
	}
	return s.SideBGames
}

// Sets returns the sets won by the given side.
func (s *MatchSnapshot) Sets(side Side) int {
	if side == SideA {
		return s.SideASets
	}
	return s.SideBSets
}

// MatchSet is the durable record of one completed set.
type MatchSet struct {
	ID                  int       `json:"id"`
	MatchID             int       `json:"match_id"`
	SetNumber           int       `json:"set_number"`
	SideAGames          int       `json:"side_a_games"`
	SideBGames          int       `json:"side_b_games"`
	TieBreakSideAPoints *int      `json:"tie_break_side_a_points,omitempty"`
	TieBreakSideBPoints *int      `json:"tie_break_side_b_points,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
