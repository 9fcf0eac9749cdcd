package models

import "time"

// PointMethod classifies how a point ended. Winning methods credit the
// acting player's side; error methods hand the point to the opponents.
type PointMethod string

const (
	MethodWinningShot   PointMethod = "winning_shot"
	MethodUnforcedError PointMethod = "unforced_error"
	MethodForcedError   PointMethod = "forced_error"
	MethodServiceAce    PointMethod = "service_ace"
	MethodDoubleFault   PointMethod = "double_fault"
)

// Winning reports whether the method credits the acting player's own side.
func (m PointMethod) Winning() bool {
	return m == MethodWinningShot || m == MethodServiceAce
}

func (m PointMethod) Valid() bool {
	switch m {
	case MethodWinningShot, MethodUnforcedError, MethodForcedError,
		MethodServiceAce, MethodDoubleFault:
		return true
	}
	return false
}

// Stroke is the technical shot behind a point, kept for per-player metrics.
type Stroke string

const (
	StrokeForehand      Stroke = "forehand"
	StrokeBackhand      Stroke = "backhand"
	StrokeSmash         Stroke = "smash"
	StrokeBandeja       Stroke = "bandeja" // defensive lob shot
	StrokeVibora        Stroke = "vibora"  // topspin lob
	StrokeVolleyFore    Stroke = "volley_forehand"
	StrokeVolleyBack    Stroke = "volley_backhand"
	StrokeLob           Stroke = "lob"
	StrokeDropShot      Stroke = "drop_shot"
	StrokeWallRebound   Stroke = "wall_rebound"
)

func (s Stroke) Valid() bool {
	switch s {
	case StrokeForehand, StrokeBackhand, StrokeSmash, StrokeBandeja,
		StrokeVibora, StrokeVolleyFore, StrokeVolleyBack, StrokeLob,
		StrokeDropShot, StrokeWallRebound:
		return true
	}
	return false
}

// PointEvent is a classified action reported against one player.
type PointEvent struct {
	PlayerID   int         `json:"player_id"`
	Method     PointMethod `json:"method"`
	Stroke     *Stroke     `json:"stroke,omitempty"`
	IsNetPoint bool        `json:"is_net_point"`
}

// PointHistory is the durable record of one scoring transition. The
// game/set/match point flags describe the situation before the point was
// applied; the score fields hold the state after it.
type PointHistory struct {
	ID      int `json:"id"`
	MatchID int `json:"match_id"`

	SetNumber   int `json:"set_number"`
	GameNumber  int `json:"game_number"`
	PointNumber int `json:"point_number"`

	WinnerSide Side        `json:"winner_side"`
	PlayerID   int         `json:"player_id"`
	Method     PointMethod `json:"method"`
	Stroke     *Stroke     `json:"stroke,omitempty"`
	IsNetPoint bool        `json:"is_net_point"`

	ScoreAfterSideA string `json:"score_after_side_a"`
	ScoreAfterSideB string `json:"score_after_side_b"`

	IsGamePoint  bool `json:"is_game_point"`
	IsSetPoint   bool `json:"is_set_point"`
	IsMatchPoint bool `json:"is_match_point"`

	CreatedAt time.Time `json:"created_at"`
}
