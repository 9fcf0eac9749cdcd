package ws

import (
	"time"

	"github.com/padelhub/live-scoring/models"
)

// MessageType enumerates every message kind on the wire. The protocol is a
// closed union: unknown types are rejected, every payload has a fixed shape.
type MessageType string

const (
	// client -> server
	TypeSubscribe    MessageType = "SUBSCRIBE"
	TypeUnsubscribe  MessageType = "UNSUBSCRIBE"
	TypeRequestStats MessageType = "REQUEST_STATS"

	// server -> client
	TypeWelcome       MessageType = "WELCOME"
	TypeSubscribed    MessageType = "SUBSCRIBED"
	TypeUnsubscribed  MessageType = "UNSUBSCRIBED"
	TypeMatchUpdate   MessageType = "MATCH_UPDATE"
	TypeMatchCreated  MessageType = "MATCH_CREATED"
	TypeCommentary    MessageType = "COMMENTARY"
	TypeStatsResponse MessageType = "STATS_RESPONSE"
	TypeError         MessageType = "ERROR"
)

type StatsSubtype string

const (
	StatsPlayer       StatsSubtype = "PLAYER"
	StatsMatchSummary StatsSubtype = "MATCH_SUMMARY"
)

// ClientMessage is the inbound envelope. MatchID is required for every type;
// Subtype and PlayerID only apply to REQUEST_STATS.
type ClientMessage struct {
	Type     MessageType  `json:"type"`
	MatchID  int          `json:"match_id"`
	Subtype  StatsSubtype `json:"subtype,omitempty"`
	PlayerID int          `json:"player_id,omitempty"`
}

// AckMessage carries welcome/subscribed/unsubscribed/error notices.
type AckMessage struct {
	Type    MessageType `json:"type"`
	Payload string      `json:"payload"`
}

// MatchUpdateMessage is the state-update fan-out after each committed point.
// LastPoint is nil for the full snapshot delivered on subscribe.
type MatchUpdateMessage struct {
	Type      MessageType          `json:"type"`
	MatchID   int                  `json:"match_id"`
	Timestamp int64                `json:"timestamp"`
	Snapshot  models.MatchSnapshot `json:"snapshot"`
	LastPoint *models.PointHistory `json:"last_point"`
}

func NewMatchUpdate(snapshot models.MatchSnapshot, lastPoint *models.PointHistory) MatchUpdateMessage {
	return MatchUpdateMessage{
		Type:      TypeMatchUpdate,
		MatchID:   snapshot.MatchID,
		Timestamp: time.Now().UnixMilli(),
		Snapshot:  snapshot,
		LastPoint: lastPoint,
	}
}

// MatchCreatedMessage goes to the global room once per match creation.
type MatchCreatedMessage struct {
	Type  MessageType   `json:"type"`
	Match *models.Match `json:"match"`
}

func NewMatchCreated(match *models.Match) MatchCreatedMessage {
	return MatchCreatedMessage{Type: TypeMatchCreated, Match: match}
}

// CommentaryMessage fans a new commentary entry out to the match room.
type CommentaryMessage struct {
	Type       MessageType        `json:"type"`
	MatchID    int                `json:"match_id"`
	Commentary *models.Commentary `json:"commentary"`
}

func NewCommentary(comment *models.Commentary) CommentaryMessage {
	return CommentaryMessage{Type: TypeCommentary, MatchID: comment.MatchID, Commentary: comment}
}

// MatchSummary is the aggregate answered for STATS_RESPONSE/MATCH_SUMMARY.
type MatchSummary struct {
	Games           string             `json:"games"`
	Points          string             `json:"points"`
	CurrentSetIdx   int                `json:"current_set_idx"`
	Status          models.MatchStatus `json:"status"`
	ServingPlayerID *int               `json:"serving_player_id,omitempty"`
	DurationSeconds int                `json:"duration_seconds"`
}

// StatsResponseMessage answers REQUEST_STATS on the requesting socket only.
// Exactly one of Player or Summary is set, matching Subtype.
type StatsResponseMessage struct {
	Type    MessageType         `json:"type"`
	Subtype StatsSubtype        `json:"subtype"`
	MatchID int                 `json:"match_id"`
	Player  *models.PlayerStats `json:"player,omitempty"`
	Summary *MatchSummary       `json:"summary,omitempty"`
}
