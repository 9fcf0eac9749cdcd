package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Missing resources
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrStatsNotFound  = errors.New("player stats not found for this match")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrPlayerNotInMatch        = errors.New("player is not a participant of this match")
	ErrMatchTeamNamesRequired  = errors.New("both team names are required")
	ErrMatchPlayersInvalid     = errors.New("match requires four distinct existing players")
	ErrMatchInvalidDateRange   = errors.New("match end time must be after start time")
	ErrCommentaryEmptyMessage  = errors.New("commentary message must not be empty")
	ErrAvatarUnsupportedFormat = errors.New("unsupported avatar image format")
)
