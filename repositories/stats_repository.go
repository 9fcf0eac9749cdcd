package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelhub/live-scoring/models"
)

var ErrPlayerStatsNotFound = errors.New("player stats not found")

// StatsDelta is a set of counter increments applied in one transition.
// All fields are non-negative; accumulators never go down.
type StatsDelta struct {
	PointsWon      int
	Winners        int
	SmashWinners   int
	UnforcedErrors int
	DoubleFaults   int
	PointsPlayed   int
}

type PlayerStatsRepository interface {
	// CreateForMatch seeds zeroed accumulator rows for every participant.
	CreateForMatch(ctx context.Context, exec SQLExecutor, matchID int, playerIDs []int) error
	Get(ctx context.Context, matchID, playerID int) (*models.PlayerStats, error)
	Increment(ctx context.Context, exec SQLExecutor, matchID, playerID int, delta StatsDelta) error
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) CreateForMatch(ctx context.Context, exec SQLExecutor, matchID int, playerIDs []int) error {
	query := `INSERT INTO match_stats (match_id, player_id) VALUES ($1, $2)`
	for _, playerID := range playerIDs {
		if _, err := exec.ExecContext(ctx, query, matchID, playerID); err != nil {
			return fmt.Errorf("failed to create stats row for player %d in match %d: %w", playerID, matchID, err)
		}
	}
	return nil
}

func (r *postgresPlayerStatsRepository) Get(ctx context.Context, matchID, playerID int) (*models.PlayerStats, error) {
	query := `
		SELECT id, match_id, player_id,
		       points_won, winners, smash_winners,
		       unforced_errors, double_faults, total_points_played,
		       updated_at
		FROM match_stats
		WHERE match_id = $1 AND player_id = $2`

	stats := &models.PlayerStats{}
	err := r.db.QueryRowContext(ctx, query, matchID, playerID).Scan(
		&stats.ID,
		&stats.MatchID,
		&stats.PlayerID,
		&stats.PointsWon,
		&stats.Winners,
		&stats.SmashWinners,
		&stats.UnforcedErrors,
		&stats.DoubleFaults,
		&stats.TotalPointsPlayed,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, fmt.Errorf("failed to scan stats for player %d in match %d: %w", playerID, matchID, err)
	}
	return stats, nil
}

func (r *postgresPlayerStatsRepository) Increment(ctx context.Context, exec SQLExecutor, matchID, playerID int, delta StatsDelta) error {
	query := `
		UPDATE match_stats SET
			points_won = points_won + $1,
			winners = winners + $2,
			smash_winners = smash_winners + $3,
			unforced_errors = unforced_errors + $4,
			double_faults = double_faults + $5,
			total_points_played = total_points_played + $6,
			updated_at = now()
		WHERE match_id = $7 AND player_id = $8`

	result, err := exec.ExecContext(ctx, query,
		delta.PointsWon,
		delta.Winners,
		delta.SmashWinners,
		delta.UnforcedErrors,
		delta.DoubleFaults,
		delta.PointsPlayed,
		matchID,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment stats for player %d in match %d: %w", playerID, matchID, err)
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}
