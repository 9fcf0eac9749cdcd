package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/padelhub/live-scoring/models"
)

type MatchSetRepository interface {
	Insert(ctx context.Context, exec SQLExecutor, set *models.MatchSet) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchSet, error)
}

type postgresMatchSetRepository struct {
	db *sql.DB
}

func NewPostgresMatchSetRepository(db *sql.DB) MatchSetRepository {
	return &postgresMatchSetRepository{db: db}
}

func (r *postgresMatchSetRepository) Insert(ctx context.Context, exec SQLExecutor, set *models.MatchSet) error {
	query := `
		INSERT INTO match_sets
			(match_id, set_number, side_a_games, side_b_games,
			 tie_break_side_a_points, tie_break_side_b_points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		set.MatchID,
		set.SetNumber,
		set.SideAGames,
		set.SideBGames,
		set.TieBreakSideAPoints,
		set.TieBreakSideBPoints,
	).Scan(&set.ID, &set.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert set %d for match %d: %w", set.SetNumber, set.MatchID, err)
	}
	return nil
}

func (r *postgresMatchSetRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchSet, error) {
	query := `
		SELECT id, match_id, set_number, side_a_games, side_b_games,
		       tie_break_side_a_points, tie_break_side_b_points, created_at
		FROM match_sets
		WHERE match_id = $1
		ORDER BY set_number`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets for match %d: %w", matchID, err)
	}
	defer rows.Close()

	sets := make([]*models.MatchSet, 0)
	for rows.Next() {
		s := &models.MatchSet{}
		err := rows.Scan(
			&s.ID,
			&s.MatchID,
			&s.SetNumber,
			&s.SideAGames,
			&s.SideBGames,
			&s.TieBreakSideAPoints,
			&s.TieBreakSideBPoints,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan set row: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("set rows iteration failed: %w", err)
	}
	return sets, nil
}
