package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/padelhub/live-scoring/models"
)

type PointHistoryRepository interface {
	// Insert stores the record and assigns its per-match point ordinal
	// (count+1) inside the caller's transaction.
	Insert(ctx context.Context, exec SQLExecutor, point *models.PointHistory) error
	ListByMatch(ctx context.Context, matchID, limit int) ([]*models.PointHistory, error)
}

type postgresPointHistoryRepository struct {
	db *sql.DB
}

func NewPostgresPointHistoryRepository(db *sql.DB) PointHistoryRepository {
	return &postgresPointHistoryRepository{db: db}
}

func (r *postgresPointHistoryRepository) Insert(ctx context.Context, exec SQLExecutor, point *models.PointHistory) error {
	query := `
		INSERT INTO point_history
			(match_id, set_number, game_number, point_number,
			 winner_side, player_id, method, stroke, is_net_point,
			 score_after_side_a, score_after_side_b,
			 is_game_point, is_set_point, is_match_point)
		VALUES ($1, $2, $3,
			(SELECT COUNT(*) + 1 FROM point_history WHERE match_id = $1),
			$4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, point_number, created_at`

	err := exec.QueryRowContext(ctx, query,
		point.MatchID,
		point.SetNumber,
		point.GameNumber,
		point.WinnerSide,
		point.PlayerID,
		point.Method,
		point.Stroke,
		point.IsNetPoint,
		point.ScoreAfterSideA,
		point.ScoreAfterSideB,
		point.IsGamePoint,
		point.IsSetPoint,
		point.IsMatchPoint,
	).Scan(&point.ID, &point.PointNumber, &point.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert point history for match %d: %w", point.MatchID, err)
	}
	return nil
}

func (r *postgresPointHistoryRepository) ListByMatch(ctx context.Context, matchID, limit int) ([]*models.PointHistory, error) {
	query := `
		SELECT id, match_id, set_number, game_number, point_number,
		       winner_side, player_id, method, stroke, is_net_point,
		       score_after_side_a, score_after_side_b,
		       is_game_point, is_set_point, is_match_point, created_at
		FROM point_history
		WHERE match_id = $1
		ORDER BY point_number DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list point history for match %d: %w", matchID, err)
	}
	defer rows.Close()

	points := make([]*models.PointHistory, 0)
	for rows.Next() {
		p := &models.PointHistory{}
		var stroke sql.NullString
		err := rows.Scan(
			&p.ID,
			&p.MatchID,
			&p.SetNumber,
			&p.GameNumber,
			&p.PointNumber,
			&p.WinnerSide,
			&p.PlayerID,
			&p.Method,
			&stroke,
			&p.IsNetPoint,
			&p.ScoreAfterSideA,
			&p.ScoreAfterSideB,
			&p.IsGamePoint,
			&p.IsSetPoint,
			&p.IsMatchPoint,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point history row: %w", err)
		}
		if stroke.Valid {
			st := models.Stroke(stroke.String)
			p.Stroke = &st
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("point history rows iteration failed: %w", err)
	}
	return points, nil
}
