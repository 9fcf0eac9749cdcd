package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/padelhub/live-scoring/models"
)

type CommentaryRepository interface {
	Insert(ctx context.Context, comment *models.Commentary) error
	ListByMatch(ctx context.Context, matchID, limit int) ([]*models.Commentary, error)
}

type postgresCommentaryRepository struct {
	db *sql.DB
}

func NewPostgresCommentaryRepository(db *sql.DB) CommentaryRepository {
	return &postgresCommentaryRepository{db: db}
}

func (r *postgresCommentaryRepository) Insert(ctx context.Context, comment *models.Commentary) error {
	query := `
		INSERT INTO commentary (match_id, set_number, game_number, message, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.MatchID,
		comment.SetNumber,
		comment.GameNumber,
		comment.Message,
		pq.Array(comment.Tags),
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert commentary for match %d: %w", comment.MatchID, err)
	}
	return nil
}

func (r *postgresCommentaryRepository) ListByMatch(ctx context.Context, matchID, limit int) ([]*models.Commentary, error) {
	query := `
		SELECT id, match_id, set_number, game_number, message, tags, created_at
		FROM commentary
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list commentary for match %d: %w", matchID, err)
	}
	defer rows.Close()

	comments := make([]*models.Commentary, 0)
	for rows.Next() {
		c := &models.Commentary{}
		err := rows.Scan(
			&c.ID,
			&c.MatchID,
			&c.SetNumber,
			&c.GameNumber,
			&c.Message,
			pq.Array(&c.Tags),
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commentary row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("commentary rows iteration failed: %w", err)
	}
	return comments, nil
}
