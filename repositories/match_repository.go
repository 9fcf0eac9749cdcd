package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/padelhub/live-scoring/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchPlayerInvalid = errors.New("match references an unknown player")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, limit int) ([]*models.Match, error)
	ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error)
	UpdateSnapshot(ctx context.Context, exec SQLExecutor, snap *models.MatchSnapshot) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, home_team_name, away_team_name,
	player1_id, player2_id, player3_id, player4_id,
	status,
	side_a_score, side_b_score, side_a_games, side_b_games,
	side_a_sets, side_b_sets, current_set_idx, is_tie_break, has_gold_point,
	winner_side, serving_player_id,
	start_time, end_time, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(home_team_name, away_team_name,
			 player1_id, player2_id, player3_id, player4_id,
			 status,
			 side_a_score, side_b_score, side_a_games, side_b_games,
			 side_a_sets, side_b_sets, current_set_idx, is_tie_break, has_gold_point,
			 serving_player_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at`

	snap := &match.Snapshot
	err := exec.QueryRowContext(ctx, query,
		match.HomeTeamName,
		match.AwayTeamName,
		match.Player1ID,
		match.Player2ID,
		match.Player3ID,
		match.Player4ID,
		match.Status,
		snap.SideAScore,
		snap.SideBScore,
		snap.SideAGames,
		snap.SideBGames,
		snap.SideASets,
		snap.SideBSets,
		snap.CurrentSetIdx,
		snap.IsTieBreak,
		snap.HasGoldPoint,
		snap.ServingPlayerID,
		match.StartTime,
		match.EndTime,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return ErrMatchPlayerInvalid
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}

	snap.MatchID = match.ID
	snap.Status = match.Status
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *postgresMatchRepository) ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE status = ANY($1) ORDER BY start_time`

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by status: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *postgresMatchRepository) UpdateSnapshot(ctx context.Context, exec SQLExecutor, snap *models.MatchSnapshot) error {
	query := `
		UPDATE matches SET
			side_a_score = $1, side_b_score = $2,
			side_a_games = $3, side_b_games = $4,
			side_a_sets = $5, side_b_sets = $6,
			current_set_idx = $7, is_tie_break = $8,
			status = $9, winner_side = $10,
			end_time = CASE WHEN $10::text IS NOT NULL AND end_time IS NULL THEN now() ELSE end_time END
		WHERE id = $11`

	var winner *string
	if snap.WinnerSide != nil {
		w := string(*snap.WinnerSide)
		winner = &w
	}

	result, err := exec.ExecContext(ctx, query,
		snap.SideAScore,
		snap.SideBScore,
		snap.SideAGames,
		snap.SideBGames,
		snap.SideASets,
		snap.SideBSets,
		snap.CurrentSetIdx,
		snap.IsTieBreak,
		snap.Status,
		winner,
		snap.MatchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d snapshot: %w", snap.MatchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateStatus runs against the pool when exec is nil; callers outside a
// transaction do not need to open one for a single-row update.
func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update match %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	snap := &match.Snapshot

	var winner sql.NullString
	var servingPlayerID sql.NullInt64
	var startTime, endTime sql.NullTime

	err := row.Scan(
		&match.ID,
		&match.HomeTeamName,
		&match.AwayTeamName,
		&match.Player1ID,
		&match.Player2ID,
		&match.Player3ID,
		&match.Player4ID,
		&match.Status,
		&snap.SideAScore,
		&snap.SideBScore,
		&snap.SideAGames,
		&snap.SideBGames,
		&snap.SideASets,
		&snap.SideBSets,
		&snap.CurrentSetIdx,
		&snap.IsTieBreak,
		&snap.HasGoldPoint,
		&winner,
		&servingPlayerID,
		&startTime,
		&endTime,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.MatchID = match.ID
	snap.Status = match.Status
	if winner.Valid {
		side := models.Side(winner.String)
		snap.WinnerSide = &side
	}
	if servingPlayerID.Valid {
		id := int(servingPlayerID.Int64)
		snap.ServingPlayerID = &id
	}
	if startTime.Valid {
		t := startTime.Time
		match.StartTime = &t
	}
	if endTime.Valid {
		t := endTime.Time
		match.EndTime = &t
	}
	return match, nil
}

func collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("match rows iteration failed: %w", err)
	}
	return matches, nil
}
