package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/padelhub/live-scoring/models"
	"github.com/padelhub/live-scoring/repositories"
	"github.com/padelhub/live-scoring/ws"
)

// warmupLead is how long before the scheduled start a match enters warmup.
const warmupLead = 15 * time.Minute

type CreateMatchInput struct {
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`

	Player1ID int `json:"player1_id"`
	Player2ID int `json:"player2_id"`
	Player3ID int `json:"player3_id"`
	Player4ID int `json:"player4_id"`

	GoldenPoint     bool `json:"golden_point"`
	ServingPlayerID *int `json:"serving_player_id,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, limit int) ([]*models.Match, error)
	GetSnapshot(ctx context.Context, matchID int) (*models.MatchSnapshot, error)
	GetPlayerStats(ctx context.Context, matchID, playerID int) (*models.PlayerStats, error)
	GetSummary(ctx context.Context, matchID int) (*ws.MatchSummary, error)
	ListSets(ctx context.Context, matchID int) ([]*models.MatchSet, error)
	ListPoints(ctx context.Context, matchID, limit int) ([]*models.PointHistory, error)
	AutoUpdateMatchStatusesByTime(ctx context.Context) error
}

type matchService struct {
	tx        TxRunner
	matchRepo repositories.MatchRepository
	setRepo   repositories.MatchSetRepository
	pointRepo repositories.PointHistoryRepository
	statsRepo repositories.PlayerStatsRepository
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewMatchService(
	tx TxRunner,
	matchRepo repositories.MatchRepository,
	setRepo repositories.MatchSetRepository,
	pointRepo repositories.PointHistoryRepository,
	statsRepo repositories.PlayerStatsRepository,
	hub *ws.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		setRepo:   setRepo,
		pointRepo: pointRepo,
		statsRepo: statsRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.HomeTeamName == "" || input.AwayTeamName == "" {
		return nil, ErrMatchTeamNamesRequired
	}
	if err := validatePlayerIDs(input); err != nil {
		return nil, err
	}
	if input.StartTime != nil && input.EndTime != nil && !input.EndTime.After(*input.StartTime) {
		return nil, ErrMatchInvalidDateRange
	}

	match := &models.Match{
		HomeTeamName: input.HomeTeamName,
		AwayTeamName: input.AwayTeamName,
		Player1ID:    input.Player1ID,
		Player2ID:    input.Player2ID,
		Player3ID:    input.Player3ID,
		Player4ID:    input.Player4ID,
		Status:       statusForStart(input.StartTime, time.Now()),
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
	}
	match.Snapshot = models.NewMatchSnapshot(0, input.GoldenPoint)
	match.Snapshot.Status = match.Status
	match.Snapshot.ServingPlayerID = input.ServingPlayerID

	// Match row and the four zeroed stat accumulators land together.
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return err
		}
		return s.statsRepo.CreateForMatch(ctx, exec, match.ID, match.PlayerIDs())
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchPlayerInvalid) {
			return nil, ErrMatchPlayersInvalid
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.hub.BroadcastGlobal(ws.NewMatchCreated(match))
	s.logger.Info("match created",
		slog.Int("match_id", match.ID), slog.String("status", string(match.Status)))
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, limit int) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) GetSnapshot(ctx context.Context, matchID int) (*models.MatchSnapshot, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	snap := match.Snapshot
	return &snap, nil
}

func (s *matchService) GetPlayerStats(ctx context.Context, matchID, playerID int) (*models.PlayerStats, error) {
	stats, err := s.statsRepo.Get(ctx, matchID, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get stats for player %d in match %d: %w", playerID, matchID, err)
	}
	return stats, nil
}

func (s *matchService) GetSummary(ctx context.Context, matchID int) (*ws.MatchSummary, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	duration := 0
	if match.StartTime != nil {
		end := time.Now()
		if match.EndTime != nil {
			end = *match.EndTime
		}
		if end.After(*match.StartTime) {
			duration = int(end.Sub(*match.StartTime).Seconds())
		}
	}

	snap := match.Snapshot
	return &ws.MatchSummary{
		Games:           fmt.Sprintf("%d-%d", snap.SideAGames, snap.SideBGames),
		Points:          fmt.Sprintf("%s-%s", snap.SideAScore, snap.SideBScore),
		CurrentSetIdx:   snap.CurrentSetIdx,
		Status:          match.Status,
		ServingPlayerID: snap.ServingPlayerID,
		DurationSeconds: duration,
	}, nil
}

func (s *matchService) ListSets(ctx context.Context, matchID int) ([]*models.MatchSet, error) {
	sets, err := s.setRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets for match %d: %w", matchID, err)
	}
	return sets, nil
}

func (s *matchService) ListPoints(ctx context.Context, matchID, limit int) ([]*models.PointHistory, error) {
	points, err := s.pointRepo.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list points for match %d: %w", matchID, err)
	}
	return points, nil
}

// AutoUpdateMatchStatusesByTime promotes scheduled matches towards warmup and
// live as their start time approaches. Finishing is never time-driven, a
// match only finishes through the scoring engine.
func (s *matchService) AutoUpdateMatchStatusesByTime(ctx context.Context) error {
	matches, err := s.matchRepo.ListByStatus(ctx, models.MatchStatusScheduled, models.MatchStatusWarmup)
	if err != nil {
		return fmt.Errorf("failed to list pending matches: %w", err)
	}

	now := time.Now()
	for _, match := range matches {
		next := statusForStart(match.StartTime, now)
		if next == match.Status {
			continue
		}
		if err := s.matchRepo.UpdateStatus(ctx, nil, match.ID, next); err != nil {
			s.logger.Error("failed to auto-update match status",
				slog.Int("match_id", match.ID), slog.Any("error", err))
			continue
		}
		s.logger.Info("match status advanced",
			slog.Int("match_id", match.ID),
			slog.String("from", string(match.Status)), slog.String("to", string(next)))
	}
	return nil
}

func statusForStart(start *time.Time, now time.Time) models.MatchStatus {
	if start == nil {
		return models.MatchStatusScheduled
	}
	switch {
	case !now.Before(*start):
		return models.MatchStatusLive
	case now.After(start.Add(-warmupLead)):
		return models.MatchStatusWarmup
	default:
		return models.MatchStatusScheduled
	}
}

func validatePlayerIDs(input CreateMatchInput) error {
	ids := []int{input.Player1ID, input.Player2ID, input.Player3ID, input.Player4ID}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			return ErrMatchPlayersInvalid
		}
		seen[id] = true
	}
	return nil
}
