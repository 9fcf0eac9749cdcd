package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/padelhub/live-scoring/models"
	"github.com/padelhub/live-scoring/repositories"
	"github.com/padelhub/live-scoring/scoring"
	"github.com/padelhub/live-scoring/ws"
)

// PointService turns classified point events into committed, broadcast state
// transitions. This is the only component that mutates match state or stats.
type PointService interface {
	ProcessPoint(ctx context.Context, matchID int, event models.PointEvent) error
}

type pointService struct {
	tx        TxRunner
	matchRepo repositories.MatchRepository
	pointRepo repositories.PointHistoryRepository
	setRepo   repositories.MatchSetRepository
	statsRepo repositories.PlayerStatsRepository
	hub       *ws.Hub
	logger    *slog.Logger

	// One mutex per match id. Point events for the same match are strictly
	// serialized; different matches proceed in parallel.
	locks sync.Map
}

func NewPointService(
	tx TxRunner,
	matchRepo repositories.MatchRepository,
	pointRepo repositories.PointHistoryRepository,
	setRepo repositories.MatchSetRepository,
	statsRepo repositories.PlayerStatsRepository,
	hub *ws.Hub,
	logger *slog.Logger,
) PointService {
	return &pointService{
		tx:        tx,
		matchRepo: matchRepo,
		pointRepo: pointRepo,
		setRepo:   setRepo,
		statsRepo: statsRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *pointService) matchLock(matchID int) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(matchID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *pointService) ProcessPoint(ctx context.Context, matchID int, event models.PointEvent) error {
	if !event.Method.Valid() {
		return fmt.Errorf("%w: unknown point method %q", ErrValidationFailed, event.Method)
	}
	if event.Stroke != nil && !event.Stroke.Valid() {
		return fmt.Errorf("%w: unknown stroke %q", ErrValidationFailed, *event.Stroke)
	}

	// The broadcast happens inside this critical section too, so updates for
	// one match reach the hub in exactly the order they were committed.
	lock := s.matchLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	// Late or duplicate events on a decided match are expected under network
	// retries; swallow them instead of failing the caller.
	if match.Status.Terminal() {
		s.logger.Info("ignoring point event on terminal match",
			slog.Int("match_id", matchID), slog.String("status", string(match.Status)))
		return nil
	}

	side, ok := match.SideOf(event.PlayerID)
	if !ok {
		return fmt.Errorf("%w: player %d, match %d", ErrPlayerNotInMatch, event.PlayerID, matchID)
	}

	// Errors and faults hand the point to the opponents.
	scorer := side
	if !event.Method.Winning() {
		scorer = side.Other()
	}

	outcome, err := scoring.Apply(match.Snapshot, scorer, event.Method, event.Stroke, event.IsNetPoint)
	if err != nil {
		if errors.Is(err, scoring.ErrMatchAlreadyFinished) {
			s.logger.Info("ignoring point event on finished match", slog.Int("match_id", matchID))
			return nil
		}
		return fmt.Errorf("scoring failed for match %d: %w", matchID, err)
	}

	next := &outcome.NextSnapshot
	if next.WinnerSide == nil &&
		(next.Status == models.MatchStatusScheduled || next.Status == models.MatchStatusWarmup) {
		next.Status = models.MatchStatusLive
	}
	outcome.History.PlayerID = event.PlayerID

	delta := statsDeltaFor(event)

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateSnapshot(ctx, exec, next); err != nil {
			return err
		}
		if err := s.pointRepo.Insert(ctx, exec, &outcome.History); err != nil {
			return err
		}
		if err := s.statsRepo.Increment(ctx, exec, matchID, event.PlayerID, delta); err != nil {
			return err
		}
		if outcome.SetCompleted != nil {
			if err := s.setRepo.Insert(ctx, exec, outcome.SetCompleted); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Nothing was committed; the caller may retry the same event.
		return fmt.Errorf("failed to commit point for match %d: %w", matchID, err)
	}

	// Best effort after the commit: the hub logs its own failures, and a
	// reconnecting client self-heals via the snapshot-on-subscribe path.
	s.hub.BroadcastToMatch(matchID, ws.NewMatchUpdate(*next, &outcome.History))

	if next.WinnerSide != nil {
		s.logger.Info("match finished",
			slog.Int("match_id", matchID), slog.String("winner", string(*next.WinnerSide)))
	}
	return nil
}

// statsDeltaFor maps one event onto accumulator increments for the acting
// player. Winning shots credit winners and points won; errors and faults only
// ever grow the player's own fault counters, the opponents' points live in
// their side of the score.
func statsDeltaFor(event models.PointEvent) repositories.StatsDelta {
	delta := repositories.StatsDelta{PointsPlayed: 1}

	switch event.Method {
	case models.MethodWinningShot, models.MethodServiceAce:
		delta.PointsWon = 1
		delta.Winners = 1
		if event.Stroke != nil && *event.Stroke == models.StrokeSmash {
			delta.SmashWinners = 1
		}
	case models.MethodUnforcedError, models.MethodForcedError:
		delta.UnforcedErrors = 1
	case models.MethodDoubleFault:
		delta.DoubleFaults = 1
	}
	return delta
}
