package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/padelhub/live-scoring/models"
	"github.com/padelhub/live-scoring/repositories"
	"github.com/padelhub/live-scoring/ws"
)

type CreateCommentaryInput struct {
	SetNumber  int      `json:"set_number,omitempty"`
	GameNumber int      `json:"game_number,omitempty"`
	Message    string   `json:"message"`
	Tags       []string `json:"tags,omitempty"`
}

type CommentaryService interface {
	Create(ctx context.Context, matchID int, input CreateCommentaryInput) (*models.Commentary, error)
	List(ctx context.Context, matchID, limit int) ([]*models.Commentary, error)
}

type commentaryService struct {
	commentaryRepo repositories.CommentaryRepository
	matchRepo      repositories.MatchRepository
	hub            *ws.Hub
	logger         *slog.Logger
}

func NewCommentaryService(
	commentaryRepo repositories.CommentaryRepository,
	matchRepo repositories.MatchRepository,
	hub *ws.Hub,
	logger *slog.Logger,
) CommentaryService {
	return &commentaryService{
		commentaryRepo: commentaryRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *commentaryService) Create(ctx context.Context, matchID int, input CreateCommentaryInput) (*models.Commentary, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrCommentaryEmptyMessage
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	comment := &models.Commentary{
		MatchID:    matchID,
		SetNumber:  input.SetNumber,
		GameNumber: input.GameNumber,
		Message:    message,
		Tags:       input.Tags,
	}
	// Untagged entries default to the match's current position.
	if comment.SetNumber == 0 {
		comment.SetNumber = match.Snapshot.CurrentSetIdx
	}
	if comment.GameNumber == 0 {
		comment.GameNumber = match.Snapshot.SideAGames + match.Snapshot.SideBGames + 1
	}

	if err := s.commentaryRepo.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to insert commentary for match %d: %w", matchID, err)
	}

	s.hub.BroadcastToMatch(matchID, ws.NewCommentary(comment))
	return comment, nil
}

func (s *commentaryService) List(ctx context.Context, matchID, limit int) ([]*models.Commentary, error) {
	entries, err := s.commentaryRepo.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list commentary for match %d: %w", matchID, err)
	}
	return entries, nil
}
