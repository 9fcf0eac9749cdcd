package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/padelhub/live-scoring/models"
	"github.com/padelhub/live-scoring/repositories"
	"github.com/padelhub/live-scoring/storage"
)

type CreatePlayerInput struct {
	Name    string  `json:"name"`
	Country *string `json:"country,omitempty"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, limit int) ([]*models.Player, error)
	UploadAvatar(ctx context.Context, playerID int, file io.Reader, contentType string) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}

	player := &models.Player{
		Name:    name,
		Country: input.Country,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) List(ctx context.Context, limit int) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, p := range players {
		s.populateAvatarURL(p)
	}
	return players, nil
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, file io.Reader, contentType string) (*models.Player, error) {
	if s.uploader == nil {
		return nil, errors.New("avatar storage is not configured")
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	ext, err := avatarExtension(contentType)
	if err != nil {
		return nil, ErrAvatarUnsupportedFormat
	}

	oldKey := player.AvatarKey
	newKey := fmt.Sprintf("players/%d/avatar_%d%s", playerID, time.Now().UnixNano(), ext)

	result, err := s.uploader.Upload(ctx, newKey, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}

	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		// Uploaded object becomes orphaned, clean it up before failing.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Error("failed to delete orphaned avatar",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to persist avatar key for player %d: %w", playerID, err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	player.AvatarKey = &result.Key
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) populateAvatarURL(player *models.Player) {
	if player == nil || player.AvatarKey == nil || *player.AvatarKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*player.AvatarKey); url != "" {
		player.AvatarURL = &url
	}
}

func avatarExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported avatar content type: %q", contentType)
	}
}
