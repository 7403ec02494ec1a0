package notification

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
)

// Service shares a movie card through the configured channels.
type Service interface {
	Share(ctx context.Context, view *domain.MovieView) error
}

// composite fans a share out to every configured channel
type composite struct {
	discord *DiscordService
}

// NewService creates a new notification service
func NewService(log zerolog.Logger, webhookURL string) Service {
	var discord *DiscordService
	if webhookURL != "" {
		discord = NewDiscordService(log, webhookURL)
	}

	return &composite{
		discord: discord,
	}
}

func (s *composite) Share(ctx context.Context, view *domain.MovieView) error {
	if s.discord == nil {
		return errors.Wrap(domain.ErrNotConfigured, "no share channel configured (set discord_webhook_url)")
	}
	return s.discord.Share(ctx, view)
}
