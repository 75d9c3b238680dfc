package notification

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/varoOP/moviefinder/internal/domain"
)

// Service fans notifications out to every configured channel. A failing
// channel does not stop the others; the first error is returned.
type Service struct {
	log      zerolog.Logger
	channels []domain.NotificationService
}

// NewService creates a notification service for the channels set in config.
// With none configured every call is a no-op.
func NewService(log zerolog.Logger, config *domain.Config) *Service {
	s := &Service{
		log: log.With().Str("module", "notification").Logger(),
	}
	if config.DiscordWebhookURL != "" {
		s.channels = append(s.channels, NewDiscordService(log, config.DiscordWebhookURL))
	}
	return s
}

var _ domain.NotificationService = (*Service)(nil)

func (s *Service) Enabled() bool {
	return len(s.channels) > 0
}

func (s *Service) SendSuccess(ctx context.Context, stats domain.Statistics) error {
	var first error
	for _, c := range s.channels {
		if err := c.SendSuccess(ctx, stats); err != nil {
			s.log.Warn().Err(err).Msg("failed to send success notification")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *Service) SendError(ctx context.Context, err error) error {
	var first error
	for _, c := range s.channels {
		if sendErr := c.SendError(ctx, err); sendErr != nil {
			s.log.Warn().Err(sendErr).Msg("failed to send error notification")
			if first == nil {
				first = sendErr
			}
		}
	}
	return first
}
