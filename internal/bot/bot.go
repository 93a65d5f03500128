package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"fmk-dating/internal/config"
	"fmk-dating/internal/logger"
)

// Service is the photo-intake relay: it listens for Telegram uploads and
// forwards resolved file URLs to the REST backend.
type Service struct {
	Bot     *telego.Bot
	Handler *th.BotHandler

	cfg *config.Config
	api *APIClient
}

// Initialize builds the bot and its long-polling update pipeline.
func Initialize(ctx context.Context, cfg *config.Config) (*Service, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultDebugLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Info("authorized on account", "username", botUser.Username)

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	service := &Service{
		Bot:     bot,
		Handler: bh,
		cfg:     cfg,
		api:     NewAPIClient(cfg),
	}
	service.registerHandlers()
	return service, nil
}

// Start runs the handler loop; blocks until Stop.
func (s *Service) Start() {
	s.Handler.Start()
}

// Stop stops the handler loop.
func (s *Service) Stop() {
	s.Handler.Stop()
}
