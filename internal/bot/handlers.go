package bot

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"fmk-dating/internal/auth"
	"fmk-dating/internal/logger"
)

func (s *Service) registerHandlers() {
	s.Handler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		switch {
		case strings.HasPrefix(message.Text, "/start"):
			return s.handleStart(ctx, message)
		case len(message.Photo) > 0:
			return s.handlePhoto(ctx, message)
		case message.Voice != nil:
			return s.handleVoice(ctx, message)
		}
		return nil
	})
}

func (s *Service) handleStart(ctx *th.Context, message telego.Message) error {
	_, err := s.Bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   "💘 Добро пожаловать в FMK Dating!",
		ReplyMarkup: &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{{
				{
					Text:   "🚀 Открыть приложение",
					WebApp: &telego.WebAppInfo{URL: s.cfg.Bot.WebAppURL},
				},
			}},
		},
	})
	return err
}

// handlePhoto resolves the uploaded photo to a fetchable URL and relays it
// to the profile-update endpoint.
func (s *Service) handlePhoto(ctx *th.Context, message telego.Message) error {
	if message.From == nil {
		return nil
	}

	// Sizes are ordered smallest first; take the largest rendition.
	largest := message.Photo[len(message.Photo)-1]

	file, err := s.Bot.GetFile(ctx.Context(), &telego.GetFileParams{FileID: largest.FileID})
	if err != nil {
		logger.Error("photo file lookup failed", "user", message.From.ID, "err", err)
		return s.reply(ctx, message.Chat.ID, "❌ Ошибка при добавлении фото")
	}
	photoURL := s.Bot.FileDownloadURL(file.FilePath)

	caller := &auth.TelegramUser{
		ID:        message.From.ID,
		FirstName: message.From.FirstName,
		Username:  message.From.Username,
	}
	if err := s.api.AddPhoto(ctx.Context(), caller, photoURL); err != nil {
		logger.Error("photo relay failed", "user", message.From.ID, "err", err)
		return s.reply(ctx, message.Chat.ID, "❌ Ошибка при добавлении фото")
	}

	return s.reply(ctx, message.Chat.ID, "✅ Фото добавлено в профиль!")
}

// handleVoice enforces the voice payload cap and acknowledges the upload.
func (s *Service) handleVoice(ctx *th.Context, message telego.Message) error {
	voice := message.Voice
	if int64(voice.FileSize) > s.cfg.Bot.MaxVoiceBytes {
		return s.reply(ctx, message.Chat.ID, "❌ Файл слишком большой (макс. 10 МБ)")
	}

	if _, err := s.Bot.GetFile(ctx.Context(), &telego.GetFileParams{FileID: voice.FileID}); err != nil {
		logger.Error("voice file lookup failed", "err", err)
		return nil
	}
	return s.reply(ctx, message.Chat.ID, "✅ Аудио обработано!")
}

func (s *Service) reply(ctx *th.Context, chatID int64, text string) error {
	_, err := s.Bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}
