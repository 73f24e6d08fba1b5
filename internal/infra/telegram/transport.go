package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"filmbot/internal/bot"
	"filmbot/internal/usecase/listing"
)

const (
	prevButtonLabel = "◀️ Назад"
	nextButtonLabel = "Вперёд ▶️"
)

var _ bot.Transport = (*Transport)(nil)

// Config controls the Telegram connection.
type Config struct {
	Token       string
	PollTimeout time.Duration
	Debug       bool
}

// Handler consumes inbound chat events. Each event is dispatched in its own
// goroutine, so implementations must be re-entrant.
type Handler interface {
	HandleMessage(ctx context.Context, msg bot.Message)
	HandleCallback(ctx context.Context, cb bot.Callback)
}

// Transport implements the router's outbound surface over the Telegram Bot
// API and runs the long-polling update loop.
type Transport struct {
	api         *tgbotapi.BotAPI
	pollTimeout time.Duration
	logger      *slog.Logger
}

// New authorizes the bot against Telegram.
func New(cfg Config, logger *slog.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	logger.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Transport{
		api:         api,
		pollTimeout: pollTimeout,
		logger:      logger,
	}, nil
}

// Run polls for updates until ctx is canceled. Each update is handled
// concurrently; per-chat ordering is what Telegram's update stream gives us.
func (t *Transport) Run(ctx context.Context, handler Handler) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(t.pollTimeout.Seconds())
	updates := t.api.GetUpdatesChan(cfg)

	t.logger.Info("listening for telegram updates", "poll_timeout", t.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			t.logger.Info("telegram update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.dispatch(ctx, handler, update)
		}
	}
}

func (t *Transport) dispatch(ctx context.Context, handler Handler, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		handler.HandleMessage(ctx, bot.Message{
			UserID: update.Message.From.ID,
			ChatID: update.Message.Chat.ID,
			Text:   update.Message.Text,
		})
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		// Stop the client-side spinner regardless of what happens next.
		if _, err := t.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			t.logger.Debug("failed to answer callback query", "error", err)
		}
		if cq.From == nil || cq.Message == nil {
			return
		}
		handler.HandleCallback(ctx, bot.Callback{
			UserID:    cq.From.ID,
			ChatID:    cq.Message.Chat.ID,
			MessageID: cq.Message.MessageID,
			Data:      cq.Data,
		})
	}
}

// SendText delivers a plain HTML-formatted message.
func (t *Transport) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.api.Send(msg)
	return err
}

// SendMenu delivers a message with the persistent command keyboard.
func (t *Transport) SendMenu(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = menuKeyboard()
	_, err := t.api.Send(msg)
	return err
}

// SendPage delivers a rendered list page with its navigation buttons.
func (t *Transport) SendPage(ctx context.Context, chatID int64, page listing.Page) error {
	msg := tgbotapi.NewMessage(chatID, page.Text)
	if keyboard, ok := pageKeyboard(page); ok {
		msg.ReplyMarkup = keyboard
	}
	_, err := t.api.Send(msg)
	return err
}

// SendFilm delivers the film reply: a poster photo with caption when a
// poster URL is known, plain text otherwise.
func (t *Transport) SendFilm(ctx context.Context, chatID int64, caption, posterURL string) error {
	if posterURL == "" {
		return t.SendText(ctx, chatID, caption)
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(posterURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	_, err := t.api.Send(photo)
	return err
}

// DeleteMessage removes a previously sent message. Callers treat failure as
// best-effort.
func (t *Transport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/history"),
			tgbotapi.NewKeyboardButton("/stats"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/help"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// pageKeyboard builds the prev/next row for a page; ok is false when the
// page carries no navigation at all.
func pageKeyboard(page listing.Page) (tgbotapi.InlineKeyboardMarkup, bool) {
	var buttons []tgbotapi.InlineKeyboardButton
	if page.HasPrev {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			prevButtonLabel, bot.NavPayload(page.Source, page.PrevPage())))
	}
	if page.HasNext {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			nextButtonLabel, bot.NavPayload(page.Source, page.NextPage())))
	}
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(buttons), true
}
