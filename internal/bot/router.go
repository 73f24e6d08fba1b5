package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"filmbot/internal/usecase/listing"
	"filmbot/internal/usecase/search"
)

const (
	msgStart       = "Просто отправь название фильма, и я найду его на Кинопоиске!"
	msgHelp        = "/start — начать\n/help — помощь\n/history — история\n/stats — статистика"
	msgNotFound    = "Фильм не найден 😕"
	msgFailure     = "Произошла ошибка, попробуйте позже 😔"
	msgRateLimited = "Слишком много запросов. Подожди немного 🙏"
)

// Message is an inbound plain-text chat message.
type Message struct {
	UserID int64
	ChatID int64
	Text   string
}

// Callback is an inbound page-navigation action. MessageID identifies the
// previously rendered page message, which gets replaced.
type Callback struct {
	UserID    int64
	ChatID    int64
	MessageID int
	Data      string
}

// Transport is the narrow outbound surface the router needs from the chat
// layer. Delivery is best-effort; failures are logged, never retried.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string) error
	SendPage(ctx context.Context, chatID int64, page listing.Page) error
	SendFilm(ctx context.Context, chatID int64, caption, posterURL string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Searcher resolves a free-text query and records it.
type Searcher interface {
	Search(ctx context.Context, userID int64, query string) (search.Result, error)
}

// Lister renders paginated history and stats views.
type Lister interface {
	HistoryPage(ctx context.Context, userID int64, page int) (listing.Page, error)
	StatsPage(ctx context.Context, userID int64, page int) (listing.Page, error)
}

// RateLimiter bounds how often a user may trigger provider searches.
type RateLimiter interface {
	Allow(ctx context.Context, userID int64) (bool, error)
}

// Metrics counts router outcomes. All methods must accept a nil receiver
// being absent; the router checks before calling.
type Metrics interface {
	RecordSearch(outcome string)
	RecordPage(source string)
}

// Router maps each inbound event to exactly one action: help, a list page,
// a navigation, or a free-text search. It holds no per-conversation state.
type Router struct {
	transport Transport
	searcher  Searcher
	lister    Lister
	limiter   RateLimiter
	metrics   Metrics
	logger    *slog.Logger
}

// NewRouter builds a router. limiter and metrics may be nil.
func NewRouter(transport Transport, searcher Searcher, lister Lister, limiter RateLimiter, metrics Metrics, logger *slog.Logger) *Router {
	return &Router{
		transport: transport,
		searcher:  searcher,
		lister:    lister,
		limiter:   limiter,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleMessage dispatches one inbound text message. Fixed commands take
// precedence; anything else is a free-text search.
func (r *Router) HandleMessage(ctx context.Context, msg Message) {
	log := r.eventLogger(msg.UserID)
	text := strings.TrimSpace(msg.Text)

	switch text {
	case "/start":
		r.send(ctx, log, msg.ChatID, func() error {
			return r.transport.SendMenu(ctx, msg.ChatID, msgStart)
		})
	case "/help":
		r.send(ctx, log, msg.ChatID, func() error {
			return r.transport.SendText(ctx, msg.ChatID, msgHelp)
		})
	case "/history":
		r.sendPage(ctx, log, msg.UserID, msg.ChatID, listing.SourceHistory, 0)
	case "/stats":
		r.sendPage(ctx, log, msg.UserID, msg.ChatID, listing.SourceStats, 0)
	default:
		r.handleSearch(ctx, log, msg.UserID, msg.ChatID, text)
	}
}

// HandleCallback dispatches one navigation action: the old page message is
// deleted best-effort, then the target page is rendered.
func (r *Router) HandleCallback(ctx context.Context, cb Callback) {
	log := r.eventLogger(cb.UserID)

	source, page, err := ParseNavPayload(cb.Data)
	if err != nil {
		log.Warn("ignoring malformed callback payload", "data", cb.Data, "error", err)
		return
	}

	if err := r.transport.DeleteMessage(ctx, cb.ChatID, cb.MessageID); err != nil {
		log.Debug("failed to delete page message", "message_id", cb.MessageID, "error", err)
	}

	r.sendPage(ctx, log, cb.UserID, cb.ChatID, source, page)
}

func (r *Router) handleSearch(ctx context.Context, log *slog.Logger, userID, chatID int64, query string) {
	if query == "" {
		r.recordSearch("not_found")
		r.send(ctx, log, chatID, func() error {
			return r.transport.SendText(ctx, chatID, msgNotFound)
		})
		return
	}

	if r.limiter != nil {
		allowed, err := r.limiter.Allow(ctx, userID)
		if err != nil {
			// Fail open: a limiter outage must not take the bot down.
			log.Warn("rate limiter unavailable", "error", err)
		} else if !allowed {
			r.recordSearch("rate_limited")
			r.send(ctx, log, chatID, func() error {
				return r.transport.SendText(ctx, chatID, msgRateLimited)
			})
			return
		}
	}

	result, err := r.searcher.Search(ctx, userID, query)
	if err != nil {
		log.Error("search failed", "query", query, "error", err)
		r.recordSearch("error")
		r.send(ctx, log, chatID, func() error {
			return r.transport.SendText(ctx, chatID, msgFailure)
		})
		return
	}
	if !result.Found {
		r.recordSearch("not_found")
		r.send(ctx, log, chatID, func() error {
			return r.transport.SendText(ctx, chatID, msgNotFound)
		})
		return
	}

	r.recordSearch("found")
	caption := filmCaption(result)
	r.send(ctx, log, chatID, func() error {
		return r.transport.SendFilm(ctx, chatID, caption, result.Film.PosterURL)
	})
}

func (r *Router) sendPage(ctx context.Context, log *slog.Logger, userID, chatID int64, source listing.Source, page int) {
	var (
		rendered listing.Page
		err      error
	)
	switch source {
	case listing.SourceStats:
		rendered, err = r.lister.StatsPage(ctx, userID, page)
	default:
		rendered, err = r.lister.HistoryPage(ctx, userID, page)
	}
	if err != nil {
		log.Error("failed to render page", "source", source, "page", page, "error", err)
		r.send(ctx, log, chatID, func() error {
			return r.transport.SendText(ctx, chatID, msgFailure)
		})
		return
	}

	if r.metrics != nil {
		r.metrics.RecordPage(string(source))
	}
	r.send(ctx, log, chatID, func() error {
		return r.transport.SendPage(ctx, chatID, rendered)
	})
}

func (r *Router) send(ctx context.Context, log *slog.Logger, chatID int64, fn func() error) {
	if err := fn(); err != nil {
		log.Warn("failed to deliver message", "chat_id", chatID, "error", err)
	}
}

func (r *Router) recordSearch(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordSearch(outcome)
	}
}

func (r *Router) eventLogger(userID int64) *slog.Logger {
	log := r.logger
	if log == nil {
		log = slog.Default()
	}
	return log.With("event_id", uuid.NewString(), "user_id", userID)
}

// filmCaption renders the HTML reply for a found film.
func filmCaption(result search.Result) string {
	return fmt.Sprintf("🎬 <b>%s</b> (%s)\n📝 %s\n👉 %s",
		html.EscapeString(result.Film.Title),
		html.EscapeString(result.Film.Year),
		html.EscapeString(result.Description),
		result.Film.Link(),
	)
}

// NavPayload encodes a navigation action as callback data.
func NavPayload(source listing.Source, page int) string {
	return fmt.Sprintf("%s:%d", source, page)
}

// ParseNavPayload decodes callback data produced by NavPayload.
func ParseNavPayload(data string) (listing.Source, int, error) {
	raw, pageStr, ok := strings.Cut(data, ":")
	if !ok {
		return "", 0, fmt.Errorf("missing separator in %q", data)
	}
	var source listing.Source
	switch raw {
	case string(listing.SourceHistory):
		source = listing.SourceHistory
	case string(listing.SourceStats):
		source = listing.SourceStats
	default:
		return "", 0, fmt.Errorf("unknown source %q", raw)
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid page in %q: %w", data, err)
	}
	if page < 0 {
		page = 0
	}
	return source, page, nil
}
