package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/gcal"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
	"github.com/Nariman739/ramadan-bot/internal/store"
)

// Timetable is the slice of the aladhan client the handlers use.
type Timetable interface {
	FetchToday(ctx context.Context, ct city.City) (*domain.DailyTimes, error)
	FetchMonth(ctx context.Context, ct city.City, hijriYear, hijriMonth int) ([]domain.ScheduleDay, error)
}

// Router wires Telegram updates to handlers.
type Router struct {
	bot     *tgbotapi.BotAPI
	log     *zap.Logger
	repo    store.Repo
	times   Timetable
	gcal    *gcal.Service
	metrics *metrics.Collector

	loc        *time.Location
	hijriYear  int
	hijriMonth int
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, repo store.Repo, times Timetable, g *gcal.Service,
	loc *time.Location, hijriYear, hijriMonth int, m *metrics.Collector, log *zap.Logger) *Router {
	return &Router{
		bot:        bot,
		log:        log,
		repo:       repo,
		times:      times,
		gcal:       g,
		metrics:    m,
		loc:        loc,
		hijriYear:  hijriYear,
		hijriMonth: hijriMonth,
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		chatID := upd.Message.Chat.ID
		text := strings.TrimSpace(upd.Message.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID)
		case strings.HasPrefix(text, "/stop"):
			r.handleStop(ctx, chatID)
		case strings.HasPrefix(text, "/today"):
			r.handleToday(ctx, chatID)
		case strings.HasPrefix(text, "/schedule"):
			r.handleSchedule(ctx, chatID)
		case strings.HasPrefix(text, "/connect"):
			r.handleConnect(ctx, chatID)
		case strings.HasPrefix(text, "/city"):
			r.handleCity(ctx, chatID)
		case strings.HasPrefix(text, "/help"):
			r.sendText(chatID, welcomeText)
		default:
			// Free-form text: nothing expects it, ignore.
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(cb.Data, "city:"):
			r.handleCityCallback(ctx, chatID, strings.TrimPrefix(cb.Data, "city:"), cb.ID)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// SendMessage sends a plain text message to the given chat. This makes
// Router satisfy scheduler.Sender and seeder.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}
