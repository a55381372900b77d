package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
)

// Sender is the minimal interface the notifier needs to send a text message.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Fetcher fetches today's times for a city. aladhan.Client implements it.
type Fetcher interface {
	FetchToday(ctx context.Context, ct city.City) (*domain.DailyTimes, error)
}

// Subscribers is the slice of the store the fan-out needs.
type Subscribers interface {
	GroupByCity(ctx context.Context) (map[string][]int64, error)
	Unsubscribe(ctx context.Context, chatID int64) error
}

// Notifier runs the twice-daily notification fan-out.
type Notifier struct {
	subs       Subscribers
	fetcher    Fetcher
	sender     Sender
	log        *zap.Logger
	metrics    *metrics.Collector
	limiter    *rate.Limiter
	hijriMonth int
}

// NewNotifier builds a Notifier. The limiter keeps the fan-out under
// Telegram's global send rate.
func NewNotifier(subs Subscribers, fetcher Fetcher, sender Sender, hijriMonth int, m *metrics.Collector, log *zap.Logger) *Notifier {
	return &Notifier{
		subs:       subs,
		fetcher:    fetcher,
		sender:     sender,
		log:        log,
		metrics:    m,
		limiter:    rate.NewLimiter(rate.Limit(25), 5),
		hijriMonth: hijriMonth,
	}
}

// MorningFiring sends the suhoor reminder to every subscriber.
func (n *Notifier) MorningFiring(ctx context.Context) {
	n.fire(ctx, "morning", morningText)
}

// EveningFiring sends the iftar reminder to every subscriber.
func (n *Notifier) EveningFiring(ctx context.Context) {
	n.fire(ctx, "evening", eveningText)
}

// fire snapshots the subscriber groups, fetches each city's times once, and
// fans the rendered message out. A fetch failure or a day outside Ramadan
// skips the whole city; the next firing is the retry boundary. A rejected
// send unsubscribes the recipient for good: Telegram refuses a chat when the
// user blocked or deleted the bot, and retrying daily would only pile up
// dead rows.
func (n *Notifier) fire(ctx context.Context, slot string, render func(*domain.DailyTimes) string) {
	groups, err := n.subs.GroupByCity(ctx)
	if err != nil {
		n.log.Error("group subscribers failed", zap.String("slot", slot), zap.Error(err))
		return
	}

	var sent, dropped int
	for cityKey, chatIDs := range groups {
		ct := city.Resolve(cityKey)

		times, err := n.fetcher.FetchToday(ctx, ct)
		if err != nil {
			n.metrics.RecordFetchFailure()
			n.log.Warn("fetch today failed, skipping city",
				zap.String("slot", slot), zap.String("city", ct.Key), zap.Error(err))
			continue
		}
		if times.HijriMonth != n.hijriMonth {
			n.log.Debug("outside observance month, skipping city",
				zap.String("city", ct.Key), zap.Int("hijri_month", times.HijriMonth))
			continue
		}

		text := render(times)
		for _, chatID := range chatIDs {
			if err := n.limiter.Wait(ctx); err != nil {
				return
			}
			if err := n.sender.SendMessage(chatID, text); err != nil {
				n.metrics.RecordDeliveryFailure()
				n.metrics.RecordUnsubscribe()
				dropped++
				n.log.Info("delivery failed, unsubscribing",
					zap.Int64("chat_id", chatID), zap.Error(err))
				if err := n.subs.Unsubscribe(ctx, chatID); err != nil {
					n.log.Error("unsubscribe failed", zap.Int64("chat_id", chatID), zap.Error(err))
				}
				continue
			}
			n.metrics.RecordNotificationSent(slot)
			sent++
		}
	}

	n.log.Info("firing done",
		zap.String("slot", slot), zap.Int("sent", sent), zap.Int("dropped", dropped))
}

func morningText(t *domain.DailyTimes) string {
	return fmt.Sprintf(
		"Доброе утро! День %d Рамадана\n\n"+
			"Саһарлық (имсак): %s\n"+
			"Фаджр: %s\n\n"+
			"Ифтар сегодня в %s\n\n"+
			"Хорошего дня и лёгкого поста!",
		t.HijriDay, t.Imsak, t.Fajr, t.Maghrib,
	)
}

func eveningText(t *domain.DailyTimes) string {
	return fmt.Sprintf(
		"Скоро ифтар! День %d Рамадана\n\n"+
			"Ауызашар (магриб): %s\n"+
			"Иша: %s\n\n"+
			"Приятного ифтара!",
		t.HijriDay, t.Maghrib, t.Isha,
	)
}
