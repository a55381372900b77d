// Package seeder fills a user's Google Calendar with the remaining Ramadan
// days after a successful /connect handshake.
package seeder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/gcal"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
)

// Exchanger completes the code-for-token exchange. gcal.Service implements it.
type Exchanger interface {
	Exchange(ctx context.Context, chatID int64, code string) (*domain.CalendarLink, error)
}

// Inserter creates one calendar event. gcal.Service implements it.
type Inserter interface {
	InsertEvent(ctx context.Context, link *domain.CalendarLink, ev gcal.Event) error
}

// Links is the slice of the store the seeder writes to.
type Links interface {
	SaveLink(ctx context.Context, link *domain.CalendarLink) error
}

// MonthFetcher fetches a city's full hijri month. aladhan.Client implements it.
type MonthFetcher interface {
	FetchMonth(ctx context.Context, ct city.City, hijriYear, hijriMonth int) ([]domain.ScheduleDay, error)
}

// Sender delivers the terminal notification. telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Seeder runs the post-authorization workflow: store credentials, fetch the
// month, bulk-insert two events per day, tell the user how it went.
type Seeder struct {
	exchanger Exchanger
	links     Links
	fetcher   MonthFetcher
	calendar  Inserter
	sender    Sender
	log       *zap.Logger
	metrics   *metrics.Collector

	loc        *time.Location
	tzName     string
	hijriYear  int
	hijriMonth int

	// Now is the clock for the remaining-days cutoff; tests override it.
	Now func() time.Time
}

// New builds a Seeder.
func New(exchanger Exchanger, links Links, fetcher MonthFetcher, calendar Inserter, sender Sender,
	loc *time.Location, hijriYear, hijriMonth int, m *metrics.Collector, log *zap.Logger) *Seeder {
	return &Seeder{
		exchanger:  exchanger,
		links:      links,
		fetcher:    fetcher,
		calendar:   calendar,
		sender:     sender,
		log:        log,
		metrics:    m,
		loc:        loc,
		tzName:     loc.String(),
		hijriYear:  hijriYear,
		hijriMonth: hijriMonth,
		Now:        time.Now,
	}
}

// Complete finishes the handshake for the user carried in st. Whatever
// happens, the user gets exactly one terminal Telegram message; the returned
// error only tells the HTTP handler which browser page to render.
func (s *Seeder) Complete(ctx context.Context, st domain.LinkState, code string) error {
	err := s.run(ctx, st, code)
	if err != nil {
		s.log.Error("calendar seeding failed",
			zap.Int64("chat_id", st.ChatID), zap.String("city", st.CityKey), zap.Error(err))
		_ = s.sender.SendMessage(st.ChatID,
			"Произошла ошибка при подключении календаря. Попробуйте /connect ещё раз.")
	}
	return err
}

func (s *Seeder) run(ctx context.Context, st domain.LinkState, code string) error {
	link, err := s.exchanger.Exchange(ctx, st.ChatID, code)
	if err != nil {
		return fmt.Errorf("authorization: %w", err)
	}
	if err := s.links.SaveLink(ctx, link); err != nil {
		return fmt.Errorf("save link: %w", err)
	}

	ct := city.Resolve(st.CityKey)
	days, err := s.fetcher.FetchMonth(ctx, ct, s.hijriYear, s.hijriMonth)
	if err != nil {
		return fmt.Errorf("fetch month: %w", err)
	}

	target := domain.Remaining(days, s.Now().In(s.loc))

	inserted := 0
	for _, day := range target {
		for _, ev := range s.dayEvents(day) {
			if err := s.calendar.InsertEvent(ctx, link, ev); err != nil {
				// Best effort: count and move on, no rollback.
				s.metrics.RecordEventInsertFailure()
				s.log.Warn("event insert failed",
					zap.Int64("chat_id", st.ChatID), zap.Int("hijri_day", day.HijriDay), zap.Error(err))
				continue
			}
			s.metrics.RecordEventInserted()
			inserted++
		}
	}

	s.log.Info("calendar seeded",
		zap.Int64("chat_id", st.ChatID), zap.String("city", ct.Key),
		zap.Int("days", len(target)), zap.Int("inserted", inserted))

	_ = s.sender.SendMessage(st.ChatID, fmt.Sprintf(
		"Google Calendar подключен!\n\n"+
			"Добавлено %d событий для города %s:\n"+
			"- Сухур с напоминанием за 30 мин\n"+
			"- Ифтар с напоминанием за 15 мин\n\n"+
			"Откройте Google Calendar — всё уже там!",
		inserted, ct.Name,
	))
	return nil
}

// dayEvents builds the two events for one schedule day. A day whose clock
// values fail to parse yields no events; the bulk insert just skips it.
func (s *Seeder) dayEvents(day domain.ScheduleDay) []gcal.Event {
	var events []gcal.Event

	if start, err := domain.ClockOnDate(day.Date, day.Imsak); err == nil {
		events = append(events, gcal.Event{
			Summary: fmt.Sprintf("Сухур (саһарлық) — день %d", day.HijriDay),
			Description: fmt.Sprintf("Имсак: %s\nФаджр: %s\nДень %d Рамадана",
				day.Imsak, day.Fajr, day.HijriDay),
			Start:           start,
			Duration:        5 * time.Minute,
			TimeZone:        s.tzName,
			ReminderMinutes: 30,
		})
	}
	if start, err := domain.ClockOnDate(day.Date, day.Maghrib); err == nil {
		events = append(events, gcal.Event{
			Summary: fmt.Sprintf("Ифтар (ауызашар) — день %d", day.HijriDay),
			Description: fmt.Sprintf("Магриб: %s\nИша: %s\nДень %d Рамадана",
				day.Maghrib, day.Isha, day.HijriDay),
			Start:           start,
			Duration:        30 * time.Minute,
			TimeZone:        s.tzName,
			ReminderMinutes: 15,
		})
	}
	return events
}
