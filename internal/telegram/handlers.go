package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/store"
)

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	// CityOf keeps the city of a returning user who unsubscribed and came back.
	cityKey, err := r.repo.CityOf(ctx, chatID)
	if err != nil {
		r.log.Error("city lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}
	if err := r.repo.Subscribe(ctx, chatID, cityKey); err != nil {
		r.log.Error("subscribe failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.log.Info("subscribed", zap.Int64("chat_id", chatID), zap.String("city", cityKey))
	r.sendText(chatID, welcomeText)
}

func (r *Router) handleStop(ctx context.Context, chatID int64) {
	if err := r.repo.Unsubscribe(ctx, chatID); err != nil {
		r.log.Error("unsubscribe failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.metrics.RecordUnsubscribe()
	r.log.Info("unsubscribed", zap.Int64("chat_id", chatID))
	r.sendText(chatID, "Уведомления отключены.\nЧтобы включить снова — /start")
}

func (r *Router) handleToday(ctx context.Context, chatID int64) {
	ct, err := r.userCity(ctx, chatID)
	if err != nil {
		r.sendText(chatID, tryLaterText)
		return
	}
	times, err := r.times.FetchToday(ctx, ct)
	if err != nil {
		r.metrics.RecordFetchFailure()
		r.log.Warn("fetch today failed", zap.String("city", ct.Key), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}
	r.sendText(chatID, todayText(times, r.hijriMonth))
}

func (r *Router) handleSchedule(ctx context.Context, chatID int64) {
	ct, err := r.userCity(ctx, chatID)
	if err != nil {
		r.sendText(chatID, tryLaterText)
		return
	}
	days, err := r.times.FetchMonth(ctx, ct, r.hijriYear, r.hijriMonth)
	if err != nil {
		r.metrics.RecordFetchFailure()
		r.log.Warn("fetch month failed", zap.String("city", ct.Key), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}

	today := timeNowIn(r.loc)
	entries := make([]string, 0, len(days))
	for _, day := range days {
		entries = append(entries, scheduleEntry(day, today))
	}
	for _, chunk := range domain.Chunk(scheduleHeader(ct), entries, domain.ChunkLimit) {
		r.sendText(chatID, chunk)
	}
}

func (r *Router) handleConnect(ctx context.Context, chatID int64) {
	if !r.gcal.Enabled() {
		r.sendText(chatID, "Google Calendar пока не настроен.")
		return
	}
	cityKey, err := r.repo.CityOf(ctx, chatID)
	if err != nil {
		r.log.Error("city lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, tryLaterText)
		return
	}

	authURL := r.gcal.AuthURL(domain.LinkState{ChatID: chatID, CityKey: cityKey})
	msg := tgbotapi.NewMessage(chatID,
		"Нажмите кнопку ниже — откроется страница Google.\n"+
			"Разрешите доступ к календарю.\n\n"+
			"После этого все события Рамадана автоматически\n"+
			"добавятся в ваш Google Calendar с напоминаниями!")
	msg.ReplyMarkup = connectKeyboard(authURL)
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleCity(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Выберите ваш город:")
	msg.ReplyMarkup = cityKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleCityCallback(ctx context.Context, chatID int64, key, cbID string) {
	if !city.Known(key) {
		_ = r.answerCallback(cbID, "Неизвестный город")
		return
	}

	err := r.repo.SetCity(ctx, chatID, key)
	if errors.Is(err, store.ErrNotSubscribed) {
		// Picking a city also subscribes first-time users.
		err = r.repo.Subscribe(ctx, chatID, key)
	}
	if err != nil {
		r.log.Error("set city failed", zap.Int64("chat_id", chatID), zap.Error(err))
		_ = r.answerCallback(cbID, "")
		r.sendText(chatID, tryLaterText)
		return
	}

	ct := city.Resolve(key)
	r.log.Info("city changed", zap.Int64("chat_id", chatID), zap.String("city", ct.Key))
	_ = r.answerCallback(cbID, "")
	r.sendText(chatID, "Город обновлён: "+ct.Name)
}

func (r *Router) userCity(ctx context.Context, chatID int64) (city.City, error) {
	cityKey, err := r.repo.CityOf(ctx, chatID)
	if err != nil {
		r.log.Error("city lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return city.City{}, err
	}
	return city.Resolve(cityKey), nil
}
