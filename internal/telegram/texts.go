package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Nariman739/ramadan-bot/internal/city"
	"github.com/Nariman739/ramadan-bot/internal/domain"
)

const (
	welcomeText = "Ассаламу алейкум!\n" +
		"Я — бот расписания Рамадана для Казахстана.\n\n" +
		"Вы подписаны на ежедневные уведомления!\n\n" +
		"Команды:\n" +
		"/today — время на сегодня\n" +
		"/schedule — расписание всего Рамадана\n" +
		"/city — выбрать город\n" +
		"/connect — подключить Google Calendar\n" +
		"/stop — отключить уведомления\n\n" +
		"Рамадан мубарак!"

	tryLaterText = "Не удалось получить данные. Попробуйте позже."
)

var weekdaysRu = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var monthsRu = [13]string{"", "янв", "фев", "мар", "апр", "май", "июн",
	"июл", "авг", "сен", "окт", "ноя", "дек"}

// timeNowIn exists so tests can pin "today" for the schedule marker.
var timeNowIn = func(loc *time.Location) time.Time { return time.Now().In(loc) }

func todayText(t *domain.DailyTimes, observanceMonth int) string {
	isRamadan := t.HijriMonth == observanceMonth
	dayInfo := ""
	if isRamadan {
		dayInfo = fmt.Sprintf(" (день %d Рамадана)", t.HijriDay)
	}

	text := fmt.Sprintf(
		"%s%s — %s\n\n"+
			"Саһарлық (Имсак): %s\n"+
			"Фаджр: %s\n"+
			"Восход: %s\n"+
			"Зухр: %s\n"+
			"Аср: %s\n"+
			"Ауызашар (Магриб): %s\n"+
			"Иша: %s",
		t.Date.Format("02.01.2006"), dayInfo, t.CityName,
		t.Imsak, t.Fajr, t.Sunrise, t.Dhuhr, t.Asr, t.Maghrib, t.Isha,
	)
	if isRamadan {
		text += fmt.Sprintf(
			"\n\n━━━━━━━━━━━━━━━━\n"+
				"Прекращение еды: %s\n"+
				"Разговение: %s",
			t.Imsak, t.Maghrib,
		)
	}
	return text
}

func scheduleHeader(ct city.City) string {
	return "РАСПИСАНИЕ РАМАДАНА\nг. " + ct.Name + "\n"
}

func scheduleEntry(day domain.ScheduleDay, today time.Time) string {
	marker := ""
	if sameDate(day.Date, today) {
		marker = " <<< сегодня"
	}
	return fmt.Sprintf(
		"\nДень %d | %s, %d %s\n  Сухур:  %s  |  Ифтар: %s%s\n",
		day.HijriDay,
		weekdaysRu[day.Date.Weekday()],
		day.Date.Day(),
		monthsRu[day.Date.Month()],
		day.Imsak, day.Maghrib, marker,
	)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func cityKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	row := []tgbotapi.InlineKeyboardButton{}
	for _, c := range city.All() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Name, "city:"+c.Key))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func connectKeyboard(authURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Подключить Google Calendar", authURL),
		),
	)
}
