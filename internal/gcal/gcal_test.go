package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nariman739/ramadan-bot/internal/domain"
)

func TestEnabled(t *testing.T) {
	assert.False(t, New("", "", "http://cb").Enabled())
	assert.True(t, New("cid", "secret", "http://cb").Enabled())
}

func TestAuthURLCarriesState(t *testing.T) {
	s := New("cid", "secret", "http://localhost:8080/callback")
	raw := s.AuthURL(domain.LinkState{ChatID: 42, CityKey: "shymkent"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "42:shymkent", q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "calendar.events")
}

func TestInsertEvent(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"evt1"}`))
	}))
	defer srv.Close()

	s := New("cid", "secret", "http://cb")
	s.EventsBase = srv.URL

	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)
	link := &domain.CalendarLink{ChatID: 1, AccessToken: "tok-123"}

	err = s.InsertEvent(context.Background(), link, Event{
		Summary:         "Сухур (саһарлық) — день 1",
		Description:     "Имсак: 05:12",
		Start:           time.Date(2026, time.February, 18, 5, 12, 0, 0, loc),
		Duration:        5 * time.Minute,
		TimeZone:        "Asia/Almaty",
		ReminderMinutes: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "/calendars/primary/events", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	start := gotBody["start"].(map[string]any)
	assert.Equal(t, "Asia/Almaty", start["timeZone"])
	assert.Contains(t, start["dateTime"], "2026-02-18T05:12:00")

	end := gotBody["end"].(map[string]any)
	assert.Contains(t, end["dateTime"], "2026-02-18T05:17:00")

	reminders := gotBody["reminders"].(map[string]any)
	assert.Equal(t, false, reminders["useDefault"])
	overrides := reminders["overrides"].([]any)
	require.Len(t, overrides, 1)
	first := overrides[0].(map[string]any)
	assert.Equal(t, "popup", first["method"])
	assert.Equal(t, float64(30), first["minutes"])
}

func TestInsertEventNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New("cid", "secret", "http://cb")
	s.EventsBase = srv.URL

	err := s.InsertEvent(context.Background(),
		&domain.CalendarLink{AccessToken: "tok"},
		Event{Start: time.Now(), Duration: time.Minute, TimeZone: "UTC"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
