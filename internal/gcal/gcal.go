// Package gcal links users' Google Calendars: the OAuth 2.0 authorization
// code flow plus the events.insert REST call.
package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/Nariman739/ramadan-bot/internal/domain"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	defaultEventsBase = "https://www.googleapis.com/calendar/v3"

	scopeCalendarEvents = "https://www.googleapis.com/auth/calendar.events"
)

// Service wraps the OAuth config and the Calendar API endpoint.
type Service struct {
	cfg *oauth2.Config

	// EventsBase is overridable in tests.
	EventsBase string
}

// New builds a Service. An empty clientID produces a disabled service:
// AuthURL and Exchange must not be called (Enabled reports this).
func New(clientID, clientSecret, callbackURL string) *Service {
	return &Service{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{scopeCalendarEvents},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
		EventsBase: defaultEventsBase,
	}
}

// Enabled reports whether Google credentials are configured.
func (s *Service) Enabled() bool {
	return s.cfg.ClientID != ""
}

// AuthURL returns the consent page URL. The state token carries the chat id
// and the city selected at click time, so the callback can finish the flow
// without guessing what the user's city has become since.
func (s *Service) AuthURL(state domain.LinkState) string {
	return s.cfg.AuthCodeURL(state.Encode(),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the authorization code for a token and packs it into a
// CalendarLink for storage.
func (s *Service) Exchange(ctx context.Context, chatID int64, code string) (*domain.CalendarLink, error) {
	tok, err := s.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return &domain.CalendarLink{
		ChatID:       chatID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     googleTokenURL,
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
	}, nil
}

// client returns an http.Client that bears (and auto-refreshes) the link's token.
func (s *Service) client(ctx context.Context, link *domain.CalendarLink) *http.Client {
	tok := &oauth2.Token{
		AccessToken:  link.AccessToken,
		RefreshToken: link.RefreshToken,
	}
	return s.cfg.Client(ctx, tok)
}

// Event is one calendar event to insert.
type Event struct {
	Summary         string
	Description     string
	Start           time.Time
	Duration        time.Duration
	TimeZone        string
	ReminderMinutes int
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventBody struct {
	Summary     string    `json:"summary"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	Description string    `json:"description"`
	Reminders   struct {
		UseDefault bool `json:"useDefault"`
		Overrides  []struct {
			Method  string `json:"method"`
			Minutes int    `json:"minutes"`
		} `json:"overrides"`
	} `json:"reminders"`
}

// InsertEvent creates one event in the user's primary calendar.
func (s *Service) InsertEvent(ctx context.Context, link *domain.CalendarLink, ev Event) error {
	body := eventBody{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       eventTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: ev.TimeZone},
		End:         eventTime{DateTime: ev.Start.Add(ev.Duration).Format(time.RFC3339), TimeZone: ev.TimeZone},
	}
	body.Reminders.UseDefault = false
	body.Reminders.Overrides = append(body.Reminders.Overrides, struct {
		Method  string `json:"method"`
		Minutes int    `json:"minutes"`
	}{Method: "popup", Minutes: ev.ReminderMinutes})

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.EventsBase+"/calendars/primary/events", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client(ctx, link).Do(req)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("insert event: status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
