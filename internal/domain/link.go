package domain

// CalendarLink is a user's stored Google Calendar authorization. The core
// never interprets the tokens; they are handed back to the calendar client
// as-is.
type CalendarLink struct {
	ChatID       int64
	AccessToken  string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string
}
