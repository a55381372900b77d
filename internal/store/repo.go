package store

import (
	"context"
	"errors"

	"github.com/Nariman739/ramadan-bot/internal/domain"
)

// ErrNotSubscribed is returned by SetCity for users without a subscription.
var ErrNotSubscribed = errors.New("not subscribed")

// Repo defines storage for subscriptions and calendar links. Every mutating
// call commits durably before returning.
type Repo interface {
	// Subscribe upserts the user's subscription with the given city.
	Subscribe(ctx context.Context, chatID int64, cityKey string) error
	// SetCity changes the city of an existing subscription.
	SetCity(ctx context.Context, chatID int64, cityKey string) error
	// Unsubscribe removes the user's subscription; absent users are not an error.
	Unsubscribe(ctx context.Context, chatID int64) error
	// CityOf returns the user's city key, or the default for unknown users.
	CityOf(ctx context.Context, chatID int64) (string, error)
	// GroupByCity returns a consistent snapshot of subscribers keyed by city.
	GroupByCity(ctx context.Context) (map[string][]int64, error)

	SaveLink(ctx context.Context, link *domain.CalendarLink) error
	// LoadLink returns nil without error when no link is stored.
	LoadLink(ctx context.Context, chatID int64) (*domain.CalendarLink, error)

	Close() error
}
