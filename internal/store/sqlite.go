package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Nariman739/ramadan-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct {
	db          *sql.DB
	defaultCity string
}

// OpenSQLite opens (or creates) the database at dbPath, applies PRAGMAs,
// runs migrations and the one-time legacy subscriber import, and returns a
// ready repository. legacyPath may be empty to skip the import.
func OpenSQLite(ctx context.Context, dbPath, legacyPath, defaultCity string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	r := &SQLiteRepo{db: db, defaultCity: defaultCity}

	if legacyPath != "" {
		if err := r.importLegacy(ctx, legacyPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("legacy import: %w", err)
		}
	}
	return r, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Subscribe inserts or updates the user's subscription.
func (r *SQLiteRepo) Subscribe(ctx context.Context, chatID int64, cityKey string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (chat_id, city, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET city = excluded.city`,
		chatID, cityKey, time.Now().UTC().Unix(),
	)
	return err
}

// SetCity changes the city of an existing subscription. Setting the same
// city again is a no-op; an absent subscription is ErrNotSubscribed.
func (r *SQLiteRepo) SetCity(ctx context.Context, chatID int64, cityKey string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET city = ? WHERE chat_id = ?`,
		cityKey, chatID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Unsubscribe removes the user's subscription if present.
func (r *SQLiteRepo) Unsubscribe(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE chat_id = ?`, chatID)
	return err
}

// CityOf returns the user's city key, or the default city for unknown users.
func (r *SQLiteRepo) CityOf(ctx context.Context, chatID int64) (string, error) {
	var cityKey string
	err := r.db.QueryRowContext(ctx,
		`SELECT city FROM subscriptions WHERE chat_id = ?`, chatID,
	).Scan(&cityKey)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaultCity, nil
	}
	if err != nil {
		return "", err
	}
	return cityKey, nil
}

// GroupByCity returns all subscribers keyed by city. The result is a copy:
// callers may iterate it while handlers keep mutating the store.
func (r *SQLiteRepo) GroupByCity(ctx context.Context) (map[string][]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chat_id, city FROM subscriptions ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(map[string][]int64)
	for rows.Next() {
		var (
			chatID  int64
			cityKey string
		)
		if err := rows.Scan(&chatID, &cityKey); err != nil {
			return nil, err
		}
		groups[cityKey] = append(groups[cityKey], chatID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// SaveLink stores the user's calendar credentials, replacing any previous link.
func (r *SQLiteRepo) SaveLink(ctx context.Context, link *domain.CalendarLink) error {
	if link == nil {
		return errors.New("nil link")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_links (
			chat_id, access_token, refresh_token, token_uri, client_id, client_secret, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_uri     = excluded.token_uri,
			client_id     = excluded.client_id,
			client_secret = excluded.client_secret,
			created_at    = excluded.created_at`,
		link.ChatID, link.AccessToken, link.RefreshToken,
		link.TokenURI, link.ClientID, link.ClientSecret,
		time.Now().UTC().Unix(),
	)
	return err
}

// LoadLink returns the stored link for the user, or nil when none exists.
func (r *SQLiteRepo) LoadLink(ctx context.Context, chatID int64) (*domain.CalendarLink, error) {
	link := &domain.CalendarLink{ChatID: chatID}
	err := r.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, token_uri, client_id, client_secret
		FROM calendar_links
		WHERE chat_id = ?`,
		chatID,
	).Scan(&link.AccessToken, &link.RefreshToken, &link.TokenURI, &link.ClientID, &link.ClientSecret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}
