package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// importLegacy converts the pre-SQLite persisted shape, a flat JSON array of
// chat ids, into subscription rows under the default city. The file is
// renamed afterwards so the import runs exactly once. It runs before any
// other store operation.
func (r *SQLiteRepo) importLegacy(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var chatIDs []int64
	if err := json.Unmarshal(raw, &chatIDs); err != nil {
		// Not the legacy shape; leave the file alone.
		return fmt.Errorf("unrecognized legacy file %s: %w", path, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Unix()
	for _, chatID := range chatIDs {
		// Existing rows win over the legacy file.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subscriptions (chat_id, city, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(chat_id) DO NOTHING`,
			chatID, r.defaultCity, now,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	return os.Rename(path, path+".imported")
}
