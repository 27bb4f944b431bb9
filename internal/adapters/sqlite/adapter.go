// Package sqlite provides a SQLite-backed implementation of the repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
	"github.com/hollis-labs/rotation/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

const dateLayout = "2006-01-02"

// Adapter implements the listen, backlog and schedule repository ports.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertions
var (
	_ ports.ListenRepository   = (*Adapter)(nil)
	_ ports.BacklogRepository  = (*Adapter)(nil)
	_ ports.ScheduleRepository = (*Adapter)(nil)
	_ ports.UserDirectory      = (*Adapter)(nil)
)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// SaveListen inserts one album-listen record.
func (a *Adapter) SaveListen(ctx context.Context, l domain.AlbumListen) error {
	query := `
		INSERT INTO album_listens (id, user_id, album_id, album_name, listen_date, listen_order, method)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, album_id, listen_date) DO NOTHING
	`
	if _, err := a.db.ExecContext(ctx, query,
		l.ID, l.UserID, l.AlbumID, l.AlbumName,
		l.Date.UTC().Format(dateLayout), string(l.Order), string(l.Method),
	); err != nil {
		return fmt.Errorf("failed to save listen: %w", err)
	}
	return nil
}

// ListListens returns a user's listens, newest date first.
func (a *Adapter) ListListens(ctx context.Context, userID string) ([]domain.AlbumListen, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, user_id, album_id, album_name, listen_date, listen_order, method
		FROM album_listens
		WHERE user_id = ?
		ORDER BY listen_date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listens: %w", err)
	}
	defer rows.Close()

	var listens []domain.AlbumListen
	for rows.Next() {
		var l domain.AlbumListen
		var date, order, method string
		if err := rows.Scan(&l.ID, &l.UserID, &l.AlbumID, &l.AlbumName, &date, &order, &method); err != nil {
			return nil, fmt.Errorf("failed to scan listen: %w", err)
		}
		parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse listen date %q: %w", date, err)
		}
		l.Date = parsed
		l.Order = domain.ListenOrder(order)
		l.Method = domain.ListenMethod(method)
		listens = append(listens, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listens: %w", err)
	}
	return listens, nil
}

// HasListen reports whether the user already has a listen for the album on
// the given date.
func (a *Adapter) HasListen(ctx context.Context, userID, albumID string, date time.Time) (bool, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT 1 FROM album_listens
		WHERE user_id = ? AND album_id = ? AND listen_date = ?
	`, userID, albumID, date.UTC().Format(dateLayout))

	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check listen: %w", err)
	}
	return true, nil
}

// ListBacklog returns a user's backlog items.
func (a *Adapter) ListBacklog(ctx context.Context, userID string) ([]domain.BacklogItem, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT spotify_id, name, artists, created_at
		FROM backlog_items
		WHERE user_id = ?
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load backlog: %w", err)
	}
	defer rows.Close()

	var items []domain.BacklogItem
	for rows.Next() {
		var it domain.BacklogItem
		if err := rows.Scan(&it.SpotifyID, &it.Name, &it.Artists, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan backlog item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate backlog: %w", err)
	}
	return items, nil
}

// AddBacklogItem inserts a backlog item, updating name/artists on conflict.
func (a *Adapter) AddBacklogItem(ctx context.Context, userID string, item domain.BacklogItem) error {
	query := `
		INSERT INTO backlog_items (user_id, spotify_id, name, artists, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, spotify_id) DO UPDATE SET
			name=excluded.name,
			artists=excluded.artists
	`
	if _, err := a.db.ExecContext(ctx, query,
		userID, item.SpotifyID, item.Name, item.Artists, item.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to add backlog item: %w", err)
	}
	return nil
}

// RemoveBacklogItem deletes one backlog item. Removing an item that does not
// exist returns domain.ErrNotFound.
func (a *Adapter) RemoveBacklogItem(ctx context.Context, userID, spotifyID string) error {
	res, err := a.db.ExecContext(ctx,
		"DELETE FROM backlog_items WHERE user_id = ? AND spotify_id = ?",
		userID, spotifyID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove backlog item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove backlog item: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveScheduled inserts a future-listen row. An already-scheduled date is
// left untouched.
func (a *Adapter) SaveScheduled(ctx context.Context, s domain.ScheduledListen) error {
	query := `
		INSERT INTO scheduled_listens (user_id, listen_date, spotify_id, name, artists)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, listen_date) DO NOTHING
	`
	if _, err := a.db.ExecContext(ctx, query,
		s.UserID, s.Date.UTC().Format(dateLayout),
		s.Item.SpotifyID, s.Item.Name, s.Item.Artists,
	); err != nil {
		return fmt.Errorf("failed to save scheduled listen: %w", err)
	}
	return nil
}

// ScheduledDates returns every date the user already has a scheduled listen on.
func (a *Adapter) ScheduledDates(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT listen_date FROM scheduled_listens WHERE user_id = ? ORDER BY listen_date ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled date: %w", err)
		}
		parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scheduled date %q: %w", raw, err)
		}
		dates = append(dates, parsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled dates: %w", err)
	}
	return dates, nil
}

// UpcomingScheduled returns scheduled listens on or after from, date order.
func (a *Adapter) UpcomingScheduled(ctx context.Context, userID string, from time.Time) ([]domain.ScheduledListen, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT user_id, listen_date, spotify_id, name, artists
		FROM scheduled_listens
		WHERE user_id = ? AND listen_date >= ?
		ORDER BY listen_date ASC
	`, userID, from.UTC().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming schedule: %w", err)
	}
	defer rows.Close()

	var scheduled []domain.ScheduledListen
	for rows.Next() {
		var s domain.ScheduledListen
		var raw string
		if err := rows.Scan(&s.UserID, &raw, &s.Item.SpotifyID, &s.Item.Name, &s.Item.Artists); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled listen: %w", err)
		}
		parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scheduled date %q: %w", raw, err)
		}
		s.Date = parsed
		scheduled = append(scheduled, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upcoming schedule: %w", err)
	}
	return scheduled, nil
}

// ActiveUsers returns every user id present in the backlog or listen tables,
// used by the daily analysis fan-out.
func (a *Adapter) ActiveUsers(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT user_id FROM backlog_items
		UNION
		SELECT user_id FROM album_listens
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active users: %w", err)
	}
	return users, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS album_listens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		album_id TEXT NOT NULL,
		album_name TEXT NOT NULL,
		listen_date TEXT NOT NULL,
		listen_order TEXT,
		method TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, album_id, listen_date)
	);

	CREATE TABLE IF NOT EXISTS backlog_items (
		user_id TEXT NOT NULL,
		spotify_id TEXT NOT NULL,
		name TEXT NOT NULL,
		artists TEXT,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, spotify_id)
	);

	CREATE TABLE IF NOT EXISTS scheduled_listens (
		user_id TEXT NOT NULL,
		listen_date TEXT NOT NULL,
		spotify_id TEXT NOT NULL,
		name TEXT NOT NULL,
		artists TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, listen_date)
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
