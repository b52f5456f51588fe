package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore реализует Store для PostgreSQL (Infrastructure Layer)
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore создает новый экземпляр PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

func (s *PostgresStore) Append(ctx context.Context, userID string, entry Entry) error {
	query := `
		INSERT INTO watch_history (user_id, movie_id, movie_title, thumbnail_path, watched_on_ms)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		userID,
		entry.MovieID,
		entry.MovieTitle,
		entry.ThumbnailPath,
		entry.WatchedOnMillis,
	)

	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

func (s *PostgresStore) LastEntry(ctx context.Context, userID string) (*Entry, error) {
	query := `
		SELECT movie_id, movie_title, thumbnail_path, watched_on_ms
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_on_ms DESC
		LIMIT 1
	`

	var entry Entry
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&entry.MovieID,
		&entry.MovieTitle,
		&entry.ThumbnailPath,
		&entry.WatchedOnMillis,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last history entry: %w", err)
	}

	return &entry, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	query := `
		SELECT movie_id, movie_title, thumbnail_path, watched_on_ms
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_on_ms DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)

	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.MovieID, &entry.MovieTitle, &entry.ThumbnailPath, &entry.WatchedOnMillis); err != nil {
			continue // Пропускаем поврежденные записи
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
