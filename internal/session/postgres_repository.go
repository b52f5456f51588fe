package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepository реализует Repository для PostgreSQL (Infrastructure Layer)
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// NewPostgresRepositoryFromDSN создает репозиторий из строки подключения
func NewPostgresRepositoryFromDSN(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// Close закрывает соединение с БД
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// DB возвращает пул соединений для других репозиториев того же хранилища
func (r *PostgresRepository) DB() *sql.DB {
	return r.db
}

// ===== Управление сессиями =====

func (r *PostgresRepository) CreateSession(ctx context.Context, session *WatchSession) error {
	summaryJSON, err := json.Marshal(session.EmotionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal emotion summary: %w", err)
	}

	query := `
		INSERT INTO watch_sessions (id, user_id, video_id, video_title, status, start_time, end_time, duration_sec, average_bpm, dominant_emotion, emotion_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.VideoID,
		session.VideoTitle,
		session.Status,
		session.StartTime,
		session.EndTime,
		session.DurationSec,
		session.AverageBPM,
		session.DominantEmotion,
		summaryJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateSession(ctx context.Context, session *WatchSession) error {
	summaryJSON, err := json.Marshal(session.EmotionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal emotion summary: %w", err)
	}

	query := `
		UPDATE watch_sessions
		SET status = $2, end_time = $3, duration_sec = $4, average_bpm = $5, dominant_emotion = $6, emotion_summary = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.Status,
		session.EndTime,
		session.DurationSec,
		session.AverageBPM,
		session.DominantEmotion,
		summaryJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("session not found: %s", session.ID)
	}

	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*WatchSession, error) {
	query := `
		SELECT id, user_id, video_id, video_title, status, start_time, end_time, duration_sec, average_bpm, dominant_emotion, emotion_summary
		FROM watch_sessions
		WHERE id = $1
	`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) ListSessionsByMovie(ctx context.Context, userID, videoID string, limit, offset int) ([]*WatchSession, error) {
	query := `
		SELECT id, user_id, video_id, video_title, status, start_time, end_time, duration_sec, average_bpm, dominant_emotion, emotion_summary
		FROM watch_sessions
		WHERE user_id = $1 AND video_id = $2
		ORDER BY start_time DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*WatchSession

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			continue // Пропускаем поврежденные записи
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Каскадное удаление должно работать через FK, но для надежности делаем явно
	queries := []string{
		"DELETE FROM session_emotions WHERE session_id = $1",
		"DELETE FROM watch_sessions WHERE id = $1",
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, sessionID); err != nil {
			return fmt.Errorf("failed to delete session data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ===== Точки эмоций =====

func (r *PostgresRepository) SaveEmotionPoint(ctx context.Context, point EmotionDataPoint) error {
	query := `
		INSERT INTO session_emotions (session_id, video_timestamp, emotion, arousal, valence, confidence, color, reasoning, scene_description, bpm, captured_at_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		point.SessionID,
		point.Timestamp,
		point.Emotion,
		point.Arousal,
		point.Valence,
		point.Confidence,
		point.Color,
		point.Reasoning,
		point.SceneDescription,
		point.BPM,
		point.CapturedAtMillis,
	)

	if err != nil {
		return fmt.Errorf("failed to insert emotion point: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetEmotions(ctx context.Context, sessionID string) ([]EmotionDataPoint, error) {
	query := `
		SELECT id, session_id, video_timestamp, emotion, arousal, valence, confidence, color, reasoning, scene_description, bpm, captured_at_ms
		FROM session_emotions
		WHERE session_id = $1
		ORDER BY captured_at_ms ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get emotion points: %w", err)
	}
	defer rows.Close()

	points := make([]EmotionDataPoint, 0)

	for rows.Next() {
		var point EmotionDataPoint

		err := rows.Scan(
			&point.ID,
			&point.SessionID,
			&point.Timestamp,
			&point.Emotion,
			&point.Arousal,
			&point.Valence,
			&point.Confidence,
			&point.Color,
			&point.Reasoning,
			&point.SceneDescription,
			&point.BPM,
			&point.CapturedAtMillis,
		)

		if err != nil {
			continue
		}

		points = append(points, point)
	}

	return points, nil
}

// rowScanner абстрагирует *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*WatchSession, error) {
	var session WatchSession
	var summaryJSON []byte

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.VideoID,
		&session.VideoTitle,
		&session.Status,
		&session.StartTime,
		&session.EndTime,
		&session.DurationSec,
		&session.AverageBPM,
		&session.DominantEmotion,
		&summaryJSON,
	)

	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &session.EmotionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal emotion summary: %w", err)
		}
	}

	return &session, nil
}
