package session

import "context"

// CacheStore определяет горячее хранилище активных сессий (Redis)
type CacheStore interface {
	SetSession(ctx context.Context, session *WatchSession) error
	GetSession(ctx context.Context, sessionID string) (*WatchSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetSessionTTL(ctx context.Context, sessionID string, ttlSeconds int) error

	AppendEmotion(ctx context.Context, sessionID string, point EmotionDataPoint) error
	GetEmotions(ctx context.Context, sessionID string) ([]EmotionDataPoint, error)
}

// Repository определяет долговременное хранилище сессий (PostgreSQL)
type Repository interface {
	CreateSession(ctx context.Context, session *WatchSession) error
	UpdateSession(ctx context.Context, session *WatchSession) error
	GetSession(ctx context.Context, sessionID string) (*WatchSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessionsByMovie(ctx context.Context, userID, videoID string, limit, offset int) ([]*WatchSession, error)

	SaveEmotionPoint(ctx context.Context, point EmotionDataPoint) error
	GetEmotions(ctx context.Context, sessionID string) ([]EmotionDataPoint, error)
}

// Catalog предоставляет метаданные каталога фильмов
type Catalog interface {
	MovieTitle(ctx context.Context, movieID string) (string, error)
}
