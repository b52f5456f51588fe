package history

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Store определяет долговременное хранилище истории просмотров
type Store interface {
	Append(ctx context.Context, userID string, entry Entry) error
	LastEntry(ctx context.Context, userID string) (*Entry, error)
	List(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// Catalog предоставляет метаданные фильма для записи истории
type Catalog interface {
	MovieInfo(ctx context.Context, movieID string) (title, thumbnailPath string, err error)
}

// Manager управляет историей просмотров (Application Layer)
type Manager struct {
	store   Store
	catalog Catalog
}

// NewManager создает новый менеджер истории
func NewManager(store Store, catalog Catalog) *Manager {
	return &Manager{
		store:   store,
		catalog: catalog,
	}
}

// RecordView добавляет просмотр фильма в историю пользователя.
// Дедупликация сравнивает только с последней записью: повторное открытие
// того же фильма подряд запись не добавляет, но после просмотра другого
// фильма тот же фильм попадает в историю снова.
func (m *Manager) RecordView(ctx context.Context, userID, movieID string) (bool, error) {
	last, err := m.store.LastEntry(ctx, userID)
	if err == nil && last != nil && last.MovieID == movieID {
		log.Printf("[HISTORY] Skipping duplicate entry for user %s: %s", userID, movieID)
		return false, nil
	}

	title, thumbnailPath, err := m.catalog.MovieInfo(ctx, movieID)
	if err != nil {
		return false, fmt.Errorf("movie not found: %w", err)
	}

	entry := Entry{
		MovieID:         movieID,
		MovieTitle:      title,
		ThumbnailPath:   thumbnailPath,
		WatchedOnMillis: time.Now().UnixMilli(),
	}

	if err := m.store.Append(ctx, userID, entry); err != nil {
		return false, fmt.Errorf("failed to append history entry: %w", err)
	}

	log.Printf("[HISTORY] Recorded view for user %s: %s", userID, movieID)
	return true, nil
}

// List возвращает историю пользователя, новые записи первыми
func (m *Manager) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return m.store.List(ctx, userID, limit)
}
