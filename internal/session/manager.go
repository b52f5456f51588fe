package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager управляет сессиями просмотра (Application Layer)
type Manager struct {
	cache      CacheStore
	repository Repository
	catalog    Catalog

	ttlSeconds int

	mu             sync.RWMutex
	activeSessions map[string]*WatchSession // Кэш активных сессий в памяти
}

// NewManager создает новый менеджер сессий
func NewManager(cache CacheStore, repository Repository, catalog Catalog, ttlSeconds int) *Manager {
	return &Manager{
		cache:          cache,
		repository:     repository,
		catalog:        catalog,
		ttlSeconds:     ttlSeconds,
		activeSessions: make(map[string]*WatchSession),
	}
}

// CreateSession создает новую сессию просмотра
func (m *Manager) CreateSession(ctx context.Context, userID, videoID string) (*WatchSession, error) {
	title, err := m.catalog.MovieTitle(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("movie not found: %w", err)
	}

	session := &WatchSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		VideoID:    videoID,
		VideoTitle: title,
		Status:     StatusActive,
		StartTime:  time.Now(),
	}

	// Сохраняем в Redis
	if err := m.cache.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session to cache: %w", err)
	}

	// Создаем запись в PostgreSQL сразу - обновится при финализации
	if err := m.repository.CreateSession(ctx, session); err != nil {
		log.Printf("[WARN] Failed to create session in database: %v", err)
	}

	// Добавляем в активные сессии
	m.mu.Lock()
	m.activeSessions[session.ID] = session
	m.mu.Unlock()

	log.Printf("[SESSION] Created new session: %s (user=%s video=%s)", session.ID, userID, videoID)
	return session, nil
}

// GetSession получает сессию по ID
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*WatchSession, error) {
	// Сначала проверяем в памяти
	m.mu.RLock()
	if session, ok := m.activeSessions[sessionID]; ok {
		m.mu.RUnlock()
		return session, nil
	}
	m.mu.RUnlock()

	// Проверяем в Redis
	session, err := m.cache.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}

	// Проверяем в PostgreSQL
	return m.repository.GetSession(ctx, sessionID)
}

// AppendEmotionPoint добавляет точку эмоции к сессии. Ошибки хранилищ
// не фатальны: точка пишется по возможности, цикл выборки не должен
// блокироваться или останавливаться из-за сбоя записи.
func (m *Manager) AppendEmotionPoint(ctx context.Context, sessionID string, point EmotionDataPoint) error {
	if err := m.cache.AppendEmotion(ctx, sessionID, point); err != nil {
		log.Printf("[WARN] Failed to append emotion to cache: %v", err)
	}

	if err := m.repository.SaveEmotionPoint(ctx, point); err != nil {
		return fmt.Errorf("failed to save emotion point: %w", err)
	}

	log.Printf("[SESSION] Recorded emotion for session %s: %s (bpm=%d t=%.0fs)",
		sessionID, point.Emotion, point.BPM, point.Timestamp)
	return nil
}

// StopSession останавливает активную сессию
func (m *Manager) StopSession(ctx context.Context, sessionID string) error {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	if session.Status != StatusActive {
		return fmt.Errorf("session is not active: %s", session.Status)
	}

	now := time.Now()
	session.Status = StatusStopped
	session.EndTime = &now

	if err := m.cache.SetSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session in cache: %w", err)
	}

	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	m.mu.Unlock()

	log.Printf("[SESSION] Stopped session: %s", sessionID)
	return nil
}

// FinalizeSession вычисляет сводку сессии и сохраняет ее в базу.
// Идемпотентна: повторная финализация уже финализированной сессии -
// no-op, возвращающий сохраненную сводку.
func (m *Manager) FinalizeSession(ctx context.Context, sessionID string) (*WatchSession, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if session.Status == StatusFinalized {
		log.Printf("[SESSION] Session already finalized, skipping: %s", sessionID)
		return session, nil
	}

	points, err := m.loadEmotions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotion points: %w", err)
	}

	summary := ComputeSummary(points)

	if session.EndTime == nil {
		now := time.Now()
		session.EndTime = &now
	}
	session.Status = StatusFinalized
	session.AverageBPM = summary.AverageBPM
	session.DominantEmotion = summary.DominantEmotion
	session.EmotionSummary = summary.EmotionSummary
	session.DurationSec = summary.DurationSec

	// Сохраняем в PostgreSQL
	if err := m.repository.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save finalized session: %w", err)
	}

	// Обновляем статус в Redis и ограничиваем время жизни горячих данных
	if err := m.cache.SetSession(ctx, session); err != nil {
		log.Printf("[WARN] Failed to update session status in cache: %v", err)
	}
	if err := m.cache.SetSessionTTL(ctx, sessionID, m.ttlSeconds); err != nil {
		log.Printf("[WARN] Failed to set session TTL: %v", err)
	}

	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	m.mu.Unlock()

	log.Printf("[SESSION] Finalized session %s: avg_bpm=%d dominant=%s points=%d",
		sessionID, summary.AverageBPM, summary.DominantEmotion, len(points))
	return session, nil
}

// GetSessionData получает сессию вместе с ее точками эмоций
func (m *Manager) GetSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	points, err := m.loadEmotions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotion points: %w", err)
	}

	return &SessionData{
		Session:  session,
		Emotions: points,
	}, nil
}

// ListSessionsByMovie возвращает сессии пользователя по конкретному фильму
func (m *Manager) ListSessionsByMovie(ctx context.Context, userID, videoID string, limit, offset int) ([]*WatchSession, error) {
	return m.repository.ListSessionsByMovie(ctx, userID, videoID, limit, offset)
}

// DeleteSession удаляет сессию из всех хранилищ
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	m.mu.Unlock()

	if err := m.cache.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("[WARN] Failed to delete session from cache: %v", err)
	}

	if err := m.repository.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session from database: %w", err)
	}

	log.Printf("[SESSION] Deleted session: %s", sessionID)
	return nil
}

// loadEmotions загружает точки эмоций: сначала из кэша, при неудаче из базы
func (m *Manager) loadEmotions(ctx context.Context, sessionID string) ([]EmotionDataPoint, error) {
	points, err := m.cache.GetEmotions(ctx, sessionID)
	if err == nil && len(points) > 0 {
		return points, nil
	}

	return m.repository.GetEmotions(ctx, sessionID)
}

// IsSessionActive проверяет, активна ли сессия
func (m *Manager) IsSessionActive(sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.activeSessions[sessionID]
	return exists
}
