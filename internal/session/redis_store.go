package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore реализует CacheStore для Redis (Infrastructure Layer)
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает новый экземпляр RedisStore
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// ===== Ключи Redis =====

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:metadata", sessionID)
}

func emotionsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:emotions", sessionID)
}

// ===== Управление сессиями =====

func (r *RedisStore) SetSession(ctx context.Context, session *WatchSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, sessionKey(session.ID), data, 0).Err()
}

func (r *RedisStore) GetSession(ctx context.Context, sessionID string) (*WatchSession, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session WatchSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	// Удаляем все ключи, связанные с сессией
	pattern := fmt.Sprintf("session:%s:*", sessionID)

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	pipe := r.client.Pipeline()

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) SetSessionTTL(ctx context.Context, sessionID string, ttlSeconds int) error {
	pattern := fmt.Sprintf("session:%s:*", sessionID)
	duration := time.Duration(ttlSeconds) * time.Second

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	pipe := r.client.Pipeline()

	for iter.Next(ctx) {
		pipe.Expire(ctx, iter.Val(), duration)
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// ===== Точки эмоций =====

func (r *RedisStore) AppendEmotion(ctx context.Context, sessionID string, point EmotionDataPoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal emotion point: %w", err)
	}

	return r.client.RPush(ctx, emotionsKey(sessionID), data).Err()
}

func (r *RedisStore) GetEmotions(ctx context.Context, sessionID string) ([]EmotionDataPoint, error) {
	data, err := r.client.LRange(ctx, emotionsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get emotion points: %w", err)
	}

	points := make([]EmotionDataPoint, 0, len(data))
	for _, item := range data {
		var point EmotionDataPoint
		if err := json.Unmarshal([]byte(item), &point); err != nil {
			continue // Пропускаем поврежденные записи
		}
		points = append(points, point)
	}

	return points, nil
}
