package session

import (
	"time"

	"github.com/BioTune/biotune/internal/emotion"
)

// Status представляет статус сессии просмотра
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusStopped   Status = "STOPPED"
	StatusFinalized Status = "FINALIZED"
)

// WatchSession представляет одну сессию просмотра видео.
// Создается при открытии видео, пополняется точками эмоций во время
// воспроизведения, закрывается вычислением сводки один раз.
type WatchSession struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	VideoID         string         `json:"video_id"`
	VideoTitle      string         `json:"video_title"`
	Status          Status         `json:"status"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	DurationSec     float64        `json:"duration_sec"`
	AverageBPM      int            `json:"average_bpm"`
	DominantEmotion string         `json:"dominant_emotion,omitempty"`
	EmotionSummary  map[string]int `json:"emotion_summary,omitempty"`
}

// EmotionDataPoint представляет одну точку эмоциональной шкалы сессии.
// Добавляется, никогда не изменяется.
type EmotionDataPoint struct {
	ID               int64   `json:"id,omitempty"`
	SessionID        string  `json:"session_id"`
	Timestamp        float64 `json:"timestamp"` // Позиция в видео, секунды
	Emotion          string  `json:"emotion"`
	Arousal          float64 `json:"arousal"`
	Valence          float64 `json:"valence"`
	Confidence       float64 `json:"confidence"`
	Color            string  `json:"color,omitempty"`
	Reasoning        string  `json:"reasoning,omitempty"`
	SceneDescription string  `json:"scene_description,omitempty"`
	BPM              int     `json:"bpm"`
	CapturedAtMillis int64   `json:"captured_at_millis"`
}

// NewDataPoint создает точку шкалы из вердикта классификатора
func NewDataPoint(sessionID string, v emotion.Verdict, bpm int, videoTimestampSec float64) EmotionDataPoint {
	return EmotionDataPoint{
		SessionID:        sessionID,
		Timestamp:        videoTimestampSec,
		Emotion:          string(v.Emotion),
		Arousal:          v.Arousal,
		Valence:          v.Valence,
		Confidence:       v.Confidence,
		Color:            v.Color,
		Reasoning:        v.Reasoning,
		SceneDescription: v.SceneDescription,
		BPM:              bpm,
		CapturedAtMillis: time.Now().UnixMilli(),
	}
}

// SessionData представляет сессию вместе с ее точками эмоций
type SessionData struct {
	Session  *WatchSession      `json:"session"`
	Emotions []EmotionDataPoint `json:"emotions"`
}

// CreateSessionRequest представляет запрос на создание сессии
type CreateSessionRequest struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
}

// SessionResponse представляет ответ с информацией о сессии
type SessionResponse struct {
	Session *WatchSession `json:"session"`
}
