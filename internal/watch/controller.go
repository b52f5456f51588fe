package watch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/BioTune/biotune/internal/emotion"
	"github.com/BioTune/biotune/internal/sampler"
	"github.com/BioTune/biotune/internal/sensor"
	"github.com/BioTune/biotune/internal/session"
	"github.com/BioTune/biotune/internal/ws"
)

// recordTimeout ограничивает сохранение точки эмоции
const recordTimeout = 5 * time.Second

// Classifier выдает вердикт эмоции для данных пульса
type Classifier interface {
	Classify(ctx context.Context, in emotion.Input) emotion.Verdict
}

// Recorder сохраняет точки эмоций сессии
type Recorder interface {
	AppendEmotionPoint(ctx context.Context, sessionID string, point session.EmotionDataPoint) error
}

// Broadcaster рассылает обновления живой шкалы
type Broadcaster interface {
	BroadcastUpdate(update ws.LiveUpdate)
}

// Controller связывает цикл выборки с классификатором, записью и
// трансляцией. Классификация идет в отдельной горутине с единственным
// слотом: пока запрос в полете, новые срабатывания триггера
// отбрасываются - результат устаревшего контекста пульса не нужен.
type Controller struct {
	sessionID  string
	clock      *PlaybackClock
	window     *sampler.Window
	classifier Classifier
	recorder   Recorder
	hub        Broadcaster

	classifyTimeout time.Duration

	gateMu   sync.Mutex
	inFlight bool

	stats struct {
		mu         sync.RWMutex
		classified int64
		dropped    int64
	}
}

// NewController создает контроллер сессии просмотра
func NewController(sessionID string, clock *PlaybackClock, window *sampler.Window, classifier Classifier, recorder Recorder, hub Broadcaster, classifyTimeout time.Duration) *Controller {
	return &Controller{
		sessionID:       sessionID,
		clock:           clock,
		window:          window,
		classifier:      classifier,
		recorder:        recorder,
		hub:             hub,
		classifyTimeout: classifyTimeout,
	}
}

// OnSample транслирует каждое измерение на живую шкалу
func (c *Controller) OnSample(r sensor.Reading) {
	c.hub.BroadcastUpdate(ws.LiveUpdate{
		SessionID:         c.sessionID,
		BPM:               r.BPM,
		CapturedAtMillis:  r.CapturedAtMillis,
		VideoTimestampSec: c.clock.Position(),
	})
}

// OnTrigger запускает классификацию, если слот свободен
func (c *Controller) OnTrigger(r sensor.Reading, delta int) {
	c.gateMu.Lock()
	if c.inFlight {
		c.gateMu.Unlock()
		c.incrementDropped()
		log.Printf("[WATCH] Classification in flight, dropping trigger (session=%s delta=%d)", c.sessionID, delta)
		return
	}
	c.inFlight = true
	c.gateMu.Unlock()

	position := c.clock.Position()
	history := c.window.BPMHistory()

	go c.classify(r, history, position)
}

func (c *Controller) classify(r sensor.Reading, history []int, position float64) {
	defer func() {
		c.gateMu.Lock()
		c.inFlight = false
		c.gateMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.classifyTimeout)
	verdict := c.classifier.Classify(ctx, emotion.Input{
		CurrentBPM:        r.BPM,
		History:           history,
		VideoTimestampSec: position,
	})
	cancel()

	c.incrementClassified()

	// Запись идет со своим контекстом: истечение таймаута классификации
	// не должно ронять сохранение фолбэчного вердикта
	writeCtx, writeCancel := context.WithTimeout(context.Background(), recordTimeout)
	defer writeCancel()

	point := session.NewDataPoint(c.sessionID, verdict, r.BPM, position)
	if err := c.recorder.AppendEmotionPoint(writeCtx, c.sessionID, point); err != nil {
		// Запись не критична для живой шкалы
		log.Printf("[WARN] Failed to record emotion point: %v", err)
	}

	c.hub.BroadcastUpdate(ws.LiveUpdate{
		SessionID:         c.sessionID,
		BPM:               r.BPM,
		CapturedAtMillis:  r.CapturedAtMillis,
		VideoTimestampSec: position,
		Verdict:           &verdict,
	})
}

// ===== Статистика =====

func (c *Controller) incrementClassified() {
	c.stats.mu.Lock()
	c.stats.classified++
	c.stats.mu.Unlock()
}

func (c *Controller) incrementDropped() {
	c.stats.mu.Lock()
	c.stats.dropped++
	c.stats.mu.Unlock()
}

// GetStats возвращает счетчики классификаций
func (c *Controller) GetStats() (classified, dropped int64) {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return c.stats.classified, c.stats.dropped
}
