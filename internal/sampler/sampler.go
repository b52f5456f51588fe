package sampler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/BioTune/biotune/internal/sensor"
)

// Sink принимает результаты работы сэмплера
type Sink interface {
	// OnSample вызывается на каждом тике с успешным измерением
	OnSample(r sensor.Reading)

	// OnTrigger вызывается, когда дельта пульса требует классификации
	OnTrigger(r sensor.Reading, delta int)
}

// Sampler опрашивает фид пульса с фиксированным периодом и наполняет окно.
// Пропущенное измерение (фид еще пуст) просто пропускает тик - в окно
// ничего не добавляется.
type Sampler struct {
	period  time.Duration
	feed    sensor.Feed
	window  *Window
	trigger *Trigger
	sink    Sink

	prevBPM    int
	hasPrev    bool
	pausedFlag bool
	pauseMu    sync.RWMutex

	stats struct {
		mu      sync.RWMutex
		ticks   int64
		skipped int64
		sampled int64
		fired   int64
	}
}

// NewSampler создает сэмплер
func NewSampler(period time.Duration, feed sensor.Feed, window *Window, trigger *Trigger, sink Sink) *Sampler {
	return &Sampler{
		period:  period,
		feed:    feed,
		window:  window,
		trigger: trigger,
		sink:    sink,
	}
}

// SetPaused приостанавливает или возобновляет выборку без остановки таймера
func (s *Sampler) SetPaused(paused bool) {
	s.pauseMu.Lock()
	s.pausedFlag = paused
	s.pauseMu.Unlock()
}

func (s *Sampler) paused() bool {
	s.pauseMu.RLock()
	defer s.pauseMu.RUnlock()
	return s.pausedFlag
}

// Run запускает цикл выборки; блокирует до отмены контекста
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	log.Printf("[SAMPLER] Started with period %v", s.period)

	for {
		select {
		case <-ctx.Done():
			s.logStats()
			return
		case <-ticker.C:
			s.tick(time.Now())
		}
	}
}

// tick выполняет один шаг выборки
func (s *Sampler) tick(now time.Time) {
	s.incrementTicks()

	if s.paused() {
		return
	}

	reading, ok := s.feed.Latest()
	if !ok {
		s.incrementSkipped()
		return
	}

	s.window.Append(reading)
	s.incrementSampled()

	s.sink.OnSample(reading)

	if s.hasPrev {
		if s.trigger.Evaluate(s.prevBPM, reading.BPM, now) {
			s.incrementFired()
			s.sink.OnTrigger(reading, reading.BPM-s.prevBPM)
		}
	}

	s.prevBPM = reading.BPM
	s.hasPrev = true
}

// ===== Статистика =====

func (s *Sampler) incrementTicks() {
	s.stats.mu.Lock()
	s.stats.ticks++
	s.stats.mu.Unlock()
}

func (s *Sampler) incrementSkipped() {
	s.stats.mu.Lock()
	s.stats.skipped++
	s.stats.mu.Unlock()
}

func (s *Sampler) incrementSampled() {
	s.stats.mu.Lock()
	s.stats.sampled++
	s.stats.mu.Unlock()
}

func (s *Sampler) incrementFired() {
	s.stats.mu.Lock()
	s.stats.fired++
	s.stats.mu.Unlock()
}

// GetStats возвращает счетчики работы сэмплера
func (s *Sampler) GetStats() (ticks, skipped, sampled, fired int64) {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()
	return s.stats.ticks, s.stats.skipped, s.stats.sampled, s.stats.fired
}

func (s *Sampler) logStats() {
	ticks, skipped, sampled, fired := s.GetStats()
	log.Printf("[STATS] ticks=%d skipped=%d sampled=%d fired=%d", ticks, skipped, sampled, fired)
}
