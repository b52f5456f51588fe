package watch

import (
	"sync"
	"time"
)

// PlaybackClock отслеживает позицию воспроизведения видео.
// Во время паузы позиция не растет; привязка точек эмоций к видео
// использует именно эту позицию, а не стеночное время.
type PlaybackClock struct {
	mu        sync.Mutex
	playing   bool
	elapsed   time.Duration // Накопленное время воспроизведения до последней паузы
	resumedAt time.Time
}

// NewPlaybackClock создает часы в состоянии воспроизведения
func NewPlaybackClock() *PlaybackClock {
	return &PlaybackClock{
		playing:   true,
		resumedAt: time.Now(),
	}
}

// Pause останавливает часы. Повторная пауза - no-op
func (c *PlaybackClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playing {
		return
	}
	c.elapsed += time.Since(c.resumedAt)
	c.playing = false
}

// Resume возобновляет часы. Повторное возобновление - no-op
func (c *PlaybackClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		return
	}
	c.resumedAt = time.Now()
	c.playing = true
}

// Playing возвращает true, если видео воспроизводится
func (c *PlaybackClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Position возвращает текущую позицию в видео в секундах
func (c *PlaybackClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.elapsed
	if c.playing {
		elapsed += time.Since(c.resumedAt)
	}
	return elapsed.Seconds()
}
