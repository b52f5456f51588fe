package sampler

import (
	"sync"

	"github.com/BioTune/biotune/internal/sensor"
)

// Window хранит ограниченную историю последних измерений пульса.
// Новые измерения добавляются в конец; при переполнении самое старое
// вытесняется (FIFO).
type Window struct {
	mu       sync.RWMutex
	capacity int
	readings []sensor.Reading
}

// NewWindow создает окно с заданной вместимостью
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		readings: make([]sensor.Reading, 0, capacity),
	}
}

// Append добавляет измерение, вытесняя самое старое при переполнении
func (w *Window) Append(r sensor.Reading) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.readings) == w.capacity {
		copy(w.readings, w.readings[1:])
		w.readings = w.readings[:w.capacity-1]
	}
	w.readings = append(w.readings, r)
}

// Readings возвращает копию измерений в порядке поступления
func (w *Window) Readings() []sensor.Reading {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]sensor.Reading, len(w.readings))
	copy(out, w.readings)
	return out
}

// BPMHistory возвращает значения пульса в порядке поступления
func (w *Window) BPMHistory() []int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]int, len(w.readings))
	for i, r := range w.readings {
		out[i] = r.BPM
	}
	return out
}

// Last возвращает самое свежее измерение
func (w *Window) Last() (sensor.Reading, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.readings) == 0 {
		return sensor.Reading{}, false
	}
	return w.readings[len(w.readings)-1], true
}

// Len возвращает текущее число измерений в окне
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.readings)
}

// Capacity возвращает вместимость окна
func (w *Window) Capacity() int {
	return w.capacity
}
