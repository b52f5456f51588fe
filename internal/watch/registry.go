package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/BioTune/biotune/internal/sampler"
)

// Watch представляет одну запущенную сессию просмотра с ее циклом выборки
type Watch struct {
	SessionID  string
	Clock      *PlaybackClock
	Sampler    *sampler.Sampler
	Controller *Controller

	cancel context.CancelFunc
}

// Stop останавливает цикл выборки
func (w *Watch) Stop() {
	w.cancel()
}

// Registry отслеживает запущенные сессии просмотра
type Registry struct {
	mu      sync.RWMutex
	watches map[string]*Watch
}

// NewRegistry создает новый реестр
func NewRegistry() *Registry {
	return &Registry{
		watches: make(map[string]*Watch),
	}
}

// Add регистрирует запущенную сессию
func (r *Registry) Add(w *Watch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.watches[w.SessionID]; exists {
		return fmt.Errorf("watch already running for session: %s", w.SessionID)
	}
	r.watches[w.SessionID] = w
	return nil
}

// Get возвращает запущенную сессию по ID
func (r *Registry) Get(sessionID string) (*Watch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.watches[sessionID]
	return w, ok
}

// Remove удаляет сессию из реестра
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watches, sessionID)
}

// Count возвращает число запущенных сессий
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.watches)
}

// StopAll останавливает все запущенные сессии
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.watches {
		w.cancel()
		delete(r.watches, id)
	}
}
