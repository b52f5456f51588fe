package watch

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/BioTune/biotune/internal/history"
	"github.com/BioTune/biotune/internal/sampler"
	"github.com/BioTune/biotune/internal/sensor"
	"github.com/BioTune/biotune/internal/session"
	"github.com/BioTune/biotune/internal/ws"
)

// Options задает параметры цикла выборки для новых сессий
type Options struct {
	SamplePeriod        time.Duration
	WindowSize          int
	TriggerThresholdBPM int
	TriggerCooldown     time.Duration
	ClassifyTimeout     time.Duration
}

// StartWatchRequest представляет запрос на запуск сессии просмотра
type StartWatchRequest struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
}

// HTTPHandler обрабатывает HTTP запросы жизненного цикла просмотра (Presentation Layer)
type HTTPHandler struct {
	opts       Options
	sessions   *session.Manager
	history    *history.Manager
	bridge     *sensor.Bridge
	feed       sensor.Feed
	classifier Classifier
	hub        *ws.Hub
	registry   *Registry
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(opts Options, sessions *session.Manager, historyMgr *history.Manager, bridge *sensor.Bridge, feed sensor.Feed, classifier Classifier, hub *ws.Hub, registry *Registry) *HTTPHandler {
	return &HTTPHandler{
		opts:       opts,
		sessions:   sessions,
		history:    historyMgr,
		bridge:     bridge,
		feed:       feed,
		classifier: classifier,
		hub:        hub,
		registry:   registry,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/watch").Subrouter()

	api.HandleFunc("", h.StartWatch).Methods("POST")
	api.HandleFunc("/{id}/pause", h.PauseWatch).Methods("POST")
	api.HandleFunc("/{id}/resume", h.ResumeWatch).Methods("POST")
	api.HandleFunc("/{id}/stop", h.StopWatch).Methods("POST")

	router.HandleFunc("/ws", h.hub.HandleWebSocket)
}

// StartWatch запускает сессию просмотра с циклом выборки пульса
// @Summary Запустить просмотр
// @Description Создает сессию, запускает датчик пульса и цикл выборки
// @Tags watch
// @Accept json
// @Produce json
// @Param request body StartWatchRequest true "Параметры просмотра"
// @Success 201 {object} session.SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/watch [post]
func (h *HTTPHandler) StartWatch(w http.ResponseWriter, r *http.Request) {
	var req StartWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.VideoID == "" {
		respondError(w, http.StatusBadRequest, "user_id and video_id are required")
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), req.UserID, req.VideoID)
	if err != nil {
		if strings.Contains(err.Error(), "movie not found") {
			respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		log.Printf("[ERROR] Failed to create session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// История - не критична для запуска просмотра
	if _, err := h.history.RecordView(r.Context(), req.UserID, req.VideoID); err != nil {
		log.Printf("[WARN] Failed to record view history: %v", err)
	}

	// Датчик может быть еще не подключен - выборка будет пропускать тики
	if err := h.bridge.Start(r.Context()); err != nil {
		log.Printf("[WARN] Failed to start sensor bridge: %v", err)
	}

	clock := NewPlaybackClock()
	window := sampler.NewWindow(h.opts.WindowSize)
	trigger := sampler.NewTrigger(h.opts.TriggerThresholdBPM, h.opts.TriggerCooldown)
	controller := NewController(sess.ID, clock, window, h.classifier, h.sessions, h.hub, h.opts.ClassifyTimeout)
	smp := sampler.NewSampler(h.opts.SamplePeriod, h.feed, window, trigger, controller)

	ctx, cancel := context.WithCancel(context.Background())
	watch := &Watch{
		SessionID:  sess.ID,
		Clock:      clock,
		Sampler:    smp,
		Controller: controller,
		cancel:     cancel,
	}

	if err := h.registry.Add(watch); err != nil {
		cancel()
		respondError(w, http.StatusConflict, "Watch already running for session")
		return
	}

	go smp.Run(ctx)

	log.Printf("[WATCH] Started watch for session %s (user=%s video=%s)", sess.ID, req.UserID, req.VideoID)
	respondJSON(w, http.StatusCreated, session.SessionResponse{Session: sess})
}

// PauseWatch приостанавливает выборку и часы воспроизведения
// @Summary Приостановить просмотр
// @Tags watch
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/watch/{id}/pause [post]
func (h *HTTPHandler) PauseWatch(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	watch, ok := h.registry.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "Watch not found")
		return
	}

	watch.Clock.Pause()
	watch.Sampler.SetPaused(true)

	log.Printf("[WATCH] Paused session %s at %.1fs", sessionID, watch.Clock.Position())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":          sessionID,
		"paused":              true,
		"video_timestamp_sec": watch.Clock.Position(),
	})
}

// ResumeWatch возобновляет выборку и часы воспроизведения
// @Summary Возобновить просмотр
// @Tags watch
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/watch/{id}/resume [post]
func (h *HTTPHandler) ResumeWatch(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	watch, ok := h.registry.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "Watch not found")
		return
	}

	watch.Clock.Resume()
	watch.Sampler.SetPaused(false)

	log.Printf("[WATCH] Resumed session %s at %.1fs", sessionID, watch.Clock.Position())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":          sessionID,
		"paused":              false,
		"video_timestamp_sec": watch.Clock.Position(),
	})
}

// StopWatch останавливает просмотр и финализирует сессию
// @Summary Остановить просмотр
// @Description Останавливает цикл выборки, финализирует сессию и возвращает сводку
// @Tags watch
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} session.SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/watch/{id}/stop [post]
func (h *HTTPHandler) StopWatch(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	watch, ok := h.registry.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "Watch not found")
		return
	}

	watch.Stop()
	h.registry.Remove(sessionID)
	h.hub.ForgetSession(sessionID)

	// Останавливаем датчик, когда активных просмотров не осталось
	if h.registry.Count() == 0 {
		if err := h.bridge.Stop(r.Context()); err != nil {
			log.Printf("[WARN] Failed to stop sensor bridge: %v", err)
		}
	}

	if err := h.sessions.StopSession(r.Context(), sessionID); err != nil {
		log.Printf("[WARN] Failed to stop session %s: %v", sessionID, err)
	}

	sess, err := h.sessions.FinalizeSession(r.Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to finalize session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to finalize session")
		return
	}

	respondJSON(w, http.StatusOK, session.SessionResponse{Session: sess})
}

// ===== Утилиты =====

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}
