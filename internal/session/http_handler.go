package session

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// HTTPHandler обрабатывает HTTP запросы для управления сессиями (Presentation Layer)
type HTTPHandler struct {
	manager *Manager
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(manager *Manager) *HTTPHandler {
	return &HTTPHandler{
		manager: manager,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/sessions").Subrouter()

	api.HandleFunc("", h.CreateSession).Methods("POST")
	api.HandleFunc("", h.ListSessions).Methods("GET")
	api.HandleFunc("/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/{id}/stop", h.StopSession).Methods("POST")
	api.HandleFunc("/{id}/finalize", h.FinalizeSession).Methods("POST")
	api.HandleFunc("/{id}", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/{id}/data", h.GetSessionData).Methods("GET")
}

// CreateSession создает новую сессию просмотра
// @Summary Создать сессию просмотра
// @Description Создает новую сессию просмотра видео для пользователя
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Параметры сессии"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions [post]
func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.VideoID == "" {
		respondError(w, http.StatusBadRequest, "user_id and video_id are required")
		return
	}

	session, err := h.manager.CreateSession(r.Context(), req.UserID, req.VideoID)
	if err != nil {
		if strings.Contains(err.Error(), "movie not found") {
			respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		log.Printf("[ERROR] Failed to create session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, SessionResponse{Session: session})
}

// ListSessions возвращает сессии пользователя по фильму
// @Summary Список сессий по фильму
// @Description Возвращает сессии пользователя по конкретному фильму, новые первыми
// @Tags sessions
// @Produce json
// @Param user_id query string true "ID пользователя"
// @Param video_id query string true "ID фильма"
// @Param limit query int false "Лимит" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions [get]
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	videoID := r.URL.Query().Get("video_id")
	if userID == "" || videoID == "" {
		respondError(w, http.StatusBadRequest, "user_id and video_id are required")
		return
	}

	limit := getQueryInt(r, "limit", 50)
	offset := getQueryInt(r, "offset", 0)

	sessions, err := h.manager.ListSessionsByMovie(r.Context(), userID, videoID, limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list sessions: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
		"count":    len(sessions),
	})
}

// GetSession получает информацию о сессии
// @Summary Информация о сессии
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id} [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.manager.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Session: session})
}

// StopSession останавливает сессию
// @Summary Остановить сессию
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id}/stop [post]
func (h *HTTPHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.manager.StopSession(r.Context(), sessionID); err != nil {
		log.Printf("[ERROR] Failed to stop session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to stop session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Session stopped successfully",
		"session_id": sessionID,
	})
}

// FinalizeSession финализирует сессию и возвращает сводку
// @Summary Финализировать сессию
// @Description Вычисляет сводку сессии и сохраняет ее. Повторный вызов возвращает сохраненную сводку
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id}/finalize [post]
func (h *HTTPHandler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.manager.FinalizeSession(r.Context(), sessionID)
	if err != nil {
		if strings.Contains(err.Error(), "session not found") {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Printf("[ERROR] Failed to finalize session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to finalize session")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Session: session})
}

// DeleteSession удаляет сессию
// @Summary Удалить сессию
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id} [delete]
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.manager.DeleteSession(r.Context(), sessionID); err != nil {
		log.Printf("[ERROR] Failed to delete session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Session deleted successfully",
		"session_id": sessionID,
	})
}

// GetSessionData получает сессию вместе с эмоциональной шкалой
// @Summary Данные сессии
// @Description Возвращает сессию вместе со всеми точками эмоций в порядке поступления
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} SessionData
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id}/data [get]
func (h *HTTPHandler) GetSessionData(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	data, err := h.manager.GetSessionData(r.Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to get session data %s: %v", sessionID, err)
		respondError(w, http.StatusNotFound, "Session data not found")
		return
	}

	respondJSON(w, http.StatusOK, data)
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

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
