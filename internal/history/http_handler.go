package history

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// HTTPHandler обрабатывает HTTP запросы истории просмотров (Presentation Layer)
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
	api := router.PathPrefix("/api/users/{uid}/history").Subrouter()

	api.HandleFunc("", h.ListHistory).Methods("GET")
	api.HandleFunc("", h.RecordView).Methods("POST")
}

// ListHistory возвращает историю просмотров пользователя
// @Summary История просмотров
// @Description Возвращает историю просмотров пользователя, новые записи первыми
// @Tags history
// @Produce json
// @Param uid path string true "ID пользователя"
// @Param limit query int false "Лимит" default(100)
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{uid}/history [get]
func (h *HTTPHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["uid"]
	limit := getQueryInt(r, "limit", 100)

	entries, err := h.manager.List(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[ERROR] Failed to list history for user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
		"count":   len(entries),
	})
}

// RecordView добавляет просмотр в историю пользователя
// @Summary Записать просмотр
// @Description Добавляет фильм в историю. Повтор того же фильма подряд не дублируется
// @Tags history
// @Accept json
// @Produce json
// @Param uid path string true "ID пользователя"
// @Param request body AppendRequest true "Фильм"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{uid}/history [post]
func (h *HTTPHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["uid"]

	var req AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MovieID == "" {
		respondError(w, http.StatusBadRequest, "movie_id is required")
		return
	}

	added, err := h.manager.RecordView(r.Context(), userID, req.MovieID)
	if err != nil {
		if strings.Contains(err.Error(), "movie not found") {
			respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		log.Printf("[ERROR] Failed to record view for user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to record view")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"added":    added,
		"movie_id": req.MovieID,
	})
}

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
