package movies

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// CatalogReader определяет операции чтения каталога
type CatalogReader interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	GetMovie(ctx context.Context, movieID string) (*Movie, error)
}

// HTTPHandler обрабатывает HTTP запросы каталога фильмов (Presentation Layer)
type HTTPHandler struct {
	catalog CatalogReader
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(catalog CatalogReader) *HTTPHandler {
	return &HTTPHandler{
		catalog: catalog,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/movies").Subrouter()

	api.HandleFunc("", h.ListMovies).Methods("GET")
	api.HandleFunc("/{id}", h.GetMovie).Methods("GET")
}

// ListMovies возвращает каталог фильмов
// @Summary Каталог фильмов
// @Tags movies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/movies [get]
func (h *HTTPHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListMovies(r.Context())
	if err != nil {
		log.Printf("[ERROR] Failed to list movies: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list movies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"movies": list,
		"count":  len(list),
	})
}

// GetMovie возвращает фильм по ID
// @Summary Информация о фильме
// @Tags movies
// @Produce json
// @Param id path string true "ID фильма"
// @Success 200 {object} Movie
// @Failure 404 {object} map[string]interface{}
// @Router /api/movies/{id} [get]
func (h *HTTPHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID := mux.Vars(r)["id"]

	movie, err := h.catalog.GetMovie(r.Context(), movieID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}

	respondJSON(w, http.StatusOK, movie)
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
