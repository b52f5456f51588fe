package emulator

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HTTPServer управляет издателем пульса по HTTP.
// Протокол совместим с мостом реального датчика: /start и /stop
// идемпотентны на уровне клиента, повтор возвращает текущее состояние.
type HTTPServer struct {
	publisher *Publisher
}

// NewHTTPServer создает HTTP обработчик эмулятора
func NewHTTPServer(publisher *Publisher) *HTTPServer {
	return &HTTPServer{
		publisher: publisher,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (s *HTTPServer) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/start", s.handleStart).Methods("POST")
	router.HandleFunc("/stop", s.handleStop).Methods("POST")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
}

func (s *HTTPServer) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.publisher.Start(); err != nil {
		respondStatus(w, http.StatusBadRequest, "already_running")
		return
	}
	respondStatus(w, http.StatusOK, "started")
}

func (s *HTTPServer) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.publisher.Stop(); err != nil {
		respondStatus(w, http.StatusBadRequest, "not_running")
		return
	}
	respondStatus(w, http.StatusOK, "stopped")
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	published, errors := s.publisher.GetStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"running":   s.publisher.Running(),
		"published": published,
		"errors":    errors,
		"generator": s.publisher.generator.GetStats(),
	}); err != nil {
		log.Printf("[ERROR] Failed to encode status response: %v", err)
	}
}

func respondStatus(w http.ResponseWriter, httpStatus int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		log.Printf("[ERROR] Failed to encode status response: %v", err)
	}
}
