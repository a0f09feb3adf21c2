// Package health реализует HTTP healthcheck сервер для мониторинга состояния бота.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pantrybot/internal/session"
)

// Server представляет HTTP сервер для health check
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	port      string
	startTime time.Time
	db        Pinger
	session   *session.Manager
}

var _ ServerInterface = (*Server)(nil)

// Status представляет статус здоровья системы
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// NewHealthServer создает новый health check сервер
func NewHealthServer(port string, logger *zap.Logger, db Pinger, sessionManager *session.Manager) *Server {
	mux := http.NewServeMux()

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hs := &Server{
		server:    server,
		logger:    logger,
		port:      port,
		startTime: time.Now(),
		db:        db,
		session:   sessionManager,
	}

	mux.HandleFunc("/health", hs.healthHandler)
	mux.HandleFunc("/ready", hs.readyHandler)

	return hs
}

// Start запускает health check сервер
func (hs *Server) Start() error {
	hs.logger.Info("Starting health check server", zap.String("port", hs.port))
	return hs.server.ListenAndServe()
}

// Stop останавливает health check сервер
func (hs *Server) Stop(ctx context.Context) error {
	hs.logger.Info("Stopping health check server")
	return hs.server.Shutdown(ctx)
}

func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%ds", seconds)
}

// healthHandler обрабатывает запросы /health
func (hs *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	status := Status{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Uptime:     formatDuration(time.Since(hs.startTime)),
		Version:    "1.0.0",
		Components: hs.checkComponents(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(status); err != nil {
		hs.logger.Error("Failed to encode health status", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// readyHandler обрабатывает запросы /ready
func (hs *Server) readyHandler(w http.ResponseWriter, _ *http.Request) {
	components := hs.checkComponents()

	overallStatus := "ready"
	if components["database"] != "healthy" {
		overallStatus = "unhealthy"
	}

	status := Status{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     formatDuration(time.Since(hs.startTime)),
		Version:    "1.0.0",
		Components: components,
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus == "ready" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		hs.logger.Warn("Readiness check failed", zap.Any("components", components))
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		hs.logger.Error("Failed to encode ready status", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// checkComponents проверяет состояние всех компонентов
func (hs *Server) checkComponents() map[string]string {
	components := make(map[string]string)

	if hs.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hs.db.Ping(ctx); err != nil {
			components["database"] = "unhealthy"
			hs.logger.Error("Database check failed", zap.Error(err))
		} else {
			components["database"] = "healthy"
		}
	}

	// Статус сессии информационный: бот без конфигурации жив,
	// просто еще не подключен к Home Assistant.
	if hs.session != nil {
		components["session"] = hs.session.Status().String()
	}

	return components
}
