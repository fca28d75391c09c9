package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"coach-partner/internal/models"
	"coach-partner/internal/repository"
	"coach-partner/internal/services"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

// DashboardHandler handles the analytics API endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	repo             repository.TeamRepository
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboardService *services.DashboardService,
	repo repository.TeamRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		repo:             repo,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GetTrainingLoad handles GET /api/dashboard/training-load/{team_id}
func (h *DashboardHandler) GetTrainingLoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/dashboard/training-load").Observe(duration.Seconds())
	}()

	teamID, ok := h.pathID(w, r, "team_id")
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r)
	if !ok {
		return
	}

	report, err := h.dashboardService.TrainingLoad(ctx, teamID, asOf)
	if err != nil {
		h.serviceError(w, r, "/api/dashboard/training-load", "failed to compute training load", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/dashboard/training-load", "GET", "200")
	h.sendJSON(w, report, http.StatusOK)
}

// GetSuggestions handles GET /api/dashboard/suggestions/{team_id}
func (h *DashboardHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/dashboard/suggestions").Observe(duration.Seconds())
	}()

	teamID, ok := h.pathID(w, r, "team_id")
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r)
	if !ok {
		return
	}

	advice, err := h.dashboardService.Suggestions(ctx, teamID, asOf)
	if err != nil {
		h.serviceError(w, r, "/api/dashboard/suggestions", "failed to compute suggestions", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/dashboard/suggestions", "GET", "200")
	h.sendJSON(w, advice, http.StatusOK)
}

// GetTeamStats handles GET /api/dashboard/stats/{team_id}
func (h *DashboardHandler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/dashboard/stats").Observe(duration.Seconds())
	}()

	teamID, ok := h.pathID(w, r, "team_id")
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboardService.TeamStats(ctx, teamID, asOf)
	if err != nil {
		h.serviceError(w, r, "/api/dashboard/stats", "failed to compute team stats", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/dashboard/stats", "GET", "200")
	h.sendJSON(w, stats, http.StatusOK)
}

// GetAthleteSummary handles GET /api/dashboard/athlete/{athlete_id}
func (h *DashboardHandler) GetAthleteSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/dashboard/athlete").Observe(duration.Seconds())
	}()

	athleteID, ok := h.pathID(w, r, "athlete_id")
	if !ok {
		return
	}
	asOf, ok := h.parseAsOf(w, r)
	if !ok {
		return
	}

	summary, err := h.dashboardService.AthleteSummary(ctx, athleteID, asOf)
	if err != nil {
		h.serviceError(w, r, "/api/dashboard/athlete", "failed to compute athlete summary", err)
		return
	}

	h.metrics.RecordAPIRequest("/api/dashboard/athlete", "GET", "200")
	h.sendJSON(w, summary, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repo.HealthCheck(ctx); err != nil {
		h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Database unreachable", logging.Fields{}, err)
		status["status"] = "unhealthy"
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// pathID parses an integer path variable, replying 400 on garbage.
func (h *DashboardHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.sendError(w, r, "invalid "+name+", expected positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseAsOf reads the optional as_of query parameter, defaulting to today UTC.
func (h *DashboardHandler) parseAsOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}

	asOf, err := models.ParseDay(raw)
	if err != nil {
		h.sendError(w, r, "invalid as_of format, expected YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return asOf, true
}

// serviceError maps a service error to the right status code and logs it.
func (h *DashboardHandler) serviceError(w http.ResponseWriter, r *http.Request, endpoint, fallback string, err error) {
	var notFound *repository.NotFoundError
	if errors.As(err, &notFound) {
		h.metrics.RecordAPIError("not_found", endpoint)
		h.sendError(w, r, notFound.Error(), http.StatusNotFound)
		return
	}

	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		h.metrics.RecordAPIError("validation_error", endpoint)
		h.sendError(w, r, invalid.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Error(r.Context(), "[API_DASHBOARD_ERROR] Request failed", logging.Fields{
		"endpoint": endpoint,
	}, err)
	h.metrics.RecordAPIError("internal_error", endpoint)
	h.sendError(w, r, fallback, http.StatusInternalServerError)
}

// sendJSON sends a JSON response
func (h *DashboardHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *DashboardHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RequestIDMiddleware tags every request with an identifier the structured
// logger echoes on each entry.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RegisterRoutes registers all dashboard API routes
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/dashboard/training-load/{team_id}", h.GetTrainingLoad).Methods("GET")
	router.HandleFunc("/api/dashboard/suggestions/{team_id}", h.GetSuggestions).Methods("GET")
	router.HandleFunc("/api/dashboard/stats/{team_id}", h.GetTeamStats).Methods("GET")
	router.HandleFunc("/api/dashboard/athlete/{athlete_id}", h.GetAthleteSummary).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
