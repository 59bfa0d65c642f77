package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
)

const dateLayout = "2006-01-02"

// The handlers depend on narrow service interfaces so tests can swap in
// fakes without standing up repositories or queues.

type ClockInService interface {
	ProcessClockIn(ctx context.Context, identifier string, method model.Method) (*core.ClockInResult, error)
}

type StatsService interface {
	GetDashboardStats(ctx context.Context, from, to time.Time, workerID string) (*model.DashboardStats, error)
}

type AbsenceService interface {
	CheckAndGenerateAbsences(ctx context.Context) (int, error)
}

type AttendanceHandler struct {
	ClockIn  ClockInService
	Stats    StatsService
	Absences AbsenceService
}

type ClockInRequest struct {
	Identifier string `json:"identifier"`
	Method     string `json:"method"`
}

type errorResponse struct {
	Error string     `json:"error"`
	Sound core.Sound `json:"sound"`
}

// ProcessClockIn handles a kiosk punch. The kiosk plays the returned
// sound, so error responses carry one too.
func (h *AttendanceHandler) ProcessClockIn(w http.ResponseWriter, r *http.Request) {
	var req ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Identifier == "" {
		http.Error(w, "Identifier is required", http.StatusBadRequest)
		return
	}
	method := model.Method(req.Method)
	switch method {
	case model.MethodPIN, model.MethodQR, model.MethodNFC, model.MethodManual:
	default:
		http.Error(w, "Unknown clock-in method", http.StatusBadRequest)
		return
	}

	result, err := h.ClockIn.ProcessClockIn(r.Context(), req.Identifier, method)
	switch {
	case errors.Is(err, core.ErrWorkerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Worker not found", Sound: core.SoundError})
		return
	case errors.Is(err, core.ErrCompanyClosed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Sound: core.SoundError})
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("Clock-in failed")
		http.Error(w, "Service error processing event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetStats serves the dashboard aggregation for ?from=&to=&workerId=.
func (h *AttendanceHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := time.ParseInLocation(dateLayout, q.Get("from"), time.Local)
	if err != nil {
		http.Error(w, "Invalid or missing 'from' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.ParseInLocation(dateLayout, q.Get("to"), time.Local)
	if err != nil {
		http.Error(w, "Invalid or missing 'to' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	workerID := q.Get("workerId")
	if workerID == "" {
		workerID = "all"
	}

	stats, err := h.Stats.GetDashboardStats(r.Context(), from, to, workerID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Stats aggregation failed")
		http.Error(w, "Service error computing statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// CheckAbsences runs the absence auto-detector. Idempotent, so the admin
// UI calls it on every page load.
func (h *AttendanceHandler) CheckAbsences(w http.ResponseWriter, r *http.Request) {
	count, err := h.Absences.CheckAndGenerateAbsences(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Absence check failed")
		http.Error(w, "Service error checking absences", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
