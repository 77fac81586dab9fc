package attendance_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-attendance/internal/attendance"
	"ms-attendance/internal/export"
	"ms-attendance/internal/logger"
	"ms-attendance/internal/models"
	"ms-attendance/internal/sse"
	"ms-attendance/internal/utils"
)

// Handler exposes the check-in submission endpoint and the admin attendance
// listing, export, and live-feed routes.
type Handler struct {
	AttendanceService *attendance.AttendanceService
	Emitter           *sse.CheckinEventEmitter
	Logger            *logger.Logger
}

func NewHandler(attendanceService *attendance.AttendanceService, emitter *sse.CheckinEventEmitter, log *logger.Logger) *Handler {
	return &Handler{
		AttendanceService: attendanceService,
		Emitter:           emitter,
		Logger:            log,
	}
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/services/{serviceID}/attendance", h.CheckIn)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/services/{serviceID}/attendance", h.ListByService)
	r.Get("/services/{serviceID}/attendance/export", h.ExportXLSX)
	r.Get("/services/{serviceID}/attendance/live", h.LiveCheckins)
}

type checkinRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PrayerRequest string `json:"prayer_request"`
	FirstTimer    string `json:"first_timer"`
}

// CheckIn accepts one attendee's submission against the service in the URL.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	record, err := h.AttendanceService.CheckIn(r.Context(), models.Attendance{
		ServiceID:     serviceID,
		Name:          req.Name,
		Category:      req.Category,
		Email:         req.Email,
		Phone:         req.Phone,
		PrayerRequest: req.PrayerRequest,
		FirstTimer:    req.FirstTimer,
	})
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Check-in failed", err.Error()))
		return
	}

	h.Logger.LogCheckin(serviceID, record.ID, fmt.Sprintf("%s checked in as %s", record.Name, record.Category))
	sendJSON(w, http.StatusCreated, utils.SuccessResponse("Checked in", record))
}

// ListByService returns the raw attendance rows for a service.
func (h *Handler) ListByService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	records, err := h.AttendanceService.ListByService(r.Context(), serviceID)
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Failed to fetch attendance", err.Error()))
		return
	}
	sendJSON(w, http.StatusOK, utils.SuccessResponse("Attendance", records))
}

// ExportXLSX streams the service's attendance as a spreadsheet download.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	service, err := h.AttendanceService.Services.GetServiceByID(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("service %s: %w", serviceID, models.ErrNotFound)
		}
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Service not found", err.Error()))
		return
	}

	records, err := h.AttendanceService.ListByService(r.Context(), serviceID)
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Failed to fetch attendance", err.Error()))
		return
	}

	buf, err := export.AttendanceWorkbook(records)
	if err != nil {
		sendJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to build export", err.Error()))
		return
	}

	h.Logger.LogExport(serviceID, fmt.Sprintf("Exported %d rows", len(records)))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(service.Title)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// LiveCheckins streams new check-ins for a service as server-sent events.
func (h *Handler) LiveCheckins(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := h.Emitter.SubscribeToService(r.Context(), serviceID)
	for {
		select {
		case <-r.Context().Done():
			return
		case record, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(record)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: checkin\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
