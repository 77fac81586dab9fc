package service_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-attendance/internal/analytics"
	"ms-attendance/internal/logger"
	"ms-attendance/internal/qr"
	"ms-attendance/internal/services"
	"ms-attendance/internal/utils"
)

// Handler exposes the service endpoints: the public landing surface and the
// admin service management routes.
type Handler struct {
	ServiceService *services.ServiceService
	Analytics      *analytics.Service
	QR             *qr.Generator
	Logger         *logger.Logger
}

func NewHandler(serviceService *services.ServiceService, analyticsService *analytics.Service, qrGen *qr.Generator, log *logger.Logger) *Handler {
	return &Handler{
		ServiceService: serviceService,
		Analytics:      analyticsService,
		QR:             qrGen,
		Logger:         log,
	}
}

// RegisterPublicRoutes registers the routes attendees reach by scanning the
// QR code, no authentication required.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/landing", h.Landing)
	r.Get("/landing/qr", h.LandingQR)
	r.Get("/services/{serviceID}", h.GetService)
}

// RegisterAdminRoutes registers the service management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/services", h.CreateService)
	r.Get("/services", h.ListServiceSummaries)
}

// landingResponse is the payload the public landing page renders: the most
// recent service plus the URL its QR code points at.
type landingResponse struct {
	Service    interface{} `json:"service"`
	CheckinURL string      `json:"checkin_url"`
	Open       bool        `json:"open"`
}

// Landing returns the most recent service's summary and check-in URL.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	latest, err := h.ServiceService.LatestService(r.Context())
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("No upcoming services found", err.Error()))
		return
	}

	summary, err := h.Analytics.GetServiceSummary(r.Context(), latest.ID)
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Failed to summarize service", err.Error()))
		return
	}

	sendJSON(w, http.StatusOK, utils.SuccessResponse("Latest service", landingResponse{
		Service:    summary,
		CheckinURL: h.QR.CheckinURL(latest.ID),
		Open:       analytics.IsCheckInOpen(summary, time.Now()),
	}))
}

// LandingQR renders the QR code PNG for the latest service's check-in form.
func (h *Handler) LandingQR(w http.ResponseWriter, r *http.Request) {
	latest, err := h.ServiceService.LatestService(r.Context())
	if err != nil {
		http.Error(w, "No upcoming services found: "+err.Error(), utils.HTTPStatus(err))
		return
	}

	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := h.QR.GenerateCheckinQR(latest.ID, size)
	if err != nil {
		http.Error(w, "Failed to generate QR: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GetService returns one service with its derived summary, which the check-in
// form uses for its header and countdown.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	summary, err := h.Analytics.GetServiceSummary(r.Context(), serviceID)
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Service not found", err.Error()))
		return
	}

	sendJSON(w, http.StatusOK, utils.SuccessResponse("Service", map[string]interface{}{
		"service": summary,
		"open":    analytics.IsCheckInOpen(summary, time.Now()),
	}))
}

type createServiceRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	service, err := h.ServiceService.CreateService(r.Context(), req.Title, req.Date)
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Failed to create service", err.Error()))
		return
	}

	h.Logger.LogService("CREATE", service.ID, fmt.Sprintf("%s on %s", service.Title, service.Date))
	sendJSON(w, http.StatusCreated, utils.SuccessResponse("Service created", service))
}

// ListServiceSummaries returns every service with derived attendance counts,
// ordered by date descending.
func (h *Handler) ListServiceSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Analytics.ListServiceSummaries(r.Context())
	if err != nil {
		sendJSON(w, utils.HTTPStatus(err), utils.ErrorResponse("Failed to list services", err.Error()))
		return
	}
	sendJSON(w, http.StatusOK, utils.SuccessResponse("Service summaries", summaries))
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
