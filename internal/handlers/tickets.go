package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/constants"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/tickets"
)

// TicketHandler provides the ticket intake and read endpoints.
type TicketHandler struct {
	service *tickets.Service
	metrics *Metrics
	logger  *logrus.Logger
}

// NewTicketHandler creates the ticket handler.
func NewTicketHandler(
	service *tickets.Service,
	metrics *Metrics,
	logger *logrus.Logger,
) *TicketHandler {
	return &TicketHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Analyze returns the routing decision for a submission without creating a
// ticket. It always responds HTTP 200: classifier unavailability yields the
// degraded fallback decision, never an error status, so the ticket-creation
// flow cannot be blocked.
func (h *TicketHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Even malformed input degrades to the fallback decision by design.
		h.logger.WithError(err).Warn("Invalid analyze payload, returning fallback decision")
		req = models.TicketRequest{}
	}

	decision := h.service.Analyze(r.Context(), req)
	h.writeJSON(w, decision, http.StatusOK)
}

// Create handles full ticket intake: decision, priority merge, persistence,
// and notification dispatch.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	ticket, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Warn("Ticket creation failed")

		statusCode := http.StatusBadRequest
		if strings.Contains(err.Error(), "failed to persist") {
			statusCode = http.StatusInternalServerError
		}
		h.writeError(w, err.Error(), statusCode)
		return
	}

	h.metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Priority)).Inc()
	h.writeJSON(w, ticket, http.StatusCreated)
}

// Get returns a single ticket by id.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ticket, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTicketNotFound) {
			h.writeError(w, "Ticket not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to load ticket")
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, ticket, http.StatusOK)
}

// List returns recent tickets with limit/offset paging.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	list, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tickets")
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, list, http.StatusOK)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// writeJSON writes a JSON response with the given status code.
func (h *TicketHandler) writeJSON(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode ticket response")
	}
}

// writeError writes a JSON error response.
func (h *TicketHandler) writeError(w http.ResponseWriter, msg string, code int) {
	h.writeJSON(w, map[string]string{"error": msg}, code)
}
