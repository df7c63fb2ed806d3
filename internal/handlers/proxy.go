package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/momence"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/constants"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// Proxy action names accepted by the member-data dispatch endpoint.
const (
	ActionSearchMembers        = "searchMembers"
	ActionGetMemberSessions    = "getMemberSessions"
	ActionGetMemberMemberships = "getMemberMemberships"
	ActionGetSessions          = "getSessions"
	ActionGetSessionDetails    = "getSessionDetails"
)

// ProxyRequest is the action-dispatch payload the UI sends for member and
// session data.
type ProxyRequest struct {
	Action    string `json:"action"`
	Query     string `json:"query,omitempty"`
	MemberID  string `json:"memberId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
}

// MemberDataHandler mediates UI access to the member/session platform.
type MemberDataHandler struct {
	platform *momence.Client
	metrics  *Metrics
	logger   *logrus.Logger
}

// NewMemberDataHandler creates the member-data proxy handler.
func NewMemberDataHandler(platform *momence.Client, metrics *Metrics, logger *logrus.Logger) *MemberDataHandler {
	return &MemberDataHandler{
		platform: platform,
		metrics:  metrics,
		logger:   logger,
	}
}

// Dispatch handles the single action-dispatch endpoint. Upstream failures
// return {"error": ...} with HTTP 500; an unconfigured platform degrades to
// the action's documented empty value with HTTP 200 so the UI renders an
// empty view instead of an error.
func (h *MemberDataHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req ProxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	result, err := h.execute(r, req)
	if err != nil {
		var badReq badRequestError
		if errors.As(err, &badReq) {
			h.writeError(w, badReq.Error(), http.StatusBadRequest)
			return
		}

		if errors.Is(err, models.ErrNotConfigured) {
			h.metrics.PlatformRequestsTotal.WithLabelValues(req.Action, "not_configured").Inc()
			h.writeJSON(w, emptyValue(req.Action), http.StatusOK)
			return
		}

		h.metrics.PlatformRequestsTotal.WithLabelValues(req.Action, "error").Inc()
		h.logger.WithFields(logrus.Fields{
			"action": req.Action,
			"error":  err,
		}).Error("Member-data proxy request failed")
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.metrics.PlatformRequestsTotal.WithLabelValues(req.Action, "ok").Inc()
	h.writeJSON(w, result, http.StatusOK)
}

// execute runs the requested platform operation.
func (h *MemberDataHandler) execute(r *http.Request, req ProxyRequest) (interface{}, error) {
	ctx := r.Context()

	switch req.Action {
	case ActionSearchMembers:
		if len(strings.TrimSpace(req.Query)) < config.MinSearchQueryLength {
			return nil, errBadRequest("query must be at least 2 characters")
		}
		return h.platform.SearchMembers(ctx, req.Query, req.Page, req.PageSize)

	case ActionGetMemberSessions:
		if req.MemberID == "" {
			return nil, errBadRequest("memberId is required")
		}
		return h.platform.GetMemberSessions(ctx, req.MemberID)

	case ActionGetMemberMemberships:
		if req.MemberID == "" {
			return nil, errBadRequest("memberId is required")
		}
		return h.platform.GetMemberMemberships(ctx, req.MemberID)

	case ActionGetSessions:
		return h.platform.ListSessions(ctx, req.Page, req.PageSize, time.Time{}, "")

	case ActionGetSessionDetails:
		if req.SessionID == "" {
			return nil, errBadRequest("sessionId is required")
		}
		return h.platform.GetSessionByID(ctx, req.SessionID)

	default:
		return nil, errBadRequest("unknown action: " + req.Action)
	}
}

// SessionsOverview serves the aggregated bulk session view: all pages up to
// the configured cap, each session enriched with its detail record, with an
// optional location filter.
//
// Query parameters: location (studio name), maxPages.
func (h *MemberDataHandler) SessionsOverview(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	maxPages := 0
	if raw := r.URL.Query().Get("maxPages"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, "maxPages must be an integer", http.StatusBadRequest)
			return
		}
		maxPages = parsed
	}

	sessions, err := h.platform.ListAllSessionsWithDetails(r.Context(), maxPages, time.Time{}, location)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			h.metrics.PlatformRequestsTotal.WithLabelValues("sessionsOverview", "not_configured").Inc()
			h.writeJSON(w, []models.Session{}, http.StatusOK)
			return
		}

		h.metrics.PlatformRequestsTotal.WithLabelValues("sessionsOverview", "error").Inc()
		h.logger.WithError(err).Error("Session overview aggregation failed")
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.metrics.PlatformRequestsTotal.WithLabelValues("sessionsOverview", "ok").Inc()
	h.writeJSON(w, sessions, http.StatusOK)
}

// badRequestError marks client-side errors for status mapping.
type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// emptyValue returns the documented empty value for an action, used when
// the platform is not configured.
func emptyValue(action string) interface{} {
	switch action {
	case ActionSearchMembers:
		return momence.MemberPage{Payload: []momence.RawMember{}}
	case ActionGetSessions:
		return momence.SessionPage{Payload: []momence.RawSession{}}
	case ActionGetMemberSessions:
		return []models.Session{}
	case ActionGetMemberMemberships:
		return []models.Membership{}
	default:
		return nil
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *MemberDataHandler) writeJSON(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode proxy response")
	}
}

// writeError writes a JSON error response.
func (h *MemberDataHandler) writeError(w http.ResponseWriter, msg string, code int) {
	h.writeJSON(w, map[string]string{"error": msg}, code)
}
