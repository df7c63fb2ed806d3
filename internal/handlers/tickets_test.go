package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/classifier"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/notify"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/handlers"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/routing"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage/memory"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/tickets"
)

type stubClassifier struct {
	decision *models.RoutingDecision
	err      error
}

func (s *stubClassifier) Classify(_ context.Context, _ classifier.Request) (*models.RoutingDecision, error) {
	if s.err != nil {
		return nil, s.err
	}
	d := *s.decision
	return &d, nil
}

func newTicketRouter(cls routing.Classifier) (*mux.Router, *memory.Store) {
	logger := testLogger()
	engine := routing.NewEngine(cls, config.DefaultRoutingTables(), 0.7, logger)
	store := memory.NewStore(logger)
	notifier := notify.NewClient("", time.Second, logger)
	service := tickets.NewService(engine, store, notifier, logger)
	handler := handlers.NewTicketHandler(service, handlers.NewMetrics(), logger)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/tickets/analyze", handler.Analyze).Methods("POST")
	router.HandleFunc("/api/v1/tickets", handler.Create).Methods("POST")
	router.HandleFunc("/api/v1/tickets", handler.List).Methods("GET")
	router.HandleFunc("/api/v1/tickets/{id}", handler.Get).Methods("GET")

	return router, store
}

func doJSON(t *testing.T, router *mux.Router, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_LiveDecision(t *testing.T) {
	router, _ := newTicketRouter(&stubClassifier{decision: &models.RoutingDecision{
		Department:        "Finance",
		Priority:          models.PriorityHigh,
		SuggestedTags:     []string{"billing"},
		RoutingConfidence: 0.9,
	}})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tickets/analyze", models.TicketRequest{
		Title:       "Charged twice",
		Description: "Two charges for one class pack",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var decision models.RoutingDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, "Finance", decision.Department)
	assert.Equal(t, models.PriorityHigh, decision.Priority)
}

func TestAnalyze_ClassifierOutageStillReturns200(t *testing.T) {
	router, _ := newTicketRouter(&stubClassifier{err: errors.New("timeout")})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tickets/analyze", models.TicketRequest{
		Title:       "Anything",
		Description: "Anything at all",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var decision models.RoutingDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, "Operations", decision.Department)
	assert.Equal(t, models.PriorityMedium, decision.Priority)
	assert.Equal(t, 0.0, decision.RoutingConfidence)
}

func TestCreateTicket(t *testing.T) {
	router, store := newTicketRouter(&stubClassifier{decision: &models.RoutingDecision{
		Department:        "Maintenance",
		Priority:          models.PriorityHigh,
		RoutingConfidence: 0.85,
	}})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tickets", models.TicketRequest{
		Title:       "Broken rower",
		Description: "Rower 2 display is dead",
		Category:    "Facilities & Equipment",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, "Maintenance", ticket.Routing.Department)

	stored, err := store.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broken rower", stored.Title)
}

func TestCreateTicket_ValidationError(t *testing.T) {
	router, _ := newTicketRouter(&stubClassifier{decision: routing.FallbackDecision()})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tickets", models.TicketRequest{
		Description: "missing title",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestCreateTicket_InvalidJSON(t *testing.T) {
	router, _ := newTicketRouter(&stubClassifier{decision: routing.FallbackDecision()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTicket(t *testing.T) {
	router, store := newTicketRouter(&stubClassifier{decision: routing.FallbackDecision()})

	ticket := &models.Ticket{
		ID:        "t-1",
		Title:     "Stored ticket",
		Status:    models.TicketOpen,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateTicket(context.Background(), ticket))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tickets/t-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stored ticket")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tickets/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTickets(t *testing.T) {
	router, store := newTicketRouter(&stubClassifier{decision: routing.FallbackDecision()})

	base := time.Now().UTC()
	for _, id := range []string{"t-1", "t-2", "t-3"} {
		require.NoError(t, store.CreateTicket(context.Background(), &models.Ticket{
			ID:        id,
			Title:     "Ticket " + id,
			CreatedAt: base,
		}))
		base = base.Add(time.Second)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/tickets?limit=2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []models.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}
