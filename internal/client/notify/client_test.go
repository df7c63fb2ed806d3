package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/notify"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestTicketCreated(t *testing.T) {
	var received notify.TicketCreatedEvent

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := notify.NewClient(server.URL, 5*time.Second, testLogger())

	c.TicketCreated(context.Background(), &models.Ticket{
		ID:    "t-1",
		Title: "Broken treadmill",
	})

	if received.Event != "ticket.created" {
		t.Errorf("Expected event 'ticket.created', got '%s'", received.Event)
	}
	if received.Ticket == nil || received.Ticket.ID != "t-1" {
		t.Errorf("Unexpected ticket payload %+v", received.Ticket)
	}
}

func TestTicketCreated_Disabled(t *testing.T) {
	c := notify.NewClient("", time.Second, testLogger())

	// Must not panic and must not attempt any network call.
	c.TicketCreated(context.Background(), &models.Ticket{ID: "t-1"})
}

func TestTicketCreated_FailureSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := notify.NewClient(server.URL, time.Second, testLogger())

	// Webhook failures never propagate to the caller.
	c.TicketCreated(context.Background(), &models.Ticket{ID: "t-1"})
}
