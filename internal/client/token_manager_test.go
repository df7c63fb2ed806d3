package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestTokenManager_Authenticate_PasswordGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Errorf("Expected path /oauth/token, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Basic dGVzdDp0ZXN0" {
			t.Errorf("Expected Basic authorization, got %s", r.Header.Get("Authorization"))
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "password" {
			t.Errorf("Expected grant_type password, got %s", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("username") != "ops@studio.example" {
			t.Errorf("Unexpected username %s", r.PostForm.Get("username"))
		}
		if r.PostForm.Get("password") != "secret" {
			t.Errorf("Unexpected password %s", r.PostForm.Get("password"))
		}

		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
		})
	}))
	defer server.Close()

	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    server.URL,
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, 10*time.Second, testLogger())

	if err := tm.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	if tm.Token() != "access-1" {
		t.Errorf("Expected access token 'access-1', got '%s'", tm.Token())
	}
}

func TestTokenManager_Authenticate_NotConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No network call expected for incomplete credentials")
	}))
	defer server.Close()

	tm := client.NewTokenManager(client.Credentials{
		BaseURL:  server.URL,
		Username: "ops@studio.example",
	}, 10*time.Second, testLogger())

	if tm.Configured() {
		t.Error("Expected Configured() false for incomplete credentials")
	}

	err := tm.Authenticate(context.Background())
	if !errors.Is(err, models.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestTokenManager_Refresh(t *testing.T) {
	var lastRefreshSent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}

		switch r.PostForm.Get("grant_type") {
		case "password":
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "refresh_token":
			lastRefreshSent = r.PostForm.Get("refresh_token")
			// Refresh responses carry no new refresh token.
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "access-2",
			})
		default:
			t.Errorf("Unexpected grant_type %s", r.PostForm.Get("grant_type"))
		}
	}))
	defer server.Close()

	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    server.URL,
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, 10*time.Second, testLogger())

	ctx := context.Background()
	if err := tm.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	if err := tm.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if tm.Token() != "access-2" {
		t.Errorf("Expected access token 'access-2', got '%s'", tm.Token())
	}
	if lastRefreshSent != "refresh-1" {
		t.Errorf("Expected refresh token 'refresh-1' sent, got '%s'", lastRefreshSent)
	}

	// The refresh token survives a response without one.
	if err := tm.Refresh(ctx); err != nil {
		t.Fatalf("Second Refresh() failed: %v", err)
	}
	if lastRefreshSent != "refresh-1" {
		t.Errorf("Expected retained refresh token 'refresh-1', got '%s'", lastRefreshSent)
	}
}

func TestTokenManager_Refresh_AltFieldSpelling(t *testing.T) {
	var refreshSent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}

		switch r.PostForm.Get("grant_type") {
		case "password":
			// camelCase variant of the refresh-token field.
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "access-1",
				"refreshToken": "refresh-camel",
			})
		case "refresh_token":
			refreshSent = r.PostForm.Get("refresh_token")
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "access-2",
			})
		}
	}))
	defer server.Close()

	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    server.URL,
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, 10*time.Second, testLogger())

	ctx := context.Background()
	if err := tm.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if err := tm.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	if refreshSent != "refresh-camel" {
		t.Errorf("Expected refresh token 'refresh-camel' sent, got '%s'", refreshSent)
	}
}

func TestTokenManager_Refresh_NoTokenHeld(t *testing.T) {
	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    "http://localhost:1",
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, time.Second, testLogger())

	if err := tm.Refresh(context.Background()); err == nil {
		t.Error("Expected error refreshing without a stored refresh token")
	}
}

func TestTokenManager_Invalidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
		})
	}))
	defer server.Close()

	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    server.URL,
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, 10*time.Second, testLogger())

	if err := tm.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if tm.Token() == "" {
		t.Fatal("Expected a token after authentication")
	}

	tm.Invalidate()

	if tm.Token() != "" {
		t.Errorf("Expected empty token after Invalidate, got '%s'", tm.Token())
	}
	if err := tm.Refresh(context.Background()); err == nil {
		t.Error("Expected refresh to fail after Invalidate")
	}
}
