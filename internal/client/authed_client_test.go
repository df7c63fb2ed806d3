package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// newPlatformServer serves both the token endpoint and a /members data
// endpoint. acceptToken controls which bearer token the data endpoint
// accepts; grant responses hand out access-<n> on the n-th grant call.
func newPlatformServer(t *testing.T, grantCalls, dataCalls *atomic.Int32, acceptToken func(string) bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			n := grantCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  fmt.Sprintf("access-%d", n),
				"refresh_token": fmt.Sprintf("refresh-%d", n),
			})
		case "/members":
			dataCalls.Add(1)
			token := r.Header.Get("Authorization")
			if !acceptToken(token) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newAuthedClient(serverURL string) *client.AuthedClient {
	logger := testLogger()
	tm := client.NewTokenManager(client.Credentials{
		BaseURL:    serverURL,
		BasicToken: "dGVzdDp0ZXN0",
		Username:   "ops@studio.example",
		Password:   "secret",
	}, 10*time.Second, logger)

	return client.NewAuthedClient(client.NewBaseClient(serverURL, 10*time.Second, logger), tm)
}

func TestAuthedClient_DoWithAuth_AuthenticatesOnFirstCall(t *testing.T) {
	var grantCalls, dataCalls atomic.Int32
	server := newPlatformServer(t, &grantCalls, &dataCalls, func(token string) bool {
		return token == "Bearer access-1"
	})
	defer server.Close()

	ac := newAuthedClient(server.URL)

	resp, err := ac.DoWithAuth(context.Background(), http.MethodGet, "/members", nil, nil)
	if err != nil {
		t.Fatalf("DoWithAuth() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if grantCalls.Load() != 1 {
		t.Errorf("Expected 1 grant call, got %d", grantCalls.Load())
	}
	if dataCalls.Load() != 1 {
		t.Errorf("Expected 1 data call, got %d", dataCalls.Load())
	}
}

func TestAuthedClient_DoWithAuth_RefreshesOnceOn401(t *testing.T) {
	var grantCalls, dataCalls atomic.Int32
	// Only the refreshed token is accepted; the initial one draws a 401.
	server := newPlatformServer(t, &grantCalls, &dataCalls, func(token string) bool {
		return token == "Bearer access-2"
	})
	defer server.Close()

	ac := newAuthedClient(server.URL)

	resp, err := ac.DoWithAuth(context.Background(), http.MethodGet, "/members", nil, nil)
	if err != nil {
		t.Fatalf("DoWithAuth() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 after refresh, got %d", resp.StatusCode)
	}
	// Password grant plus exactly one refresh grant.
	if grantCalls.Load() != 2 {
		t.Errorf("Expected 2 grant calls, got %d", grantCalls.Load())
	}
	// Initial request plus exactly one retry.
	if dataCalls.Load() != 2 {
		t.Errorf("Expected 2 data calls, got %d", dataCalls.Load())
	}
}

func TestAuthedClient_DoWithAuth_SecondConsecutive401(t *testing.T) {
	var grantCalls, dataCalls atomic.Int32
	server := newPlatformServer(t, &grantCalls, &dataCalls, func(string) bool {
		return false
	})
	defer server.Close()

	ac := newAuthedClient(server.URL)

	_, err := ac.DoWithAuth(context.Background(), http.MethodGet, "/members", nil, nil)
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	// The retry loop is bounded: no third attempt however many 401s arrive.
	if dataCalls.Load() != 2 {
		t.Errorf("Expected exactly 2 data calls, got %d", dataCalls.Load())
	}
}

func TestAuthedClient_DoWithAuth_NotConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No network call expected when credentials are incomplete")
	}))
	defer server.Close()

	logger := testLogger()
	tm := client.NewTokenManager(client.Credentials{BaseURL: server.URL}, time.Second, logger)
	ac := client.NewAuthedClient(client.NewBaseClient(server.URL, time.Second, logger), tm)

	_, err := ac.DoWithAuth(context.Background(), http.MethodGet, "/members", nil, nil)
	if !errors.Is(err, models.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestAuthedClient_DoWithAuth_RefreshFailure(t *testing.T) {
	var grantCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			if grantCalls.Add(1) == 1 {
				json.NewEncoder(w).Encode(map[string]string{
					"access_token":  "access-1",
					"refresh_token": "refresh-1",
				})
				return
			}
			// The refresh grant is rejected.
			w.WriteHeader(http.StatusBadRequest)
		case "/members":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	ac := newAuthedClient(server.URL)

	_, err := ac.DoWithAuth(context.Background(), http.MethodGet, "/members", nil, nil)
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized when refresh fails, got %v", err)
	}
}
