//nolint:errcheck // unchecked errors are acceptable in test files
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/gateway"
	"github.com/corebank/ftreserve/internal/handlers"
)

// TestServer wraps the HTTP test server, the database, and a stand-in for
// the legacy FT endpoint.
type TestServer struct {
	Server   *httptest.Server
	Legacy   *legacyStub
	Database *db.DB
	t        *testing.T
}

// legacyStub plays the external FT API. The confirmation response is
// settable per test; list responses carry the endpoint's usual quirks
// (trailing commas) so the full repair path is exercised end to end.
type legacyStub struct {
	server *httptest.Server

	mu            sync.Mutex
	confirmStatus int
	confirmBody   string
	confirmCalls  int
}

func newLegacyStub() *legacyStub {
	stub := &legacyStub{
		confirmStatus: http.StatusOK,
		confirmBody:   "OK",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/reservation.asp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ReservationsOverview 1.0": {"Details": [],}}`))
	})
	mux.HandleFunc("/reservation_confirmation.asp", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		status, body := stub.confirmStatus, stub.confirmBody
		stub.confirmCalls++
		stub.mu.Unlock()

		w.WriteHeader(status)
		w.Write([]byte(body))
	})

	stub.server = httptest.NewServer(mux)
	return stub
}

// SetConfirmResponse changes what the stub answers to confirmation requests.
func (s *legacyStub) SetConfirmResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmStatus = status
	s.confirmBody = body
}

// ConfirmCalls reports how many confirmation requests reached the stub.
func (s *legacyStub) ConfirmCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmCalls
}

// SetupTest creates a test server over a clean database and a fresh legacy
// stub. Requires a reachable database; skipped unless RUN_INTEGRATION_TESTS
// is set.
func SetupTest(t *testing.T) *TestServer {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS=1 to run integration tests")
	}

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	// Background jobs are driven explicitly through the admin endpoints here
	cfg.Scheduler.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	require.NoError(t, err, "failed to connect to database")

	resetTestData(t, database)

	legacy := newLegacyStub()
	cfg.Gateway.BaseURL = legacy.server.URL
	cfg.Gateway.APIToken = "integration-test-token"
	gw := gateway.NewHTTPClient(&cfg.Gateway, nil, logger)

	router := handlers.NewRouter(database, gw, cfg, nil, logger)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:   server,
		Legacy:   legacy,
		Database: database,
		t:        t,
	}
}

// Close shuts down the test server, the legacy stub, and the database.
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Legacy.server.Close()
	_ = ts.Database.Close()
}

// URL returns the full URL for a given path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

func resetTestData(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(), `
		TRUNCATE TABLE transactions CASCADE;
		TRUNCATE TABLE reservations CASCADE;
		TRUNCATE TABLE idempotency_keys CASCADE;
	`)
	require.NoError(t, err, "failed to reset test data")
}

func (ts *TestServer) post(t *testing.T, path string, body map[string]any, idempotencyKey string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL(path), reader)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// CreateReservation sends a POST request to create a pending reservation.
func (ts *TestServer) CreateReservation(t *testing.T, code, accountRef, amount string, expiresAt *time.Time, idempotencyKey string) *http.Response {
	t.Helper()

	body := map[string]any{
		"reservation_code":    code,
		"account_ref":         accountRef,
		"external_account_id": "40817810099910004312",
		"amount":              amount,
		"currency":            "USD",
	}
	if expiresAt != nil {
		body["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}

	return ts.post(t, "/api/v1/reservations", body, idempotencyKey)
}

// ConfirmReservation sends a POST request to confirm a reservation.
func (ts *TestServer) ConfirmReservation(t *testing.T, code, idempotencyKey string) *http.Response {
	t.Helper()
	return ts.post(t, "/api/v1/reservations/"+code+"/confirm", nil, idempotencyKey)
}

// CancelReservation sends a POST request to cancel a reservation.
func (ts *TestServer) CancelReservation(t *testing.T, code, idempotencyKey string) *http.Response {
	t.Helper()
	return ts.post(t, "/api/v1/reservations/"+code+"/cancel", nil, idempotencyKey)
}

// Sweep sends a POST request to expire reservations as of the given instant.
func (ts *TestServer) Sweep(t *testing.T, asOf time.Time) *http.Response {
	t.Helper()
	return ts.post(t, "/api/v1/admin/sweep", map[string]any{
		"as_of": asOf.UTC().Format(time.RFC3339),
	}, "")
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return body
}
