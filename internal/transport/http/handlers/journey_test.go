package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-api/internal/app/server"
	"employee-api/internal/platform/config"
)

type employeeBody struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:     dbURL,
		Environment:     "test",
		RunMigrations:   true,
		MaxBodyBytes:    1048576,
		MetricsEnabled:  true,
		DBMaxConns:      4,
		ShutdownTimeout: time.Second,
	}
}

func startApp(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	app, err := server.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	require.NoError(t, app.Store.DeleteAll(context.Background()))

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

func TestEmployeeJourneySQLite(t *testing.T) {
	ts := startApp(t, testConfig("sqlite://:memory:"))
	runEmployeeJourney(t, ts)
}

func TestEmployeeJourneyMemory(t *testing.T) {
	ts := startApp(t, testConfig("memory://"))
	runEmployeeJourney(t, ts)
}

func TestEmployeeJourneyPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ts := startApp(t, testConfig(dbURL))
	runEmployeeJourney(t, ts)
}

func runEmployeeJourney(t *testing.T, ts *httptest.Server) {
	client := ts.Client()

	status, body := sendJSON(t, client, http.MethodPost, ts.URL+"/api/employees", map[string]string{
		"firstName": "Onur",
		"lastName":  "Haktan",
		"email":     "onur@email.com",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created employeeBody
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, employeeBody{ID: created.ID, FirstName: "Onur", LastName: "Haktan", Email: "onur@email.com"}, created)

	employeeURL := ts.URL + "/api/employees/" + strconv.FormatInt(created.ID, 10)

	status, body = sendJSON(t, client, http.MethodGet, employeeURL, nil)
	require.Equal(t, http.StatusOK, status)
	var fetched employeeBody
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, created, fetched)

	status, _ = sendJSON(t, client, http.MethodPost, ts.URL+"/api/employees", map[string]string{
		"firstName": "Someone",
		"lastName":  "Else",
		"email":     "onur@email.com",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = sendJSON(t, client, http.MethodPut, employeeURL, map[string]string{
		"firstName": "Göksu",
		"lastName":  "Turaç",
		"email":     "goxu@email.com",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var updated employeeBody
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, employeeBody{ID: created.ID, FirstName: "Göksu", LastName: "Turaç", Email: "goxu@email.com"}, updated)

	status, body = sendJSON(t, client, http.MethodGet, ts.URL+"/api/employees", nil)
	require.Equal(t, http.StatusOK, status)
	var all []employeeBody
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Equal(t, []employeeBody{updated}, all)

	status, _ = sendJSON(t, client, http.MethodDelete, employeeURL, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = sendJSON(t, client, http.MethodGet, employeeURL, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)

	status, _ = sendJSON(t, client, http.MethodPut, employeeURL, map[string]string{
		"firstName": "Göksu",
		"lastName":  "Turaç",
		"email":     "goxu@email.com",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOperationalEndpoints(t *testing.T) {
	ts := startApp(t, testConfig("memory://"))
	client := ts.Client()

	status, body := sendJSON(t, client, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))

	status, body = sendJSON(t, client, http.MethodGet, ts.URL+"/readyz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", string(body))

	sendJSON(t, client, http.MethodGet, ts.URL+"/api/employees/999999", nil)

	status, body = sendJSON(t, client, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.GreaterOrEqual(t, snap["notFoundTotal"], float64(1))
}

func TestResponsesCarryRequestID(t *testing.T) {
	ts := startApp(t, testConfig("memory://"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/employees", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "journey-1")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "journey-1", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestSeedFileLoadsEmployees(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(`[
		{"firstName": "Onur", "lastName": "Haktan", "email": "onur@email.com"},
		{"firstName": "Göksu", "lastName": "Turaç", "email": "göksu@email.com"}
	]`), 0o600))

	cfg := testConfig("memory://")
	cfg.RunSeed = true
	cfg.SeedFile = seedPath
	app, err := server.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	count, err := app.Service.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewRejectsUnknownDatabaseScheme(t *testing.T) {
	_, err := server.New(context.Background(), testConfig("mysql://localhost/employees"), zerolog.Nop())
	require.Error(t, err)
}

func sendJSON(t *testing.T, client *http.Client, method, url string, payload any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}
