//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/backend/internal/adapter/postgres"
	progressrepo "github.com/fluentdeck/backend/internal/adapter/postgres/progress"
	responserepo "github.com/fluentdeck/backend/internal/adapter/postgres/response"
	sessionrepo "github.com/fluentdeck/backend/internal/adapter/postgres/session"
	statsrepo "github.com/fluentdeck/backend/internal/adapter/postgres/stats"
	"github.com/fluentdeck/backend/internal/adapter/postgres/testhelper"
	wordrepo "github.com/fluentdeck/backend/internal/adapter/postgres/word"
	authpkg "github.com/fluentdeck/backend/internal/auth"
	"github.com/fluentdeck/backend/internal/config"
	statssvc "github.com/fluentdeck/backend/internal/service/stats"
	studysvc "github.com/fluentdeck/backend/internal/service/study"
	"github.com/fluentdeck/backend/internal/transport/middleware"
	"github.com/fluentdeck/backend/internal/transport/rest"
)

const (
	testJWTSecret = "e2e-secret-at-least-32-characters-long!!"
	testJWTIssuer = "fluentdeck-e2e"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(bytes.TrimSpace(p)))
	return len(p), nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t: t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	words := wordrepo.New(pool)
	progress := progressrepo.New(pool)
	sessions := sessionrepo.New(pool)
	responses := responserepo.New(pool)
	stats := statsrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	srsCfg := config.SRSConfig{
		InitialIntervalDays: 1,
		MaxIntervalDays:     365,
		EasyGrowthFactor:    2.0,
		HardIntervalDays:    1,
		RelearnDelay:        10 * time.Minute,
		DefaultBatchSize:    20,
		MaxBatchSize:        100,
		ConflictRetries:     3,
	}
	statsCfg := config.StatsConfig{Timezone: "UTC", SessionStaleAfter: 6 * time.Hour}

	statsService, err := statssvc.NewService(logger, stats, progress, words, sessions, txManager, statsCfg)
	require.NoError(t, err)
	studyService := studysvc.NewService(logger, words, progress, sessions, responses, statsService, txManager, srsCfg)

	jwtManager := authpkg.NewJWTManager(testJWTSecret, testJWTIssuer)

	router := rest.NewRouter(
		rest.NewHealthHandler(pool, "e2e"),
		rest.NewStudyHandler(studyService, logger),
		rest.NewStatsHandler(statsService, logger),
		middleware.Auth(jwtManager),
	)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool}
}

// mintToken issues a short-lived access token the way the platform's
// identity service would.
func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    testJWTIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// doJSON performs an HTTP request with an optional bearer token and JSON
// body, returning the status code and the decoded response body (nil for
// empty responses).
func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp.StatusCode, decoded
}

// field digs a nested value out of a decoded JSON object.
func field(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()

	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		require.True(t, ok, "expected object at %q", k)
		cur, ok = obj[k]
		require.True(t, ok, "missing key %q", k)
	}
	return cur
}

func intField(t *testing.T, m map[string]any, keys ...string) int {
	t.Helper()

	v, ok := field(t, m, keys...).(float64)
	require.True(t, ok, "expected number at %v", keys)
	return int(v)
}

func strField(t *testing.T, m map[string]any, keys ...string) string {
	t.Helper()

	v, ok := field(t, m, keys...).(string)
	require.True(t, ok, "expected string at %v", keys)
	return v
}
