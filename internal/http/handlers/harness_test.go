package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/storage"
	"github.com/hongminglow/finance-be/internal/storage/sqlite"
)

const testCookie = "token"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// testAPI is every ledger route mounted on one mux over a fresh SQLite file.
type testAPI struct {
	t         *testing.T
	handler   http.Handler
	store     storage.Store
	tokens    *auth.TokenManager
	publisher *recordingPublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.NewStore(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", "ledger-test", time.Hour)
	publisher := &recordingPublisher{}
	protect := middleware.RequireAuth(tokens, testCookie, logger)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens, CookieOptions{Name: testCookie}, logger).Register(mux)
	NewAccountHandler(store, publisher, logger).Register(mux, protect)
	NewCategoryHandler(store, publisher, logger).Register(mux, protect)
	NewTransactionHandler(store, publisher, logger).Register(mux, protect)

	return &testAPI{t: t, handler: mux, store: store, tokens: tokens, publisher: publisher}
}

type response struct {
	Code   int
	Body   map[string]any
	Raw    string
	Header http.Header
}

func (a *testAPI) do(method, path, token string, body any) response {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	out := response{Code: rec.Code, Raw: rec.Body.String(), Header: rec.Header()}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out.Body)
	}
	return out
}

// signup registers a user and returns a token for them.
func (a *testAPI) signup(email, name string) string {
	a.t.Helper()
	res := a.do(http.MethodPost, "/auth/register", "", map[string]string{"email": email, "name": name, "password": "hunter22"})
	require.Equal(a.t, http.StatusOK, res.Code, res.Raw)
	res = a.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "hunter22"})
	require.Equal(a.t, http.StatusOK, res.Code, res.Raw)
	token, _ := res.Body["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

// object returns the nested JSON object stored under key.
func object(t *testing.T, res response, key string) map[string]any {
	t.Helper()
	obj, ok := res.Body[key].(map[string]any)
	require.True(t, ok, "missing %q in %s", key, res.Raw)
	return obj
}

func list(t *testing.T, res response, key string) []any {
	t.Helper()
	items, ok := res.Body[key].([]any)
	require.True(t, ok, "missing %q in %s", key, res.Raw)
	return items
}
