package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/history"
	"github.com/developia-II/langobridge/internal/models"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/session"
	"github.com/developia-II/langobridge/internal/storage"
	"github.com/developia-II/langobridge/internal/suggest"
	"github.com/developia-II/langobridge/internal/vocabulary"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBackend struct {
	words    []models.WordPair
	requests []models.WordRequest
	token    string

	mu       sync.Mutex
	searches []string
}

func (s *stubBackend) ListWordPairs(_ context.Context, q models.ListQuery) (models.WordPage, error) {
	s.mu.Lock()
	s.searches = append(s.searches, q.Search)
	s.mu.Unlock()
	return models.WordPage{Data: s.words, Total: len(s.words)}, nil
}

func (s *stubBackend) searched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searches...)
}

func (s *stubBackend) CreateWordPair(_ context.Context, _ string, w models.WordPair) (models.WordPair, error) {
	w.ID = "created"
	s.words = append([]models.WordPair{w}, s.words...)
	return w, nil
}

func (s *stubBackend) UpdateWordPair(_ context.Context, _ string, w models.WordPair) (models.WordPair, error) {
	return w, nil
}

func (s *stubBackend) DeleteWordPair(context.Context, string, string) error { return nil }

func (s *stubBackend) CreateWordRequest(_ context.Context, in models.WordRequestInput) (models.WordRequest, error) {
	return models.WordRequest{ID: "r1", Bangla: in.Bangla, Korean: in.Korean, SubmittedBy: in.SubmittedBy, Status: models.RequestPending}, nil
}

func (s *stubBackend) ListWordRequests(context.Context, string, models.RequestStatus) ([]models.WordRequest, error) {
	return s.requests, nil
}

func (s *stubBackend) SetRequestStatus(context.Context, string, string, models.RequestStatus) error {
	return nil
}

func (s *stubBackend) AdminOverview(context.Context, string) (models.AdminOverview, error) {
	return models.AdminOverview{TotalWords: int64(len(s.words)), PendingRequests: int64(len(s.requests))}, nil
}

func (s *stubBackend) Login(_ context.Context, email, password string) (models.LoginResponse, error) {
	if password != "secret" {
		return models.LoginResponse{}, &backend.StatusError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return models.LoginResponse{User: models.User{ID: "u1", Email: email}, Token: s.token}, nil
}

func (s *stubBackend) ResetPassword(context.Context, string) error       { return nil }
func (s *stubBackend) VerifyReset(context.Context, string, string) error { return nil }
func (s *stubBackend) UpdateAccount(context.Context, string, models.AccountUpdate) (string, error) {
	return "Account settings updated successfully", nil
}

type noTranslator struct{}

func (noTranslator) Translate(context.Context, string, string, string) (string, error) {
	return "", io.EOF
}

func newApp(t *testing.T) (*fiber.App, *stubBackend) {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	api := &stubBackend{
		token: tok,
		words: []models.WordPair{
			{ID: "1", Bangla: "বই", Korean: "책", Source: models.SourceServer},
			{ID: "2", Bangla: "পানি", Korean: "물", Source: models.SourceServer},
		},
		requests: []models.WordRequest{{ID: "r1", Bangla: "নদী", Korean: "강", Status: models.RequestPending}},
	}

	log := zap.NewNop()
	local := storage.NewMemory()
	feed := notify.NewFeed(log)
	sessions := session.New(api, local, feed, time.Minute, log)
	store := vocabulary.New(api, sessions, local, feed, 10, log)
	engine := suggest.New(store, noTranslator{}, nil, feed, time.Millisecond, log)
	t.Cleanup(engine.Close)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	New(Deps{
		Store:    store,
		Sessions: sessions,
		Engine:   engine,
		History:  history.New(local, log),
		Feed:     feed,
		Log:      log,
	}).Register(app.Group("/api/v1"))
	return app, api
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func login(t *testing.T, app *fiber.App) {
	t.Helper()
	resp, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "admin@lango.dev", "password": "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListWords(t *testing.T) {
	app, _ := newApp(t)

	resp, body := call(t, app, http.MethodGet, "/api/v1/words?page=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["words"], 2)
	assert.EqualValues(t, 1, body["totalPages"])
	assert.Equal(t, "bangla", body["selectedLanguage"])
}

func TestAddWordRequiresSession(t *testing.T) {
	app, api := newApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/words", fiber.Map{"bangla": "দুধ", "korean": "우유"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])
	assert.Len(t, api.words, 2)

	login(t, app)
	resp, body = call(t, app, http.MethodPost, "/api/v1/words", fiber.Map{"bangla": "দুধ", "korean": "우유"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", body["id"])
}

func TestLoginFailure(t *testing.T) {
	app, _ := newApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "admin@lango.dev", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])

	resp, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestWordLocalizedValidation(t *testing.T) {
	app, _ := newApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/v1/words/requests", fiber.Map{"bangla": "boi", "korean": "책", "submittedBy": "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "বাংলা শব্দে বাংলা লিপির অক্ষর থাকতে হবে", body["error"])

	call(t, app, http.MethodPost, "/api/v1/language/toggle", nil)
	resp, body = call(t, app, http.MethodPost, "/api/v1/words/requests", fiber.Map{"bangla": "বই", "korean": "책", "submittedBy": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "유효한 이메일 주소를 입력해주세요", body["error"])

	resp, _ = call(t, app, http.MethodPost, "/api/v1/words/requests", fiber.Map{"bangla": "বই", "korean": "책", "submittedBy": "a@b.co"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = call(t, app, http.MethodGet, "/api/v1/words/requests/email", nil)
	assert.Equal(t, "a@b.co", body["email"])
}

func TestAdminRoutes(t *testing.T) {
	app, _ := newApp(t)

	resp, _ := call(t, app, http.MethodGet, "/api/v1/admin/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login(t, app)
	resp, body := call(t, app, http.MethodGet, "/api/v1/admin/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["totalWords"])

	resp, body = call(t, app, http.MethodGet, "/api/v1/admin/requests", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["requests"], 1)

	resp, _ = call(t, app, http.MethodPost, "/api/v1/admin/requests/r1/example", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/v1/admin/requests/r1/approve", fiber.Map{"bangla": "নদী বড়।", "korean": "강이 커요."})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-request", body["source"])
}

func TestSearchAndSelection(t *testing.T) {
	app, _ := newApp(t)
	call(t, app, http.MethodGet, "/api/v1/words", nil)

	resp, body := call(t, app, http.MethodPost, "/api/v1/search", fiber.Map{"text": "পান", "wait": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["suggestions"], 1)

	resp, body = call(t, app, http.MethodPost, "/api/v1/search/selection", fiber.Map{"id": "2", "bangla": "পানি", "korean": "물"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["words"], 1)
	assert.NotNil(t, body["selectedSuggestion"])

	_, body = call(t, app, http.MethodGet, "/api/v1/history", nil)
	entries := body["history"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "Just now", entries[0].(map[string]any)["age"])

	_, body = call(t, app, http.MethodDelete, "/api/v1/search/selection", nil)
	assert.Len(t, body["words"], 2)
}

func TestSearchInputReloadsWordsForSettledTerm(t *testing.T) {
	app, api := newApp(t)

	resp, _ := call(t, app, http.MethodPost, "/api/v1/search", fiber.Map{"text": "আম"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		return slices.Contains(api.searched(), "আম")
	}, time.Second, 5*time.Millisecond)

	var body map[string]any
	require.Eventually(t, func() bool {
		var resp *http.Response
		resp, body = call(t, app, http.MethodGet, "/api/v1/words", nil)
		return resp.StatusCode == http.StatusOK
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "আম", body["searchTerm"])
	searches := api.searched()
	assert.Equal(t, "আম", searches[len(searches)-1])

	_, body = call(t, app, http.MethodGet, "/api/v1/words?search=", nil)
	assert.Equal(t, "", body["searchTerm"])
}

func TestEmptyWordListIsAnArray(t *testing.T) {
	app, api := newApp(t)
	api.words = nil

	_, body := call(t, app, http.MethodGet, "/api/v1/words", nil)
	assert.Equal(t, []any{}, body["words"])
}

func TestSearchFailureReturnsGatewayError(t *testing.T) {
	app, _ := newApp(t)

	resp, _ := call(t, app, http.MethodPost, "/api/v1/search", fiber.Map{"text": "없는말", "wait": true})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	_, body := call(t, app, http.MethodGet, "/api/v1/notices", nil)
	assert.NotEmpty(t, body["notices"])
}
