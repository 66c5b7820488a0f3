package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"emotioncolor/internal/config"
	"emotioncolor/internal/model"
	sqlrepo "emotioncolor/internal/model/sql"
	"emotioncolor/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	router   *gin.Engine
	handler  *HTTPHandler
	repo     model.Repository
	db       *gorm.DB
	clock    *testClock
	storeDir string
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:              "test-secret",
		JWTIssuer:              "emotioncolor",
		JWTExpirationMinutes:   60,
		PasswordScheme:         "sha256",
		CookieSecure:           false,
		CORSAllowedOrigin:      "*",
		AuthRateLimitPerSecond: 0,
		AuthRateLimitBurst:     5,
	}
}

func newTestRepo(t *testing.T) (model.Repository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.MigrateSchema(db))
	return sqlrepo.NewGormRepository(db), db
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repo, db := newTestRepo(t)
	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	handler, err := NewHTTPHandler(cfg, repo, store, WithClock(clock.Now))
	require.NoError(t, err)

	return &testServer{
		router:   NewRouter(handler),
		handler:  handler,
		repo:     repo,
		db:       db,
		clock:    clock,
		storeDir: dir,
	}
}

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return serve(s, req)
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email":             email,
		"password":          password,
		"security_question": "First pet?",
		"security_answer":   "Rex",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	return cookie
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	return nil
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
