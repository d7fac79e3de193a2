package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vitals-server/confs"
	"vitals-server/db/dbtest"
	"vitals-server/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []services.ReadingEvent
	closed bool
}

func (p *capturePublisher) Publish(_ context.Context, e services.ReadingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func testConfig() *confs.Config {
	return &confs.Config{
		Port:            "0",
		CORSOrigins:     []string{"http://localhost:5173"},
		RateLimitWindow: time.Minute,
		RateLimitMax:    120,
		AITimeout:       time.Second,
	}
}

func request(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestReadingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pub := &capturePublisher{}
	h := NewServer(testConfig(), dbtest.New(t), WithPublishers(pub)).Handler()

	w := request(h, http.MethodPost, "/api/readings/add",
		`{"userId":"u1","heartRate":95,"bloodPressure":"135/88","stressLevel":"High","sleepHours":6,"exerciseMinutes":10}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "119", w.Header().Get("RateLimit-Remaining"))

	var created struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = request(h, http.MethodGet, "/api/readings/summary?userId=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"count":1`)

	w = request(h, http.MethodDelete, "/api/readings/"+created.ID+"?userId=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	w = request(h, http.MethodGet, "/api/readings/"+created.ID+"?userId=u1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"Reading not found"}`, w.Body.String())

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 2)
	require.Equal(t, services.ReadingCreated, pub.events[0].Type)
	require.Equal(t, services.ReadingDeleted, pub.events[1].Type)
	require.Equal(t, created.ID, pub.events[1].ReadingID)
}

func TestUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(testConfig(), dbtest.New(t)).Handler()

	w := request(h, http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":{"message":"Not Found - /api/unknown","status":404}}`, w.Body.String())
}

func TestMalformedBodyEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(testConfig(), dbtest.New(t)).Handler()

	w := request(h, http.MethodPost, "/api/readings/add", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env struct {
		Error struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, http.StatusBadRequest, env.Error.Status)
	require.NotEmpty(t, env.Error.Message)
}

func TestTipsWithoutKeyServeFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewServer(testConfig(), dbtest.New(t)).Handler()

	w := request(h, http.MethodGet, "/api/ai/tips", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, string(services.SourceFallback), w.Header().Get("X-Tips-Source"))

	var bundle services.TipBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	require.Equal(t, services.FallbackTips(), bundle)
}

func TestRateLimitAcrossRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimitMax = 2
	h := NewServer(cfg, dbtest.New(t)).Handler()

	require.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/health", "").Code)
	require.Equal(t, http.StatusNotFound, request(h, http.MethodGet, "/nope", "").Code)

	w := request(h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimitMax = 2
	h := NewServer(cfg, dbtest.New(t)).Handler()

	var codes []int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimitHonorsTrustedProxy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimitMax = 1
	cfg.TrustedProxies = []string{"203.0.113.9"}
	h := NewServer(cfg, dbtest.New(t)).Handler()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pub := &capturePublisher{}
	s := NewServer(testConfig(), dbtest.New(t), WithPublishers(pub))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.True(t, pub.closed)
}
