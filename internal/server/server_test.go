package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"fortunesite/internal/content"
	"fortunesite/internal/logger"
	"fortunesite/internal/models"
)

type contentStub struct {
	mode        models.Mode
	collections map[string][]models.Post
	posts       map[string]models.Post
	lookupErr   error
	panicOn     string
	requested   []string
	toggles     []bool
}

func (s *contentStub) GetContent(_ context.Context, collection string) []models.Post {
	if collection == s.panicOn {
		panic("boom")
	}

	s.requested = append(s.requested, collection)

	if posts, ok := s.collections[collection]; ok {
		return posts
	}

	return []models.Post{}
}

func (s *contentStub) GetPostByID(_ context.Context, id string) (models.Post, error) {
	if s.lookupErr != nil {
		return models.Post{}, s.lookupErr
	}

	if p, ok := s.posts[id]; ok {
		return p, nil
	}

	return models.Post{}, fmt.Errorf("%w: %s", content.ErrNotFound, id)
}

func (s *contentStub) CurrentMode() models.Mode {
	return s.mode
}

func (s *contentStub) ToggleMode(useRemote bool) {
	s.toggles = append(s.toggles, useRemote)
}

type serverHarness struct {
	router *gin.Engine
	stub   *contentStub
	logs   *bytes.Buffer
}

func setupServer(stub *contentStub, gatherer prometheus.Gatherer) *serverHarness {
	gin.SetMode(gin.TestMode)

	logs := &bytes.Buffer{}
	log := logger.New(logger.Options{Writer: logs, Level: "debug", Format: "json"})

	srv := New(Options{Content: stub, Logger: log, Gatherer: gatherer})

	return &serverHarness{router: srv.Router(), stub: stub, logs: logs}
}

func (h *serverHarness) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)

	return resp
}

func examplePost() models.Post {
	return models.Post{
		ID:         "f1",
		Slug:       "f1",
		Title:      "獅子座の週刊占い",
		Date:       time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Categories: []string{"週刊占い"},
	}
}

func TestHandleCollection(t *testing.T) {
	h := setupServer(&contentStub{
		mode:        models.ModeRemote,
		collections: map[string][]models.Post{"posts": {examplePost()}},
	}, prometheus.NewRegistry())

	resp := h.get("/api/collections/posts")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body CollectionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body.Mode != models.ModeRemote || len(body.Posts) != 1 || body.Posts[0].ID != "f1" {
		t.Errorf("unexpected body %+v", body)
	}

	if len(h.stub.requested) != 1 || h.stub.requested[0] != "posts" {
		t.Errorf("requested = %v", h.stub.requested)
	}
}

func TestHandleCollection_EmptyIsStillOK(t *testing.T) {
	h := setupServer(&contentStub{mode: models.ModeLocal}, prometheus.NewRegistry())

	resp := h.get("/api/collections/gallery")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if !strings.Contains(resp.Body.String(), `"posts":[]`) {
		t.Errorf("expected empty posts array, got %s", resp.Body.String())
	}
}

func TestHandlePost(t *testing.T) {
	tests := []struct {
		name     string
		stub     *contentStub
		path     string
		wantCode int
		wantBody string
	}{
		{
			name:     "found",
			stub:     &contentStub{posts: map[string]models.Post{"f1": examplePost()}},
			path:     "/api/posts/f1",
			wantCode: http.StatusOK,
			wantBody: `"id":"f1"`,
		},
		{
			name:     "not found",
			stub:     &contentStub{},
			path:     "/api/posts/missing",
			wantCode: http.StatusNotFound,
			wantBody: `"error":"post not found"`,
		},
		{
			name:     "upstream failure",
			stub:     &contentStub{lookupErr: errors.New("connection refused")},
			path:     "/api/posts/f1",
			wantCode: http.StatusBadGateway,
			wantBody: `"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := setupServer(tt.stub, prometheus.NewRegistry()).get(tt.path)

			if resp.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, resp.Code)
			}

			if !strings.Contains(resp.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %s", resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleMode(t *testing.T) {
	resp := setupServer(&contentStub{mode: models.ModeLocal}, prometheus.NewRegistry()).get("/api/mode")

	if resp.Code != http.StatusOK || resp.Body.String() != `{"mode":"local"}` {
		t.Errorf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestHandleToggleMode(t *testing.T) {
	h := setupServer(&contentStub{mode: models.ModeLocal}, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(`{"useMicroCMS":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if resp.Body.String() != `{"changed":false,"mode":"local"}` {
		t.Errorf("unexpected body %s", resp.Body.String())
	}

	if len(h.stub.toggles) != 1 || !h.stub.toggles[0] {
		t.Errorf("toggles = %v", h.stub.toggles)
	}
}

func TestHandleToggleMode_RejectsBadBody(t *testing.T) {
	h := setupServer(&contentStub{}, prometheus.NewRegistry())

	for _, body := range []string{`{}`, `not json`, `{"useMicroCMS":"yes"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		h.router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.Code)
		}
	}

	if len(h.stub.toggles) != 0 {
		t.Errorf("toggle must not be called, got %v", h.stub.toggles)
	}
}

func TestHealthz(t *testing.T) {
	resp := setupServer(&contentStub{}, prometheus.NewRegistry()).get("/healthz")

	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok"`) {
		t.Errorf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := content.NewMetrics(reg)
	metrics.Fallbacks.WithLabelValues("posts").Inc()

	resp := setupServer(&contentStub{}, reg).get("/metrics")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if !strings.Contains(resp.Body.String(), `content_fallbacks_total{collection="posts"} 1`) {
		t.Errorf("metrics output missing fallback counter:\n%s", resp.Body.String())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := setupServer(&contentStub{panicOn: "boom"}, prometheus.NewRegistry())

	resp := h.get("/api/collections/boom")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	if !strings.Contains(h.logs.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %s", h.logs.String())
	}
}

func TestLoggingMiddleware(t *testing.T) {
	h := setupServer(&contentStub{}, prometheus.NewRegistry())

	h.get("/api/mode")

	if !strings.Contains(h.logs.String(), `"path":"/api/mode"`) || !strings.Contains(h.logs.String(), `"status":200`) {
		t.Errorf("request not logged: %s", h.logs.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := setupServer(&contentStub{}, prometheus.NewRegistry())

	t.Run("generated", func(t *testing.T) {
		resp := h.get("/api/mode")

		id := resp.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected generated uuid, got %q: %v", id, err)
		}

		if !strings.Contains(h.logs.String(), fmt.Sprintf(`"request_id":"%s"`, id)) {
			t.Errorf("request id not logged: %s", h.logs.String())
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "req-123")

		resp := httptest.NewRecorder()
		h.router.ServeHTTP(resp, req)

		if got := resp.Header().Get(RequestIDHeader); got != "req-123" {
			t.Errorf("request id = %q, want req-123", got)
		}
	})
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := New(Options{Content: &contentStub{}, Addr: "127.0.0.1:0", Gatherer: prometheus.NewRegistry()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
