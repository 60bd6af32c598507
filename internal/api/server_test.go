package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeSquared-Agency/lector/internal/artifacts"
	"github.com/MikeSquared-Agency/lector/internal/extract"
	"github.com/MikeSquared-Agency/lector/internal/library"
	"github.com/MikeSquared-Agency/lector/internal/pipeline"
	"github.com/MikeSquared-Agency/lector/internal/session"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

type stubGenerator struct {
	answer string
}

func (s *stubGenerator) GenerateAnswer(_ context.Context, _, _ string) (string, error) {
	if s.answer == "" {
		return "", errors.New("no answer configured")
	}
	return s.answer, nil
}

type stubSynthesizer struct {
	audio []byte
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return s.audio, nil
}

type testEnv struct {
	server      *Server
	session     *session.Session
	transcriber *stubTranscriber
	synthesizer *stubSynthesizer
}

func newTestServer(t *testing.T, apiToken string) *testEnv {
	t.Helper()

	sess := session.New()
	lib, err := library.New(t.TempDir())
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	arts, err := artifacts.New(t.TempDir())
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}

	tr := &stubTranscriber{text: "what do cats eat"}
	sy := &stubSynthesizer{audio: []byte("mp3-bytes")}
	pipe := pipeline.New(sess, tr, &stubGenerator{answer: "Cats eat fish."}, sy, arts, slog.Default())

	srv := NewServer(8760, apiToken, Deps{
		Session:    sess,
		Pipeline:   pipe,
		Extractors: extract.NewRegistry(),
		Library:    lib,
		Artifacts:  arts,
		Logger:     slog.Default(),
	})

	return &testEnv{server: srv, session: sess, transcriber: tr, synthesizer: sy}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doRequest(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.server.router.ServeHTTP(w, req)
	return w
}

func uploadDocument(t *testing.T, env *testEnv, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "document", filename, content)
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	return doRequest(env, req)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t, "")

	w := doRequest(env, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestServer(t, "")

	w := doRequest(env, httptest.NewRequest("GET", "/api/v1/lector/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "lector" {
		t.Errorf("expected agent lector, got %v", body["agent"])
	}
	if body["status"] != "idle" {
		t.Errorf("expected status idle with no document, got %v", body["status"])
	}

	if err := env.session.Load("guide.txt", "Cats eat fish."); err != nil {
		t.Fatal(err)
	}

	w = doRequest(env, httptest.NewRequest("GET", "/api/v1/lector/status", nil))
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ready" {
		t.Errorf("expected status ready, got %v", body["status"])
	}
	if body["document"] != "guide" {
		t.Errorf("expected document guide, got %v", body["document"])
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	env := newTestServer(t, "")

	w := doRequest(env, httptest.NewRequest("GET", "/nonexistent", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	env := newTestServer(t, "secret-token")

	// No token: rejected.
	w := doRequest(env, httptest.NewRequest("GET", "/api/v1/documents", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// Wrong token: rejected.
	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if w := doRequest(env, req); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", w.Code)
	}

	// Correct token: accepted.
	req = httptest.NewRequest("GET", "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	if w := doRequest(env, req); w.Code != http.StatusOK {
		t.Errorf("expected 200 with correct token, got %d", w.Code)
	}

	// Health stays open.
	if w := doRequest(env, httptest.NewRequest("GET", "/health", nil)); w.Code != http.StatusOK {
		t.Errorf("expected open health endpoint, got %d", w.Code)
	}
}

func TestBearerAuth_DisabledWhenNoToken(t *testing.T) {
	env := newTestServer(t, "")

	if w := doRequest(env, httptest.NewRequest("GET", "/api/v1/documents", nil)); w.Code != http.StatusOK {
		t.Errorf("expected 200 with auth disabled, got %d", w.Code)
	}
}

func readBody(t *testing.T, r io.Reader, v any) {
	t.Helper()
	if err := json.NewDecoder(r).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
