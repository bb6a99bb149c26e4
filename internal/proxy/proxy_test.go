package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/briefly/internal/core/analysis"
	"github.com/colonyops/briefly/internal/core/logging"
)

type stubSource struct {
	issues []analysis.Issue
	err    error
	got    string
	reqID  string
}

func (s *stubSource) Issues(ctx context.Context, text string) ([]analysis.Issue, error) {
	s.got = text
	s.reqID = logging.GetRequestID(ctx)
	return s.issues, s.err
}

func serve(t *testing.T, src IssueSource, opts Options, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	New(src, opts).Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		src      *stubSource
		wantCode int
		wantBody string
	}{
		{
			name: "ok",
			body: `{"text":"Their going"}`,
			src: &stubSource{issues: []analysis.Issue{
				{ID: 1, Start: 0, End: 5, Message: "m", Severity: "error"},
			}},
			wantCode: http.StatusOK,
			wantBody: `[{"id":1,"start":0,"end":5,"message":"m","severity":"error"}]`,
		},
		{
			name:     "empty list",
			body:     `{"text":""}`,
			src:      &stubSource{issues: []analysis.Issue{}},
			wantCode: http.StatusOK,
			wantBody: `[]`,
		},
		{
			name:     "malformed",
			body:     `{"text":`,
			src:      &stubSource{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"request body must be JSON"}`,
		},
		{
			name:     "missing text",
			body:     `{}`,
			src:      &stubSource{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"missing \"text\""}`,
		},
		{
			name:     "backend failure",
			body:     `{"text":"x"}`,
			src:      &stubSource{err: errors.New("boom")},
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"Failed to analyze text"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			rec := serve(t, tt.src, Options{}, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestAnalyze_RequestID(t *testing.T) {
	src := &stubSource{issues: []analysis.Issue{}}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("X-Request-ID", "abc")
	rec := serve(t, src, Options{}, req)

	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc", src.reqID)
	assert.Equal(t, "hi", src.got)

	req = httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"text":"hi"}`))
	rec = serve(t, src, Options{}, req)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestRoutes(t *testing.T) {
	rec := serve(t, &stubSource{}, Options{}, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(t, &stubSource{}, Options{}, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(t, &stubSource{}, Options{}, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, &stubSource{}, Options{Profiling: true}, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "http://a.test", wantOrigin: "*"},
		{name: "listed", origins: []string{"http://a.test"}, origin: "http://a.test", wantOrigin: "http://a.test"},
		{name: "not listed", origins: []string{"http://a.test"}, origin: "http://b.test", wantOrigin: ""},
		{name: "no origin", origins: []string{"*"}, origin: "", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			rec := serve(t, &stubSource{}, Options{CORSOrigins: tt.origins}, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv := New(&stubSource{issues: []analysis.Issue{}}, Options{Addr: "127.0.0.1:0"})
	require.NoError(t, srv.Start(context.Background()))
	require.NotEmpty(t, srv.Addr())

	res, err := http.Get("http://" + srv.Addr() + "/api/health")
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}
