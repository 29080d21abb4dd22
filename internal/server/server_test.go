package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pageflow/internal/config"
	"github.com/gompdf/pageflow/internal/doctree"
)

func testConfig() config.Config {
	return config.Config{
		Font:          "courier",
		PageSize:      "letter",
		Margin:        50,
		MaxBodyBytes:  1 << 20,
		MaxIterations: 10000,
		ReflowTimeout: 10 * time.Second,
	}
}

func newTestServer(cfg config.Config) *Server {
	return NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

var longText = strings.Repeat("the quick brown fox jumps over the lazy dog ", 400)

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(testConfig()), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReflow(t *testing.T) {
	s := newTestServer(testConfig())
	rec := do(t, s, http.MethodPost, "/api/reflow", reflowRequest{Content: longText})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp reflowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Converged)
	assert.Greater(t, resp.Pages, 1)
	assert.Equal(t, resp.Pages-1, resp.Splits)
	assert.Equal(t, resp.Splits+1, resp.Iterations)

	doc, err := doctree.DecodeStrict([]byte(resp.Content))
	require.NoError(t, err)
	assert.Equal(t, longText, doc.Text())
	assert.Equal(t, resp.Pages, doc.PageCount())
}

func TestReflowRejectsBadBodies(t *testing.T) {
	s := newTestServer(testConfig())
	rec := do(t, s, http.MethodPost, "/api/reflow", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	rec = do(t, newTestServer(cfg), http.MethodPost, "/api/reflow", reflowRequest{Content: longText})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestReflowTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ReflowTimeout = time.Nanosecond
	rec := do(t, newTestServer(cfg), http.MethodPost, "/api/reflow", reflowRequest{Content: longText})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPaginateText(t *testing.T) {
	rec := do(t, newTestServer(testConfig()), http.MethodPost, "/api/paginate/text", paginateTextRequest{Text: longText})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp paginateTextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, len(resp.Pages), 1)
	assert.Equal(t, longText, strings.Join(resp.Pages, ""))
}

func TestExport(t *testing.T) {
	s := newTestServer(testConfig())
	rec := do(t, s, http.MethodPost, "/api/export/pdf", reflowRequest{Content: longText, Title: "Fox"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(t, s, http.MethodPost, "/api/export/pdf?format=html", reflowRequest{Content: "hello", Title: "Fox"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<title>Fox</title>")
}

func TestImport(t *testing.T) {
	s := newTestServer(testConfig())
	md := "# Fox\n\n" + longText
	rec := do(t, s, http.MethodPost, "/api/import?name=../fox.md", md)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp reflowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Pages, 1)
	doc, err := doctree.DecodeStrict([]byte(resp.Content))
	require.NoError(t, err)
	assert.True(t, doc.Pages[0].Blocks[0].Runs[0].Bold)

	rec = do(t, s, http.MethodPost, "/api/import?name=fox.csv", "a,b")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/import?name=fox.json", "not json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret"
	s := newTestServer(cfg)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodPost, "/api/reflow", reflowRequest{}).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
