package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecraft/notecraft/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(config.Default())
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Run("Should report ok", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})
}

func TestPreviewHandler(t *testing.T) {
	t.Run("Should render a note for a record", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/preview", map[string]any{
			"record": map[string]any{"Revenue": 1234.56},
			"rules": []map[string]any{
				{"expression": "revenue", "format": "number", "template": "Rev: {{val}}", "break_after": true},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp PreviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Note)
		assert.Equal(t, "Rev: 1234.6", *resp.Note)
	})

	t.Run("Should normalize raw header spellings in the record", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/preview", map[string]any{
			"record": map[string]any{"CVR Last Month – Google": 0.236},
			"rules": []map[string]any{
				{"expression": "cvr_last_month_google", "format": "percent", "break_after": true},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp PreviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Note)
		assert.Equal(t, "24%", *resp.Note)
	})

	t.Run("Should type string fields like the CSV boundary", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/preview", map[string]any{
			"record": map[string]any{"Since": "2024-03-01"},
			"rules": []map[string]any{
				{"expression": "since", "format": "date", "break_after": true},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp PreviewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Note)
		assert.Equal(t, "03/01/24", *resp.Note)
	})

	t.Run("Should return null note when no rule resolves", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/preview", map[string]any{
			"record": map[string]any{"Revenue": 10},
			"rules": []map[string]any{
				{"expression": "missing", "break_after": true},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"note":null}`, rec.Body.String())
	})

	t.Run("Should reject a payload without rules as a problem document", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/preview", map[string]any{
			"record": map[string]any{"Revenue": 10},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INVALID_INPUT", body["code"])
		assert.EqualValues(t, http.StatusBadRequest, body["status"])
	})
}

func TestLintHandler(t *testing.T) {
	t.Run("Should report rule diagnostics", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/rules/lint", map[string]any{
			"rules": []map[string]any{
				{"expression": "revenue", "format": "money"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp LintResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Issues, 1)
		assert.Equal(t, 0, resp.Issues[0].Rule)
		assert.Contains(t, resp.Issues[0].Message, "unrecognized format")
	})

	t.Run("Should return an empty issue list for a clean table", func(t *testing.T) {
		s := newTestServer(t)
		rec := postJSON(t, s, "/api/v0/rules/lint", map[string]any{
			"rules": []map[string]any{
				{"expression": "revenue", "format": "number", "template": "Rev: {{val}}"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"issues":[]}`, rec.Body.String())
	})
}
