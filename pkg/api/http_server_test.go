package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"indexdb/pkg/common"
	"indexdb/pkg/config"
	"indexdb/pkg/core"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Index.Kind = "btree"
	cfg.Index.Degree = 4
	engine := core.NewEngine(cfg, zap.NewNop())
	engine.InsertRecord(common.Record{ID: 5, First: "Ann", Last: "Lee"})
	engine.InsertRecord(common.Record{ID: 2, First: "Bo", Last: "Lee"})
	engine.InsertRecord(common.Record{ID: 9, First: "Cy", Last: "Chan"})
	return NewServer(engine, nil, zap.NewNop())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeRecords(t *testing.T, rec *httptest.ResponseRecorder) recordsResponse {
	t.Helper()
	var resp recordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestFindAndDelete(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/record?id=9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var found struct {
		Record      common.Record `json:"record"`
		Comparisons int           `json:"comparisons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, "Chan", found.Record.Last)
	assert.Greater(t, found.Comparisons, 0)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/record?id=abc", "").Code)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodDelete, "/api/record?id=9", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/api/record?id=9", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/record?id=9", "").Code)
}

func TestInsertRangeAndPrefix(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/record", `{"id": 3, "first": "Di", "last": "LEE", "gpa": 3.3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"position":3`)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/record", `{"id":`).Code)

	resp := decodeRecords(t, do(t, s, http.MethodGet, "/api/range?lo=0&hi=5", ""))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, int64(2), resp.Records[0].ID)
	assert.Equal(t, int64(3), resp.Records[1].ID)

	resp = decodeRecords(t, do(t, s, http.MethodGet, "/api/prefix?p=Le", ""))
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, []int64{5, 2, 3}, []int64{resp.Records[0].ID, resp.Records[1].ID, resp.Records[2].ID})

	rec = do(t, s, http.MethodGet, "/api/range?lo=100&hi=200", "")
	assert.Contains(t, rec.Body.String(), `"records":[]`)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/range?lo=1", "").Code)
}

func TestQueryEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "SELECT * FROM records WHERE id BETWEEN 1 AND 6"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRecords(t, rec)
	assert.Len(t, resp.Records, 2)

	rec = do(t, s, http.MethodPost, "/api/query", `{"query": "SELECT name FROM records"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "syntax error")
}

func TestStatsAndMetrics(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/record?id=5", "")

	rec := do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats core.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "BTree", stats.IndexType)
	assert.Equal(t, 3, stats.Live)
	assert.Equal(t, 2, stats.LastKeys)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, m := range []string{
		"indexdb_operations_total",
		"indexdb_hits_total",
		"indexdb_key_comparisons",
	} {
		assert.Contains(t, body, m)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodPut, "/api/record?id=1", "").Code)
}
