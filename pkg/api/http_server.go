package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"indexdb/pkg/common"
	"indexdb/pkg/core"
	"indexdb/pkg/query"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	engine *core.Engine
	mu     *sync.Mutex
	logger *zap.Logger
	mux    *http.ServeMux

	srvMu   sync.Mutex
	httpSrv *http.Server
	stopped bool
}

type recordsResponse struct {
	Records     []common.Record `json:"records"`
	Count       int             `json:"count"`
	Comparisons int             `json:"comparisons"`
	LatencyNS   int64           `json:"latency_ns"`
}

// NewServer wraps engine in a JSON API. mu serializes engine access and may
// be shared with the TCP front-end; nil allocates a private one.
func NewServer(engine *core.Engine, mu *sync.Mutex, logger *zap.Logger) *Server {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: engine, mu: mu, logger: logger.Named("api"), mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /api/record", s.handleFind)
	s.mux.HandleFunc("POST /api/record", s.handleInsert)
	s.mux.HandleFunc("DELETE /api/record", s.handleDelete)
	s.mux.HandleFunc("GET /api/range", s.handleRange)
	s.mux.HandleFunc("GET /api/prefix", s.handlePrefix)
	s.mux.HandleFunc("POST /api/query", s.handleQuery)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		s.mux.ServeHTTP(w, r)
	})
}

func (s *Server) Start(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.srvMu.Lock()
	if s.stopped {
		s.srvMu.Unlock()
		return nil
	}
	s.httpSrv = srv
	s.srvMu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a server started with Start; a later Start returns at once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.srvMu.Lock()
	s.stopped = true
	srv := s.httpSrv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	start := time.Now()
	s.mu.Lock()
	rec, found, cmp := s.engine.FindByID(id)
	s.mu.Unlock()
	duration := time.Since(start)

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"id":          id,
			"found":       false,
			"comparisons": cmp,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":      rec,
		"found":       true,
		"comparisons": cmp,
		"latency_ns":  duration.Nanoseconds(),
	})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var rec common.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	pos := s.engine.InsertRecord(rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"position": pos, "id": rec.ID})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s.mu.Lock()
	deleted := s.engine.DeleteByID(id)
	s.mu.Unlock()

	status := http.StatusOK
	if !deleted {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]any{"id": id, "deleted": deleted})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	lo, err1 := parseID(r, "lo")
	hi, err2 := parseID(r, "hi")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "lo and hi must be integers")
		return
	}

	start := time.Now()
	s.mu.Lock()
	recs, cmp := s.engine.RangeByID(lo, hi)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, newRecordsResponse(recs, cmp, time.Since(start)))
}

func (s *Server) handlePrefix(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("p")

	start := time.Now()
	s.mu.Lock()
	recs, cmp := s.engine.PrefixByLast(prefix)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, newRecordsResponse(recs, cmp, time.Since(start)))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	stmt, err := query.Parse(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	res := query.Execute(s.engine, stmt)
	s.mu.Unlock()

	s.logger.Debug("query", zap.Stringer("kind", stmt.Kind), zap.Int("rows", len(res.Records)),
		zap.Int("comparisons", res.Comparisons))
	if res.Records == nil {
		res.Records = []common.Record{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.engine.Stats()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func newRecordsResponse(recs []common.Record, cmp int, d time.Duration) recordsResponse {
	if recs == nil {
		recs = []common.Record{}
	}
	return recordsResponse{Records: recs, Count: len(recs), Comparisons: cmp, LatencyNS: d.Nanoseconds()}
}
