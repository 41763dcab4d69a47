package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/store"
	"github.com/roach88/moneytck/internal/testutil"
)

type fixture struct {
	server  *Server
	reports []*report.Report
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.DriverSQLite, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog, err := clause.Default()
	require.NoError(t, err)

	ids := testutil.NewSequentialIDs()
	clock := testutil.NewClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), time.Second)
	f := &fixture{}
	for _, status := range []harness.Status{harness.StatusPass, harness.StatusFail} {
		r, err := report.New(report.Run{
			ID:            ids.Generate(),
			Configuration: "reference",
			StartedAt:     clock.Now(),
			FinishedAt:    clock.Now(),
			Results: []harness.ScenarioResult{
				{ID: "a", Name: "4.2.1/code-shape[CHF]", CheckID: "4.2.1/code-shape", Clause: "4.2.1", Status: harness.StatusPass},
				{ID: "b", Name: "4.2.2/equality[BigAmount]", CheckID: "4.2.2/equality", Clause: "4.2.2", Status: status},
			},
		}, catalog)
		require.NoError(t, err)
		require.NoError(t, st.SaveRun(ctx, r))
		f.reports = append(f.reports, r)
	}

	f.server = New(st, catalog, nil, Options{AllowedOrigins: []string{"http://localhost:5173"}, Registry: prometheus.NewRegistry()})
	return f
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListRuns(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	runs := decode[[]store.RunSummary](t, rec)
	require.Len(t, runs, 2)
	assert.Equal(t, f.reports[1].RunID, runs[0].ID, "newest first")
	assert.False(t, runs[0].Passed)

	rec = f.get(t, "/api/runs?limit=1&configuration=reference")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.RunSummary](t, rec), 1)

	rec = f.get(t, "/api/runs?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRun(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/runs/"+f.reports[0].RunID)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[report.Report](t, rec)
	assert.Equal(t, f.reports[0].Digest, got.Digest)
	assert.Equal(t, "Currency units", got.Clauses[0].Title)

	rec = f.get(t, "/api/runs/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Run not found", decode[ErrorResponse](t, rec).Error)
}

func TestGetResults(t *testing.T) {
	f := newFixture(t)
	id := f.reports[1].RunID

	rec := f.get(t, "/api/runs/"+id+"/results")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]harness.ScenarioResult](t, rec), 2)

	rec = f.get(t, "/api/runs/"+id+"/results?status=fail")
	require.Equal(t, http.StatusOK, rec.Code)
	failed := decode[[]harness.ScenarioResult](t, rec)
	require.Len(t, failed, 1)
	assert.Equal(t, "4.2.2/equality", failed[0].CheckID)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/runs/"+id+"/results?status=weird").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/runs/missing/results").Code)
}

func TestCheckHistory(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/history?check=4.2.2/equality")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]store.CheckOutcome](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, harness.StatusFail, history[0].Status)
	assert.Equal(t, harness.StatusPass, history[1].Status)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/history").Code)
}

func TestListClauses(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/clauses")
	require.Equal(t, http.StatusOK, rec.Code)
	clauses := decode[[]clause.Clause](t, rec)
	require.NotEmpty(t, clauses)
	assert.Equal(t, "4.2.1", clauses[0].ID)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.get(t, "/healthz").Code)

	f.get(t, "/api/runs")
	rec := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, `handler="/api/runs"`)
	assert.False(t, strings.Contains(body, f.reports[0].RunID), "run IDs never become label values")
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/runs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeAndShutdown(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.server.Shutdown(ctx))
	assert.True(t, errors.Is(<-done, http.ErrServerClosed))
}
