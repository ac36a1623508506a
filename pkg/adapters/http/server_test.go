package http_test

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/walker"
	walkerhttp "github.com/aretw0/walker/pkg/adapters/http"
	"github.com/aretw0/walker/pkg/adapters/memory"
	"github.com/aretw0/walker/pkg/domain"
	"github.com/aretw0/walker/pkg/observability"
	"github.com/aretw0/walker/pkg/programs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, world string, opts ...walkerhttp.Option) (http.Handler, *walker.Engine) {
	t.Helper()
	eng, err := walker.New()
	require.NoError(t, err)
	require.NoError(t, eng.LoadText(world))
	return walkerhttp.NewHandler(eng, opts...), eng
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func snapshot(t *testing.T, w *httptest.ResponseRecorder) walker.Snapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var snap walker.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) walkerhttp.ErrorResponse {
	t.Helper()
	var resp walkerhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestServer_GetWorld(t *testing.T) {
	h, _ := newHandler(t, "e.o\n")

	snap := snapshot(t, do(t, h, "GET", "/world", "", ""))
	assert.Equal(t, "e.o\n", snap.World)
	assert.Equal(t, 3, snap.Width)
	assert.Equal(t, domain.East, snap.Agent.Dir)
	assert.Equal(t, 1, snap.Markers)
	assert.Len(t, snap.Entries, 1)
}

func TestServer_Actions(t *testing.T) {
	h, eng := newHandler(t, "e.\n")

	snap := snapshot(t, do(t, h, "POST", "/actions/step", "", ""))
	assert.Equal(t, ".e\n", snap.World)
	assert.Equal(t, 1, snap.Cursor)

	w := do(t, h, "POST", "/actions/step", "", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, errorBody(t, w).Error, "blocked by wall")
	assert.Len(t, eng.Trace(), 2, "failed actions are not recorded")

	w = do(t, h, "POST", "/actions/facing-wall", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var q walkerhttp.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.True(t, q.Result)
	assert.Len(t, eng.Trace(), 3, "queries are recorded")

	w = do(t, h, "POST", "/actions/jump", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_PutWorld(t *testing.T) {
	h, _ := newHandler(t, "e\n")

	snap := snapshot(t, do(t, h, "PUT", "/world", "text/plain", "n.\n.o\n"))
	assert.Equal(t, "n.\n.o\n", snap.World)

	snap = snapshot(t, do(t, h, "PUT", "/world", "application/json", `{"world":"s\n"}`))
	assert.Equal(t, "s\n", snap.World)

	w := do(t, h, "PUT", "/world", "text/plain", "e.\n.?\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := errorBody(t, w)
	assert.Equal(t, 2, resp.Line)
	assert.Equal(t, 2, resp.Column)

	w = do(t, h, "PUT", "/world", "application/json", `{"wrld":"s"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	snap = snapshot(t, do(t, h, "GET", "/world", "", ""))
	assert.Equal(t, "s\n", snap.World, "rejected loads keep the world")
}

func TestServer_NewWorld(t *testing.T) {
	h, _ := newHandler(t, "e\n")

	snap := snapshot(t, do(t, h, "POST", "/world/new", "application/json", `{"width":3,"height":1,"x":2,"dir":"w"}`))
	assert.Equal(t, "..w\n", snap.World)

	w := do(t, h, "POST", "/world/new", "application/json", `{"width":0,"height":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/world/new", "application/json", `{"width":2,"height":2,"dir":"up"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Trace(t *testing.T) {
	h, _ := newHandler(t, "e..\n")
	do(t, h, "POST", "/actions/step", "", "")
	do(t, h, "POST", "/actions/step", "", "")

	snap := snapshot(t, do(t, h, "POST", "/trace/cursor", "application/json", `{"index":0}`))
	assert.Equal(t, "e..\n", snap.World)
	assert.Equal(t, 0, snap.Cursor)
	assert.Len(t, snap.Entries, 3, "moving the cursor keeps the future")

	w := do(t, h, "POST", "/trace/cursor", "application/json", `{"index":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, "POST", "/trace/cursor", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	snap = snapshot(t, do(t, h, "POST", "/trace/cursor", "application/json", `{"index":1}`))
	assert.Equal(t, ".e.\n", snap.World)

	snap = snapshot(t, do(t, h, "POST", "/trace/continue", "", ""))
	assert.Len(t, snap.Entries, 2)

	w = do(t, h, "GET", "/trace", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tr walkerhttp.TraceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	assert.Equal(t, 1, tr.Cursor)
	assert.Equal(t, "Start of Program", tr.Entries[0].Text)
}

func TestServer_Debug(t *testing.T) {
	h, _ := newHandler(t, "e\n")

	snap := snapshot(t, do(t, h, "POST", "/debug", "application/json", `{"message":"hi"}`))
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "hi", snap.Entries[1].Text)
}

func TestServer_Programs(t *testing.T) {
	reg := programs.NewRegistry()
	reg.MustRegister("to-wall", programs.ToWall)
	reg.MustRegister("crash", func(c programs.Commands) {
		c.Step()
		c.Step()
	})
	h, eng := newHandler(t, "e..\n", walkerhttp.WithPrograms(reg))

	w := do(t, h, "GET", "/programs", "", "")
	assert.JSONEq(t, `{"programs":["to-wall","crash"]}`, w.Body.String())

	snap := snapshot(t, do(t, h, "POST", "/programs/to-wall/run", "", ""))
	assert.Equal(t, "..e\n", snap.World)

	require.NoError(t, eng.MoveCursorTo(0))
	w = do(t, h, "POST", "/programs/crash/run", "", "")
	require.Equal(t, http.StatusOK, w.Code, "two steps fit")

	w = do(t, h, "POST", "/programs/crash/run", "", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	entries := eng.Trace()
	assert.Equal(t, domain.KindError, entries[len(entries)-1].Action.Kind)

	w = do(t, h, "POST", "/programs/nope/run", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Worlds(t *testing.T) {
	store := memory.NewStore(nil)
	h, _ := newHandler(t, "e.\n", walkerhttp.WithStore(store))

	w := do(t, h, "PUT", "/worlds/start", "", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, "GET", "/worlds/", "", "")
	assert.JSONEq(t, `{"worlds":["start"]}`, w.Body.String())

	do(t, h, "POST", "/actions/step", "", "")
	snap := snapshot(t, do(t, h, "POST", "/worlds/start/load", "", ""))
	assert.Equal(t, "e.\n", snap.World)
	assert.Len(t, snap.Entries, 1, "loading resets the trace")

	w = do(t, h, "PUT", "/worlds/.hidden", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "DELETE", "/worlds/start", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "POST", "/worlds/start/load", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_NoStore(t *testing.T) {
	h, _ := newHandler(t, "e\n")
	w := do(t, h, "GET", "/worlds/", "", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	eng, err := walker.New(walker.WithActionHooks(m.ActionHooks()), walker.WithTraceHooks(m.TraceHooks()))
	require.NoError(t, err)
	require.NoError(t, eng.LoadText("e.\n"))
	h := walkerhttp.NewHandler(eng, walkerhttp.WithMetrics(reg))

	do(t, h, "POST", "/actions/step", "", "")
	do(t, h, "POST", "/actions/step", "", "")

	w := do(t, h, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `walker_actions_total{kind="step"} 1`)
	assert.Contains(t, body, `walker_action_failures_total{kind="step",reason="blocked_by_wall"} 1`)
}

func TestServer_HealthAndInfo(t *testing.T) {
	h, _ := newHandler(t, "e\n")

	assert.JSONEq(t, `{"status":"ok"}`, do(t, h, "GET", "/health", "", "").Body.String())

	w := do(t, h, "GET", "/info", "", "")
	assert.Contains(t, w.Body.String(), strings.TrimSpace(walker.Version))

	w = do(t, h, "OPTIONS", "/world", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Events(t *testing.T) {
	eng, err := walker.New()
	require.NoError(t, err)
	require.NoError(t, eng.LoadText("e.\n"))
	srv := httptest.NewServer(walkerhttp.NewHandler(eng))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events?watch=agent")
	require.NoError(t, err)
	defer resp.Body.Close()
	reader := bufio.NewReader(resp.Body)

	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}
	require.Equal(t, "connected", readData())

	post := func(path string) {
		r, err := http.Post(srv.URL+path, "", nil)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, r.Body)
		r.Body.Close()
		require.Equal(t, http.StatusOK, r.StatusCode)
	}
	post("/actions/put-marker") // cells only, filtered out
	post("/actions/step")

	var diff domain.GridDiff
	require.NoError(t, json.Unmarshal([]byte(readData()), &diff))
	require.NotNil(t, diff.Agent)
	assert.Equal(t, domain.Pt(2, 1), diff.Agent.Pos)
	assert.Empty(t, diff.Cells)
}
