package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waterjug"
	httpadapter "github.com/aretw0/waterjug/pkg/adapters/http"
	"github.com/aretw0/waterjug/pkg/adapters/memory"
	"github.com/aretw0/waterjug/pkg/adapters/sqlite"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/aretw0/waterjug/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, opts ...httpadapter.Option) http.Handler {
	t.Helper()
	engine, err := waterjug.New()
	require.NoError(t, err)
	return httpadapter.NewHandler(engine, opts...)
}

func withSessions() httpadapter.Option {
	return httpadapter.WithSessions(session.NewManager(memory.NewStore()))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGetSwagger(t *testing.T) {
	doc, err := httpadapter.GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "Waterjug API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/{action}"))
}

func TestHealthAndInfo(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]string](t, w)
	assert.Equal(t, "waterjug-http", info["app"])
	assert.Equal(t, strings.TrimSpace(waterjug.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestHealth_SessionStore(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	h := newHandler(t, httpadapter.WithSessions(session.NewManager(store)))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, store.Close())
	w = do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestListRules(t *testing.T) {
	w := do(t, newHandler(t), "GET", "/rules", "")
	require.Equal(t, http.StatusOK, w.Code)

	rules := decode[[]domain.RuleInfo](t, w)
	require.Len(t, rules, 12)
	assert.Equal(t, domain.RuleInfo{ID: 1, Code: "R1", Label: domain.Rule(1).Label()}, rules[0])
	assert.Equal(t, "R12", rules[11].Code)
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantMoves int
		wantField string
	}{
		{"Classic", `{"cap1":4,"cap2":3,"target":2}`, http.StatusOK, 4, ""},
		{"Die Hard", `{"cap1":5,"cap2":3,"target":4}`, http.StatusOK, 6, ""},
		{"Zero Target", `{"cap1":4,"cap2":3,"target":0}`, http.StatusOK, 0, ""},
		{"Invalid Capacity", `{"cap1":0,"cap2":3,"target":2}`, http.StatusBadRequest, 0, "cap1"},
		{"Negative Target", `{"cap1":4,"cap2":3,"target":-1}`, http.StatusBadRequest, 0, "target"},
		{"Out Of Range", `{"cap1":2,"cap2":2,"target":3}`, http.StatusUnprocessableEntity, 0, "target"},
		{"Unreachable", `{"cap1":6,"cap2":4,"target":1}`, http.StatusNotFound, 0, ""},
		{"Malformed", `{"cap1":`, http.StatusBadRequest, 0, ""},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/solve", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			if tt.wantCode != http.StatusOK {
				body := decode[map[string]string](t, w)
				assert.NotEmpty(t, body["error"])
				assert.Equal(t, tt.wantField, body["field"])
				return
			}

			resp := decode[httpadapter.SolveResponse](t, w)
			assert.Equal(t, tt.wantMoves, resp.Moves)
			assert.Len(t, resp.Path, tt.wantMoves+1)
			assert.Len(t, resp.Steps, tt.wantMoves+1)
			assert.True(t, resp.Goal.IsGoal())
		})
	}
}

func TestSolve_ClassicSteps(t *testing.T) {
	w := do(t, newHandler(t), "POST", "/solve", `{"cap1":4,"cap2":3,"target":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[httpadapter.SolveResponse](t, w)
	assert.Equal(t, domain.Path{
		{Jug1: 0, Jug2: 0}, {Jug1: 0, Jug2: 3}, {Jug1: 3, Jug2: 0}, {Jug1: 3, Jug2: 3}, {Jug1: 4, Jug2: 2},
	}, resp.Path)

	var rules []string
	for _, s := range resp.Steps {
		rules = append(rules, s.Rule.String())
	}
	assert.Equal(t, []string{"R11", "R11", "R6", "R2", "R6"}, rules)
	assert.Equal(t, domain.RuleGoalJug2, resp.Goal)
	assert.Equal(t, domain.RuleGoalJug2, resp.Steps[4].Goal)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantRule domain.Rule
		wantGoal domain.Rule
	}{
		{"Pour Into Jug1", `{"previous":{"jug1":0,"jug2":3},"current":{"jug1":3,"jug2":0},"cap1":4,"cap2":3}`, http.StatusOK, domain.Rule(6), domain.RuleNone},
		{"Fill Jug1 With Goal", `{"previous":{"jug1":0,"jug2":2},"current":{"jug1":4,"jug2":2},"cap1":4,"cap2":3,"target":2}`, http.StatusOK, domain.Rule(1), domain.RuleGoalJug2},
		{"From Initial", `{"previous":{"jug1":0,"jug2":0},"current":{"jug1":4,"jug2":0},"cap1":4,"cap2":3,"target":4}`, http.StatusOK, domain.RuleInitial, domain.RuleGoalJug1},
		{"Invalid Capacity", `{"previous":{"jug1":0,"jug2":0},"current":{"jug1":1,"jug2":0},"cap1":4,"cap2":0}`, http.StatusBadRequest, domain.RuleNone, domain.RuleNone},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/classify", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			resp := decode[httpadapter.ClassifyResponse](t, w)
			assert.Equal(t, tt.wantRule, resp.Rule)
			assert.Equal(t, tt.wantGoal, resp.Goal)
		})
	}
}

func TestGetGraph(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, "GET", "/graph?cap1=4&cap2=3&target=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR\n"))
	assert.Contains(t, w.Body.String(), "==>")
	assert.Contains(t, w.Body.String(), "class s4_2 current;")

	w = do(t, h, "GET", "/graph?cap1=6&cap2=4&target=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "==>")

	w = do(t, h, "GET", "/graph?cap1=2&cap2=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "s2_2")

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/graph?cap1=x&cap2=3", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/graph?cap1=0&cap2=3", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/graph?cap1=20000&cap2=3", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, "GET", "/graph?cap1=2&cap2=2&target=3", "").Code)
}

func TestSessions_Lifecycle(t *testing.T) {
	h := newHandler(t, withSessions())

	w := do(t, h, "POST", "/sessions", `{"cap1":4,"cap2":3,"target":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Playback](t, w)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, domain.StatusIdle, created.Status)
	base := "/sessions/" + created.SessionID

	assert.Equal(t, http.StatusConflict, do(t, h, "POST", base+"/next", "").Code, "next before start")

	w = do(t, h, "POST", base+"/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RuleInitial, decode[httpadapter.ActionResponse](t, w).Playback.Highlighted)

	w = do(t, h, "POST", base+"/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[httpadapter.ActionResponse](t, w)
	require.NotNil(t, resp.Step)
	assert.Equal(t, 0, resp.Step.Index)
	assert.Equal(t, "Step 0: State changed from (0, 0) → (0, 0)\nProduction Rule R11 fired.", resp.Step.Explanation)

	w = do(t, h, "GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[domain.Playback](t, w).Cursor)

	w = do(t, h, "GET", "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{created.SessionID}, decode[[]string](t, w))

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", base+"/fly", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", base+"/start", "").Code)
}

func TestSessions_CreateErrors(t *testing.T) {
	h := newHandler(t, withSessions())
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/sessions", `{"cap1":6,"cap2":4,"target":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/sessions", `nope`).Code)
}

func TestSessions_NotMounted(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(t, newHandler(t), "GET", "/sessions", "").Code)
}

func TestMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	engine, err := waterjug.New(waterjug.WithLifecycleHooks(metrics.Hooks(domain.LifecycleHooks{})))
	require.NoError(t, err)
	h := httpadapter.NewHandler(engine, httpadapter.WithMetrics(metrics.Handler()))

	require.Equal(t, http.StatusOK, do(t, h, "POST", "/solve", `{"cap1":4,"cap2":3,"target":2}`).Code)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `waterjug_searches_total{outcome="found"} 1`)
}

func TestSubscribeEvents(t *testing.T) {
	srv := httptest.NewServer(newHandler(t, withSessions()))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{"cap1":4,"cap2":3,"target":2}`))
	require.NoError(t, err)
	var created domain.Playback
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	res.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/"+created.SessionID+"/events?watch=status", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := bufio.NewScanner(stream.Body)
	readData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}
	require.Equal(t, "connected", readData())

	for _, action := range []string{"start", "next"} {
		res, err := http.Post(srv.URL+"/sessions/"+created.SessionID+"/"+action, "application/json", nil)
		require.NoError(t, err)
		res.Body.Close()
	}

	// "next" at step 0 keeps the status, so the watch filter drops it.
	res, err = http.Post(srv.URL+"/sessions/"+created.SessionID+"/stop", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()

	var first, second domain.PlaybackDiff
	require.NoError(t, json.Unmarshal([]byte(readData()), &first))
	require.NotNil(t, first.Status)
	assert.Equal(t, domain.StatusRunning, *first.Status)

	require.NoError(t, json.Unmarshal([]byte(readData()), &second))
	require.NotNil(t, second.Status)
	assert.Equal(t, domain.StatusStopped, *second.Status)
	assert.Nil(t, second.Cursor)
}
