package api_test

import (
	"bufio"
	"bytes"
	"context"
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

	"github.com/mcoot/colorwood/internal/api"
	"github.com/mcoot/colorwood/internal/api/apierr"
	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/factory"
	"github.com/mcoot/colorwood/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

// tinyConfig deals one "a" piece onto each of two slots of capacity 2
func tinyConfig() model.GameConfig {
	cfg := model.DefaultGameConfig()
	cfg.SlotCount = 2
	cfg.Capacity = 2
	cfg.Kinds = []model.Kind{"a"}
	cfg.PiecesPerKind = 2
	return cfg
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()
	t.Cleanup(app.HubManager.Shutdown)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		HubManager:        app.HubManager,
		HintService:       app.HintService,
		BaseConfig:        tinyConfig(),
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// create makes a session with the given ID and returns its decoded body
func (ts *testServer) create(t *testing.T, id string, body map[string]any) response.Session {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	if body == nil {
		body = map[string]any{"viewport_width": 600}
	}
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeSession(t, rr)
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) response.Session {
	t.Helper()
	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func (ts *testServer) pieceCenter(t *testing.T, l model.Layout, slot, piece int) (float64, float64) {
	t.Helper()
	r, ok := ts.app.HitTestService.PieceRect(l, slot, piece)
	require.True(t, ok)
	return r.Center()
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("SESSION001")

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"viewport_width": 600})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/sessions/SESSION001", rr.Header().Get("Location"))

	resp := decodeSession(t, rr)
	assert.Equal(t, "SESSION001", resp.ID)
	assert.Equal(t, "intro", resp.Phase)
	assert.True(t, resp.TimerEnabled)
	assert.Equal(t, 25, resp.RemainingSeconds)
	assert.Equal(t, [][]string{{"a"}, {"a"}}, resp.Slots)
	assert.Equal(t, resp.ETag(), rr.Header().Get("ETag"))
	assert.Len(t, resp.Layout.Slots, 2)
}

func TestCreateSessionFreePlay(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.create(t, "SESSION001", map[string]any{"viewport_width": 600, "free_play": true})

	assert.Equal(t, "gameplay", resp.Phase)
	assert.False(t, resp.TimerEnabled)
	assert.Equal(t, 0, resp.RemainingSeconds)
}

func TestCreateSessionErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed body", "not an object", http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"zero viewport", map[string]any{"viewport_width": 0}, http.StatusBadRequest, apierr.CodeInvalidViewport},
		{"too many pieces", map[string]any{"viewport_width": 600, "pieces_per_kind": 9}, http.StatusBadRequest, apierr.CodeInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.app.MockRandom.QueueString("SESSION001")

			rr := ts.request(http.MethodPost, "/api/v1/sessions", tt.body)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.Digest, decodeSession(t, rr).Digest)
	tag := rr.Header().Get("ETag")

	// An unchanged session answers a conditional request with 304
	rr = ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil, "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil, "If-None-Match", `"stale"`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetSessionAfterResizeIsModified(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tag := rr.Header().Get("ETag")
	before := decodeSession(t, rr)

	rr = ts.request(http.MethodPut, "/api/v1/sessions/SESSION001/viewport", map[string]any{"width": 320})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil, "If-None-Match", tag)
	require.Equal(t, http.StatusOK, rr.Code)
	after := decodeSession(t, rr)
	assert.Equal(t, before.Digest, after.Digest, "rule state is unchanged")
	assert.InDelta(t, 320.0, after.Layout.Width, 0.001)
	assert.NotEqual(t, tag, rr.Header().Get("ETag"))
}

func TestGetSessionCountdownIsModified(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)
	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/intro/dismiss", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	tag := rr.Header().Get("ETag")

	ts.app.MockClock.Advance(2 * time.Second)
	rr = ts.request(http.MethodGet, "/api/v1/sessions/SESSION001", nil, "If-None-Match", tag)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Less(t, decodeSession(t, rr).RemainingSeconds, 25)
}

func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/MISSING", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, decodeError(t, rr).Code)
}

func TestWinningGestureOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/intro/dismiss", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gameplay", decodeSession(t, rr).Phase)

	x, y := ts.pieceCenter(t, created.Layout, 0, 0)
	tx, ty := created.Layout.Slots[1].Center()

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/pointer", map[string]any{"type": "down", "x": x, "y": y})
	require.Equal(t, http.StatusOK, rr.Code)
	var down response.PointerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &down))
	assert.True(t, down.Accepted)
	require.NotNil(t, down.Session.Selection)
	assert.Equal(t, 1, down.Session.Selection.GroupSize)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/pointer", map[string]any{"type": "move", "x": tx, "y": ty})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/pointer", map[string]any{"type": "up", "x": tx, "y": ty})
	require.Equal(t, http.StatusOK, rr.Code)
	var up response.PointerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &up))

	assert.True(t, up.Accepted)
	require.NotNil(t, up.Move)
	assert.True(t, up.Move.Committed)
	assert.True(t, up.Move.Cleared)
	assert.True(t, up.Session.Won)
	assert.True(t, up.Session.CTAReached)
	assert.Equal(t, "cta", up.Session.Phase)
	assert.Equal(t, model.DefaultGameConfig().StoreURL, up.Session.StoreURL)
	assert.Equal(t, [][]string{{}, {}}, up.Session.Slots)
}

func TestPointerRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/pointer", map[string]any{"type": "hover"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPointerOp, decodeError(t, rr).Code)
}

func TestResetDuringIntroConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/reset", nil)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotInGameplay, decodeError(t, rr).Code)
}

func TestResizeSession(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodPut, "/api/v1/sessions/SESSION001/viewport", map[string]any{"width": 300})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 300, decodeSession(t, rr).Layout.Width, 1e-9)

	rr = ts.request(http.MethodPut, "/api/v1/sessions/SESSION001/viewport", map[string]any{"width": -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListAndDeleteSessions(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION002", nil)
	ts.create(t, "SESSION001", nil)

	rr := ts.request(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.SessionList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, []string{"SESSION001", "SESSION002"}, list.Sessions)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/SESSION001", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/SESSION001", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sessions/SESSION001/events", nil)
	require.NoError(t, err)
	req.Header.Set("X-Viewer-ID", "test-viewer")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
				return name
			}
		}
		return ""
	}
	require.Equal(t, "connected", readEvent())

	rr := ts.request(http.MethodPost, "/api/v1/sessions/SESSION001/intro/dismiss", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "phase_changed", readEvent())
	assert.Equal(t, "changed", readEvent())
}

func TestEventStreamUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/MISSING/events", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, ts.app.HubManager.HubCount())
}

func TestHint(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", map[string]any{"viewport_width": 600, "free_play": true})

	rr := ts.request(http.MethodGet, "/api/v1/sessions/SESSION001/hint", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.Hint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, response.Hint{From: 0, To: 1, GroupSize: 1, Kind: "a", Strategy: "greedy"}, resp)
}

func TestHintErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "SESSION001", nil)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"during intro", "/api/v1/sessions/SESSION001/hint", http.StatusConflict, apierr.CodeNotInGameplay},
		{"unknown strategy", "/api/v1/sessions/SESSION001/hint?strategy=clever", http.StatusBadRequest, apierr.CodeUnknownStrategy},
		{"unknown session", "/api/v1/sessions/NOPE/hint", http.StatusNotFound, apierr.CodeSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}
