package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colorwood/internal/testutil"
)

func TestLoggingCarriesViewer(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	r := mux.NewRouter()
	r.Use(Viewer())
	r.Use(Logging(logger))
	r.HandleFunc("/api/v1/sessions/{id}", func(http.ResponseWriter, *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/S1", nil)
	req.Header.Set(ViewerHeader, "tab-9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	rec := logs.Find("session request")
	require.NotNil(t, rec)
	assert.Equal(t, "tab-9", rec["viewer"])
	assert.Equal(t, "S1", rec["session_id"])
}

func TestRecoveryWritesInternalError(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Recovery(testutil.NopLogger()))
	r.HandleFunc("/api/v1/sessions/{id}", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/S1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
