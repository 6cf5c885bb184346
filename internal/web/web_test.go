package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colorwood/internal/factory"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
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

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()
	t.Cleanup(app.HubManager.Shutdown)

	router := web.NewRouter(web.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		HitTestService:    app.HitTestService,
		HubManager:        app.HubManager,
		BaseConfig:        tinyConfig(),
		StaticDir:         "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a POST request with form data as an HTMX request
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// parseHTML parses the response body as HTML
func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// startSession submits the home page form and returns the new session ID
func (ts *webTestServer) startSession(id string, form url.Values) string {
	ts.t.Helper()
	ts.app.MockRandom.QueueString(id)
	if form == nil {
		form = url.Values{"viewport_width": {"600"}}
	}
	rr := ts.post("/play", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, rr.Body.String())
	require.Equal(ts.t, "/play/"+id, rr.Header().Get("Location"))
	return id
}

// pointer sends one board pointer event and returns the fragment response
func (ts *webTestServer) pointer(id, op string, x, y float64) *httptest.ResponseRecorder {
	ts.t.Helper()
	form := url.Values{
		"type": {op},
		"x":    {strconv.FormatFloat(x, 'f', -1, 64)},
		"y":    {strconv.FormatFloat(y, 'f', -1, 64)},
	}
	return ts.postHTMX("/play/"+id+"/pointer", form)
}
