package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	apimw "github.com/mcoot/colorwood/internal/api/middleware"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hittest"
	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/web/handler"
	"github.com/mcoot/colorwood/internal/web/middleware"
	"github.com/mcoot/colorwood/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	HitTestService    *hittest.Service
	HubManager        *sse.HubManager
	BaseConfig        model.GameConfig
	StaticDir         string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the web routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.SessionController, cfg.Logger)
	playHandler := handler.NewPlayHandler(cfg.SessionController, cfg.HitTestService, hubManager, cfg.BaseConfig, cfg.Logger)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Recovery(cfg.Logger))
	pages.Use(apimw.Viewer())
	pages.Use(middleware.Logging(cfg.Logger))
	pages.Use(middleware.Flash())
	pages.Use(middleware.LastSession())

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/play", playHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/play/{id}", playHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/play/{id}/board", playHandler.Board).Methods(http.MethodGet)
	pages.HandleFunc("/play/{id}/pointer", playHandler.Pointer).Methods(http.MethodPost)
	pages.HandleFunc("/play/{id}/dismiss", playHandler.Dismiss).Methods(http.MethodPost)
	pages.HandleFunc("/play/{id}/reset", playHandler.Reset).Methods(http.MethodPost)
	pages.HandleFunc("/play/{id}/events", playHandler.Events).Methods(http.MethodGet)
}
