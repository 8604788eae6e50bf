package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appconversation "agronomo-ia/internal/app/conversation"
	"agronomo-ia/internal/config"
	"agronomo-ia/internal/mcpserver"
	"agronomo-ia/internal/observability"
	"agronomo-ia/internal/web"
	"agronomo-ia/internal/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Deps are the components the router serves. Store is nil when attempt
// history is disabled; Metrics may be nil.
type Deps struct {
	Service    *appconversation.Service
	Store      Pinger
	Metrics    *observability.Metrics
	WS         *ws.Server
	Configured func() bool
}

func NewRouter(cfg config.ServerConfig, deps Deps) *chi.Mux {
	mcpSrv := mcpserver.New(deps.Service, deps.Configured)

	conversationHandlers := NewConversationHandlers(deps.Service)
	adminHandlers := NewAdminHandlers(deps.Store, deps.Service, deps.Configured)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(MetricsMiddleware(deps.Metrics))

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpSrv.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpSrv.Handler())

	if deps.WS != nil {
		r.Get("/ws", deps.WS.HandleWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/conversations", conversationHandlers.Create())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/conversations", conversationHandlers.List())
			r.Get("/conversations/summary", adminHandlers.Summary())
			r.Get("/conversations/{attempt_id}", conversationHandlers.Get())

			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	r.Handle("/*", web.Handler())
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
