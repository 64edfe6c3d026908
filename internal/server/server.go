package server

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/pkg/auth"
)

//go:embed static
var staticFS embed.FS

// Server owns the HTTP surface: the page and form handlers, the route
// gate, access logging and CORS. All task and session semantics live
// in the services it delegates to.
type Server struct {
	auth    *service.AuthService
	tasks   *service.TaskService
	tokens  *auth.TokenManager
	gate    *middleware.RouteGate
	cache   *DashboardCache
	logger  *slog.Logger
	origins []string
	secure  bool
}

func New(
	cfg *config.Config,
	authService *service.AuthService,
	taskService *service.TaskService,
	tokens *auth.TokenManager,
	gate *middleware.RouteGate,
	cache *DashboardCache,
	logger *slog.Logger,
) *Server {
	return &Server{
		auth:    authService,
		tasks:   taskService,
		tokens:  tokens,
		gate:    gate,
		cache:   cache,
		logger:  logger,
		origins: cfg.Server.AllowedOrigins,
		secure:  cfg.Session.SecureCookies,
	}
}

// Handler assembles the full middleware chain around the route mux.
// The route gate runs innermost of the ambient middleware so access
// logging covers redirects too; static assets are matched by the mux
// but skipped by the gate itself.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /signup", s.handleSignupPage)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("POST /tasks", s.handleCreateTask)
	mux.HandleFunc("POST /tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("POST /tasks/{id}/delete", s.handleDeleteTask)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	var handler http.Handler = mux
	handler = s.gate.Middleware(handler)
	handler = sloghttp.New(s.logger)(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(handler)

	return handler
}
