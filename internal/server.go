package internal

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/fortytwo-ai/horizon/internal/config"
	"github.com/fortytwo-ai/horizon/internal/inquiry"
	"github.com/fortytwo-ai/horizon/internal/offering"
	"github.com/fortytwo-ai/horizon/internal/project"
	"github.com/fortytwo-ai/horizon/internal/pushnotification"
	"github.com/fortytwo-ai/horizon/pkg/cerr"
	"github.com/fortytwo-ai/horizon/pkg/clog"
)

type Server struct {
	server                 *http.Server
	env                    *config.Env
	projectServer          *project.Server
	offeringServer         *offering.Server
	inquiryServer          *inquiry.Server
	pushNotificationServer *pushnotification.Server
	now                    func() time.Time
}

func NewServer(
	env *config.Env,
	projectServer *project.Server,
	offeringServer *offering.Server,
	inquiryServer *inquiry.Server,
	pushNotificationServer *pushnotification.Server,
) *Server {
	return &Server{
		env:                    env,
		projectServer:          projectServer,
		offeringServer:         offeringServer,
		inquiryServer:          inquiryServer,
		pushNotificationServer: pushNotificationServer,
		now:                    time.Now,
	}
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler builds the full request pipeline: CORS, the /api router and the
// gRPC health service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(clog.WithChiFilter(func(r *http.Request) bool {
				return r.URL.Path != "/api/health"
			})),
			cerr.NewJSONResponseChiMiddleware(),
		)
		// Unknown methods on known paths are reported like unknown paths.
		r.NotFound(routeNotFound)
		r.MethodNotAllowed(routeNotFound)

		r.Get("/health", s.health)
		s.projectServer.Mount(r)
		s.offeringServer.Mount(r)
		s.inquiryServer.Mount(r)
		s.pushNotificationServer.Mount(r)

		if s.env.APIKey == "" {
			slog.Info("API_KEY not set, staff endpoints disabled")
			return
		}
		r.Group(func(r chi.Router) {
			r.Use(s.apiKeyMiddleware)
			s.inquiryServer.MountAdmin(r)
			s.pushNotificationServer.MountAdmin(r)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", r)
	mux.Handle(grpchealth.NewHandler(
		grpchealth.NewStaticChecker(),
		connect.WithInterceptors(clog.NewSlogConnectInterceptor()),
	))

	origins := s.env.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(mux)
}

// ListenAndServe starts the HTTP server. ctx becomes the base context of
// every request, so cancelling it also cancels in-flight handlers.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), healthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: s.now().UTC(),
	})
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	cerr.SetNewJSONError(r.Context(), cerr.NotFound, "Route not found", nil)
}

func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.env.APIKey)) != 1 {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
