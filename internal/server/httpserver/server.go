// Package httpserver exposes the REST API and the browser routes over HTTP.
// API routes carry the session token in the access-token header, browser
// routes in the access-token cookie; both go through the same gate.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/logging"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address       string
	logger        logging.Logger
	users         *services.UserService
	messages      *services.MessageService
	gate          *gate.Gate
	tokenValidity time.Duration
	secureCookies bool
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ms *services.MessageService,
	g *gate.Gate, tokenValidity time.Duration, secureCookies bool) *HTTPServer {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		messages:      ms,
		gate:          g,
		tokenValidity: tokenValidity,
		secureCookies: secureCookies,
	}
}

// Router builds the route tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "OK"})
	})

	r.Post("/signup", s.signUp)
	r.Post("/signin", s.signIn)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireHeaderToken)
		r.Get("/me", s.me)
		r.Post("/sendMessage", s.sendMessage)
		r.Post("/getMessages", s.getMessages)
		r.Get("/getMessages", s.getMessages)
	})

	r.Route("/site", func(r chi.Router) {
		r.Get("/signup", sitePage("signup"))
		r.Post("/signup", s.siteSignUp)
		r.Get("/signin", sitePage("signin"))
		r.Post("/signin", s.siteSignIn)
		r.Get("/logout", s.siteLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireCookieToken)
			r.Get("/dashboard", s.siteDashboard)
			r.Post("/sendMessage", s.siteSendMessage)
		})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
