package httpserver

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireHeaderToken gates API routes; rejections are JSON errors.
func (s *HTTPServer) requireHeaderToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.gate.Authenticate(r.Context(), "api", r.Header.Get(common.AccessTokenName))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(gate.WithUser(r.Context(), user)))
	})
}

// requireCookieToken gates browser routes; rejections redirect to sign in.
func (s *HTTPServer) requireCookieToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(common.AccessTokenName); err == nil {
			token = c.Value
		}

		user, err := s.gate.Authenticate(r.Context(), "site", token)
		if err != nil {
			_, msg := statusFor(err)
			redirectWithError(w, r, "/site/signin", msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(gate.WithUser(r.Context(), user)))
	})
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
