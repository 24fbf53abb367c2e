package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/validation"
)

type dashboardResponse struct {
	User     models.Profile    `json:"user"`
	Messages []*models.Message `json:"messages"`
}

// pageResponse stands in for the sign-in and sign-up pages: it echoes the
// error a failed form post redirected with.
type pageResponse struct {
	Page  string `json:"page"`
	Error string `json:"error,omitempty"`
}

func sitePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pageResponse{Page: name, Error: r.URL.Query().Get("error")})
	}
}

func (s *HTTPServer) siteSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/site/signup", common.ErrValidationFailed.Error())
		return
	}

	userType := models.UserTypeFan
	if r.PostForm.Get("type") == "on" {
		userType = models.UserTypeStreamer
	}

	_, err := s.users.Register(r.Context(), validation.SignUp{
		Email:    r.PostForm.Get("email"),
		UserName: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		Type:     userType,
	})
	if err != nil {
		_, msg := statusFor(err)
		redirectWithError(w, r, "/site/signup", msg)
		return
	}

	http.Redirect(w, r, "/site/signin", http.StatusSeeOther)
}

func (s *HTTPServer) siteSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/site/signin", common.ErrValidationFailed.Error())
		return
	}

	token, err := s.users.Login(r.Context(), validation.SignIn{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		_, msg := statusFor(err)
		redirectWithError(w, r, "/site/signin", msg)
		return
	}

	http.SetCookie(w, s.tokenCookie(token, int(s.tokenValidity.Seconds())))
	http.Redirect(w, r, "/site/dashboard", http.StatusSeeOther)
}

// siteLogout only clears the cookie; the token stays valid until it expires.
func (s *HTTPServer) siteLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.tokenCookie("", -1))
	http.Redirect(w, r, "/site/signin", http.StatusSeeOther)
}

func (s *HTTPServer) siteDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())

	msgs, err := s.messages.Inbox(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{User: user.Profile(), Messages: msgs})
}

func (s *HTTPServer) siteSendMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/site/dashboard", common.ErrValidationFailed.Error())
		return
	}

	_, err := s.messages.Send(r.Context(), user, validation.Message{
		To:   r.PostForm.Get("to"),
		Body: r.PostForm.Get("message"),
	})
	if err != nil {
		_, msg := statusFor(err)
		redirectWithError(w, r, "/site/dashboard", msg)
		return
	}

	http.Redirect(w, r, "/site/dashboard", http.StatusSeeOther)
}

func (s *HTTPServer) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
