package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/validation"
)

type signUpRequest struct {
	Email    string `json:"email"`
	UserName string `json:"username"`
	Password string `json:"password"`
	Type     int    `json:"type"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return common.ErrValidationFailed
	}
	return nil
}

func (s *HTTPServer) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	_, err := s.users.Register(r.Context(), validation.SignUp{
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		Type:     models.UserType(req.Type),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Done"})
}

func (s *HTTPServer) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), validation.SignIn{Email: req.Email, Password: req.Password})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Message: "authentication done", Token: token})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user.Profile())
}

func (s *HTTPServer) sendMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.messages.Send(r.Context(), user, validation.Message{To: req.To, Body: req.Message}); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Done"})
}

// getMessages returns the caller's inbox. Any request body is ignored: the
// recipient is always the authenticated user.
func (s *HTTPServer) getMessages(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())

	msgs, err := s.messages.Inbox(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}
