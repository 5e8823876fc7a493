package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// CredentialsRequest is the request body for signup and signin
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpResponse is the response body for a successful signup. The
// confirmation code is returned to the operator for out-of-band delivery;
// there is no mail integration.
type SignUpResponse struct {
	ID               string `json:"id"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SignUpResponse{
		ID:               result.UserID.String(),
		ConfirmationCode: result.ConfirmationCode,
	})
}

// ConfirmRequest is the request body for confirming a signup
type ConfirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) handleConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.authService.ConfirmSignUp(r.Context(), req.Email, req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"confirmed": true})
}

// SignInResponse is the response body for a successful signin
type SignInResponse struct {
	Token   string `json:"token"`
	ID      string `json:"id"`
	LoginID string `json:"login_id"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, identity, err := s.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, SignInResponse{
		Token:   token,
		ID:      identity.ID.String(),
		LoginID: identity.LoginID,
	})
}

// Sessions are stateless tokens; signout is acknowledged so clients have a
// uniform call to discard their token against.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]bool{"signed_out": true})
}

// IdentityResponse is the response body for the current user
type IdentityResponse struct {
	ID      string `json:"id"`
	LoginID string `json:"login_id"`
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, err := s.authService.CurrentUser(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, IdentityResponse{
		ID:      identity.ID.String(),
		LoginID: identity.LoginID,
	})
}
