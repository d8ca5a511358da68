package httpapi

import "net/http"

// tokenResponse mirrors the OAuth2 password-flow response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin exchanges form credentials for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	ctx := r.Context()
	user, err := s.users.Authenticate(ctx, scopeFrom(ctx), email, password)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusBadRequest, "Inactive user")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleTestToken echoes the account the bearer token resolves to.
func (s *Server) handleTestToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}
