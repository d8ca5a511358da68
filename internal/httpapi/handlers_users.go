package httpapi

import (
	"net/http"

	"github.com/jacentio/lattice/internal/service"
	"github.com/jacentio/lattice/model"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 40
)

// listResponse is the data-plus-count envelope of collection reads.
type listResponse[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLen && len(password) <= maxPasswordLen
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type updateMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	ctx := r.Context()
	users, count, err := s.users.List(ctx, scopeFrom(ctx), skip, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*model.User]{Data: users, Count: count})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Email == "" || !validPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "Email and a password of 8-40 characters are required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx := r.Context()
	user, err := s.users.Create(ctx, scopeFrom(ctx), service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    active,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Email == "" || !validPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "Email and a password of 8-40 characters are required")
		return
	}

	ctx := r.Context()
	user, err := s.users.Register(ctx, scopeFrom(ctx), req.Email, req.Password, req.FullName)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleReadMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	ctx := r.Context()
	current := userFrom(ctx)
	user, err := s.users.Update(ctx, scopeFrom(ctx), current.ID, service.UpdateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !validPassword(req.NewPassword) {
		writeError(w, http.StatusBadRequest, "New password must be 8-40 characters")
		return
	}

	ctx := r.Context()
	err := s.users.ChangePassword(ctx, scopeFrom(ctx), userFrom(ctx), req.CurrentPassword, req.NewPassword)
	switch err {
	case nil:
		writeJSON(w, http.StatusOK, message{Message: "Password updated successfully"})
	case service.ErrWrongPassword:
		writeError(w, http.StatusBadRequest, "Incorrect password")
	case service.ErrSamePassword:
		writeError(w, http.StatusBadRequest, "New password cannot be the same as the current one")
	default:
		s.storeError(w, r, err)
	}
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current := userFrom(ctx)
	if current.IsSuperuser {
		writeError(w, http.StatusForbidden, "Super users are not allowed to delete themselves")
		return
	}
	if err := s.users.Delete(ctx, scopeFrom(ctx), current.ID); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "User deleted successfully"})
}

func (s *Server) handleReadUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	ctx := r.Context()
	current := userFrom(ctx)
	if id != current.ID && !current.IsSuperuser {
		writeError(w, http.StatusForbidden, "The user doesn't have enough privileges")
		return
	}

	user, err := s.users.Get(ctx, scopeFrom(ctx), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Password != nil && !validPassword(*req.Password) {
		writeError(w, http.StatusBadRequest, "Password must be 8-40 characters")
		return
	}

	ctx := r.Context()
	scope := scopeFrom(ctx)
	existing, err := s.users.Get(ctx, scope, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "The user with this id does not exist in the system")
		return
	}

	user, err := s.users.Update(ctx, scope, id, service.UpdateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	ctx := r.Context()
	scope := scopeFrom(ctx)
	current := userFrom(ctx)

	user, err := s.users.Get(ctx, scope, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.ID == current.ID {
		writeError(w, http.StatusForbidden, "Super users are not allowed to delete themselves")
		return
	}

	if err := s.users.Delete(ctx, scope, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "User deleted successfully"})
}
