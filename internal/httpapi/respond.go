package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jacentio/lattice/internal/service"
	"github.com/jacentio/lattice/store"
)

// message is the body of plain-text responses.
type message struct {
	Message string `json:"message"`
}

// errorBody is the body of failed responses.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// storeError maps storage and workflow failures to user-visible outcomes:
// duplicate key to conflict, malformed identity or query to bad request,
// unavailable storage to service-unavailable with no automatic retry.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, store.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "Duplicate value for unique field")
	case errors.Is(err, store.ErrInvalidIdentity), errors.Is(err, store.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Storage unavailable")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON parses a request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the {id} route variable, failing with ErrInvalidIdentity
// semantics on malformed text.
func pathID(r *http.Request, name string) (store.ID, error) {
	return store.ParseID(muxVar(r, name))
}

// pagination reads skip and limit query parameters with the conventional
// defaults.
func pagination(r *http.Request) (skip, limit int64) {
	skip = queryInt(r, "skip", 0)
	limit = queryInt(r, "limit", 100)
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
