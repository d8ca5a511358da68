// Package httpapi exposes the user and item resources over HTTP. Handlers
// acquire a request scope, call the services, and map failures to
// user-visible statuses; all storage semantics live below this layer.
package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/jacentio/lattice/internal/auth"
	"github.com/jacentio/lattice/internal/service"
	"github.com/jacentio/lattice/model"
	"github.com/jacentio/lattice/store"
)

// APIPrefix is the URL prefix of every route.
const APIPrefix = "/api/v1"

// ScopePool hands out request-scoped database handles. *store.Pool
// implements it.
type ScopePool interface {
	Acquire() *store.Scope
}

// UserService is the account surface the handlers consume.
type UserService interface {
	Get(ctx context.Context, scope *store.Scope, id store.ID) (*model.User, error)
	Authenticate(ctx context.Context, scope *store.Scope, email, password string) (*model.User, error)
	Create(ctx context.Context, scope *store.Scope, in service.CreateUserInput) (*model.User, error)
	Register(ctx context.Context, scope *store.Scope, email, password, fullName string) (*model.User, error)
	List(ctx context.Context, scope *store.Scope, skip, limit int64) ([]*model.User, int64, error)
	Update(ctx context.Context, scope *store.Scope, id store.ID, in service.UpdateUserInput) (*model.User, error)
	ChangePassword(ctx context.Context, scope *store.Scope, user *model.User, current, next string) error
	Delete(ctx context.Context, scope *store.Scope, id store.ID) error
}

// ItemService is the item surface the handlers consume.
type ItemService interface {
	List(ctx context.Context, scope *store.Scope, actor *model.User, query string, skip, limit int64) ([]*model.Item, int64, error)
	Get(ctx context.Context, scope *store.Scope, id store.ID) (*model.Item, error)
	Create(ctx context.Context, scope *store.Scope, owner store.ID, title, description string) (*model.Item, error)
	Update(ctx context.Context, scope *store.Scope, id store.ID, in service.UpdateItemInput) (*model.Item, error)
	Delete(ctx context.Context, scope *store.Scope, id store.ID) (int64, error)
}

// Server wires the HTTP surface.
type Server struct {
	scopes ScopePool
	users  UserService
	items  ItemService
	tokens *auth.Tokens
	logger zerolog.Logger
}

// New creates the server.
func New(scopes ScopePool, users UserService, items ItemService, tokens *auth.Tokens, logger zerolog.Logger) *Server {
	return &Server{
		scopes: scopes,
		users:  users,
		items:  items,
		tokens: tokens,
		logger: logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix(APIPrefix).Subrouter()
	api.Use(s.requestID, s.logRequests, s.withScope)

	api.HandleFunc("/login/access-token", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users/signup", s.handleSignup).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireUser)
	authed.HandleFunc("/login/test-token", s.handleTestToken).Methods(http.MethodPost)

	authed.HandleFunc("/users/me", s.handleReadMe).Methods(http.MethodGet)
	authed.HandleFunc("/users/me", s.handleUpdateMe).Methods(http.MethodPatch)
	authed.HandleFunc("/users/me/password", s.handleUpdatePassword).Methods(http.MethodPatch)
	authed.HandleFunc("/users/me", s.handleDeleteMe).Methods(http.MethodDelete)
	authed.HandleFunc("/users/{id}", s.handleReadUser).Methods(http.MethodGet)

	admin := authed.NewRoute().Subrouter()
	admin.Use(s.requireSuperuser)
	admin.HandleFunc("/users/", s.handleListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/", s.handleCreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", s.handleUpdateUser).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	authed.HandleFunc("/items/", s.handleListItems).Methods(http.MethodGet)
	authed.HandleFunc("/items/", s.handleCreateItem).Methods(http.MethodPost)
	authed.HandleFunc("/items/{id}", s.handleReadItem).Methods(http.MethodGet)
	authed.HandleFunc("/items/{id}", s.handleUpdateItem).Methods(http.MethodPut)
	authed.HandleFunc("/items/{id}", s.handleDeleteItem).Methods(http.MethodDelete)

	return r
}

// requestID tags every request with an id for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		logger := s.logger.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}

// withScope acquires a database scope for the request and releases it
// deterministically when the handler returns.
func (s *Server) withScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := s.scopes.Acquire()
		defer scope.Close()
		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), scope)))
	})
}

// requireUser resolves the bearer credential to an account. Invalid tokens
// are forbidden, unknown subjects not found, inactive accounts rejected.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusForbidden, "Not authenticated")
			return
		}
		subject, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials")
			return
		}

		ctx := r.Context()
		user, err := s.users.Get(ctx, scopeFrom(ctx), subject)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if user == nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if !user.IsActive {
			writeError(w, http.StatusBadRequest, "Inactive user")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(ctx, user)))
	})
}

func (s *Server) requireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userFrom(r.Context()).IsSuperuser {
			writeError(w, http.StatusForbidden, "The user doesn't have enough privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}
