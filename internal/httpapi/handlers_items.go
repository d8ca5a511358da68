package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jacentio/lattice/internal/service"
	"github.com/jacentio/lattice/model"
)

const (
	itemNotFound         = "Item not found"
	notEnoughPermissions = "Not enough permissions"
)

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	query := r.URL.Query().Get("q")

	ctx := r.Context()
	items, count, err := s.items.List(ctx, scopeFrom(ctx), userFrom(ctx), query, skip, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*model.Item]{Data: items, Count: count})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	ctx := r.Context()
	item, err := s.items.Create(ctx, scopeFrom(ctx), userFrom(ctx).ID, req.Title, req.Description)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleReadItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	ctx := r.Context()
	updated, err := s.items.Update(ctx, scopeFrom(ctx), item.ID, service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, "Title is required")
			return
		}
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := s.items.Delete(ctx, scopeFrom(ctx), item.ID); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Item deleted successfully"})
}

// loadItem fetches the {id} item and enforces the ownership rule shared by
// the single-item handlers: absent is not found, foreign and unprivileged
// is rejected. Replies on failure and reports via ok.
func (s *Server) loadItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.storeError(w, r, err)
		return nil, false
	}

	ctx := r.Context()
	item, err := s.items.Get(ctx, scopeFrom(ctx), id)
	if err != nil {
		s.storeError(w, r, err)
		return nil, false
	}
	if item == nil {
		writeError(w, http.StatusNotFound, itemNotFound)
		return nil, false
	}

	current := userFrom(ctx)
	if !current.IsSuperuser && item.OwnerID != current.ID {
		writeError(w, http.StatusBadRequest, notEnoughPermissions)
		return nil, false
	}
	return item, true
}
