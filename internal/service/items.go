package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jacentio/lattice/model"
	"github.com/jacentio/lattice/store"
)

// ErrTitleRequired is returned when an item patch would blank the title.
var ErrTitleRequired = errors.New("service: item title must not be empty")

// Items implements item workflows.
type Items struct {
	items *store.Mapper[model.Item, *model.Item]
}

// NewItems creates the item service over the package-level mapper.
func NewItems() *Items {
	return &Items{items: model.Items}
}

// List returns one page of items visible to the actor plus the total match
// count. Non-privileged actors see only their own items; the authorization
// filter and the optional search filter combine by conjunction. A non-empty
// query matches title or description case-insensitively as a substring.
func (s *Items) List(ctx context.Context, scope *store.Scope, actor *model.User, query string, skip, limit int64) ([]*model.Item, int64, error) {
	base := store.MatchAll()
	if !actor.IsSuperuser {
		base = store.EqID("owner_id", actor.ID)
	}

	filter := base
	if query != "" {
		filter = store.And(base, store.Or(
			store.Contains("title", query),
			store.Contains("description", query),
		))
	}

	count, err := s.items.Count(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.items.Find(ctx, scope, filter.
		WithSort(store.Key{Field: "created_at", Order: store.Descending}).
		WithSkip(skip).
		WithLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	items, err := cur.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// Get returns the item with the given identity, or nil when absent.
func (s *Items) Get(ctx context.Context, scope *store.Scope, id store.ID) (*model.Item, error) {
	return s.items.FindOne(ctx, scope, store.ByID(id))
}

// Create persists a new item owned by the given user.
func (s *Items) Create(ctx context.Context, scope *store.Scope, owner store.ID, title, description string) (*model.Item, error) {
	item := &model.Item{
		Title:       title,
		Description: description,
		OwnerID:     owner,
	}
	if err := s.items.Save(ctx, scope, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemInput is a partial item patch; nil fields stay untouched.
type UpdateItemInput struct {
	Title       *string
	Description *string
}

// Update patches the item and returns the updated document, or nil when it
// does not exist. Patches bypass persist hooks, so the title is trimmed
// here the way the hook would.
func (s *Items) Update(ctx context.Context, scope *store.Scope, id store.ID, in UpdateItemInput) (*model.Item, error) {
	patch := store.Patch{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		patch["title"] = title
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if len(patch) > 0 {
		if _, err := s.items.UpdateMany(ctx, scope, store.ByID(id), patch); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, scope, id)
}

// Delete removes the item. Returns the removed count (0 or 1).
func (s *Items) Delete(ctx context.Context, scope *store.Scope, id store.ID) (int64, error) {
	return s.items.Delete(ctx, scope, store.ByID(id))
}
