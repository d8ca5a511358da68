package store

import (
	"context"
	"errors"
	"testing"
)

type note struct {
	Base  `bson:",inline"`
	Title string `bson:"title"`
}

func noteMapper(hooks ...Hook[note]) *Mapper[note, *note] {
	return NewMapper[note, *note](Schema[note]{
		Collection: "notes",
		Hooks:      hooks,
	})
}

func closedScope() *Scope {
	s := &Scope{}
	s.Close()
	return s
}

func TestNewMapperRequiresCollection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewMapper accepted a schema without a collection name")
		}
	}()
	NewMapper[note, *note](Schema[note]{})
}

func TestSaveHookFailureShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	m := noteMapper(
		func(n *note) error { n.Title = "touched"; return nil },
		func(n *note) error { return boom },
	)

	doc := &note{Title: "draft"}
	err := m.Save(context.Background(), closedScope(), doc)
	if !errors.Is(err, ErrHookFailed) {
		t.Fatalf("Save = %v, want ErrHookFailed", err)
	}
	// Hooks before the failing one still ran; managed fields stayed untouched
	// because the failure happened before any write.
	if doc.Title != "touched" {
		t.Fatalf("earlier hook did not run, title = %q", doc.Title)
	}
	if !doc.ID.IsZero() || !doc.CreatedAt.IsZero() || !doc.UpdatedAt.IsZero() {
		t.Fatal("hook failure mutated managed fields")
	}
}

func TestHooksRunInDeclarationOrder(t *testing.T) {
	var order []int
	m := noteMapper(
		func(*note) error { order = append(order, 1); return nil },
		func(*note) error { order = append(order, 2); return nil },
		func(*note) error { order = append(order, 3); return errors.New("stop") },
	)

	_ = m.Save(context.Background(), closedScope(), &note{})
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("hook order = %v, want [1 2 3]", order)
	}
}

func TestOperationsOnClosedScope(t *testing.T) {
	m := noteMapper()
	scope := closedScope()
	ctx := context.Background()

	if err := m.Save(ctx, scope, &note{}); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("Save = %v, want ErrScopeClosed", err)
	}
	if _, err := m.FindOne(ctx, scope, MatchAll()); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("FindOne = %v, want ErrScopeClosed", err)
	}
	if _, err := m.Find(ctx, scope, MatchAll()); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("Find = %v, want ErrScopeClosed", err)
	}
	if _, err := m.Count(ctx, scope, MatchAll()); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("Count = %v, want ErrScopeClosed", err)
	}
	if _, err := m.UpdateMany(ctx, scope, MatchAll(), Patch{"title": "x"}); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("UpdateMany = %v, want ErrScopeClosed", err)
	}
	if _, err := m.Delete(ctx, scope, MatchAll()); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("Delete = %v, want ErrScopeClosed", err)
	}
}

func TestScopeCloseIdempotent(t *testing.T) {
	s := &Scope{}
	s.Close()
	s.Close()
	if _, err := s.database(); !errors.Is(err, ErrScopeClosed) {
		t.Fatalf("database() after double close = %v, want ErrScopeClosed", err)
	}
}

func TestInvalidFilterSurfacesBeforeIO(t *testing.T) {
	m := noteMapper()
	ctx := context.Background()
	scope := closedScope() // would fail with ErrScopeClosed if the filter check came later
	bad := Eq("", 1)

	if _, err := m.FindOne(ctx, scope, bad); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("FindOne = %v, want ErrInvalidQuery", err)
	}
	if _, err := m.Find(ctx, scope, bad); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("Find = %v, want ErrInvalidQuery", err)
	}
	if _, err := m.Count(ctx, scope, bad); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("Count = %v, want ErrInvalidQuery", err)
	}
	if _, err := m.Delete(ctx, scope, bad); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("Delete = %v, want ErrInvalidQuery", err)
	}
}

func TestUpdateManyRejectsEmptyPatch(t *testing.T) {
	m := noteMapper()
	if _, err := m.UpdateMany(context.Background(), closedScope(), MatchAll(), Patch{}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("UpdateMany = %v, want ErrInvalidQuery", err)
	}
}
