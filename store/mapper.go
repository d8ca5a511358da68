package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Patch is a partial-field update: only the named fields are touched.
// Mapper-managed fields ("_id", "created_at", "updated_at") are ignored.
type Patch map[string]any

// Mapper binds one entity kind, described by a Schema, to its collection
// and performs typed CRUD and query operations against it. T is the entity
// struct, PT its pointer type:
//
//	var Users = store.NewMapper[User, *User](UserSchema)
//
// A mapper is immutable and safe for concurrent use. Every operation is a
// single store round trip with no implicit retry; concurrent writes against
// overlapping documents race at the store, with per-document atomicity as
// the only ordering guarantee.
type Mapper[T any, PT interface {
	*T
	Document
}] struct {
	schema Schema[T]
}

// NewMapper creates the mapper for one entity kind. Panics on a schema
// without a collection name: that is a registration-time misconfiguration,
// not a runtime condition.
func NewMapper[T any, PT interface {
	*T
	Document
}](schema Schema[T]) *Mapper[T, PT] {
	if schema.Collection == "" {
		panic("lattice: schema requires a collection name")
	}
	return &Mapper[T, PT]{schema: schema}
}

// Collection returns the collection name the mapper is bound to.
func (m *Mapper[T, PT]) Collection() string {
	return m.schema.Collection
}

func (m *Mapper[T, PT]) collection(scope *Scope) (*mongo.Collection, error) {
	db, err := scope.database()
	if err != nil {
		return nil, err
	}
	opts := options.Collection()
	if wc := m.schema.Durability.writeConcern(); wc != nil {
		opts = opts.SetWriteConcern(wc)
	}
	return db.Collection(m.schema.Collection, opts), nil
}

// EnsureIndexes idempotently provisions every index the schema declares.
// Safe to call repeatedly and concurrently; invoke it once at startup via
// Pool.Provision rather than on the request path. A uniqueness violation
// surfaced here means existing data conflicts with the schema and is fatal
// at startup.
func (m *Mapper[T, PT]) EnsureIndexes(ctx context.Context, scope *Scope) error {
	if len(m.schema.Indexes) == 0 {
		return nil
	}
	coll, err := m.collection(scope)
	if err != nil {
		return err
	}

	models := make([]mongo.IndexModel, 0, len(m.schema.Indexes))
	for _, idx := range m.schema.Indexes {
		keys := make(bson.D, 0, len(idx.Keys))
		for _, k := range idx.Keys {
			keys = append(keys, bson.E{Key: k.Field, Value: int(k.Order)})
		}
		model := mongo.IndexModel{Keys: keys}
		if idx.Unique {
			model.Options = options.Index().SetUnique(true)
		}
		models = append(models, model)
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", m.schema.Collection, m.classify(err))
	}
	return nil
}

// FindOne returns at most one matching entity, or (nil, nil) when nothing
// matches. Absence is a normal outcome, never an error, so callers choose
// their own not-found policy. When several documents match, the store's
// natural scan order decides unless the filter carries a sort key.
func (m *Mapper[T, PT]) FindOne(ctx context.Context, scope *Scope, filter Filter) (PT, error) {
	var zero PT
	if err := filter.Err(); err != nil {
		return zero, err
	}
	coll, err := m.collection(scope)
	if err != nil {
		return zero, err
	}

	opts := options.FindOne()
	if sort := filter.sortDocument(); len(sort) > 0 {
		opts = opts.SetSort(sort)
	}

	var doc T
	if err := coll.FindOne(ctx, filter.document(), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, nil
		}
		return zero, m.classify(err)
	}
	return PT(&doc), nil
}

// Find streams the matching entities as a lazy, forward-only cursor. Skip,
// limit, and sort order are taken from the filter and applied by the store,
// so memory stays bounded regardless of the match count.
func (m *Mapper[T, PT]) Find(ctx context.Context, scope *Scope, filter Filter) (*Cursor[T], error) {
	if err := filter.Err(); err != nil {
		return nil, err
	}
	coll, err := m.collection(scope)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if n := filter.skip; n > 0 {
		opts = opts.SetSkip(n)
	}
	if n := filter.limit; n > 0 {
		opts = opts.SetLimit(n)
	}
	if sort := filter.sortDocument(); len(sort) > 0 {
		opts = opts.SetSort(sort)
	}

	cur, err := coll.Find(ctx, filter.document(), opts)
	if err != nil {
		return nil, m.classify(err)
	}
	return &Cursor[T]{cur: cur}, nil
}

// Count returns the number of documents matching the filter, independent of
// its skip and limit.
func (m *Mapper[T, PT]) Count(ctx context.Context, scope *Scope, filter Filter) (int64, error) {
	if err := filter.Err(); err != nil {
		return 0, err
	}
	coll, err := m.collection(scope)
	if err != nil {
		return 0, err
	}

	n, err := coll.CountDocuments(ctx, filter.document())
	if err != nil {
		return 0, m.classify(err)
	}
	return n, nil
}

// Save persists the entity: pre-persist hooks run first in declaration
// order, then the document is inserted if it has no identity or upserted by
// identity if it does. On success the entity carries a non-empty identity,
// a creation stamp set exactly once, and a refreshed updated_at. The write
// acknowledgment comes from the schema and cannot be overridden per call.
//
// On failure the entity's managed fields are restored, so a retried Save
// behaves as if the failed attempt never happened.
func (m *Mapper[T, PT]) Save(ctx context.Context, scope *Scope, doc PT) error {
	for _, hook := range m.schema.Hooks {
		if err := hook((*T)(doc)); err != nil {
			return fmt.Errorf("%w: %v", ErrHookFailed, err)
		}
	}
	coll, err := m.collection(scope)
	if err != nil {
		return err
	}

	prevID := doc.GetID()
	prevCreated := doc.GetCreatedAt()
	prevUpdated := doc.GetUpdatedAt()
	restore := func() {
		doc.SetID(prevID)
		doc.SetCreatedAt(prevCreated)
		doc.SetUpdatedAt(prevUpdated)
	}

	// Millisecond precision matches what the store persists, so a reloaded
	// entity compares equal to the saved one.
	now := time.Now().UTC().Truncate(time.Millisecond)
	if doc.GetCreatedAt().IsZero() {
		doc.SetCreatedAt(now)
	}
	doc.SetUpdatedAt(now)

	if prevID.IsZero() {
		doc.SetID(NewID())
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			restore()
			return m.classify(err)
		}
		return nil
	}

	byID := bson.D{{Key: "_id", Value: prevID}}
	if _, err := coll.ReplaceOne(ctx, byID, doc, options.Replace().SetUpsert(true)); err != nil {
		restore()
		return m.classify(err)
	}
	return nil
}

// UpdateMany applies a partial-field patch to every matching document and
// returns the modified count. Only fields named in the patch are touched,
// plus updated_at, which is always stamped. Pre-persist hooks do not run
// here: Save normalizes on create, UpdateMany patches verbatim. Callers
// patching hook-normalized fields must canonicalize the values themselves.
func (m *Mapper[T, PT]) UpdateMany(ctx context.Context, scope *Scope, filter Filter, patch Patch) (int64, error) {
	if err := filter.Err(); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("%w: empty patch", ErrInvalidQuery)
	}
	coll, err := m.collection(scope)
	if err != nil {
		return 0, err
	}

	set := make(bson.M, len(patch)+1)
	for field, value := range patch {
		switch field {
		case "_id", "created_at", "updated_at":
			continue
		}
		set[field] = value
	}
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	res, err := coll.UpdateMany(ctx, filter.document(), bson.M{"$set": set})
	if err != nil {
		return 0, m.classify(err)
	}
	return res.ModifiedCount, nil
}

// Delete removes every matching document and returns the removed count.
// Deleting an already-empty match set is a no-op, which makes retrying a
// partially failed multi-entity workflow safe.
func (m *Mapper[T, PT]) Delete(ctx context.Context, scope *Scope, filter Filter) (int64, error) {
	if err := filter.Err(); err != nil {
		return 0, err
	}
	coll, err := m.collection(scope)
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteMany(ctx, filter.document())
	if err != nil {
		return 0, m.classify(err)
	}
	return res.DeletedCount, nil
}

// classify maps driver errors onto the package taxonomy so every failure
// kind stays distinguishable by the caller. Unrecognized errors pass
// through unchanged.
func (m *Mapper[T, PT]) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrScopeClosed):
		return err
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case mongo.IsTimeout(err) || mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 2 { // BadValue
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return err
}
