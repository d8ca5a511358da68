package store

import "go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

// SortOrder is the direction of an index or sort key.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// Key is one (field, direction) pair of an index or sort specification.
type Key struct {
	Field string
	Order SortOrder
}

// Index describes one index on a collection.
type Index struct {
	// Keys is the ordered list of indexed fields.
	Keys []Key

	// Unique makes the index reject duplicate values.
	Unique bool

	// Background is kept for descriptor compatibility. Servers since 4.2
	// always build indexes in background and the driver no longer exposes
	// the flag, so provisioning ignores it.
	Background bool
}

// Durability is the write acknowledgment a collection requires before a
// write counts as successful. The zero value uses the deployment default.
type Durability struct {
	// W is the number of members that must acknowledge the write.
	// Ignored when Majority is set.
	W int

	// Majority requires acknowledgment from a majority of members.
	Majority bool

	// Journaled requires the write to reach the on-disk journal.
	Journaled bool
}

func (d Durability) isZero() bool {
	return d.W == 0 && !d.Majority && !d.Journaled
}

// writeConcern translates the durability requirement to the driver's
// representation. Returns nil for the zero value so the deployment default
// applies.
func (d Durability) writeConcern() *writeconcern.WriteConcern {
	if d.isZero() {
		return nil
	}
	wc := &writeconcern.WriteConcern{}
	switch {
	case d.Majority:
		wc.W = "majority"
	case d.W > 0:
		wc.W = d.W
	}
	if d.Journaled {
		journal := true
		wc.Journal = &journal
	}
	return wc
}

// Hook is a pre-persist function over an entity. Hooks run synchronously in
// declaration order before the write is issued; each may mutate the entity
// in place or fail the whole save. Hooks must be idempotent and must not
// call back into the store.
type Hook[T any] func(*T) error

// Schema is the static per-entity-kind descriptor: which collection the
// kind lives in, which indexes it needs, how durable its writes must be,
// and which hooks run before every save. Create one per entity kind at
// process startup and never mutate it afterwards; all operations on the
// kind share it.
type Schema[T any] struct {
	// Collection is the collection name. Required.
	Collection string

	// Indexes is the ordered list of index specifications provisioned by
	// Mapper.EnsureIndexes.
	Indexes []Index

	// Durability is the write acknowledgment for every write issued through
	// the mapper. Not overridable per call.
	Durability Durability

	// Hooks is the ordered list of pre-persist hooks.
	Hooks []Hook[T]
}
