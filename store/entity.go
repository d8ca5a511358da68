package store

import "time"

// Document is the interface every mapped entity satisfies. Embedding [Base]
// in an entity struct provides the implementation.
type Document interface {
	// GetID returns the document identity, NilID if never persisted.
	GetID() ID

	// SetID assigns the identity. Called by the mapper exactly once, on
	// first persist.
	SetID(ID)

	// GetCreatedAt returns the creation timestamp, zero if never persisted.
	GetCreatedAt() time.Time

	// SetCreatedAt stamps the creation time. Set once at creation.
	SetCreatedAt(time.Time)

	// GetUpdatedAt returns the last modification timestamp.
	GetUpdatedAt() time.Time

	// SetUpdatedAt stamps the modification time. Refreshed on every
	// successful mutation.
	SetUpdatedAt(time.Time)
}

// Base carries the mapper-managed fields common to all entities. Embed it
// inline:
//
//	type Item struct {
//	    store.Base `bson:",inline"`
//	    Title      string `bson:"title"`
//	}
type Base struct {
	ID        ID        `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (b *Base) GetID() ID                 { return b.ID }
func (b *Base) SetID(id ID)               { b.ID = id }
func (b *Base) GetCreatedAt() time.Time   { return b.CreatedAt }
func (b *Base) SetCreatedAt(ts time.Time) { b.CreatedAt = ts }
func (b *Base) GetUpdatedAt() time.Time   { return b.UpdatedAt }
func (b *Base) SetUpdatedAt(ts time.Time) { b.UpdatedAt = ts }
