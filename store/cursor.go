package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Cursor is a finite, forward-only sequence of typed documents streamed
// from the store. It is not restartable after full consumption. Always
// Close it; All does so automatically.
type Cursor[T any] struct {
	cur *mongo.Cursor
}

// Next advances to the next document. It returns false when the sequence
// is exhausted or an error occurred; check Err after the loop.
func (c *Cursor[T]) Next(ctx context.Context) bool {
	return c.cur.Next(ctx)
}

// Decode unmarshals the current document.
func (c *Cursor[T]) Decode() (*T, error) {
	var doc T
	if err := c.cur.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Err reports the first error encountered while iterating.
func (c *Cursor[T]) Err() error {
	return c.cur.Err()
}

// Close releases the server-side cursor.
func (c *Cursor[T]) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}

// All drains the remaining documents and closes the cursor.
func (c *Cursor[T]) All(ctx context.Context) ([]*T, error) {
	defer c.cur.Close(ctx)

	var docs []*T
	for c.cur.Next(ctx) {
		doc, err := c.Decode()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := c.cur.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
