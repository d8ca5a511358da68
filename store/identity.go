package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ID is the unique identifier for a stored document: a 12-byte value with a
// time component and a random/counter component. Its canonical text form is
// the 24-character lowercase hex encoding. ID is a value type; equality and
// ordering follow the native byte representation.
type ID = bson.ObjectID

// NilID is the zero identity. A document whose ID is NilID has never been
// persisted.
var NilID ID

// NewID generates a fresh identity with overwhelming-probability global
// uniqueness. Used when an id must be assigned before the store sees the
// document.
func NewID() ID {
	return bson.NewObjectID()
}

// ParseID parses the canonical hex form of an identity. Malformed text
// (wrong length, non-hex) fails with ErrInvalidIdentity, never a silent
// coercion. Uppercase hex digits are accepted and canonicalized; ID.Hex is
// always lowercase, so ParseID and Hex round-trip losslessly.
func ParseID(text string) (ID, error) {
	id, err := bson.ObjectIDFromHex(text)
	if err != nil {
		return NilID, fmt.Errorf("%w: %q", ErrInvalidIdentity, text)
	}
	return id, nil
}
