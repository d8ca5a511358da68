package model

import (
	"errors"
	"strings"

	"github.com/jacentio/lattice/store"
)

// Item is a document in the items collection. OwnerID references a User;
// the store does not enforce the reference, so deleting a user must delete
// its items first (see the user service).
type Item struct {
	store.Base `bson:",inline"`

	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     store.ID `bson:"owner_id" json:"owner_id"`
}

// TrimTitle is the pre-persist hook normalizing the title. Idempotent.
func TrimTitle(it *Item) error {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return errors.New("title must not be empty")
	}
	return nil
}

// ItemSchema describes the items collection. The (title, created_at) index
// backs listing and sorted output.
var ItemSchema = store.Schema[Item]{
	Collection: "items",
	Indexes: []store.Index{
		{Keys: []store.Key{
			{Field: "title", Order: store.Ascending},
			{Field: "created_at", Order: store.Ascending},
		}},
		{Keys: []store.Key{{Field: "owner_id", Order: store.Ascending}}},
	},
	Durability: store.Durability{W: 1, Journaled: true},
	Hooks:      []store.Hook[Item]{TrimTitle},
}

// Items is the mapper for the items collection.
var Items = store.NewMapper[Item, *Item](ItemSchema)
