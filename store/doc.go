// Package store provides a typed MongoDB data access layer with schema-driven
// index provisioning and lifecycle hooks.
//
// Lattice is designed for applications that map a closed set of entity kinds
// onto MongoDB collections while keeping write durability, index setup, and
// pre-persist normalization declarative and per-kind.
//
// # Key Features
//
//   - Typed CRUD and queries through a generic [Mapper]
//   - Declarative [Schema] per entity kind (collection, indexes, durability, hooks)
//   - Idempotent index provisioning, single-flight per process
//   - Pre-persist hooks executed in declaration order before every save
//   - Request-scoped database handles with deterministic release
//   - Composable query filters that never concatenate strings
//
// # Entities
//
// An entity is a plain struct that embeds [Base] and is described by a
// [Schema]:
//
//	type User struct {
//	    store.Base `bson:",inline"`
//	    Email      string `bson:"email"`
//	}
//
//	var UserSchema = store.Schema[User]{
//	    Collection: "users",
//	    Indexes: []store.Index{
//	        {Keys: []store.Key{{Field: "email", Order: store.Ascending}}, Unique: true},
//	    },
//	}
//
//	var Users = store.NewMapper[User, *User](UserSchema)
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrInvalidIdentity] - malformed identity text
//   - [ErrInvalidQuery] - malformed query filter
//   - [ErrDuplicateKey] - unique index violated
//   - [ErrUnavailable] - transport or connection failure
//   - [ErrScopeClosed] - scope used after release
//   - [ErrHookFailed] - a pre-persist hook rejected the entity
//
// Absence is not an error: [Mapper.FindOne] returns (nil, nil) when no
// document matches, so callers choose their own not-found policy.
package store
