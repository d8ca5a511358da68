package store

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Filter is an immutable tree of predicate nodes plus pagination and sort
// order. Construct one fresh per request from the combinators below; the
// With* methods return copies. Predicates compose structurally, never by
// string concatenation, so an authorization filter and a caller-supplied
// search filter cannot interfere lexically.
//
// The zero value (or MatchAll) matches every document.
type Filter struct {
	preds bson.D
	sort  bson.D
	skip  int64
	limit int64
	err   error
}

// MatchAll returns the filter that matches every document.
func MatchAll() Filter {
	return Filter{}
}

// Eq matches documents whose field equals value.
func Eq(field string, value any) Filter {
	if field == "" {
		return Filter{err: fmt.Errorf("%w: equality predicate with empty field", ErrInvalidQuery)}
	}
	return Filter{preds: bson.D{{Key: field, Value: value}}}
}

// EqID matches documents whose identity-shaped field equals id.
func EqID(field string, id ID) Filter {
	return Eq(field, id)
}

// ByID matches the document with the given identity.
func ByID(id ID) Filter {
	return Eq("_id", id)
}

// Contains matches documents whose text field contains substring,
// case-insensitively. The substring is quoted, so regex metacharacters
// match literally.
func Contains(field, substring string) Filter {
	if field == "" {
		return Filter{err: fmt.Errorf("%w: substring predicate with empty field", ErrInvalidQuery)}
	}
	return Filter{preds: bson.D{{Key: field, Value: bson.Regex{
		Pattern: regexp.QuoteMeta(substring),
		Options: "i",
	}}}}
}

// And is the conjunction of the given filters. Empty operands are elided;
// pagination and sort order of operands are discarded, set them on the
// combined filter instead.
func And(filters ...Filter) Filter {
	return combine("$and", filters)
}

// Or is the disjunction of the given filters. Empty operands are elided.
func Or(filters ...Filter) Filter {
	return combine("$or", filters)
}

func combine(op string, filters []Filter) Filter {
	var clauses bson.A
	for _, f := range filters {
		if f.err != nil {
			return Filter{err: f.err}
		}
		if len(f.preds) == 0 {
			continue
		}
		clauses = append(clauses, f.preds)
	}
	switch len(clauses) {
	case 0:
		return Filter{}
	case 1:
		return Filter{preds: clauses[0].(bson.D)}
	default:
		return Filter{preds: bson.D{{Key: op, Value: clauses}}}
	}
}

// WithSort returns a copy ordered by the given keys.
func (f Filter) WithSort(keys ...Key) Filter {
	sort := make(bson.D, 0, len(keys))
	for _, k := range keys {
		if k.Field == "" {
			f.err = fmt.Errorf("%w: sort key with empty field", ErrInvalidQuery)
			return f
		}
		sort = append(sort, bson.E{Key: k.Field, Value: int(k.Order)})
	}
	f.sort = sort
	return f
}

// WithSkip returns a copy that skips the first n matches. The store applies
// the skip; matches are never materialized client-side.
func (f Filter) WithSkip(n int64) Filter {
	if n < 0 {
		f.err = fmt.Errorf("%w: negative skip %d", ErrInvalidQuery, n)
		return f
	}
	f.skip = n
	return f
}

// WithLimit returns a copy that yields at most n matches. Zero means no
// limit.
func (f Filter) WithLimit(n int64) Filter {
	if n < 0 {
		f.err = fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, n)
		return f
	}
	f.limit = n
	return f
}

// Err reports the first construction error, wrapped in ErrInvalidQuery.
func (f Filter) Err() error {
	return f.err
}

// document returns the native predicate representation. Never nil: the
// empty filter is an empty document, which matches all.
func (f Filter) document() bson.D {
	if f.preds == nil {
		return bson.D{}
	}
	return f.preds
}

func (f Filter) sortDocument() bson.D {
	return f.sort
}
